package inmemory

import (
	"sync"
	"time"

	memberdomain "yatra-app-go/internal/domain/member"
	receiverdomain "yatra-app-go/internal/domain/receiver"
)

type ReceiverCache struct {
	mu    sync.RWMutex
	items map[memberdomain.PaymentMethod]receiversItem
	now   func() time.Time
}

type receiversItem struct {
	value     []receiverdomain.Receiver
	expiresAt time.Time
}

func NewReceiverCache() *ReceiverCache {
	return &ReceiverCache{
		items: make(map[memberdomain.PaymentMethod]receiversItem),
		now:   time.Now,
	}
}

func (c *ReceiverCache) GetByMethod(method memberdomain.PaymentMethod) ([]receiverdomain.Receiver, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[method]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[method]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, method)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneReceivers(item.value), true
}

func (c *ReceiverCache) SetByMethod(method memberdomain.PaymentMethod, receivers []receiverdomain.Receiver, ttl time.Duration) {
	if ttl <= 0 {
		c.deleteByMethod(method)
		return
	}

	c.mu.Lock()
	c.items[method] = receiversItem{
		value:     cloneReceivers(receivers),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *ReceiverCache) Clear() {
	c.mu.Lock()
	c.items = make(map[memberdomain.PaymentMethod]receiversItem)
	c.mu.Unlock()
}

func (c *ReceiverCache) deleteByMethod(method memberdomain.PaymentMethod) {
	c.mu.Lock()
	delete(c.items, method)
	c.mu.Unlock()
}

func cloneReceivers(receivers []receiverdomain.Receiver) []receiverdomain.Receiver {
	if receivers == nil {
		return nil
	}
	cloned := make([]receiverdomain.Receiver, len(receivers))
	copy(cloned, receivers)
	return cloned
}
