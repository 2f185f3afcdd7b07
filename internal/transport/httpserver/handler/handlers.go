package handler

import (
	"time"

	authdomain "yatra-app-go/internal/domain/auth"
	memberdomain "yatra-app-go/internal/domain/member"
	receiverdomain "yatra-app-go/internal/domain/receiver"
	sessiondomain "yatra-app-go/internal/domain/session"
	"yatra-app-go/internal/metrics"
	"yatra-app-go/pkg/logger"
)

type Handlers struct {
	Auth      *authdomain.Service
	Sessions  *sessiondomain.Manager
	Members   *memberdomain.Registry
	Receivers *receiverdomain.Service
	Metrics   *metrics.Metrics
	log       logger.Logger
	now       func() time.Time
}

func New(auth *authdomain.Service, sessions *sessiondomain.Manager, members *memberdomain.Registry, receivers *receiverdomain.Service, m *metrics.Metrics, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Handlers{
		Auth:      auth,
		Sessions:  sessions,
		Members:   members,
		Receivers: receivers,
		Metrics:   m,
		log:       log,
		now:       time.Now,
	}
}
