package member

import (
	"sort"
	"strconv"
	"strings"
)

const UnassignedBus = "Unassigned"

// FindByMobile returns every record registered under the mobile number.
func (r *Registry) FindByMobile(mobile string) []Member {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Member
	for _, m := range r.members {
		if m.MobileNumber == mobile {
			result = append(result, m)
		}
	}
	return result
}

// Search matches the query case-insensitively against name, mobile and bag
// number; status and bus filters must match exactly.
func (r *Registry) Search(filter Filter) []Member {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	bus := strings.TrimSpace(filter.BusNumber)

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		if filter.PaymentStatus != "" && m.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if bus != "" && m.BusNumber != bus {
			continue
		}
		if query != "" && !matchesQuery(m, query) {
			continue
		}
		result = append(result, m)
	}
	return result
}

func matchesQuery(m Member, query string) bool {
	return strings.Contains(strings.ToLower(m.Name), query) ||
		strings.Contains(m.MobileNumber, query) ||
		strings.Contains(strings.ToLower(m.BagNumber), query)
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{TotalMembers: len(r.members)}
	buses := make(map[string]struct{})
	for _, m := range r.members {
		buses[m.BusNumber] = struct{}{}
		switch m.PaymentStatus {
		case PaymentPaid:
			stats.Paid++
			stats.Collected += m.Amount
		case PaymentUnpaid:
			stats.Unpaid++
		}
	}
	stats.TotalBuses = len(buses)
	if stats.TotalMembers > 0 {
		stats.PaidPercent = (stats.Paid*100 + stats.TotalMembers/2) / stats.TotalMembers
	}
	return stats
}

// BusNumbers lists the distinct bus numbers in manifest order.
func (r *Registry) BusNumbers() []string {
	manifests := r.BusManifests()
	result := make([]string, 0, len(manifests))
	for _, manifest := range manifests {
		result = append(result, manifest.BusNumber)
	}
	return result
}

// BusManifests groups members by bus. Buses sort numerically when both numbers
// parse as integers and lexically otherwise.
func (r *Registry) BusManifests() []BusManifest {
	r.mu.RLock()
	groups := make(map[string][]Member)
	for _, m := range r.members {
		bus := m.BusNumber
		if bus == "" {
			bus = UnassignedBus
		}
		groups[bus] = append(groups[bus], m)
	}
	r.mu.RUnlock()

	buses := make([]string, 0, len(groups))
	for bus := range groups {
		buses = append(buses, bus)
	}
	sort.SliceStable(buses, func(i, j int) bool {
		return busLess(buses[i], buses[j])
	})

	result := make([]BusManifest, 0, len(buses))
	for _, bus := range buses {
		result = append(result, BusManifest{BusNumber: bus, Members: groups[bus]})
	}
	return result
}

func busLess(a, b string) bool {
	na, errA := strconv.Atoi(leadingDigits(a))
	nb, errB := strconv.Atoi(leadingDigits(b))
	if errA == nil && errB == nil && na != nb {
		return na < nb
	}
	return a < b
}

// leadingDigits returns the numeric prefix: "12A" sorts as 12, "A12" has none.
func leadingDigits(value string) string {
	value = strings.TrimSpace(value)
	end := 0
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	return value[:end]
}
