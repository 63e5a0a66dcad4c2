// Package analytics computes order statistics on the client from the full
// order list. These are stand-ins for backend endpoints that do not exist
// yet; the Aggregator interface is the seam where a server-side
// implementation replaces the local one without touching callers.
package analytics

import (
	"sort"
	"strconv"
	"time"

	"comanda-client/internal/domain"
)

type DailyStat struct {
	Date       string `json:"date"` // YYYY-MM-DD
	OrderCount int    `json:"order_count"`
	ItemsSold  int    `json:"items_sold"`
	Revenue    string `json:"revenue"` // two-decimal string, e.g. "123.46"
}

type StatusCount struct {
	Status domain.OrderStatus `json:"status"`
	Count  int                `json:"count"`
}

type ActiveSummary struct {
	Total    int           `json:"total"`
	ByStatus []StatusCount `json:"by_status"`
}

type Aggregator interface {
	DailyStats(orders []domain.Order) []DailyStat
	ActiveSummary(orders []domain.Order) ActiveSummary
	UrgentOrders(orders []domain.Order, threshold time.Duration) []domain.Order
	ExportCSV(orders []domain.Order) string
}

// Local reduces the fetched order list in-process.
type Local struct {
	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

var _ Aggregator = (*Local)(nil)

func (l *Local) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// DailyStats groups orders by calendar day, newest day first. Cancelled
// orders count toward the order total but not toward revenue or items sold.
// Orders with an unparseable timestamp are skipped.
func (l *Local) DailyStats(orders []domain.Order) []DailyStat {
	type bucket struct {
		orders  int
		items   int
		revenue float64
	}
	days := map[string]*bucket{}

	for _, o := range orders {
		created, ok := o.CreatedTime()
		if !ok {
			continue
		}
		day := created.Format("2006-01-02")
		b := days[day]
		if b == nil {
			b = &bucket{}
			days[day] = b
		}
		b.orders++
		if o.Status == domain.StatusCancelled {
			continue
		}
		b.revenue += o.Total
		for _, item := range o.Items {
			b.items += item.Quantity
		}
	}

	stats := make([]DailyStat, 0, len(days))
	for day, b := range days {
		stats = append(stats, DailyStat{
			Date:       day,
			OrderCount: b.orders,
			ItemsSold:  b.items,
			Revenue:    FormatAmount(b.revenue),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date > stats[j].Date })
	return stats
}

func (l *Local) ActiveSummary(orders []domain.Order) ActiveSummary {
	counts := map[domain.OrderStatus]int{}
	total := 0
	for _, o := range orders {
		if !o.Status.IsActive() {
			continue
		}
		counts[o.Status]++
		total++
	}

	summary := ActiveSummary{Total: total}
	// Stable presentation order follows the order lifecycle.
	for _, status := range []domain.OrderStatus{domain.StatusPending, domain.StatusInPreparation, domain.StatusReady} {
		if n := counts[status]; n > 0 {
			summary.ByStatus = append(summary.ByStatus, StatusCount{Status: status, Count: n})
		}
	}
	return summary
}

// UrgentOrders returns PENDING orders older than threshold. An order whose
// creation timestamp fails to parse is never urgent: a bogus timestamp must
// not page the kitchen.
func (l *Local) UrgentOrders(orders []domain.Order, threshold time.Duration) []domain.Order {
	cutoff := l.now().Add(-threshold)
	var urgent []domain.Order
	for _, o := range orders {
		if o.Status != domain.StatusPending {
			continue
		}
		created, ok := o.CreatedTime()
		if !ok {
			continue
		}
		if created.Before(cutoff) {
			urgent = append(urgent, o)
		}
	}
	return urgent
}

// IsUrgent is the single-order form of UrgentOrders.
func (l *Local) IsUrgent(o domain.Order, threshold time.Duration) bool {
	if o.Status != domain.StatusPending {
		return false
	}
	created, ok := o.CreatedTime()
	if !ok {
		return false
	}
	return created.Before(l.now().Add(-threshold))
}

// FormatAmount renders a monetary value as a two-decimal string.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
