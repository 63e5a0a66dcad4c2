package analytics_test

import (
	"strings"
	"testing"
	"time"

	"comanda-client/internal/analytics"
	"comanda-client/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func fixedLocal() *analytics.Local {
	return &analytics.Local{Now: func() time.Time { return testNow }}
}

func orderAt(id int, status domain.OrderStatus, age time.Duration) domain.Order {
	return domain.Order{
		ID:        id,
		Status:    status,
		CreatedAt: testNow.Add(-age).Format(time.RFC3339),
	}
}

func TestUrgentOrders(t *testing.T) {
	agg := fixedLocal()

	// 10 orders, 3 of them PENDING and 45 minutes old.
	var orders []domain.Order
	for i := 1; i <= 3; i++ {
		orders = append(orders, orderAt(i, domain.StatusPending, 45*time.Minute))
	}
	orders = append(orders,
		orderAt(4, domain.StatusPending, 5*time.Minute),
		orderAt(5, domain.StatusInPreparation, 45*time.Minute),
		orderAt(6, domain.StatusReady, 2*time.Hour),
		orderAt(7, domain.StatusDelivered, 3*time.Hour),
		orderAt(8, domain.StatusCancelled, time.Hour),
		orderAt(9, domain.StatusPending, 29*time.Minute),
		orderAt(10, domain.StatusDelivered, 10*time.Minute),
	)

	urgent := agg.UrgentOrders(orders, 30*time.Minute)
	require.Len(t, urgent, 3)
	for i, o := range urgent {
		assert.Equal(t, i+1, o.ID)
	}
}

func TestIsUrgentFailSafeOnBadTimestamp(t *testing.T) {
	agg := fixedLocal()

	tests := []struct {
		name  string
		order domain.Order
		want  bool
	}{
		{
			name:  "old pending order is urgent",
			order: orderAt(1, domain.StatusPending, 45*time.Minute),
			want:  true,
		},
		{
			name:  "fresh pending order is not urgent",
			order: orderAt(2, domain.StatusPending, 10*time.Minute),
			want:  false,
		},
		{
			name:  "old non-pending order is not urgent",
			order: orderAt(3, domain.StatusReady, 2*time.Hour),
			want:  false,
		},
		{
			name:  "unparseable timestamp is never urgent",
			order: domain.Order{ID: 4, Status: domain.StatusPending, CreatedAt: "yesterday-ish"},
			want:  false,
		},
		{
			name:  "missing timestamp is never urgent",
			order: domain.Order{ID: 5, Status: domain.StatusPending},
			want:  false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, agg.IsUrgent(testCase.order, 30*time.Minute))
		})
	}
}

func TestDailyStatsFormatsRevenueToTwoDecimals(t *testing.T) {
	agg := fixedLocal()

	orders := []domain.Order{
		{
			ID: 1, Status: domain.StatusDelivered, Total: 123.456,
			CreatedAt: "2025-06-09T10:00:00Z",
			Items:     []domain.OrderItem{{Name: "Pizza", Quantity: 2}},
		},
	}

	stats := agg.DailyStats(orders)
	require.Len(t, stats, 1)
	assert.Equal(t, "2025-06-09", stats[0].Date)
	assert.Equal(t, 1, stats[0].OrderCount)
	assert.Equal(t, 2, stats[0].ItemsSold)
	assert.Equal(t, "123.46", stats[0].Revenue)
}

func TestDailyStatsGroupsByDayAndSkipsCancelledRevenue(t *testing.T) {
	agg := fixedLocal()

	orders := []domain.Order{
		{ID: 1, Status: domain.StatusDelivered, Total: 10, CreatedAt: "2025-06-09T09:00:00Z",
			Items: []domain.OrderItem{{Name: "Espresso", Quantity: 1}}},
		{ID: 2, Status: domain.StatusCancelled, Total: 99, CreatedAt: "2025-06-09T11:00:00Z",
			Items: []domain.OrderItem{{Name: "Burger", Quantity: 3}}},
		{ID: 3, Status: domain.StatusDelivered, Total: 5.5, CreatedAt: "2025-06-10T08:00:00Z",
			Items: []domain.OrderItem{{Name: "Lemonade", Quantity: 2}}},
		{ID: 4, Status: domain.StatusPending, Total: 7, CreatedAt: "bad-timestamp"},
	}

	stats := agg.DailyStats(orders)
	require.Len(t, stats, 2)

	// Newest day first.
	assert.Equal(t, "2025-06-10", stats[0].Date)
	assert.Equal(t, "5.50", stats[0].Revenue)

	assert.Equal(t, "2025-06-09", stats[1].Date)
	assert.Equal(t, 2, stats[1].OrderCount)
	assert.Equal(t, 1, stats[1].ItemsSold)
	assert.Equal(t, "10.00", stats[1].Revenue)
}

func TestActiveSummary(t *testing.T) {
	agg := fixedLocal()

	orders := []domain.Order{
		orderAt(1, domain.StatusPending, time.Minute),
		orderAt(2, domain.StatusPending, time.Minute),
		orderAt(3, domain.StatusInPreparation, time.Minute),
		orderAt(4, domain.StatusReady, time.Minute),
		orderAt(5, domain.StatusDelivered, time.Minute),
		orderAt(6, domain.StatusCancelled, time.Minute),
	}

	summary := agg.ActiveSummary(orders)
	assert.Equal(t, 4, summary.Total)
	require.Len(t, summary.ByStatus, 3)
	assert.Equal(t, domain.StatusPending, summary.ByStatus[0].Status)
	assert.Equal(t, 2, summary.ByStatus[0].Count)
	assert.Equal(t, domain.StatusInPreparation, summary.ByStatus[1].Status)
	assert.Equal(t, domain.StatusReady, summary.ByStatus[2].Status)
}

func TestExportCSVLineCountAndItemFormat(t *testing.T) {
	agg := fixedLocal()

	var orders []domain.Order
	for i := 1; i <= 5; i++ {
		orders = append(orders, domain.Order{
			ID:           i,
			CustomerName: "alice",
			Status:       domain.StatusDelivered,
			Total:        12.5,
			CreatedAt:    "2025-06-09T10:00:00Z",
			Items: []domain.OrderItem{
				{Name: "Burger", Quantity: 2},
				{Name: "Cola", Quantity: 1},
			},
		})
	}

	csvText := agg.ExportCSV(orders)
	lines := strings.Split(strings.TrimRight(csvText, "\n"), "\n")
	require.Len(t, lines, len(orders)+1)

	assert.Equal(t, "order_id,customer,status,created_at,total,items", lines[0])
	assert.Contains(t, lines[1], "2x Burger; 1x Cola")
	assert.Contains(t, lines[1], "12.50")
}

func TestExportCSVEmptyListIsHeaderOnly(t *testing.T) {
	agg := fixedLocal()
	csvText := agg.ExportCSV(nil)
	lines := strings.Split(strings.TrimRight(csvText, "\n"), "\n")
	assert.Len(t, lines, 1)
}
