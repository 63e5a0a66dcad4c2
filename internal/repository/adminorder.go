package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"comanda-client/internal/analytics"
	"comanda-client/internal/api"
	"comanda-client/internal/domain"
	"comanda-client/internal/result"
)

// AdminOrderRepository wraps the staff-only admin/orders endpoints. The
// statistics operations fetch the full order list and reduce it locally
// through an Aggregator because the backend has no dedicated endpoints for
// them yet.
type AdminOrderRepository struct {
	client     *api.Client
	aggregator analytics.Aggregator
}

func NewAdminOrderRepository(client *api.Client, aggregator analytics.Aggregator) *AdminOrderRepository {
	if aggregator == nil {
		aggregator = &analytics.Local{}
	}
	return &AdminOrderRepository{client: client, aggregator: aggregator}
}

// AdminOrderFilter holds server-side query parameters for the admin listing.
type AdminOrderFilter struct {
	Status domain.OrderStatus
	Date   string // YYYY-MM-DD
}

func (r *AdminOrderRepository) ListAll(ctx context.Context, filter AdminOrderFilter) result.Result[[]domain.Order] {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Date != "" {
		query.Set("date", filter.Date)
	}
	return fetch[[]domain.Order](ctx, r.client, http.MethodGet, "/admin/orders", query, nil, api.StatusMessages{})
}

func (r *AdminOrderRepository) Get(ctx context.Context, id int) result.Result[domain.Order] {
	return fetch[domain.Order](ctx, r.client, http.MethodGet, "/admin/orders/"+strconv.Itoa(id), nil, nil, api.StatusMessages{
		NotFound: "order not found",
	})
}

func (r *AdminOrderRepository) UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) result.Result[domain.Order] {
	body := domain.StatusUpdateRequest{Status: status}
	return fetch[domain.Order](ctx, r.client, http.MethodPut, "/admin/orders/"+strconv.Itoa(id)+"/status", nil, body, api.StatusMessages{
		NotFound: "order not found",
		Conflict: "order status changed in the meantime, refresh and retry",
		Invalid:  "this status transition is not allowed",
	})
}

func (r *AdminOrderRepository) BatchUpdateStatus(ctx context.Context, ids []int, status domain.OrderStatus) result.Result[[]domain.Order] {
	body := domain.BatchStatusUpdateRequest{OrderIDs: ids, Status: status}
	return fetch[[]domain.Order](ctx, r.client, http.MethodPut, "/admin/orders/status", nil, body, api.StatusMessages{
		BadRequest: "no orders selected",
		NotFound:   "one or more orders were not found",
		Invalid:    "this status transition is not allowed",
	})
}

// DailyStats fetches all orders and reduces them to per-day totals locally.
func (r *AdminOrderRepository) DailyStats(ctx context.Context) result.Result[[]analytics.DailyStat] {
	res := r.ListAll(ctx, AdminOrderFilter{})
	return result.Map(res, r.aggregator.DailyStats)
}

// ActiveSummary counts orders that still need attention, grouped by status.
func (r *AdminOrderRepository) ActiveSummary(ctx context.Context) result.Result[analytics.ActiveSummary] {
	res := r.ListAll(ctx, AdminOrderFilter{})
	return result.Map(res, r.aggregator.ActiveSummary)
}

// UrgentOrders returns PENDING orders older than the threshold.
func (r *AdminOrderRepository) UrgentOrders(ctx context.Context, threshold time.Duration) result.Result[[]domain.Order] {
	res := r.ListAll(ctx, AdminOrderFilter{Status: domain.StatusPending})
	return result.Map(res, func(orders []domain.Order) []domain.Order {
		return r.aggregator.UrgentOrders(orders, threshold)
	})
}

// ExportCSV renders the current order list as CSV text.
func (r *AdminOrderRepository) ExportCSV(ctx context.Context, filter AdminOrderFilter) result.Result[string] {
	res := r.ListAll(ctx, filter)
	return result.Map(res, r.aggregator.ExportCSV)
}
