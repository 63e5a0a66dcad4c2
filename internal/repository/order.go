package repository

import (
	"context"
	"net/http"
	"strconv"

	"comanda-client/internal/api"
	"comanda-client/internal/domain"
	"comanda-client/internal/result"
)

type OrderRepository struct {
	client *api.Client
}

func NewOrderRepository(client *api.Client) *OrderRepository {
	return &OrderRepository{client: client}
}

// Place turns the current cart into an order. The server copies the cart
// into an immutable order and clears the cart in the same operation.
func (r *OrderRepository) Place(ctx context.Context) result.Result[domain.Order] {
	return fetch[domain.Order](ctx, r.client, http.MethodPost, "/orders", nil, nil, api.StatusMessages{
		BadRequest: "your cart is empty",
		Conflict:   "some cart items are no longer available",
		Invalid:    "your cart is empty",
	})
}

func (r *OrderRepository) List(ctx context.Context) result.Result[[]domain.Order] {
	return fetch[[]domain.Order](ctx, r.client, http.MethodGet, "/orders", nil, nil, api.StatusMessages{})
}

func (r *OrderRepository) Get(ctx context.Context, id int) result.Result[domain.Order] {
	return fetch[domain.Order](ctx, r.client, http.MethodGet, "/orders/"+strconv.Itoa(id), nil, nil, api.StatusMessages{
		NotFound: "order not found",
	})
}

// Cancel requests a transition to CANCELLED. Whether the cancellation is
// legal for the order's current status is decided server-side.
func (r *OrderRepository) Cancel(ctx context.Context, id int) result.Result[domain.Order] {
	return fetch[domain.Order](ctx, r.client, http.MethodPost, "/orders/"+strconv.Itoa(id)+"/cancel", nil, nil, api.StatusMessages{
		NotFound: "order not found",
		Conflict: "order can no longer be cancelled",
		Invalid:  "order can no longer be cancelled",
	})
}
