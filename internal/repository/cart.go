package repository

import (
	"context"
	"net/http"
	"strconv"

	"comanda-client/internal/api"
	"comanda-client/internal/domain"
	"comanda-client/internal/result"
)

type CartRepository struct {
	client *api.Client
}

func NewCartRepository(client *api.Client) *CartRepository {
	return &CartRepository{client: client}
}

func (r *CartRepository) Get(ctx context.Context) result.Result[domain.Cart] {
	return fetch[domain.Cart](ctx, r.client, http.MethodGet, "/cart", nil, nil, api.StatusMessages{})
}

func (r *CartRepository) AddItem(ctx context.Context, menuItemID, quantity int) result.Result[domain.Cart] {
	if quantity <= 0 {
		return result.Err[domain.Cart]("quantity must be at least 1")
	}
	body := map[string]int{"menu_item_id": menuItemID, "quantity": quantity}
	return fetch[domain.Cart](ctx, r.client, http.MethodPost, "/cart/items", nil, body, api.StatusMessages{
		BadRequest: "invalid item or quantity",
		NotFound:   "menu item not found",
		Conflict:   "menu item is currently unavailable",
		Invalid:    "invalid item or quantity",
	})
}

// UpdateItem sets a line's quantity. A quantity of zero or less always routes
// to removal; an update call with a non-positive quantity is never sent.
func (r *CartRepository) UpdateItem(ctx context.Context, itemID, quantity int) result.Result[domain.Cart] {
	if quantity <= 0 {
		removed := r.RemoveItem(ctx, itemID)
		if removed.IsError() {
			return result.Err[domain.Cart](removed.Message())
		}
		return r.Get(ctx)
	}
	body := map[string]int{"quantity": quantity}
	return fetch[domain.Cart](ctx, r.client, http.MethodPut, "/cart/items/"+strconv.Itoa(itemID), nil, body, api.StatusMessages{
		BadRequest: "invalid quantity",
		NotFound:   "cart item not found",
		Invalid:    "invalid quantity",
	})
}

func (r *CartRepository) RemoveItem(ctx context.Context, itemID int) result.Result[struct{}] {
	return execute(ctx, r.client, http.MethodDelete, "/cart/items/"+strconv.Itoa(itemID), nil, nil, api.StatusMessages{
		NotFound: "cart item not found",
	})
}

func (r *CartRepository) Clear(ctx context.Context) result.Result[struct{}] {
	return execute(ctx, r.client, http.MethodDelete, "/cart", nil, nil, api.StatusMessages{})
}
