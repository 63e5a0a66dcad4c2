package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"comanda-client/internal/api"
	"comanda-client/internal/domain"
	"comanda-client/internal/result"
)

type MenuRepository struct {
	client *api.Client
}

func NewMenuRepository(client *api.Client) *MenuRepository {
	return &MenuRepository{client: client}
}

// MenuFilter holds the server-side query parameters for listing menu items.
type MenuFilter struct {
	CategoryID    int
	AvailableOnly bool
	Search        string
}

func (r *MenuRepository) List(ctx context.Context, filter MenuFilter) result.Result[[]domain.MenuItem] {
	query := url.Values{}
	if filter.CategoryID > 0 {
		query.Set("category_id", strconv.Itoa(filter.CategoryID))
	}
	if filter.AvailableOnly {
		query.Set("available", "true")
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	return fetch[[]domain.MenuItem](ctx, r.client, http.MethodGet, "/menu-items", query, nil, api.StatusMessages{})
}

func (r *MenuRepository) Get(ctx context.Context, id int) result.Result[domain.MenuItem] {
	return fetch[domain.MenuItem](ctx, r.client, http.MethodGet, "/menu-items/"+strconv.Itoa(id), nil, nil, api.StatusMessages{
		NotFound: "menu item not found",
	})
}

func (r *MenuRepository) Create(ctx context.Context, item domain.MenuItem) result.Result[domain.MenuItem] {
	// Pre-validate before spending a round trip; the backend re-validates.
	if item.Price <= 0 {
		return result.Err[domain.MenuItem]("price must be greater than zero")
	}
	return fetch[domain.MenuItem](ctx, r.client, http.MethodPost, "/menu-items", nil, item, api.StatusMessages{
		BadRequest: "name, category and price are required",
		NotFound:   "category not found",
		Conflict:   "a menu item with this name already exists in the category",
		Invalid:    "invalid menu item data",
	})
}

func (r *MenuRepository) Update(ctx context.Context, item domain.MenuItem) result.Result[domain.MenuItem] {
	if item.Price <= 0 {
		return result.Err[domain.MenuItem]("price must be greater than zero")
	}
	return fetch[domain.MenuItem](ctx, r.client, http.MethodPut, "/menu-items/"+strconv.Itoa(item.ID), nil, item, api.StatusMessages{
		BadRequest: "name, category and price are required",
		NotFound:   "menu item not found",
		Conflict:   "a menu item with this name already exists in the category",
		Invalid:    "invalid menu item data",
	})
}

func (r *MenuRepository) Delete(ctx context.Context, id int) result.Result[struct{}] {
	return execute(ctx, r.client, http.MethodDelete, "/menu-items/"+strconv.Itoa(id), nil, nil, api.StatusMessages{
		NotFound: "menu item not found",
	})
}

func (r *MenuRepository) SetAvailability(ctx context.Context, id int, available bool) result.Result[domain.MenuItem] {
	body := map[string]bool{"available": available}
	return fetch[domain.MenuItem](ctx, r.client, http.MethodPatch, "/menu-items/"+strconv.Itoa(id)+"/availability", nil, body, api.StatusMessages{
		NotFound: "menu item not found",
	})
}
