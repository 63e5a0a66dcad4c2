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

type CategoryRepository struct {
	client *api.Client
}

func NewCategoryRepository(client *api.Client) *CategoryRepository {
	return &CategoryRepository{client: client}
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) result.Result[[]domain.Category] {
	query := url.Values{}
	if activeOnly {
		query.Set("active", "true")
	}
	return fetch[[]domain.Category](ctx, r.client, http.MethodGet, "/categories", query, nil, api.StatusMessages{})
}

func (r *CategoryRepository) Get(ctx context.Context, id int) result.Result[domain.Category] {
	return fetch[domain.Category](ctx, r.client, http.MethodGet, "/categories/"+strconv.Itoa(id), nil, nil, api.StatusMessages{
		NotFound: "category not found",
	})
}

func (r *CategoryRepository) Create(ctx context.Context, cat domain.Category) result.Result[domain.Category] {
	return fetch[domain.Category](ctx, r.client, http.MethodPost, "/categories", nil, cat, api.StatusMessages{
		BadRequest: "category name is required",
		Conflict:   "a category with this name already exists",
		Invalid:    "invalid category data",
	})
}

func (r *CategoryRepository) Update(ctx context.Context, cat domain.Category) result.Result[domain.Category] {
	return fetch[domain.Category](ctx, r.client, http.MethodPut, "/categories/"+strconv.Itoa(cat.ID), nil, cat, api.StatusMessages{
		BadRequest: "category name is required",
		NotFound:   "category not found",
		Conflict:   "a category with this name already exists",
		Invalid:    "invalid category data",
	})
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) result.Result[struct{}] {
	return execute(ctx, r.client, http.MethodDelete, "/categories/"+strconv.Itoa(id), nil, nil, api.StatusMessages{
		NotFound: "category not found",
		Conflict: "category still has menu items attached",
	})
}
