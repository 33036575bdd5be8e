package shopapi

import (
	"context"
	"net/http"
)

// Resource is the CRUD wrapper shared by every entity exposed as
// /<path> and /<path>/{id}.
type Resource[T any] struct {
	c    *Client
	path string
}

func newResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path}
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.doJSON(ctx, http.MethodGet, r.path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var out T
	if err := r.c.doJSON(ctx, http.MethodGet, idPath(r.path, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Create(ctx context.Context, v T) (*T, error) {
	var out T
	if err := r.c.doJSON(ctx, http.MethodPost, r.path, nil, v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Update(ctx context.Context, id int64, v T) (*T, error) {
	var out T
	if err := r.c.doJSON(ctx, http.MethodPut, idPath(r.path, id), nil, v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.c.doJSON(ctx, http.MethodDelete, idPath(r.path, id), nil, nil, nil)
}

// listAt fetches a list from a sub-path of the resource, e.g. /discounts/product/3.
func (r *Resource[T]) listAt(ctx context.Context, path string) ([]T, error) {
	var out []T
	if err := r.c.doJSON(ctx, http.MethodGet, r.path+path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) getAt(ctx context.Context, path string) (*T, error) {
	var out T
	if err := r.c.doJSON(ctx, http.MethodGet, r.path+path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
