// Package portals contains the role-scoped endpoint catalogs. Each facade
// is a thin layer over the transport: it knows paths and payload shapes,
// nothing else. Screens get normalized payloads and pagination metadata
// and keep their own load-more state.
package portals

import (
	"context"
	"fmt"

	"github.com/revline/revline-go/internal/client/api"
)

// Page is one page of a listed resource.
type Page struct {
	Items []map[string]any
	Meta  api.Meta
}

// Resource is a conventional CRUD endpoint catalog rooted at one path.
type Resource struct {
	c    *api.Client
	base string
}

func (r Resource) List(ctx context.Context, page int) (*Page, error) {
	path := r.base
	if page > 0 {
		path = fmt.Sprintf("%s?page=%d", r.base, page)
	}
	payload, err := r.c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return asListPage(payload)
}

func (r Resource) Get(ctx context.Context, uuid string) (map[string]any, error) {
	payload, err := r.c.Get(ctx, r.base+"/"+uuid)
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

func (r Resource) Create(ctx context.Context, attrs map[string]any) (map[string]any, error) {
	payload, err := r.c.Post(ctx, r.base, attrs)
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

func (r Resource) Update(ctx context.Context, uuid string, attrs map[string]any) (map[string]any, error) {
	payload, err := r.c.Put(ctx, r.base+"/"+uuid, attrs)
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

func (r Resource) Delete(ctx context.Context, uuid string) error {
	_, err := r.c.Delete(ctx, r.base+"/"+uuid)
	return err
}

// asListPage accepts either the canonical paginated shape or a bare array
// (an unpaginated list endpoint) and returns a Page either way.
func asListPage(payload any) (*Page, error) {
	if data, meta, ok := api.AsPage(payload); ok {
		var items []map[string]any
		if err := api.Decode(data, &items); err != nil {
			return nil, err
		}
		return &Page{Items: items, Meta: meta}, nil
	}

	var items []map[string]any
	if err := api.Decode(payload, &items); err != nil {
		return nil, fmt.Errorf("unexpected list payload: %w", err)
	}
	return &Page{Items: items}, nil
}

func asObject(payload any) (map[string]any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected payload shape %T", payload)
	}
	return obj, nil
}
