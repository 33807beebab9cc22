package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/landmark-estates/landmark-web/internal/domain"
)

// ListParams are forwarded to the API as query parameters; filtering and
// pagination of list queries happen server side.
type ListParams struct {
	Page     int
	Limit    int
	Search   string
	Status   string
	Type     string
	Category string
	Extra    url.Values
}

// Values encodes the non-zero params.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	for k, vs := range p.Extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return q
}

// Page is one list response.
type Page[T any] struct {
	Items      []T
	Pagination domain.Pagination
}

// Resource is the CRUD surface every collection shares. One and Many are the
// keys the API nests single records and lists under inside the envelope.
type Resource[T any] struct {
	c    *Client
	path string
	tag  string
	one  string
	many string
	// related tags are invalidated together with tag on mutations.
	related []string
}

func newResource[T any](c *Client, path, tag, one, many string, related ...string) *Resource[T] {
	return &Resource[T]{c: c, path: path, tag: tag, one: one, many: many, related: related}
}

// Tag is the cache tag of the collection.
func (r *Resource[T]) Tag() string { return r.tag }

// List fetches the public list.
func (r *Resource[T]) List(ctx context.Context, p ListParams) (*Page[T], error) {
	return r.list(ctx, r.path, p)
}

// AdminList fetches the admin list, which includes inactive records.
func (r *Resource[T]) AdminList(ctx context.Context, p ListParams) (*Page[T], error) {
	return r.list(ctx, r.path+"/admin", p)
}

func (r *Resource[T]) list(ctx context.Context, path string, p ListParams) (*Page[T], error) {
	data, err := r.c.do(ctx, call{method: http.MethodGet, path: path, query: p.Values(), tag: r.tag, cached: true})
	if err != nil {
		return nil, err
	}
	return decodeMany[T](data, r.many)
}

// Get fetches one record.
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	return r.getPath(ctx, r.path+"/"+url.PathEscape(id))
}

func (r *Resource[T]) getPath(ctx context.Context, path string) (*T, error) {
	data, err := r.c.do(ctx, call{method: http.MethodGet, path: path, tag: r.tag, cached: true})
	if err != nil {
		return nil, err
	}
	return decodeOne[T](data, r.one)
}

// Create posts a new record.
func (r *Resource[T]) Create(ctx context.Context, in any) (*T, error) {
	return r.mutate(ctx, http.MethodPost, r.path, in)
}

// Update replaces a record.
func (r *Resource[T]) Update(ctx context.Context, id string, in any) (*T, error) {
	return r.mutate(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), in)
}

// Delete removes a record.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.c.do(ctx, call{
		method:     http.MethodDelete,
		path:       r.path + "/" + url.PathEscape(id),
		tag:        r.tag,
		invalidate: r.tags(),
	})
	return err
}

// ToggleActive flips the record's public visibility.
func (r *Resource[T]) ToggleActive(ctx context.Context, id string) (*T, error) {
	return r.action(ctx, id, "toggle-active", nil)
}

// action issues PATCH {path}/{id}/{name}.
func (r *Resource[T]) action(ctx context.Context, id, name string, body any) (*T, error) {
	return r.mutate(ctx, http.MethodPatch, r.path+"/"+url.PathEscape(id)+"/"+name, body)
}

func (r *Resource[T]) mutate(ctx context.Context, method, path string, body any) (*T, error) {
	data, err := r.c.do(ctx, call{method: method, path: path, body: body, tag: r.tag, invalidate: r.tags()})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return decodeOne[T](data, r.one)
}

func (r *Resource[T]) tags() []string {
	return append([]string{r.tag}, r.related...)
}

// decodeOne reads a record nested under key, or the payload itself when the
// key is absent.
func decodeOne[T any](data json.RawMessage, key string) (*T, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty %s payload", key)
	}
	payload := data
	if obj, ok := asObject(data); ok {
		if inner, found := obj[key]; found {
			payload = inner
		}
	}
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &out, nil
}

// decodeMany reads a list nested under key (or "items"), with an optional
// pagination block. A bare array is accepted too.
func decodeMany[T any](data json.RawMessage, key string) (*Page[T], error) {
	page := &Page[T]{}
	if len(data) == 0 {
		return page, nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &page.Items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		page.Pagination = singlePage(len(page.Items))
		return page, nil
	}

	obj, ok := asObject(data)
	if !ok {
		return nil, fmt.Errorf("decode %s: unexpected payload", key)
	}
	items, found := obj[key]
	if !found {
		items, found = obj["items"]
	}
	if found {
		if err := json.Unmarshal(items, &page.Items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	if p, ok := obj["pagination"]; ok {
		if err := json.Unmarshal(p, &page.Pagination); err != nil {
			return nil, fmt.Errorf("decode pagination: %w", err)
		}
	} else {
		page.Pagination = singlePage(len(page.Items))
	}
	return page, nil
}

func singlePage(n int) domain.Pagination {
	p := domain.Pagination{Page: 1, Limit: n, Total: n, Pages: 1}
	if n == 0 {
		p.Pages = 0
	}
	return p
}

func asObject(data json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}
