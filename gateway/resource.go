package gateway

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/warp/student-hotel/generic"
)

// Resource is the HTTP Gateway for one record kind.
type Resource[T any] struct {
	client   *Client
	info     generic.KindInfo
	defaults generic.ListQuery
}

var _ generic.Gateway[struct{}] = (*Resource[struct{}])(nil)

// NewResource binds kind's collection path. defaults fill unset pagination.
func NewResource[T any](c *Client, kind generic.Kind, defaults generic.ListQuery) (*Resource[T], error) {
	info, err := generic.LookupKind(kind)
	if err != nil {
		return nil, err
	}
	return &Resource[T]{client: c, info: info, defaults: defaults}, nil
}

func (r *Resource[T]) Kind() generic.Kind { return r.info.Kind }

func (r *Resource[T]) List(ctx context.Context, q generic.ListQuery) (generic.Page[T], error) {
	q = q.Normalize(r.defaults)
	resp, err := r.client.do(ctx, "list", http.MethodGet, r.info.Path, listValues(q), nil)
	if err != nil {
		return generic.Page[T]{}, err
	}
	if !resp.ok() {
		return generic.Page[T]{}, statusError("list", resp, r.info.Kind, "")
	}
	return decodePage[T](resp, r.info.Kind, q)
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	return r.one(ctx, "get", http.MethodGet, id, nil)
}

func (r *Resource[T]) Create(ctx context.Context, draft T) (T, error) {
	return r.one(ctx, "create", http.MethodPost, "", draft)
}

func (r *Resource[T]) Update(ctx context.Context, id string, draft T) (T, error) {
	return r.one(ctx, "update", http.MethodPut, id, draft)
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	resp, err := r.client.do(ctx, "delete", http.MethodDelete, r.itemPath(id), nil, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return statusError("delete", resp, r.info.Kind, id)
	}
	return checkEmpty(resp, "delete", r.info.Kind, id)
}

func (r *Resource[T]) one(ctx context.Context, op, method, id string, body any) (T, error) {
	path := r.info.Path
	if id != "" {
		path = r.itemPath(id)
	}
	resp, err := r.client.do(ctx, op, method, path, nil, body)
	if err != nil {
		var zero T
		return zero, err
	}
	if !resp.ok() {
		var zero T
		return zero, statusError(op, resp, r.info.Kind, id)
	}
	return decodeOne[T](resp, op, r.info.Kind, id)
}

func (r *Resource[T]) itemPath(id string) string {
	return r.info.Path + "/" + url.PathEscape(id)
}

// listValues encodes a normalised query. Filters are sent verbatim;
// relations become include_<rel>=true.
func listValues(q generic.ListQuery) url.Values {
	v := url.Values{}
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if q.Filters[k] != "" {
			v.Set(k, q.Filters[k])
		}
	}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	v.Set("page", strconv.Itoa(q.Page))
	if q.SortField != "" {
		v.Set("sort_by", q.SortField)
		dir := q.SortDir
		if dir == "" {
			dir = generic.SortAsc
		}
		v.Set("sort_order", string(dir))
	}
	for _, rel := range q.Include {
		v.Set("include_"+rel, "true")
	}
	return v
}
