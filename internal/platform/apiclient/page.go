package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/shared"
)

// Page is one page of a paginated upstream collection.
type Page[T any] struct {
	Data []T             `json:"data"`
	Meta shared.PageMeta `json:"meta"`
}

// Envelope wraps single-record upstream responses.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// PageQuery converts a pager into the upstream page/limit parameters.
func PageQuery(p shared.Pager, extra url.Values) url.Values {
	q := url.Values{}
	for k, v := range extra {
		if len(v) > 0 && v[0] != "" {
			q[k] = v
		}
	}
	q.Set("page", strconv.Itoa(p.UpstreamPage()))
	q.Set("limit", strconv.Itoa(p.RowsPerPage))
	return q
}

// ListPage fetches one page of T from path.
func ListPage[T any](ctx context.Context, c *Client, path string, query url.Values) (Page[T], error) {
	var page Page[T]
	if err := c.GetJSON(ctx, path, query, &page); err != nil {
		return Page[T]{}, err
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return page, nil
}

// GetOne fetches a single enveloped record.
func GetOne[T any](ctx context.Context, c *Client, path string) (T, error) {
	var env Envelope[T]
	err := c.GetJSON(ctx, path, nil, &env)
	return env.Data, err
}
