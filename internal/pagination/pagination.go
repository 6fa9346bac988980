package pagination

import (
	"context"
	"iter"
	"net/url"
	"strconv"

	"github.com/teemow/eventcal/internal/dispatch"
	"github.com/teemow/eventcal/internal/instrumentation"
)

// PageSize is the number of entries requested per page on every list endpoint.
const PageSize = 15

// Query parameters understood by paged endpoints.
const (
	ParamLimit  = "pagination_limit"
	ParamCursor = "pagination_cursor"
)

// Page is one page of a listing.
type Page[T any] struct {
	Entries    []T    `json:"entries"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// FetchFunc returns the page starting at cursor. The first call gets "".
type FetchFunc[T any] func(ctx context.Context, cursor string) (*Page[T], error)

// Iterate yields every entry of every page, in order.
func Iterate[T any](ctx context.Context, fetch FetchFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var cursor string
		for {
			if ctx.Err() != nil {
				return
			}

			page, err := fetch(ctx, cursor)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if page == nil {
				return
			}

			for _, entry := range page.Entries {
				if !yield(entry, nil) {
					return
				}
			}

			if page.NextCursor == "" {
				return
			}
			cursor = page.NextCursor
		}
	}
}

// Paginate lists path through d, sending filters with every page request.
func Paginate[T any](ctx context.Context, d *dispatch.Dispatcher, name, path string, filters url.Values) iter.Seq2[T, error] {
	fetch := func(ctx context.Context, cursor string) (*Page[T], error) {
		q := Query(filters, cursor)

		page, err := dispatch.Send[Page[T]](ctx, d, dispatch.Get(name, path, q))
		if err != nil {
			return nil, err
		}

		d.Metrics().RecordPage(ctx, name, filters.Get("event_api_id"))
		instrumentation.RecordPageEvent(ctx, name, cursor != "", len(page.Entries))
		return &page, nil
	}
	return Iterate(ctx, fetch)
}

// Query returns a copy of filters with the page size and, if set, cursor.
func Query(filters url.Values, cursor string) url.Values {
	q := make(url.Values, len(filters)+2)
	for k, v := range filters {
		q[k] = append([]string(nil), v...)
	}
	q.Set(ParamLimit, strconv.Itoa(PageSize))
	if cursor != "" {
		q.Set(ParamCursor, cursor)
	}
	return q
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var items []T
	for item, err := range seq {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Take yields at most n entries of seq. A non-positive n means no limit.
func Take[T any](seq iter.Seq2[T, error], n int) iter.Seq2[T, error] {
	if n <= 0 {
		return seq
	}
	return func(yield func(T, error) bool) {
		count := 0
		for item, err := range seq {
			if !yield(item, err) {
				return
			}
			if err != nil {
				return
			}
			count++
			if count >= n {
				return
			}
		}
	}
}
