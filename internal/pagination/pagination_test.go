package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/eventcal/internal/apierror"
	"github.com/teemow/eventcal/internal/codec"
	"github.com/teemow/eventcal/internal/dispatch"
	"github.com/teemow/eventcal/internal/transport"
)

// pagedFetch serves pages in order, chaining cursors "c1", "c2", ...
func pagedFetch(pages [][]int, cursors *[]string) FetchFunc[int] {
	return func(_ context.Context, cursor string) (*Page[int], error) {
		*cursors = append(*cursors, cursor)
		idx := 0
		if cursor != "" {
			_, _ = fmt.Sscanf(cursor, "c%d", &idx)
		}
		page := &Page[int]{Entries: pages[idx]}
		if idx+1 < len(pages) {
			page.NextCursor = fmt.Sprintf("c%d", idx+1)
			page.HasMore = true
		}
		return page, nil
	}
}

func TestIterate_YieldsAllPagesInOrder(t *testing.T) {
	var cursors []string
	pages := [][]int{{1, 2, 3}, {4}, {}, {5, 6}}

	got, err := Collect(Iterate(context.Background(), pagedFetch(pages, &cursors)))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, got)
	assert.Equal(t, []string{"", "c1", "c2", "c3"}, cursors)
}

func TestIterate_SinglePageWithoutCursor(t *testing.T) {
	var cursors []string
	pages := [][]int{make([]int, 40)}

	got, err := Collect(Iterate(context.Background(), pagedFetch(pages, &cursors)))
	require.NoError(t, err)

	assert.Len(t, got, 40)
	assert.Len(t, cursors, 1)
}

func TestIterate_NilEntriesContributeNothing(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, cursor string) (*Page[string], error) {
		calls++
		switch cursor {
		case "":
			return &Page[string]{Entries: nil, NextCursor: "next"}, nil
		default:
			return &Page[string]{Entries: []string{"a"}}, nil
		}
	}

	got, err := Collect(Iterate(context.Background(), fetch))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 2, calls)
}

func TestIterate_NilPageEndsQuietly(t *testing.T) {
	fetch := func(context.Context, string) (*Page[string], error) { return nil, nil }

	got, err := Collect(Iterate(context.Background(), fetch))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIterate_ErrorYieldedOnceThenStops(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	fetch := func(_ context.Context, cursor string) (*Page[int], error) {
		calls++
		if cursor == "" {
			return &Page[int]{Entries: []int{1, 2}, NextCursor: "c1"}, nil
		}
		return nil, boom
	}

	var items []int
	var errs []error
	for item, err := range Iterate(context.Background(), fetch) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, item)
	}

	assert.Equal(t, []int{1, 2}, items)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
	assert.Equal(t, 2, calls)
}

func TestIterate_CancelledBeforeStartFetchesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	fetch := func(context.Context, string) (*Page[int], error) {
		calls++
		return &Page[int]{Entries: []int{1}}, nil
	}

	got, err := Collect(Iterate(ctx, fetch))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, calls)
}

func TestIterate_CancelBetweenPagesStopsSilently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cursors []string
	pages := [][]int{{1, 2}, {3, 4}, {5}}
	fetch := pagedFetch(pages, &cursors)

	var got []int
	for item, err := range Iterate(ctx, fetch) {
		require.NoError(t, err)
		got = append(got, item)
		if item == 2 {
			cancel()
		}
	}

	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, []string{""}, cursors)
}

func TestIterate_BreakStopsFetching(t *testing.T) {
	var cursors []string
	pages := [][]int{{1, 2}, {3, 4}}

	for item := range Iterate(context.Background(), pagedFetch(pages, &cursors)) {
		if item == 1 {
			break
		}
	}
	assert.Equal(t, []string{""}, cursors)
}

func TestIterate_NoPrefetch(t *testing.T) {
	var cursors []string
	pages := [][]int{{1}, {2}, {3}}

	seen := 0
	for range Iterate(context.Background(), pagedFetch(pages, &cursors)) {
		seen++
		assert.Len(t, cursors, seen, "page %d fetched before page %d was consumed", seen+1, seen)
	}
}

func TestIterate_RestartsPerCall(t *testing.T) {
	var cursors []string
	seq := Iterate(context.Background(), pagedFetch([][]int{{1}, {2}}, &cursors))

	first, _ := Collect(seq)
	second, _ := Collect(seq)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"", "c1", "", "c1"}, cursors)
}

func TestTake(t *testing.T) {
	var cursors []string
	pages := [][]int{{1, 2}, {3, 4}, {5, 6}}

	got, err := Collect(Take(Iterate(context.Background(), pagedFetch(pages, &cursors)), 3))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Len(t, cursors, 2)

	cursors = nil
	all, err := Collect(Take(Iterate(context.Background(), pagedFetch(pages, &cursors)), 0))
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestQuery(t *testing.T) {
	filters := url.Values{"event_api_id": {"evt-1"}}

	q := Query(filters, "")
	assert.Equal(t, "15", q.Get(ParamLimit))
	assert.False(t, q.Has(ParamCursor))

	q = Query(filters, "gst-abc123")
	assert.Equal(t, "gst-abc123", q.Get(ParamCursor))
	assert.False(t, filters.Has(ParamLimit), "filters must not be modified")

	assert.Equal(t, "15", Query(nil, "").Get(ParamLimit))
}

func TestPaginate_AgainstServer(t *testing.T) {
	// Given: a server with two pages of guests
	var requests atomic.Int32
	var queries []url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		queries = append(queries, r.URL.Query())
		assert.Equal(t, "/public/v1/event/get-guests", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get(ParamCursor) {
		case "":
			_, _ = w.Write([]byte(`{"entries":[{"id":"a"},{"id":"b"}],"has_more":true,"next_cursor":"gst-abc123"}`))
		default:
			_, _ = w.Write([]byte(`{"entries":[{"id":"c"}],"has_more":false,"next_cursor":null}`))
		}
	}))
	defer server.Close()

	d := newDispatcher(t, server.URL)
	filters := url.Values{"event_api_id": {"evt-1"}, "approval_status": {"approved"}}

	type guest struct {
		ID string `json:"id"`
	}

	// When
	got, err := Collect(Paginate[guest](context.Background(), d, "get_guests", "/public/v1/event/get-guests", filters))

	// Then
	require.NoError(t, err)
	assert.Equal(t, []guest{{"a"}, {"b"}, {"c"}}, got)
	assert.Equal(t, int32(2), requests.Load())

	require.Len(t, queries, 2)
	assert.Equal(t, "15", queries[0].Get(ParamLimit))
	assert.Equal(t, "evt-1", queries[0].Get("event_api_id"))
	assert.Equal(t, "approved", queries[0].Get("approval_status"))
	assert.False(t, queries[0].Has(ParamCursor))
	assert.Equal(t, "gst-abc123", queries[1].Get(ParamCursor))
}

func TestPaginate_PropagatesTypedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer server.Close()

	d := newDispatcher(t, server.URL)

	got, err := Collect(Paginate[map[string]any](context.Background(), d, "list_events", "/public/v1/calendar/list-events", nil))

	assert.Empty(t, got)
	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid api key", apiErr.API.Message)
}

func newDispatcher(t *testing.T, baseURL string) *dispatch.Dispatcher {
	t.Helper()

	tr, err := transport.New(transport.Config{BaseURL: baseURL, APIKey: "k"},
		transport.WithSleeper(func(context.Context, time.Duration) error { return nil }))
	require.NoError(t, err)
	return dispatch.New(tr, codec.Default())
}
