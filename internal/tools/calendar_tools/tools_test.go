package calendar_tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/server"
	"github.com/teemow/eventcal/internal/transport"
)

func newServerContext(t *testing.T, handler http.HandlerFunc, readOnly bool) *server.ServerContext {
	t.Helper()

	api := httptest.NewServer(handler)
	t.Cleanup(api.Close)

	client, err := eventcal.New(eventcal.Options{
		APIKey:      "test-key",
		BaseURL:     api.URL,
		RetryPolicy: &transport.RetryPolicy{MaxRetries: 1, RateLimitDelay: time.Millisecond, BaseDelay: time.Millisecond},
	})
	require.NoError(t, err)

	sc, err := server.NewServerContext(context.Background(), client, server.WithReadOnly(readOnly))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	require.NotEmpty(t, r.Content)
	text, ok := mcp.AsTextContent(r.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestRegisterCalendarTools(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
		want     []string
		absent   []string
	}{
		{
			name:     "read-only registers listing only",
			readOnly: true,
			want:     []string{"calendar_list_events"},
			absent:   []string{"calendar_import_people"},
		},
		{
			name:     "read-write registers import",
			readOnly: false,
			want:     []string{"calendar_list_events", "calendar_import_people"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newServerContext(t, func(w http.ResponseWriter, r *http.Request) {}, tt.readOnly)
			s := mcpserver.NewMCPServer("test-server", "1.0.0", mcpserver.WithToolCapabilities(true))

			require.NoError(t, RegisterCalendarTools(s, sc))

			tools := s.ListTools()
			for _, name := range tt.want {
				assert.Contains(t, tools, name)
			}
			for _, name := range tt.absent {
				assert.NotContains(t, tools, name)
			}
		})
	}
}

func TestHandleListEvents(t *testing.T) {
	var query map[string]string
	sc := newServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"after":  r.URL.Query().Get("after"),
			"before": r.URL.Query().Get("before"),
		}
		_, _ = io.WriteString(w, `{"entries":[
			{"api_id":"calev-1","event":{"api_id":"evt-1","name":"Meetup","start_at":"2025-01-01T18:00:00Z","end_at":"2025-01-01T20:00:00Z"}},
			{"api_id":"calev-2","event":{"api_id":"evt-2","name":"Workshop","start_at":"2025-01-02T18:00:00Z","end_at":"2025-01-02T20:00:00Z"}}
		],"has_more":false}`)
	}, true)

	result, err := handleListEvents(context.Background(), callRequest(map[string]any{
		"after":  "2025-01-01T00:00:00+01:00",
		"before": "2025-02-01T00:00:00Z",
		"limit":  float64(1),
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	assert.Equal(t, "2024-12-31T23:00:00Z", query["after"])
	assert.Equal(t, "2025-02-01T00:00:00Z", query["before"])

	var out struct {
		Count   int `json:"count"`
		Entries []struct {
			APIID string `json:"api_id"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "calev-1", out.Entries[0].APIID)
}

func TestHandleListEvents_Validation(t *testing.T) {
	sc := newServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, true)

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "malformed after", args: map[string]any{"after": "yesterday"}},
		{name: "malformed before", args: map[string]any{"before": "2025-13-01"}},
		{name: "inverted window", args: map[string]any{
			"after":  "2025-02-01T00:00:00Z",
			"before": "2025-01-01T00:00:00Z",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleListEvents(context.Background(), callRequest(tt.args), sc)
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestHandleListEvents_APIError(t *testing.T) {
	sc := newServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"invalid api key"}`)
	}, true)

	result, err := handleListEvents(context.Background(), callRequest(nil), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "status 401")
	assert.Contains(t, text, "invalid api key")
}

func TestHandleImportPeople(t *testing.T) {
	var body struct {
		Infos []struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"infos"`
		TagAPIIDs []string `json:"tag_api_ids"`
	}
	sc := newServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/public/v1/calendar/import-people", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	}, false)

	result, err := handleImportPeople(context.Background(), callRequest(map[string]any{
		"people":      "jane@example.com, Max Mustermann <max@example.com>",
		"tag_api_ids": "tag-1,tag-2",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))
	assert.Contains(t, resultText(t, result), "Imported 2 people")

	require.Len(t, body.Infos, 2)
	assert.Equal(t, "jane@example.com", body.Infos[0].Email)
	assert.Empty(t, body.Infos[0].Name)
	assert.Equal(t, "max@example.com", body.Infos[1].Email)
	assert.Equal(t, "Max Mustermann", body.Infos[1].Name)
	assert.Equal(t, []string{"tag-1", "tag-2"}, body.TagAPIIDs)
}

func TestHandleImportPeople_Validation(t *testing.T) {
	sc := newServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, false)

	for _, people := range []string{"", " , ", "not an address"} {
		result, err := handleImportPeople(context.Background(), callRequest(map[string]any{"people": people}), sc)
		require.NoError(t, err)
		assert.True(t, result.IsError, "people=%q", people)
	}
}
