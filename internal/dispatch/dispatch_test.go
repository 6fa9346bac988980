package dispatch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/eventcal/internal/apierror"
	"github.com/teemow/eventcal/internal/codec"
	"github.com/teemow/eventcal/internal/transport"
)

type created struct {
	APIID string `json:"api_id"`
}

func response(status int, body string) *transport.Response {
	return &transport.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// fakeDoer records the request and returns a canned response.
type fakeDoer struct {
	method string
	path   string
	body   string
	calls  int

	resp *transport.Response
	err  error
}

func (f *fakeDoer) Do(_ context.Context, method, path string, body []byte) (*transport.Response, error) {
	f.calls++
	f.method = method
	f.path = path
	f.body = string(body)
	return f.resp, f.err
}

func TestInterpret(t *testing.T) {
	c := codec.Default()

	tests := []struct {
		name       string
		expect     ResultKind
		resp       *transport.Response
		want       created
		wantStatus int
		wantMsg    string
		wantAPI    *apierror.Payload
	}{
		{
			name:   "success with value",
			expect: ExpectValue,
			resp:   response(http.StatusOK, `{"api_id":"evt-123"}`),
			want:   created{APIID: "evt-123"},
		},
		{
			name:   "success ignores body when none expected",
			expect: ExpectNone,
			resp:   response(http.StatusOK, `not json at all`),
		},
		{
			name:       "empty body when value expected",
			expect:     ExpectValue,
			resp:       response(http.StatusOK, ``),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    apierror.MessageEmptyResult,
		},
		{
			name:       "null body when value expected",
			expect:     ExpectValue,
			resp:       response(http.StatusOK, ` null `),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    apierror.MessageEmptyResult,
		},
		{
			name:       "malformed body when value expected",
			expect:     ExpectValue,
			resp:       response(http.StatusOK, `{"api_id":`),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    apierror.MessageDeserialize,
		},
		{
			name:       "type mismatch when value expected",
			expect:     ExpectValue,
			resp:       response(http.StatusOK, `{"api_id":42}`),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    apierror.MessageDeserialize,
		},
		{
			name:       "error with structured payload",
			expect:     ExpectValue,
			resp:       response(http.StatusBadRequest, `{"message":"invalid event","code":"bad_request"}`),
			wantStatus: http.StatusBadRequest,
			wantMsg:    apierror.StatusMessage(http.StatusBadRequest),
			wantAPI:    &apierror.Payload{Message: "invalid event", Code: "bad_request"},
		},
		{
			name:       "error with malformed payload",
			expect:     ExpectValue,
			resp:       response(http.StatusBadGateway, `<html>bad gateway</html>`),
			wantStatus: http.StatusBadGateway,
			wantMsg:    apierror.StatusMessage(http.StatusBadGateway),
		},
		{
			name:       "error with empty body on no-content operation",
			expect:     ExpectNone,
			resp:       response(http.StatusNotFound, ``),
			wantStatus: http.StatusNotFound,
			wantMsg:    apierror.StatusMessage(http.StatusNotFound),
		},
		{
			name:       "exhausted rate limit",
			expect:     ExpectNone,
			resp:       response(http.StatusTooManyRequests, `{}`),
			wantStatus: http.StatusTooManyRequests,
			wantMsg:    apierror.StatusMessage(http.StatusTooManyRequests),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpret[created](c, tt.expect, tt.resp)

			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			apiErr, ok := apierror.As(err)
			require.True(t, ok, "expected *apierror.Error, got %T", err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			if tt.wantAPI != nil {
				assert.Equal(t, tt.wantAPI, apiErr.API)
			}
			assert.Equal(t, created{}, got)
		})
	}
}

func TestInterpret_DeserializeErrorCarriesCause(t *testing.T) {
	_, err := Interpret[created](codec.Default(), ExpectValue, response(http.StatusOK, `{"api_id":true}`))

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	require.NotNil(t, apiErr.API)
	assert.NotEmpty(t, apiErr.API.Message)
	assert.Equal(t, apierror.DerivedCode(apiErr.Err), apiErr.API.Code)
}

func TestInterpret_StrictCodecRejectsUnknownFields(t *testing.T) {
	strict := codec.New(codec.WithDisallowUnknownFields())

	_, err := Interpret[created](strict, ExpectValue, response(http.StatusOK, `{"api_id":"a","extra":1}`))
	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.MessageDeserialize, apiErr.Message)

	// Unknown fields in an error body only drop the payload.
	_, err = Interpret[created](strict, ExpectValue, response(http.StatusConflict, `{"message":"x","detail":"y"}`))
	apiErr, ok = apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Nil(t, apiErr.API)
}

func TestSend_EncodesBodyAndTarget(t *testing.T) {
	doer := &fakeDoer{resp: response(http.StatusOK, `{"api_id":"evt-9"}`)}
	d := New(doer, codec.Default())

	got, err := Send[created](context.Background(), d, Post("create_event", "/public/v1/event/create", map[string]string{"name": "Launch"}))
	require.NoError(t, err)

	assert.Equal(t, "evt-9", got.APIID)
	assert.Equal(t, http.MethodPost, doer.method)
	assert.Equal(t, "/public/v1/event/create", doer.path)
	assert.JSONEq(t, `{"name":"Launch"}`, doer.body)
}

func TestSend_GetCarriesQuery(t *testing.T) {
	doer := &fakeDoer{resp: response(http.StatusOK, `{"api_id":"evt-1"}`)}
	d := New(doer, codec.Default())

	q := url.Values{}
	AddParam(q, "api_id", "evt-1")
	AddParam(q, "email", "")

	_, err := Send[created](context.Background(), d, Get("get_event", "/public/v1/event/get", q))
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, doer.method)
	assert.Equal(t, "/public/v1/event/get?api_id=evt-1", doer.path)
	assert.Empty(t, doer.body)
}

func TestSend_TransportErrorBecomesTypedError(t *testing.T) {
	cause := &transport.ConnectionError{Method: "GET", Path: "/x", Attempts: 4, Err: errors.New("connection refused")}
	d := New(&fakeDoer{err: cause}, codec.Default())

	_, err := Send[created](context.Background(), d, Get("get_event", "/x", nil))

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.MessageTransport, apiErr.Message)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.API.Message, "connection refused")

	var connErr *transport.ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestSend_TransportErrorKeepsAttachedStatus(t *testing.T) {
	cause := apierror.New("upstream rejected", nil, http.StatusServiceUnavailable)
	d := New(&fakeDoer{err: cause}, codec.Default())

	_, err := Send[created](context.Background(), d, Get("get_event", "/x", nil))

	assert.Equal(t, http.StatusServiceUnavailable, apierror.StatusCode(err))
}

func TestSend_CancellationSurfacesAsError(t *testing.T) {
	d := New(&fakeDoer{err: context.Canceled}, codec.Default())

	_, err := Send[created](context.Background(), d, Get("get_event", "/x", nil))

	assert.ErrorIs(t, err, context.Canceled)
	_, ok := apierror.As(err)
	assert.True(t, ok)
}

func TestSend_EncodeFailureSkipsTransport(t *testing.T) {
	doer := &fakeDoer{resp: response(http.StatusOK, `{}`)}
	d := New(doer, codec.Default())

	_, err := Send[created](context.Background(), d, Post("create_event", "/x", map[string]any{"bad": make(chan int)}))

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.MessageEncode, apiErr.Message)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Zero(t, doer.calls)
}

func TestExec_IgnoresBody(t *testing.T) {
	doer := &fakeDoer{resp: response(http.StatusOK, `{"ok":true}`)}
	d := New(doer, codec.Default())

	err := Exec(context.Background(), d, PostNoContent("add_guests", "/public/v1/event/add-guests", map[string]string{"event_api_id": "evt-1"}))
	require.NoError(t, err)
	assert.Equal(t, 1, doer.calls)
}

func TestExec_ReturnsTypedErrorOnFailure(t *testing.T) {
	doer := &fakeDoer{resp: response(http.StatusForbidden, `{"message":"invalid key"}`)}
	d := New(doer, codec.Default())

	err := Exec(context.Background(), d, PostNoContent("add_host", "/public/v1/event/add-host", struct{}{}))

	assert.True(t, apierror.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "invalid key")
}

func TestOperationConstructors(t *testing.T) {
	assert.Equal(t, ExpectValue, Get("a", "/p", nil).Expect)
	assert.Equal(t, ExpectValue, Post("a", "/p", nil).Expect)
	assert.Equal(t, ExpectNone, PostNoContent("a", "/p", nil).Expect)
	assert.Equal(t, http.MethodPut, Put("a", "/p", nil).Method)
	assert.Equal(t, http.MethodDelete, Delete("a", "/p", nil).Method)

	op := Get("a", "/p", nil)
	assert.Equal(t, "/p", op.Target())

	q := url.Values{}
	AddParam(q, "after", "2024-01-01T00:00:00.000Z")
	op2 := op.WithQuery(q)
	assert.Equal(t, "/p?after=2024-01-01T00%3A00%3A00.000Z", op2.Target())
	assert.Nil(t, op.Query)
}
