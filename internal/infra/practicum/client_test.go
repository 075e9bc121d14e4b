package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{Endpoint: srv.URL + "/api/user_api/homework_statuses/", Token: "secret-token", Timeout: 5 * time.Second}), srv
}

func TestFetchStatuses_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/user_api/homework_statuses/", r.URL.Path)
		assert.Equal(t, "OAuth secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "1700000000", r.URL.Query().Get("from_date"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"homeworks": [{"homework_name": "hw1", "status": "approved"}], "current_date": 1700000600}`))
	})

	payload, err := client.FetchStatuses(context.Background(), 1700000000)
	require.NoError(t, err)

	obj, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Len(t, obj["homeworks"], 1)
	assert.Equal(t, json.Number("1700000600"), obj["current_date"])
}

func TestFetchStatuses_ProtocolFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		diag   string
	}{
		{"bad from_date", http.StatusBadRequest, `{"error": {"error": "Wrong from_date format"}, "code": "UnknownError"}`, "code=UnknownError"},
		{"expired token", http.StatusUnauthorized, `{"code": "not_authenticated", "message": "Учетные данные не были предоставлены."}`, "code=not_authenticated"},
		{"error on 200", http.StatusOK, `{"error": "something odd"}`, "error=something odd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.FetchStatuses(context.Background(), 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrProtocol)
			assert.NotErrorIs(t, err, ErrUnexpectedStatus)

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.status, reqErr.StatusCode)
			assert.Contains(t, reqErr.Diagnostic, tt.diag)
			assert.Equal(t, "0", reqErr.Request.Params["from_date"])
		})
	}
}

func TestFetchStatuses_UnexpectedStatusCode(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := client.FetchStatuses(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusServiceUnavailable, reqErr.StatusCode)
	assert.Equal(t, srv.URL+"/api/user_api/homework_statuses/", reqErr.Request.Endpoint)
	assert.Contains(t, err.Error(), "status 503")
}

func TestFetchStatuses_InvalidJSONOnSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.FetchStatuses(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocol)
	assert.Contains(t, err.Error(), "invalid JSON body")
}

func TestFetchStatuses_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	client := NewClient(ClientConfig{Endpoint: endpoint, Token: "secret-token", Timeout: time.Second})
	_, err := client.FetchStatuses(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Zero(t, reqErr.StatusCode)
	assert.Equal(t, "OAuth ***", reqErr.Request.Headers["Authorization"])
	assert.NotContains(t, err.Error(), "secret-token")
}

func TestRequestError_MessageIsStable(t *testing.T) {
	err := &RequestError{
		Kind:       ErrUnexpectedStatus,
		StatusCode: 500,
		Request: RequestInfo{
			Endpoint: "https://example.test/",
			Headers:  map[string]string{"Authorization": "OAuth ***"},
			Params:   map[string]string{"from_date": "10"},
		},
	}
	assert.Equal(t,
		"unexpected api status code: status 500 (endpoint=https://example.test/ headers={Authorization=OAuth ***} params={from_date=10})",
		err.Error())
}
