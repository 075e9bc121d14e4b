// Package practicum implements the client for the Practicum homework status API.
package practicum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTransport        = errors.New("endpoint unreachable")
	ErrProtocol         = errors.New("api rejected the request")
	ErrUnexpectedStatus = errors.New("unexpected api status code")
)

// RequestInfo describes the request that failed. The credential is masked.
type RequestInfo struct {
	Endpoint string
	Headers  map[string]string
	Params   map[string]string
}

func (ri RequestInfo) String() string {
	return fmt.Sprintf("endpoint=%s headers=%s params=%s", ri.Endpoint, formatPairs(ri.Headers), formatPairs(ri.Params))
}

// RequestError is returned by FetchStatuses for every failed call.
// errors.Is matches it against exactly one of ErrTransport, ErrProtocol or
// ErrUnexpectedStatus.
type RequestError struct {
	Kind       error
	Request    RequestInfo
	StatusCode int
	Diagnostic string
	Err        error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Diagnostic != "" {
		fmt.Fprintf(&b, ": %s", e.Diagnostic)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	fmt.Fprintf(&b, " (%s)", e.Request)
	return b.String()
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ClientConfig contains configuration for the Practicum API client.
type ClientConfig struct {
	// Endpoint is the homework statuses URL
	Endpoint string

	// Token is the OAuth credential sent in the Authorization header
	Token string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set
	HTTPClient *http.Client
}

// Client queries the homework statuses endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		httpClient: httpClient,
	}
}

// FetchStatuses performs exactly one GET for statuses changed since fromDate and
// returns the decoded JSON body. It never retries.
func (c *Client) FetchStatuses(ctx context.Context, fromDate int64) (any, error) {
	params := map[string]string{"from_date": strconv.FormatInt(fromDate, 10)}
	info := RequestInfo{
		Endpoint: c.endpoint,
		Headers:  map[string]string{"Authorization": "OAuth " + mask(c.token)},
		Params:   params,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &RequestError{Kind: ErrTransport, Request: info, Err: err}
	}
	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Kind: ErrTransport, Request: info, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Kind: ErrTransport, Request: info, StatusCode: resp.StatusCode, Err: err}
	}

	payload, decodeErr := decodeBody(body)
	if decodeErr == nil {
		if diag, ok := diagnostic(payload); ok {
			return nil, &RequestError{Kind: ErrProtocol, Request: info, StatusCode: resp.StatusCode, Diagnostic: diag}
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Kind: ErrUnexpectedStatus, Request: info, StatusCode: resp.StatusCode}
	}
	if decodeErr != nil {
		return nil, &RequestError{Kind: ErrProtocol, Request: info, StatusCode: resp.StatusCode, Diagnostic: "invalid JSON body", Err: decodeErr}
	}
	return payload, nil
}

func decodeBody(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// diagnostic extracts the error/code fields the API sets when it rejects a request.
func diagnostic(payload any) (string, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return "", false
	}
	var parts []string
	for _, key := range []string{"code", "error"} {
		if v, present := obj[key]; present {
			parts = append(parts, fmt.Sprintf("%s=%v", key, v))
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}

func mask(token string) string {
	if token == "" {
		return ""
	}
	return "***"
}

func formatPairs(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+m[k])
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
