package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// RestClient talks to the backend's row-store endpoints. Queries are built
// with Select(...).Eq(...).Order(...) and either return the whole matching set
// or fail; there is no pagination and no partial result.
type RestClient struct {
	BaseURL    string
	AnonKey    string
	HTTPClient *http.Client

	// Tokens, when set, supplies the signed-in user's access token per call.
	// Calls fall back to the anon key when no user is signed in.
	Tokens TokenSource
}

// NewRestClient returns a row-store client for the given backend project.
func NewRestClient(baseURL, anonKey string, tokens TokenSource) *RestClient {
	return &RestClient{
		BaseURL:    baseURL,
		AnonKey:    anonKey,
		HTTPClient: newHTTPClient(),
		Tokens:     tokens,
	}
}

// Query accumulates equality filters and an ordering for one collection read.
type Query struct {
	client     *RestClient
	collection string
	filters    []filterClause
	order      string
}

type filterClause struct {
	field string
	value string
}

// Select starts a read against the named collection.
func (c *RestClient) Select(collection string) *Query {
	return &Query{client: c, collection: collection}
}

// Eq adds an equality filter. Filters are conjunctive.
func (q *Query) Eq(field, value string) *Query {
	q.filters = append(q.filters, filterClause{field: field, value: value})
	return q
}

// Order sets the result ordering.
func (q *Query) Order(field string, descending bool) *Query {
	direction := "asc"
	if descending {
		direction = "desc"
	}
	q.order = field + "." + direction
	return q
}

// Into executes the query and decodes the full result set into dest, which
// must be a pointer to a slice.
func (q *Query) Into(ctx context.Context, dest any) error {
	values := url.Values{}
	values.Set("select", "*")
	for _, f := range q.filters {
		values.Set(f.field, "eq."+f.value)
	}
	if q.order != "" {
		values.Set("order", q.order)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", q.client.BaseURL, q.collection, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build list request: %w", err)
	}
	q.client.setHeaders(req)

	resp, err := q.client.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode list response: %w", err)
	}
	return nil
}

// Insert writes one row and decodes the server-assigned representation into
// dest when dest is non-nil. The backend assigns the row identifier.
func (c *RestClient) Insert(ctx context.Context, collection string, row, dest any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(row); err != nil {
		return fmt.Errorf("failed to encode insert payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.BaseURL, collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("failed to build insert request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("insert request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if dest == nil {
		return nil
	}

	// The row store answers inserts with an array of inserted rows.
	var rows []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return fmt.Errorf("failed to decode insert response: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("insert returned no rows")
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("failed to decode inserted row: %w", err)
	}
	return nil
}

func (c *RestClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.AnonKey)
	token := ""
	if c.Tokens != nil {
		token = c.Tokens.AccessToken()
	}
	if token == "" {
		token = c.AnonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
