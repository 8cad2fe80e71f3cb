package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNoWriteToken is returned by mutations when no write token is configured.
// Reads work without one, so this is not a startup failure.
var ErrNoWriteToken = &Error{StatusCode: http.StatusUnauthorized, Message: "catalog write token not configured"}

// Client talks to the hosted content platform: GROQ reads via the query
// endpoint and transactional writes via the mutate endpoint. All mutations
// passed to a single Mutate call commit atomically.
type Client struct {
	dataset    string
	token      string
	httpClient *http.Client

	// BaseURL may be overridden before first use (tests point it at a stub).
	BaseURL string
}

func NewClient(projectID, dataset, apiVersion, token string) *Client {
	return &Client{
		dataset: dataset,
		token:   token,
		BaseURL: fmt.Sprintf("https://%s.api.sanity.io/v%s", projectID, apiVersion),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CanWrite reports whether a write token is configured.
func (c *Client) CanWrite() bool {
	return c.token != ""
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// Query runs a GROQ query and decodes its result into out. Params are
// passed as $-prefixed query parameters, JSON-encoded. A null result leaves
// out untouched.
func (c *Client) Query(ctx context.Context, query string, params map[string]interface{}, out interface{}) error {
	values := url.Values{}
	values.Set("query", query)
	for key, val := range params {
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("encode param %s: %w", key, err)
		}
		values.Set("$"+key, string(encoded))
	}

	path := fmt.Sprintf("/data/query/%s?%s", c.dataset, values.Encode())

	var resp queryResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return err
	}

	if out == nil || len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode query result: %w", err)
	}
	return nil
}

// Mutation is one entry of a mutate call: a create, a patch-set or a
// patch-dec. Build them with NewCreate, NewPatchSet and NewPatchDec.
type Mutation map[string]interface{}

// NewCreate creates a new document.
func NewCreate(doc interface{}) Mutation {
	return Mutation{"create": doc}
}

// NewPatchSet sets fields on an existing document.
func NewPatchSet(id string, fields map[string]interface{}) Mutation {
	return Mutation{"patch": map[string]interface{}{"id": id, "set": fields}}
}

// NewPatchDec decrements numeric fields on an existing document.
func NewPatchDec(id string, fields map[string]interface{}) Mutation {
	return Mutation{"patch": map[string]interface{}{"id": id, "dec": fields}}
}

type mutateRequest struct {
	Mutations []Mutation `json:"mutations"`
}

// MutateResult reports the IDs touched by a mutate call.
type MutateResult struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

// Mutate commits the given mutations as one transaction. The platform
// applies them all-or-nothing, which is what batched stock decrements
// rely on.
func (c *Client) Mutate(ctx context.Context, mutations []Mutation) (*MutateResult, error) {
	if !c.CanWrite() {
		return nil, ErrNoWriteToken
	}

	path := fmt.Sprintf("/data/mutate/%s?returnIds=true", c.dataset)

	var result MutateResult
	if err := c.doRequest(ctx, http.MethodPost, path, mutateRequest{Mutations: mutations}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Message: string(respBytes)}
	}

	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
