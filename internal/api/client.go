package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/directus-community/directus-node/internal/audit"
	"github.com/directus-community/directus-node/pkg/types"
)

// Request is one outbound call to the Directus instance. Path is relative to
// the credential URL. When Binary is set the transport sends a multipart form
// (file part plus Form fields) and owns the boundary header; JSON bodies get
// Content-Type application/json.
type Request struct {
	Method  string
	Path    string
	BaseURL string
	Query   url.Values
	Body    any
	Binary  *types.BinaryData
	Form    map[string]string
	Headers map[string]string
}

// Response is the transport's view of a completed call.
type Response struct {
	Status int
	Body   []byte
}

// Doer executes requests. The host runtime supplies its own transport with
// whatever retry and timeout policy it wants; this package never retries.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Client issues authenticated calls against one Directus instance and decodes
// the data envelope of introspection responses.
type Client struct {
	creds types.Credentials
	doer  Doer
	log   *audit.Logger
}

// NewClient creates a client for the given credentials. The audit logger may
// be nil.
func NewClient(creds types.Credentials, doer Doer, log *audit.Logger) (*Client, error) {
	if creds.URL == "" {
		return nil, errors.New("credential URL cannot be empty")
	}
	if doer == nil {
		return nil, errors.New("transport cannot be nil")
	}
	creds.URL = strings.TrimRight(creds.URL, "/")
	return &Client{creds: creds, doer: doer, log: log}, nil
}

// BaseURL returns the normalized instance URL the client talks to.
func (c *Client) BaseURL() string { return c.creds.URL }

// do stamps authentication headers onto req and executes it.
func (c *Client) do(ctx context.Context, req *Request) (*Response, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + c.creds.Token,
		"Accept":        "application/json",
	}
	// Multipart uploads must not get an explicit content type; the transport
	// sets the boundary itself.
	if req.Binary == nil {
		headers["Content-Type"] = "application/json"
	}
	for k, v := range req.Headers {
		headers[k] = v
	}
	req.Headers = headers
	req.BaseURL = c.creds.URL
	if !strings.HasPrefix(req.Path, "/") {
		req.Path = "/" + req.Path
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		c.log.LogAPICall(req.Method, req.Path, 0, err)
		return nil, err
	}
	c.log.LogAPICall(req.Method, req.Path, resp.Status, nil)
	return resp, nil
}

// Call executes one request and returns the decoded JSON body. Non-JSON
// bodies come back as their raw string; empty bodies come back as nil.
func (c *Client) Call(ctx context.Context, req *Request) (any, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, StatusError(resp.Status, req.Path, resp.Body)
	}
	if len(resp.Body) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return string(resp.Body), nil
	}
	return decoded, nil
}

// envelope is the standard Directus response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// fetchList issues an authenticated GET against an introspection endpoint and
// decodes the data array into out (a pointer to a slice). When allowEmpty is
// set, a non-array data value degrades to an empty result instead of failing;
// the relations endpoint is optional enrichment and absent on some setups.
func (c *Client) fetchList(ctx context.Context, endpoint string, out any, allowEmpty bool) error {
	resp, err := c.do(ctx, &Request{Method: "GET", Path: "/" + endpoint})
	if err != nil {
		return err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return StatusError(resp.Status, endpoint, resp.Body)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return &UpstreamFormatError{Status: resp.Status, Message: "response is not valid JSON"}
	}
	if env.Data == nil {
		return &UpstreamFormatError{Status: resp.Status, Message: "response is missing the data envelope"}
	}

	trimmed := strings.TrimSpace(string(env.Data))
	if !strings.HasPrefix(trimmed, "[") {
		if allowEmpty {
			return nil
		}
		return &UpstreamFormatError{
			Status:  resp.Status,
			Message: "expected an array in the data envelope, got: " + trimmed,
		}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &UpstreamFormatError{Status: resp.Status, Message: err.Error()}
	}
	return nil
}

// Collections fetches all collections visible to the token.
func (c *Client) Collections(ctx context.Context) ([]types.Collection, error) {
	var collections []types.Collection
	if err := c.fetchList(ctx, "collections", &collections, false); err != nil {
		return nil, err
	}
	return collections, nil
}

// Fields fetches the schema fields of one collection.
func (c *Client) Fields(ctx context.Context, collection string) ([]types.Field, error) {
	var fields []types.Field
	if err := c.fetchList(ctx, "fields/"+collection, &fields, false); err != nil {
		return nil, err
	}
	return fields, nil
}

// Roles fetches all roles visible to the token.
func (c *Client) Roles(ctx context.Context) ([]types.Role, error) {
	var roles []types.Role
	if err := c.fetchList(ctx, "roles", &roles, false); err != nil {
		return nil, err
	}
	return roles, nil
}

// Relations fetches the full relation graph. An absent or empty relations
// endpoint yields an empty list rather than an error.
func (c *Client) Relations(ctx context.Context) ([]types.Relation, error) {
	var relations []types.Relation
	if err := c.fetchList(ctx, "relations", &relations, true); err != nil {
		return nil, err
	}
	return relations, nil
}
