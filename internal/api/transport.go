package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// HTTPDoer is the transport used by the CLI harness. Host runtimes embedding
// the connector provide their own Doer with their own retry policy.
type HTTPDoer struct {
	Client *http.Client
}

// NewHTTPDoer creates a transport with a default timeout.
func NewHTTPDoer() *HTTPDoer {
	return &HTTPDoer{
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Do executes one request. JSON bodies are marshaled; binary payloads are
// sent as multipart forms with the file part last, matching what Directus
// expects for uploads.
func (d *HTTPDoer) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := req.BaseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var body io.Reader
	contentType := ""

	switch {
	case req.Binary != nil:
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)
		for key, value := range req.Form {
			if err := writer.WriteField(key, value); err != nil {
				return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
			}
		}
		name := req.Binary.FileName
		if name == "" {
			name = "file"
		}
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			return nil, fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(req.Binary.Data); err != nil {
			return nil, fmt.Errorf("failed to write file part: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
		}
		body = buf
		contentType = writer.FormDataContentType()
	case req.Body != nil:
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := d.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{Status: resp.StatusCode, Body: data}, nil
}
