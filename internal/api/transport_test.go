package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directus-community/directus-node/pkg/types"
)

func TestHTTPDoerSendsJSONBody(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	doer := NewHTTPDoer()
	resp, err := doer.Do(context.Background(), &Request{
		Method:  "POST",
		Path:    "/items/articles",
		BaseURL: server.URL,
		Body:    map[string]any{"title": "Hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, map[string]any{"title": "Hello"}, gotBody)
}

func TestHTTPDoerSendsMultipartUpload(t *testing.T) {
	var gotTitle, gotFileName string
	var gotFileData []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotTitle = r.FormValue("title")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFileName = header.Filename
		gotFileData, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Write([]byte(`{"data":{"id":"f1"}}`))
	}))
	defer server.Close()

	doer := NewHTTPDoer()
	resp, err := doer.Do(context.Background(), &Request{
		Method:  "POST",
		Path:    "/files",
		BaseURL: server.URL,
		Form:    map[string]string{"title": "Photo"},
		Binary: &types.BinaryData{
			Data:     []byte("jpeg-bytes"),
			FileName: "photo.jpg",
			MimeType: "image/jpeg",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "Photo", gotTitle)
	assert.Equal(t, "photo.jpg", gotFileName)
	assert.Equal(t, []byte("jpeg-bytes"), gotFileData)
}

func TestHTTPDoerUnnamedBinaryGetsFallbackName(t *testing.T) {
	var gotFileName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		gotFileName = header.Filename
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	doer := NewHTTPDoer()
	_, err := doer.Do(context.Background(), &Request{
		Method:  "POST",
		Path:    "/files",
		BaseURL: server.URL,
		Binary:  &types.BinaryData{Data: []byte("x")},
	})
	require.NoError(t, err)
	assert.Equal(t, "file", gotFileName)
}
