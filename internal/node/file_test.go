package node

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directus-community/directus-node/internal/api"
	"github.com/directus-community/directus-node/pkg/types"
)

func TestExecuteFileUpload(t *testing.T) {
	params := map[string]any{
		"resource":  "file",
		"operation": "upload",
		"title":     "Photo",
		"folder":    "folder-1",
	}
	binary := &types.BinaryData{Data: []byte("jpeg-bytes"), FileName: "photo.jpg", MimeType: "image/jpeg"}

	var gotTitle, gotFolder, gotFileName string
	var gotData []byte
	d, _, _ := newTestDispatcher(t, params, binary, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotTitle = r.FormValue("title")
		gotFolder = r.FormValue("folder")
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFileName = header.Filename
		gotData, _ = io.ReadAll(file)
		w.Write([]byte(`{"data":{"id":"f1","title":"Photo"}}`))
	})

	records, err := d.Execute(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "f1", records[0]["id"])
	assert.Equal(t, "Photo", gotTitle)
	assert.Equal(t, "folder-1", gotFolder)
	assert.Equal(t, "photo.jpg", gotFileName)
	assert.Equal(t, []byte("jpeg-bytes"), gotData)
}

func TestExecuteFileUploadRequiresBinary(t *testing.T) {
	params := map[string]any{"resource": "file", "operation": "upload"}
	d, _, calls := newTestDispatcher(t, params, nil, respond(`{}`))

	_, err := d.Execute(context.Background(), 1, false)
	var validationErr *api.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "File is required for upload", err.Error())
	assert.Zero(t, calls.Load())
}

func TestExecuteFileImport(t *testing.T) {
	params := map[string]any{
		"resource":  "file",
		"operation": "import",
		"fileUrl":   "https://example.com/remote.png",
		"title":     "Remote",
	}
	d, captured, _ := newTestDispatcher(t, params, nil, respond(`{"data":{"id":"f2"}}`))

	_, err := d.Execute(context.Background(), 1, false)
	require.NoError(t, err)
	got := (*captured)[0]
	assert.Equal(t, "POST", got.Method)
	assert.Equal(t, "/files/import", got.Path)
	assert.Equal(t, map[string]any{
		"url":  "https://example.com/remote.png",
		"data": map[string]any{"title": "Remote"},
	}, got.Body)
}

func TestExecuteFileImportRequiresURL(t *testing.T) {
	params := map[string]any{"resource": "file", "operation": "import"}
	d, _, calls := newTestDispatcher(t, params, nil, respond(`{}`))

	_, err := d.Execute(context.Background(), 1, false)
	var validationErr *api.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "URL is required for file import", err.Error())
	assert.Zero(t, calls.Load())
}

func TestExecuteFileGetAllSimplifies(t *testing.T) {
	params := map[string]any{
		"resource":  "file",
		"operation": "getAll",
		"simplify":  true,
	}
	body := `{"data":[{"id":"f1","title":"Photo","storage":"local","filename_disk":"x.jpg"}]}`
	d, _, _ := newTestDispatcher(t, params, nil, respond(body))

	records, err := d.Execute(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.Record{"id": "f1", "title": "Photo"}, records[0])
}
