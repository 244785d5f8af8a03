package node

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/directus-community/directus-node/internal/api"
	"github.com/directus-community/directus-node/pkg/types"
)

// requestFn executes one prepared request. The dispatcher binds it to the
// api client so every resource handler shares identical call semantics.
type requestFn func(ctx context.Context, req *api.Request) (any, error)

// selectionQuery builds the query parameters of a read: an optional field
// selection joined with commas.
func selectionQuery(fields []string) url.Values {
	query := url.Values{}
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}
	return query
}

func executeGet(ctx context.Context, call requestFn, resourcePath, id string, fields []string) (any, error) {
	return call(ctx, &api.Request{
		Method: "GET",
		Path:   resourcePath + "/" + id,
		Query:  selectionQuery(fields),
	})
}

// executeGetAll lists records. When returnAll is set no limit parameter is
// sent and the server's own default governs volume.
func executeGetAll(ctx context.Context, call requestFn, resourcePath string, returnAll bool, limit int, fields []string) (any, error) {
	query := selectionQuery(fields)
	if !returnAll {
		query.Set("limit", strconv.Itoa(limit))
	}
	return call(ctx, &api.Request{
		Method: "GET",
		Path:   resourcePath,
		Query:  query,
	})
}

// executeDelete removes a record by ID. Directus returns no body on delete,
// so the result is synthesized.
func executeDelete(ctx context.Context, call requestFn, resourcePath, id string) (any, error) {
	if _, err := call(ctx, &api.Request{
		Method: "DELETE",
		Path:   resourcePath + "/" + id,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true, "id": id}, nil
}

func executeCreate(ctx context.Context, call requestFn, resourcePath string, pairs []types.FieldValue) (any, error) {
	return call(ctx, &api.Request{
		Method: "POST",
		Path:   resourcePath,
		Body:   BuildBody(pairs),
	})
}

func executeUpdate(ctx context.Context, call requestFn, resourcePath, id string, pairs []types.FieldValue) (any, error) {
	return call(ctx, &api.Request{
		Method: "PATCH",
		Path:   resourcePath + "/" + id,
		Body:   BuildBody(pairs),
	})
}
