package node

import (
	"context"

	"github.com/directus-community/directus-node/internal/api"
)

// executeFile handles all file operations against /files.
func (d *Dispatcher) executeFile(ctx context.Context, op Operation, index int, call requestFn) (any, error) {
	const resourcePath = "/files"

	switch op {
	case OpUpload:
		property := stringParam(d.host, "binaryProperty", index)
		if property == "" {
			property = "data"
		}
		binary, err := d.host.Binary(index, property)
		if err != nil || binary == nil || len(binary.Data) == 0 {
			return nil, &api.ValidationError{Field: "binaryProperty", Message: "File is required for upload"}
		}

		form := map[string]string{}
		if title := stringParam(d.host, "title", index); title != "" {
			form["title"] = title
		}
		if description := stringParam(d.host, "description", index); description != "" {
			form["description"] = description
		}
		if folder := stringParam(d.host, "folder", index); folder != "" {
			form["folder"] = folder
		}
		return call(ctx, &api.Request{Method: "POST", Path: resourcePath, Binary: binary, Form: form})

	case OpImport:
		fileURL := stringParam(d.host, "fileUrl", index)
		if fileURL == "" {
			return nil, &api.ValidationError{Field: "fileUrl", Message: "URL is required for file import"}
		}
		body := map[string]any{"url": fileURL}
		data := map[string]any{}
		if title := stringParam(d.host, "title", index); title != "" {
			data["title"] = title
		}
		if folder := stringParam(d.host, "folder", index); folder != "" {
			data["folder"] = folder
		}
		if len(data) > 0 {
			body["data"] = data
		}
		return call(ctx, &api.Request{Method: "POST", Path: resourcePath + "/import", Body: body})

	case OpUpdate:
		id, err := d.requireID("fileId", index)
		if err != nil {
			return nil, err
		}
		return executeUpdate(ctx, call, resourcePath, id, fieldListParam(d.host, "fileFields", index))

	case OpUpdateRaw:
		id, err := d.requireID("fileId", index)
		if err != nil {
			return nil, err
		}
		body, err := ParseRawBody(rawJSONParam(d.host, index))
		if err != nil {
			return nil, err
		}
		return call(ctx, &api.Request{Method: "PATCH", Path: resourcePath + "/" + id, Body: body})

	case OpDelete:
		id, err := d.requireID("fileId", index)
		if err != nil {
			return nil, err
		}
		return executeDelete(ctx, call, resourcePath, id)

	case OpGet:
		id, err := d.requireID("fileId", index)
		if err != nil {
			return nil, err
		}
		return executeGet(ctx, call, resourcePath, id, fieldSelectionParam(d.host, index))

	case OpGetRaw:
		id, err := d.requireID("fileId", index)
		if err != nil {
			return nil, err
		}
		query, err := ParseRawQuery(rawJSONParam(d.host, index))
		if err != nil {
			return nil, err
		}
		return call(ctx, &api.Request{Method: "GET", Path: resourcePath + "/" + id, Query: query})

	case OpGetAll:
		returnAll, limit, fields := d.listParams(index)
		return executeGetAll(ctx, call, resourcePath, returnAll, limit, fields)

	case OpGetAllRaw:
		query, err := ParseRawQuery(rawJSONParam(d.host, index))
		if err != nil {
			return nil, err
		}
		return call(ctx, &api.Request{Method: "GET", Path: resourcePath, Query: query})

	default:
		return nil, unknownOperation(ResourceFile, op)
	}
}
