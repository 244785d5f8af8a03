package node

import (
	"context"

	"github.com/directus-community/directus-node/internal/api"
)

// executeItem handles all generic-item operations against /items/{collection}.
func (d *Dispatcher) executeItem(ctx context.Context, op Operation, index int, call requestFn) (any, error) {
	collection := stringParam(d.host, "collection", index)
	if err := d.validator.ValidateCollectionName(collection); err != nil {
		return nil, &api.ValidationError{Field: "collection", Message: err.Error()}
	}
	resourcePath := "/items/" + collection

	switch op {
	case OpCreate:
		return executeCreate(ctx, call, resourcePath, fieldListParam(d.host, "collectionFields", index))

	case OpCreateRaw:
		body, err := ParseRawBody(rawJSONParam(d.host, index))
		if err != nil {
			return nil, err
		}
		return call(ctx, &api.Request{Method: "POST", Path: resourcePath, Body: body})

	case OpUpdate:
		id, err := d.requireID("itemId", index)
		if err != nil {
			return nil, err
		}
		return executeUpdate(ctx, call, resourcePath, id, fieldListParam(d.host, "collectionFields", index))

	case OpUpdateRaw:
		id, err := d.requireID("itemId", index)
		if err != nil {
			return nil, err
		}
		body, err := ParseRawBody(rawJSONParam(d.host, index))
		if err != nil {
			return nil, err
		}
		return call(ctx, &api.Request{Method: "PATCH", Path: resourcePath + "/" + id, Body: body})

	case OpDelete:
		id, err := d.requireID("itemId", index)
		if err != nil {
			return nil, err
		}
		return executeDelete(ctx, call, resourcePath, id)

	case OpGet:
		id, err := d.requireID("itemId", index)
		if err != nil {
			return nil, err
		}
		return executeGet(ctx, call, resourcePath, id, fieldSelectionParam(d.host, index))

	case OpGetRaw:
		id, err := d.requireID("itemId", index)
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
		return nil, unknownOperation(ResourceItem, op)
	}
}

// rawJSONParam reads the raw-JSON textarea parameter.
func rawJSONParam(host Host, index int) any {
	value, _ := host.Parameter("jsonData", index)
	return value
}
