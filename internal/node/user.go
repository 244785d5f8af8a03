package node

import (
	"context"

	"github.com/directus-community/directus-node/internal/api"
)

// executeUser handles all user operations against /users.
func (d *Dispatcher) executeUser(ctx context.Context, op Operation, index int, call requestFn) (any, error) {
	const resourcePath = "/users"

	switch op {
	case OpInvite:
		email := stringParam(d.host, "email", index)
		if email == "" {
			return nil, &api.ValidationError{Field: "email", Message: "Email is required for user invitation"}
		}
		if err := d.validator.ValidateEmail(email); err != nil {
			return nil, &api.ValidationError{Field: "email", Message: err.Error()}
		}

		body := map[string]any{"email": email}
		if role := stringParam(d.host, "role", index); role != "" {
			body["role"] = role
		}
		if inviteURL := stringParam(d.host, "invite_url", index); inviteURL != "" {
			body["invite_url"] = inviteURL
		}

		response, err := call(ctx, &api.Request{Method: "POST", Path: resourcePath + "/invite", Body: body})
		if err != nil {
			return nil, err
		}

		// Merge a fixed envelope under the server response so downstream
		// steps can branch without knowing the server-specific shape. The
		// data envelope is unwrapped here rather than in shapeResponse so
		// the fixed keys survive the merge.
		result := map[string]any{
			"success": true,
			"message": "User invitation sent successfully",
			"email":   email,
			"status":  "invited",
		}
		serverFields, _ := response.(map[string]any)
		if data, present := serverFields["data"]; present {
			serverFields, _ = data.(map[string]any)
		}
		for k, v := range serverFields {
			result[k] = v
		}
		return result, nil

	case OpCreate:
		return executeCreate(ctx, call, resourcePath, fieldListParam(d.host, "userFields", index))

	case OpCreateRaw:
		body, err := ParseRawBody(rawJSONParam(d.host, index))
		if err != nil {
			return nil, err
		}
		return call(ctx, &api.Request{Method: "POST", Path: resourcePath, Body: body})

	case OpUpdate:
		id, err := d.requireID("userId", index)
		if err != nil {
			return nil, err
		}
		return executeUpdate(ctx, call, resourcePath, id, fieldListParam(d.host, "userFields", index))

	case OpUpdateRaw:
		id, err := d.requireID("userId", index)
		if err != nil {
			return nil, err
		}
		body, err := ParseRawBody(rawJSONParam(d.host, index))
		if err != nil {
			return nil, err
		}
		return call(ctx, &api.Request{Method: "PATCH", Path: resourcePath + "/" + id, Body: body})

	case OpDelete:
		id, err := d.requireID("userId", index)
		if err != nil {
			return nil, err
		}
		return executeDelete(ctx, call, resourcePath, id)

	case OpGet:
		id, err := d.requireID("userId", index)
		if err != nil {
			return nil, err
		}
		return executeGet(ctx, call, resourcePath, id, fieldSelectionParam(d.host, index))

	case OpGetRaw:
		id, err := d.requireID("userId", index)
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
		return nil, unknownOperation(ResourceUser, op)
	}
}
