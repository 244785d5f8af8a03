package node

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/directus-community/directus-node/internal/api"
	"github.com/directus-community/directus-node/internal/audit"
	"github.com/directus-community/directus-node/internal/validation"
	"github.com/directus-community/directus-node/pkg/types"
)

// DefaultLimit is the page size of list operations when the user neither
// requests all records nor sets an explicit limit.
const DefaultLimit = 50

// Dispatcher routes configured operations to the Directus API. One dispatcher
// serves one execution of the node; the host invokes it once per batch of
// input records.
type Dispatcher struct {
	host      Host
	client    *api.Client
	validator *validation.Validator
	log       *audit.Logger
}

// NewDispatcher creates a dispatcher. The audit logger may be nil.
func NewDispatcher(host Host, client *api.Client, log *audit.Logger) *Dispatcher {
	return &Dispatcher{
		host:      host,
		client:    client,
		validator: validation.NewValidator(),
		log:       log,
	}
}

// Execute processes inputCount input records sequentially. With
// continueOnFail set, a failing record becomes an error-shaped output record
// and processing continues; otherwise the first failure aborts the batch.
func (d *Dispatcher) Execute(ctx context.Context, inputCount int, continueOnFail bool) ([]types.Record, error) {
	results := make([]types.Record, 0, inputCount)

	for i := 0; i < inputCount; i++ {
		records, err := d.executeOne(ctx, i)
		if err != nil {
			if continueOnFail {
				d.log.LogError("dispatcher", err, map[string]any{"index": i})
				results = append(results, types.Record{"error": err.Error()})
				continue
			}
			return nil, err
		}
		results = append(results, records...)
	}
	return results, nil
}

// executeOne runs the configured operation for one input record and shapes
// its response into output records.
func (d *Dispatcher) executeOne(ctx context.Context, index int) ([]types.Record, error) {
	resource, err := ParseResource(stringParam(d.host, "resource", index))
	if err != nil {
		return nil, err
	}
	operation, err := ParseOperation(resource, stringParam(d.host, "operation", index))
	if err != nil {
		return nil, err
	}

	call := func(ctx context.Context, req *api.Request) (any, error) {
		return d.client.Call(ctx, req)
	}

	var response any
	switch resource {
	case ResourceItem:
		response, err = d.executeItem(ctx, operation, index, call)
	case ResourceUser:
		response, err = d.executeUser(ctx, operation, index, call)
	case ResourceFile:
		response, err = d.executeFile(ctx, operation, index, call)
	}
	if err != nil {
		return nil, err
	}
	return d.shapeResponse(resource, index, response), nil
}

// shapeResponse unwraps the data envelope, applies the optional simplifier,
// and fans list responses out into one record per element.
func (d *Dispatcher) shapeResponse(resource Resource, index int, response any) []types.Record {
	if s, ok := response.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			response = decoded
		}
	}
	if m, ok := response.(map[string]any); ok {
		if data, present := m["data"]; present && data != nil {
			response = data
		}
	}

	if list, ok := response.([]any); ok {
		simplify := boolParam(d.host, "simplify", index, false)
		records := make([]types.Record, 0, len(list))
		for _, entry := range list {
			record, ok := entry.(map[string]any)
			if !ok {
				records = append(records, types.Record{"data": entry})
				continue
			}
			if simplify {
				switch resource {
				case ResourceUser:
					record = SimplifyUser(record)
				case ResourceFile:
					record = SimplifyFile(record)
				}
			}
			records = append(records, record)
		}
		return records
	}

	if record, ok := response.(map[string]any); ok {
		return []types.Record{record}
	}
	if response == nil {
		return nil
	}
	return []types.Record{{"data": response}}
}

// requireID reads and validates the record ID parameter for single-record
// operations.
func (d *Dispatcher) requireID(name string, index int) (string, error) {
	id := stringParam(d.host, name, index)
	if err := d.validator.ValidateID(id); err != nil {
		return "", &api.ValidationError{Field: name, Message: err.Error()}
	}
	return id, nil
}

// listParams reads the shared parameters of a getAll operation.
func (d *Dispatcher) listParams(index int) (returnAll bool, limit int, fields []string) {
	returnAll = boolParam(d.host, "returnAll", index, false)
	limit = intParam(d.host, "limit", index, DefaultLimit)
	fields = fieldSelectionParam(d.host, index)
	return returnAll, limit, fields
}

// unknownOperation is the defensive fallback for a dispatch switch that
// received an operation outside its resource's set. ParseOperation already
// rejects those, so reaching this indicates a version mismatch.
func unknownOperation(resource Resource, op Operation) error {
	return fmt.Errorf("%w: %q for resource %q", api.ErrUnknownOperation, op, resource)
}
