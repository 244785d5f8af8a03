package trigger

import (
	"context"
	"time"

	"github.com/directus-community/directus-node/internal/api"
	"github.com/directus-community/directus-node/internal/audit"
	"github.com/directus-community/directus-node/pkg/types"
)

// Normalizer reshapes inbound Directus events into the canonical envelope
// handed to the workflow. The client is optional; without it, update events
// are emitted with whatever partial payload Directus sent.
type Normalizer struct {
	client *api.Client
	log    *audit.Logger
}

// NewNormalizer creates a normalizer. Both arguments may be nil.
func NewNormalizer(client *api.Client, log *audit.Logger) *Normalizer {
	return &Normalizer{client: client, log: log}
}

// ExtractID infers the entity ID from the payload shapes Directus uses:
// a key, an id, the first of keys, then the same two inside the nested
// payload. When none exist it fails closed with an empty string rather than
// guessing further.
func ExtractID(payload types.WebhookPayload) string {
	if payload.Key != "" {
		return payload.Key
	}
	if payload.ID != "" {
		return payload.ID
	}
	if len(payload.Keys) > 0 && payload.Keys[0] != "" {
		return payload.Keys[0]
	}
	if payload.Payload != nil {
		if id, ok := payload.Payload["id"].(string); ok && id != "" {
			return id
		}
		if key, ok := payload.Payload["key"].(string); ok && key != "" {
			return key
		}
	}
	return ""
}

// Normalize builds the canonical event envelope. For update events the full
// record is re-fetched, since Directus webhooks only carry the changed
// fields; a failed re-fetch falls back to the partial payload.
func (n *Normalizer) Normalize(ctx context.Context, payload types.WebhookPayload, resource, event string) types.WebhookEvent {
	data := payload.Payload
	if data == nil {
		data = map[string]any{}
	}
	entityID := ExtractID(payload)

	if event == "update" && entityID != "" && n.client != nil {
		if fetched := n.refetch(ctx, payload, resource, entityID); fetched != nil {
			data = fetched
			if id, ok := fetched["id"].(string); ok && id != "" {
				entityID = id
			}
		}
	}

	eventName := payload.Event
	if eventName == "" {
		eventName = scopeName(resource) + "." + event
	}

	out := types.WebhookEvent{
		Event:     eventName,
		Action:    event,
		Payload:   data,
		ID:        entityID,
		Key:       entityID,
		Keys:      payload.Keys,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if resource == "item" {
		out.Collection = payload.Collection
		if out.Collection == "" {
			out.Collection = "unknown"
		}
	}
	if len(out.Keys) == 0 && entityID != "" {
		out.Keys = []string{entityID}
	}
	if out.Keys == nil {
		out.Keys = []string{}
	}

	n.log.Log(audit.Event{
		Type:     audit.EventTriggerEvent,
		Resource: out.Collection,
		Action:   out.Event,
		Result:   "success",
		Details:  map[string]any{"id": out.ID},
	})
	return out
}

// refetch loads the full record the event refers to. Returns nil on any
// failure so the caller keeps the original payload.
func (n *Normalizer) refetch(ctx context.Context, payload types.WebhookPayload, resource, entityID string) map[string]any {
	var path string
	if resource == "item" {
		collection := payload.Collection
		if collection == "" {
			collection = "unknown"
		}
		path = "/items/" + collection + "/" + entityID
	} else {
		path = "/" + resource + "s/" + entityID
	}

	response, err := n.client.Call(ctx, &api.Request{Method: "GET", Path: path})
	if err != nil {
		n.log.LogError("trigger", err, map[string]any{"path": path})
		return nil
	}
	body, ok := response.(map[string]any)
	if !ok {
		return nil
	}
	if data, ok := body["data"].(map[string]any); ok {
		return data
	}
	return nil
}

// scopeName maps a resource to the Directus event scope prefix.
func scopeName(resource string) string {
	if resource == "item" {
		return "items"
	}
	return resource + "s"
}
