package trigger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/directus-community/directus-node/internal/api"
	"github.com/directus-community/directus-node/internal/audit"
)

// FlowManager provisions the Directus flows that forward events to a webhook
// URL. Flows are looked up by name before creation so re-activating a
// workflow reuses what is already there.
type FlowManager struct {
	client *api.Client
	log    *audit.Logger
}

// NewFlowManager creates a flow manager around an api client.
func NewFlowManager(client *api.Client, log *audit.Logger) *FlowManager {
	return &FlowManager{client: client, log: log}
}

// FlowConfig describes the event subscription to provision.
type FlowConfig struct {
	Resource   string // item, user, file
	Event      string // create, update, delete
	Collection string // item resource only
	WebhookURL string
}

const flowNamePrefix = "Workflow"

// testURLMarker distinguishes a host's test webhook URL from its production
// one.
const testURLMarker = "webhook-test"

// Ensure creates or reuses the flows for cfg and returns the ID of the flow
// matching the given webhook URL. When the URL is a test URL, the production
// flow is provisioned alongside it so activation later finds it ready.
func (m *FlowManager) Ensure(ctx context.Context, cfg FlowConfig) (string, error) {
	isTestMode := strings.Contains(cfg.WebhookURL, testURLMarker)

	resourceName := cfg.Collection
	if resourceName == "" {
		resourceName = cfg.Resource
	}
	prodName := fmt.Sprintf("%s - %s %s", flowNamePrefix, capitalizeWords(cfg.Event), capitalizeWords(resourceName))
	testName := prodName + " (test)"

	testURL := cfg.WebhookURL
	if !strings.Contains(testURL, testURLMarker) {
		testURL = strings.Replace(testURL, "webhook", testURLMarker, 1)
	}
	prodURL := strings.Replace(cfg.WebhookURL, testURLMarker, "webhook", 1)

	existing, err := m.listFlows(ctx)
	if err != nil {
		// A failed listing only costs deduplication.
		existing = nil
	}

	if isTestMode {
		testID, err := m.setupFlow(ctx, cfg, testName, testURL, existing[testName])
		if err != nil {
			return "", fmt.Errorf("failed to create/configure flows: %w", err)
		}
		if _, err := m.setupFlow(ctx, cfg, prodName, prodURL, existing[prodName]); err != nil {
			return "", fmt.Errorf("failed to create/configure flows: %w", err)
		}
		return testID, nil
	}

	prodID, err := m.setupFlow(ctx, cfg, prodName, prodURL, existing[prodName])
	if err != nil {
		return "", fmt.Errorf("failed to create/configure flows: %w", err)
	}
	return prodID, nil
}

// Exists reports whether a previously provisioned flow is still present.
func (m *FlowManager) Exists(ctx context.Context, flowID string) bool {
	if flowID == "" {
		return false
	}
	_, err := m.client.Call(ctx, &api.Request{Method: "GET", Path: "/flows/" + flowID})
	return err == nil
}

// Delete removes a provisioned flow. A flow that is already gone is not an
// error.
func (m *FlowManager) Delete(ctx context.Context, flowID string) error {
	if flowID == "" {
		return nil
	}
	_, err := m.client.Call(ctx, &api.Request{Method: "DELETE", Path: "/flows/" + flowID})
	var notFound *api.NotFoundError
	if err != nil && !errors.As(err, &notFound) {
		m.log.LogError("trigger", err, map[string]any{"flow_id": flowID})
		return err
	}
	m.log.Log(audit.Event{Type: audit.EventFlowDelete, Resource: flowID, Result: "success"})
	return nil
}

// listFlows returns the existing flows keyed by name.
func (m *FlowManager) listFlows(ctx context.Context) (map[string]string, error) {
	response, err := m.client.Call(ctx, &api.Request{Method: "GET", Path: "/flows"})
	if err != nil {
		return nil, err
	}

	var entries []any
	switch v := response.(type) {
	case []any:
		entries = v
	case map[string]any:
		if data, ok := v["data"].([]any); ok {
			entries = data
		}
	}

	flows := make(map[string]string, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["id"].(string)
		name, _ := m["name"].(string)
		if id != "" && name != "" {
			flows[name] = id
		}
	}
	return flows, nil
}

// setupFlow creates (or reuses) one flow and wires its operations. For
// user.update, a filter operation drops events whose payload is only a
// last_page change, since Directus writes that field on every navigation.
func (m *FlowManager) setupFlow(ctx context.Context, cfg FlowConfig, name, webhookURL, existingID string) (string, error) {
	flowID := existingID
	if flowID == "" {
		scope := scopeName(cfg.Resource) + "." + cfg.Event
		flowBody := map[string]any{
			"name":           name,
			"icon":           "bolt",
			"status":         "active",
			"trigger":        "event",
			"accountability": "all",
			"options": map[string]any{
				"type":  "action",
				"scope": []string{scope},
			},
		}
		if cfg.Resource == "item" {
			flowBody["options"].(map[string]any)["collections"] = []string{cfg.Collection}
		}

		response, err := m.client.Call(ctx, &api.Request{Method: "POST", Path: "/flows", Body: flowBody})
		if err != nil {
			return "", err
		}
		flowID = dataID(response)
		if flowID == "" {
			return "", fmt.Errorf("failed to create flow: %s", name)
		}
	}

	requestOpID, err := m.createOperation(ctx, map[string]any{
		"flow":       flowID,
		"name":       "Send to webhook",
		"key":        "send_to_webhook",
		"type":       "request",
		"position_x": 19,
		"position_y": 1,
		"options": map[string]any{
			"method":  "POST",
			"url":     webhookURL,
			"headers": []map[string]any{{"header": "Content-Type", "value": "application/json"}},
			"body":    "{{$trigger}}",
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create request op for %s: %w", name, err)
	}

	entryOpID := requestOpID
	if cfg.Resource == "user" && cfg.Event == "update" {
		filterOpID, err := m.createOperation(ctx, map[string]any{
			"flow":       flowID,
			"name":       "Filter last_page updates",
			"key":        "filter_last_page",
			"type":       "exec",
			"position_x": 1,
			"position_y": 1,
			"options": map[string]any{
				"code": lastPageFilterScript,
			},
			"resolve": requestOpID,
		})
		if err != nil {
			return "", fmt.Errorf("failed to create filter op for %s: %w", name, err)
		}
		entryOpID = filterOpID
	}

	if _, err := m.client.Call(ctx, &api.Request{
		Method: "PATCH",
		Path:   "/flows/" + flowID,
		Body:   map[string]any{"operation": entryOpID},
	}); err != nil {
		return "", err
	}

	m.log.Log(audit.Event{
		Type:     audit.EventFlowProvision,
		Resource: flowID,
		Action:   name,
		Result:   "success",
	})
	return flowID, nil
}

func (m *FlowManager) createOperation(ctx context.Context, body map[string]any) (string, error) {
	response, err := m.client.Call(ctx, &api.Request{Method: "POST", Path: "/operations", Body: body})
	if err != nil {
		return "", err
	}
	id := dataID(response)
	if id == "" {
		return "", fmt.Errorf("operation response is missing an id")
	}
	return id, nil
}

// dataID pulls data.id out of a create response.
func dataID(response any) string {
	body, ok := response.(map[string]any)
	if !ok {
		return ""
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := data["id"].(string)
	return id
}

// capitalizeWords uppercases each word, splitting on spaces, underscores and
// hyphens.
func capitalizeWords(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
	for i, word := range fields {
		fields[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(fields, " ")
}

const lastPageFilterScript = `module.exports = async function(data) {
	const payload = data.$trigger.payload || {};
	const payloadKeys = Object.keys(payload);
	const onlyLastPage = payloadKeys.length === 1 && payloadKeys[0] === 'last_page';
	if (onlyLastPage) {
		throw new Error('Skipping last_page update');
	}
	return data.$trigger;
};`
