package trigger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directus-community/directus-node/internal/api"
	"github.com/directus-community/directus-node/pkg/types"
)

// fakeDirectus mimics the flow and operation endpoints of a Directus
// instance.
type fakeDirectus struct {
	flows      []map[string]any
	operations []map[string]any
	patches    map[string]map[string]any
	nextID     int
}

func newFakeDirectus() *fakeDirectus {
	return &fakeDirectus{patches: map[string]map[string]any{}}
}

func (f *fakeDirectus) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/flows":
			json.NewEncoder(w).Encode(map[string]any{"data": f.flows})
		case r.Method == "POST" && r.URL.Path == "/flows":
			body := decodeBody(r)
			f.nextID++
			body["id"] = fmt.Sprintf("flow-%d", f.nextID)
			f.flows = append(f.flows, body)
			json.NewEncoder(w).Encode(map[string]any{"data": body})
		case r.Method == "POST" && r.URL.Path == "/operations":
			body := decodeBody(r)
			f.nextID++
			body["id"] = fmt.Sprintf("op-%d", f.nextID)
			f.operations = append(f.operations, body)
			json.NewEncoder(w).Encode(map[string]any{"data": body})
		case r.Method == "PATCH":
			flowID := r.URL.Path[len("/flows/"):]
			f.patches[flowID] = decodeBody(r)
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": flowID}})
		case r.Method == "DELETE":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func decodeBody(r *http.Request) map[string]any {
	data, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = json.Unmarshal(data, &body)
	return body
}

func newFlowManager(t *testing.T, fake *fakeDirectus) *FlowManager {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	client, err := api.NewClient(types.Credentials{URL: server.URL, Token: "t"}, api.NewHTTPDoer(), nil)
	require.NoError(t, err)
	return NewFlowManager(client, nil)
}

func TestEnsureCreatesProductionFlow(t *testing.T) {
	fake := newFakeDirectus()
	m := newFlowManager(t, fake)

	flowID, err := m.Ensure(context.Background(), FlowConfig{
		Resource:   "item",
		Event:      "create",
		Collection: "articles",
		WebhookURL: "http://127.0.0.1:8484/webhook/abc",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, flowID)

	require.Len(t, fake.flows, 1)
	flow := fake.flows[0]
	assert.Equal(t, "Workflow - Create Articles", flow["name"])
	assert.Equal(t, "event", flow["trigger"])

	options := flow["options"].(map[string]any)
	assert.Equal(t, []any{"items.create"}, options["scope"])
	assert.Equal(t, []any{"articles"}, options["collections"])

	require.Len(t, fake.operations, 1)
	op := fake.operations[0]
	assert.Equal(t, "request", op["type"])
	opOptions := op["options"].(map[string]any)
	assert.Equal(t, "http://127.0.0.1:8484/webhook/abc", opOptions["url"])
	assert.Equal(t, "{{$trigger}}", opOptions["body"])

	// The flow entry point is wired to the request operation.
	patch := fake.patches[flowID]
	require.NotNil(t, patch)
	assert.Equal(t, op["id"], patch["operation"])
}

func TestEnsureTestModeProvisionsBothFlows(t *testing.T) {
	fake := newFakeDirectus()
	m := newFlowManager(t, fake)

	flowID, err := m.Ensure(context.Background(), FlowConfig{
		Resource:   "item",
		Event:      "update",
		Collection: "articles",
		WebhookURL: "http://host/webhook-test/abc",
	})
	require.NoError(t, err)

	require.Len(t, fake.flows, 2)
	assert.Equal(t, "Workflow - Update Articles (test)", fake.flows[0]["name"])
	assert.Equal(t, "Workflow - Update Articles", fake.flows[1]["name"])
	assert.Equal(t, fake.flows[0]["id"], flowID, "test mode returns the test flow ID")

	urls := []string{}
	for _, op := range fake.operations {
		urls = append(urls, op["options"].(map[string]any)["url"].(string))
	}
	assert.Contains(t, urls, "http://host/webhook-test/abc")
	assert.Contains(t, urls, "http://host/webhook/abc")
}

func TestEnsureReusesExistingFlow(t *testing.T) {
	fake := newFakeDirectus()
	fake.flows = []map[string]any{
		{"id": "existing-1", "name": "Workflow - Create Articles"},
	}
	m := newFlowManager(t, fake)

	flowID, err := m.Ensure(context.Background(), FlowConfig{
		Resource:   "item",
		Event:      "create",
		Collection: "articles",
		WebhookURL: "http://host/webhook/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "existing-1", flowID)
	assert.Len(t, fake.flows, 1, "no duplicate flow created")
}

func TestEnsureUserUpdateAddsFilterOperation(t *testing.T) {
	fake := newFakeDirectus()
	m := newFlowManager(t, fake)

	flowID, err := m.Ensure(context.Background(), FlowConfig{
		Resource:   "user",
		Event:      "update",
		WebhookURL: "http://host/webhook/abc",
	})
	require.NoError(t, err)

	require.Len(t, fake.operations, 2)
	request := fake.operations[0]
	filter := fake.operations[1]
	assert.Equal(t, "request", request["type"])
	assert.Equal(t, "exec", filter["type"])
	assert.Equal(t, request["id"], filter["resolve"], "filter resolves into the request op")
	assert.Contains(t, filter["options"].(map[string]any)["code"], "last_page")

	// The filter is the flow's entry point.
	assert.Equal(t, filter["id"], fake.patches[flowID]["operation"])
}

func TestDeleteToleratesMissingFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	client, err := api.NewClient(types.Credentials{URL: server.URL, Token: "t"}, api.NewHTTPDoer(), nil)
	require.NoError(t, err)

	m := NewFlowManager(client, nil)
	assert.NoError(t, m.Delete(context.Background(), "gone"))
	assert.NoError(t, m.Delete(context.Background(), ""))
}

func TestExists(t *testing.T) {
	fake := newFakeDirectus()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/flows/flow-1" {
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "flow-1"}})
			return
		}
		fake.handler()(w, r)
	}))
	defer server.Close()
	client, err := api.NewClient(types.Credentials{URL: server.URL, Token: "t"}, api.NewHTTPDoer(), nil)
	require.NoError(t, err)

	m := NewFlowManager(client, nil)
	assert.True(t, m.Exists(context.Background(), "flow-1"))
	assert.False(t, m.Exists(context.Background(), "missing"))
	assert.False(t, m.Exists(context.Background(), ""))
}
