package trigger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directus-community/directus-node/internal/api"
	"github.com/directus-community/directus-node/pkg/types"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name    string
		payload types.WebhookPayload
		want    string
	}{
		{
			name:    "key first",
			payload: types.WebhookPayload{Key: "k1", ID: "i1", Keys: []string{"s1"}},
			want:    "k1",
		},
		{
			name:    "id second",
			payload: types.WebhookPayload{ID: "i1", Keys: []string{"s1"}},
			want:    "i1",
		},
		{
			name:    "first of keys third",
			payload: types.WebhookPayload{Keys: []string{"s1", "s2"}},
			want:    "s1",
		},
		{
			name:    "nested payload id",
			payload: types.WebhookPayload{Payload: map[string]any{"id": "p1"}},
			want:    "p1",
		},
		{
			name:    "nested payload key",
			payload: types.WebhookPayload{Payload: map[string]any{"key": "p2"}},
			want:    "p2",
		},
		{
			name:    "nothing fails closed",
			payload: types.WebhookPayload{Payload: map[string]any{"title": "x"}},
			want:    "",
		},
		{
			name:    "non-string nested id ignored",
			payload: types.WebhookPayload{Payload: map[string]any{"id": 42}},
			want:    "",
		},
		{
			name:    "empty keys slice skipped",
			payload: types.WebhookPayload{Keys: []string{""}},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractID(tt.payload); got != tt.want {
				t.Errorf("ExtractID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeCreateEvent(t *testing.T) {
	n := NewNormalizer(nil, nil)
	payload := types.WebhookPayload{
		Collection: "articles",
		Key:        "5",
		Payload:    map[string]any{"title": "Hello"},
	}

	got := n.Normalize(context.Background(), payload, "item", "create")

	assert.Equal(t, "items.create", got.Event)
	assert.Equal(t, "articles", got.Collection)
	assert.Equal(t, "create", got.Action)
	assert.Equal(t, "5", got.ID)
	assert.Equal(t, "5", got.Key)
	assert.Equal(t, []string{"5"}, got.Keys)
	assert.Equal(t, map[string]any{"title": "Hello"}, got.Payload)
	assert.NotEmpty(t, got.Timestamp)
}

func TestNormalizeKeepsExplicitEventName(t *testing.T) {
	n := NewNormalizer(nil, nil)
	payload := types.WebhookPayload{Event: "items.create.custom", Collection: "articles", Key: "1"}

	got := n.Normalize(context.Background(), payload, "item", "create")
	assert.Equal(t, "items.create.custom", got.Event)
}

func TestNormalizeDefaultsCollectionForItems(t *testing.T) {
	n := NewNormalizer(nil, nil)
	got := n.Normalize(context.Background(), types.WebhookPayload{Key: "1"}, "item", "delete")
	assert.Equal(t, "unknown", got.Collection)

	got = n.Normalize(context.Background(), types.WebhookPayload{Key: "u1"}, "user", "create")
	assert.Empty(t, got.Collection, "non-item events carry no collection")
	assert.Equal(t, "users.create", got.Event)
}

func TestNormalizeEmptyPayload(t *testing.T) {
	n := NewNormalizer(nil, nil)
	got := n.Normalize(context.Background(), types.WebhookPayload{}, "file", "delete")

	assert.NotNil(t, got.Payload)
	assert.Empty(t, got.ID)
	assert.Equal(t, []string{}, got.Keys)
}

func TestNormalizeUpdateRefetchesFullRecord(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":{"id":"5","title":"Hello","body":"Full text"}}`))
	}))
	defer server.Close()

	client, err := api.NewClient(types.Credentials{URL: server.URL, Token: "t"}, api.NewHTTPDoer(), nil)
	require.NoError(t, err)

	n := NewNormalizer(client, nil)
	payload := types.WebhookPayload{
		Collection: "articles",
		Key:        "5",
		Payload:    map[string]any{"title": "Hello"},
	}

	got := n.Normalize(context.Background(), payload, "item", "update")

	assert.Equal(t, "/items/articles/5", gotPath)
	assert.Equal(t, "Full text", got.Payload["body"])
}

func TestNormalizeUpdateFallsBackOnRefetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, err := api.NewClient(types.Credentials{URL: server.URL, Token: "t"}, api.NewHTTPDoer(), nil)
	require.NoError(t, err)

	n := NewNormalizer(client, nil)
	payload := types.WebhookPayload{Key: "u1", Payload: map[string]any{"status": "active"}}

	got := n.Normalize(context.Background(), payload, "user", "update")
	assert.Equal(t, map[string]any{"status": "active"}, got.Payload)
}

func TestNormalizeUserUpdateRefetchPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":{"id":"u1","email":"a@example.com"}}`))
	}))
	defer server.Close()

	client, err := api.NewClient(types.Credentials{URL: server.URL, Token: "t"}, api.NewHTTPDoer(), nil)
	require.NoError(t, err)

	n := NewNormalizer(client, nil)
	got := n.Normalize(context.Background(), types.WebhookPayload{Key: "u1"}, "user", "update")

	assert.Equal(t, "/users/u1", gotPath)
	assert.Equal(t, "a@example.com", got.Payload["email"])
}
