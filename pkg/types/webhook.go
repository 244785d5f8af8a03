package types

// WebhookPayload is the raw shape Directus flows POST to a webhook URL.
// Directus is loose about which identifying key it sends, so all candidates
// are modeled and the trigger normalizer picks one.
type WebhookPayload struct {
	Event      string         `json:"event,omitempty"`
	Collection string         `json:"collection,omitempty"`
	Key        string         `json:"key,omitempty"`
	ID         string         `json:"id,omitempty"`
	Keys       []string       `json:"keys,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// WebhookEvent is the canonical event envelope emitted to the workflow after
// normalization.
type WebhookEvent struct {
	Event      string         `json:"event"`
	Collection string         `json:"collection,omitempty"`
	Action     string         `json:"action"`
	Payload    map[string]any `json:"payload"`
	ID         string         `json:"id,omitempty"`
	Key        string         `json:"key"`
	Keys       []string       `json:"keys"`
	Timestamp  string         `json:"timestamp"`
}
