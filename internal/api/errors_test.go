package api

import (
	"errors"
	"testing"
)

func TestFormatErrorBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "empty body",
			body: "",
			want: "An unknown error occurred",
		},
		{
			name: "errors array",
			body: `{"errors":[{"message":"Field \"title\" is required"}]}`,
			want: `Field "title" is required`,
		},
		{
			name: "multiple errors joined",
			body: `{"errors":[{"message":"first"},{"message":"second"}]}`,
			want: "first, second",
		},
		{
			name: "data message",
			body: `{"data":{"message":"nested message"}}`,
			want: "nested message",
		},
		{
			name: "top-level message",
			body: `{"message":"plain message"}`,
			want: "plain message",
		},
		{
			name: "errors array wins over message",
			body: `{"errors":[{"message":"from errors"}],"message":"from message"}`,
			want: "from errors",
		},
		{
			name: "empty error messages fall through",
			body: `{"errors":[{"message":""}],"message":"fallback"}`,
			want: "fallback",
		},
		{
			name: "non-JSON body returned raw",
			body: "502 Bad Gateway",
			want: "502 Bad Gateway",
		},
		{
			name: "JSON without recognizable keys returned raw",
			body: `{"status":"error"}`,
			want: `{"status":"error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatErrorBody([]byte(tt.body)); got != tt.want {
				t.Errorf("FormatErrorBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	t.Run("403 is a permission error", func(t *testing.T) {
		err := StatusError(403, "/collections", nil)
		var perm *PermissionError
		if !errors.As(err, &perm) {
			t.Fatalf("expected PermissionError, got %T", err)
		}
		if perm.Endpoint != "/collections" {
			t.Errorf("endpoint = %q", perm.Endpoint)
		}
		want := "Permission error: Token does not have access to this resource."
		if err.Error() != want {
			t.Errorf("message = %q, want %q", err.Error(), want)
		}
	})

	t.Run("404 is a not-found error", func(t *testing.T) {
		err := StatusError(404, "/fields/missing", nil)
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %T", err)
		}
		if err.Error() != "Endpoint not found: /fields/missing" {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("other statuses carry the mined message", func(t *testing.T) {
		err := StatusError(500, "/items/articles", []byte(`{"errors":[{"message":"db down"}]}`))
		want := "directus request failed (status 500): db down"
		if err.Error() != want {
			t.Errorf("message = %q, want %q", err.Error(), want)
		}
	})
}

func TestInvalidPayloadErrorUnwraps(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &InvalidPayloadError{Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("InvalidPayloadError does not unwrap to its cause")
	}
	if err.Error() != "Invalid JSON format: unexpected end of JSON input" {
		t.Errorf("message = %q", err.Error())
	}
}
