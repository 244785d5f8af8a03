package crypto

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	e := NewEncryptor("correct horse battery staple")
	plaintext := []byte(`{"url":"https://directus.example.com","token":"secret"}`)

	blob, err := e.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if bytes.Contains(blob, []byte("secret")) {
		t.Fatal("ciphertext contains plaintext")
	}

	got, err := e.Decrypt(blob)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("round trip mismatch: %q", got)
	}
}

func TestEncryptProducesUniqueBlobs(t *testing.T) {
	e := NewEncryptor("password-123")
	a, err := e.Encrypt([]byte("same input"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Encrypt([]byte("same input"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("two encryptions of the same input produced identical blobs")
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	blob, err := NewEncryptor("password-123").Encrypt([]byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewEncryptor("password-456").Decrypt(blob); err == nil {
		t.Error("decryption with the wrong password succeeded")
	}
}

func TestDecryptRejectsTruncatedBlob(t *testing.T) {
	e := NewEncryptor("password-123")
	if _, err := e.Decrypt([]byte("short")); err == nil {
		t.Error("truncated blob accepted")
	}
}

func TestDecryptRejectsTamperedBlob(t *testing.T) {
	e := NewEncryptor("password-123")
	blob, err := e.Encrypt([]byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	blob[len(blob)-1] ^= 0xff
	if _, err := e.Decrypt(blob); err == nil {
		t.Error("tampered blob accepted")
	}
}

func TestStringRoundTrip(t *testing.T) {
	e := NewEncryptor("password-123")
	sealed, err := e.EncryptString("hello")
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.DecryptString(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("DecryptString() = %q", got)
	}

	if _, err := e.DecryptString("not base64!!!"); err == nil {
		t.Error("invalid base64 accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345678"); err != nil {
		t.Errorf("8-character password rejected: %v", err)
	}
	if err := ValidatePassword("1234567"); err == nil {
		t.Error("7-character password accepted")
	}
}
