package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, FormatJSON, false)

	logger.Info("hello", Status(StatusSuccess))
	logger.Debug("hidden")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry[KeyStatus] != StatusSuccess {
		t.Errorf("status = %v, want %s", entry[KeyStatus], StatusSuccess)
	}
}

func TestNewLogger_TextDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "unknown-format", true)

	logger.Debug("visible")

	if !strings.Contains(buf.String(), "msg=visible") {
		t.Errorf("expected text debug output, got %q", buf.String())
	}
}

func TestWithOperation(t *testing.T) {
	result := WithOperation(slog.Default(), "chat.send")
	if result == nil {
		t.Error("WithOperation returned nil")
	}
}

func TestWithComponent(t *testing.T) {
	result := WithComponent(slog.Default(), "relay")
	if result == nil {
		t.Error("WithComponent returned nil")
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{"operation", Operation("chat.send"), KeyOperation, "chat.send"},
		{"endpoint", Endpoint("/chat"), KeyEndpoint, "/chat"},
		{"status", Status(StatusError), KeyStatus, StatusError},
		{"status code", StatusCode(400), KeyStatusCode, "400"},
		{"kind", Kind("transport_error"), KeyKind, "transport_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("test error"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "test error" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "test error")
	}

	attr = Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty string (empty group)", attr.Key)
	}
}

func TestAnonymizeSession(t *testing.T) {
	if got := AnonymizeSession(""); got != "" {
		t.Errorf("AnonymizeSession(\"\") = %q, want empty", got)
	}

	a := AnonymizeSession("4f1c2a9e-0000-4000-8000-000000000001")
	if !strings.HasPrefix(a, "session:") || len(a) != len("session:")+12 {
		t.Errorf("unexpected anonymized session %q", a)
	}
	if a != AnonymizeSession("4f1c2a9e-0000-4000-8000-000000000001") {
		t.Error("AnonymizeSession should be deterministic")
	}
	if a == AnonymizeSession("4f1c2a9e-0000-4000-8000-000000000002") {
		t.Error("different sessions should produce different hashes")
	}
	if strings.Contains(a, "4f1c2a9e") {
		t.Error("anonymized value must not contain the raw identifier")
	}
}

func TestSessionHash(t *testing.T) {
	attr := SessionHash("abc")
	if attr.Key != KeySessionHash {
		t.Errorf("SessionHash key = %q, want %q", attr.Key, KeySessionHash)
	}
	if attr.Value.String() != AnonymizeSession("abc") {
		t.Errorf("SessionHash value = %q", attr.Value.String())
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{"", "<empty>"},
		{"abc123", "[token:6 chars]"},
		{"1//0gLongRefreshToken", "[token:21 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := SanitizeToken(tt.token)
			if result != tt.expected {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, result, tt.expected)
			}
		})
	}
}
