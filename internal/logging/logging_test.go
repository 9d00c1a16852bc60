package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)

	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}

	logger.WithField("path", "/api").Info("request")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if entry["path"] != "/api" || entry["msg"] != "request" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	logger := New("loud", "text", &bytes.Buffer{})
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info fallback, got %s", logger.GetLevel())
	}
}
