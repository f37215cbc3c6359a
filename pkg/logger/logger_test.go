package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newJSONLogger(t *testing.T, buf *bytes.Buffer) *Logger {
	t.Helper()
	l, err := NewLogger(&Config{Level: DebugLevel, Format: "json", Output: "discard", AppName: "ridepool", Version: "test"})
	if err != nil {
		t.Fatal(err)
	}
	l.SetOutput(buf)
	return l
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("decode %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	base := l.WithField("component", "test")
	base.WithError(errors.New("boom")).Warn("something failed")
	entry := lastEntry(t, &buf)

	if entry["message"] != "something failed" || entry["level"] != "warning" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["error"] != "boom" || entry["component"] != "test" || entry["app"] != "ridepool" {
		t.Fatalf("missing fields in %v", entry)
	}

	// WithField must not leak into the parent.
	l.Info("plain")
	if _, ok := lastEntry(t, &buf)["component"]; ok {
		t.Fatal("child field leaked into parent logger")
	}
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)
	userID, rideID := primitive.NewObjectID(), primitive.NewObjectID()

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, userID)
	ctx = ContextWithRideID(ctx, rideID)
	l.WithContext(ctx).Info("with context")

	entry := lastEntry(t, &buf)
	if entry["request_id"] != "req-1" || entry["user_id"] != userID.Hex() || entry["ride_id"] != rideID.Hex() {
		t.Fatalf("context fields missing: %v", entry)
	}
}

func TestLogAPIRequestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.LogAPIRequest("GET", "/rides", 200, 15*time.Millisecond, nil)
	if e := lastEntry(t, &buf); e["level"] != "info" || e["duration_ms"] != float64(15) {
		t.Fatalf("ok request: %v", e)
	}
	l.LogAPIRequest("POST", "/rides", 502, time.Second, nil)
	if e := lastEntry(t, &buf); e["level"] != "warning" {
		t.Fatalf("failed request: %v", e)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)
	l.SetLevel(WarnLevel)

	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %s", buf.String())
	}
	l.LogRideEvent(primitive.NewObjectID(), "ride_offered", nil)
	if buf.Len() != 0 {
		t.Fatal("ride event logged at warn level")
	}
}
