// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/filmrec/internal/logging"
)

// serveLogged runs handler behind RequestID and AccessLog with a buffer logger
// in the request context.
func serveLogged(t *testing.T, slow time.Duration, handler http.HandlerFunc) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	logger := logging.NewTestLogger(&buf)

	chain := RequestID(AccessLog(slow)(handler))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader("{}"))
	req = req.WithContext(logging.ContextWithLogger(req.Context(), logger))
	chain.ServeHTTP(httptest.NewRecorder(), req)

	line := strings.TrimSpace(buf.String())
	if line == "" {
		return nil
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, line)
	}
	return entry
}

func TestAccessLog_ServerErrorAtWarn(t *testing.T) {
	t.Parallel()

	entry := serveLogged(t, time.Hour, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})
	if entry == nil {
		t.Fatal("no log entry written")
	}

	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if entry["status"] != float64(500) {
		t.Errorf("status = %v, want 500", entry["status"])
	}
	if entry["bytes"] != float64(4) {
		t.Errorf("bytes = %v, want 4", entry["bytes"])
	}
	if id, _ := entry["request_id"].(string); id == "" {
		t.Error("request_id missing from access log entry")
	}
	if entry["method"] != http.MethodPost || entry["path"] != "/api/v1/recommendations" {
		t.Errorf("method, path = %v, %v", entry["method"], entry["path"])
	}
}

func TestAccessLog_SlowRequest(t *testing.T) {
	t.Parallel()

	entry := serveLogged(t, time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	})
	if entry == nil {
		t.Fatal("no log entry written")
	}
	if entry["level"] != "warn" || entry["slow"] != true {
		t.Errorf("level, slow = %v, %v, want warn, true", entry["level"], entry["slow"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
}

func TestAccessLog_DefaultThreshold(t *testing.T) {
	t.Parallel()

	// A fast 2xx is logged at debug; with the global level at info the
	// event is dropped.
	entry := serveLogged(t, 0, func(w http.ResponseWriter, r *http.Request) {})
	if entry != nil && entry["level"] != "debug" {
		t.Errorf("level = %v, want debug or no entry", entry["level"])
	}
}
