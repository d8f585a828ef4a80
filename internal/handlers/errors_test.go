package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, httptest.NewRequest("GET", "/", nil), 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	body := strings.TrimSpace(recorder.Body.String())
	if body != `{"detail":"Teapot"}` {
		t.Fatalf("expected detail body, got %q", body)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, httptest.NewRequest("POST", "/api/login", nil), 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondWithErrorSkipsLogWithoutError(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	respondWithError(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil), 400, "bad", "", nil)

	if buf.Len() != 0 {
		t.Fatalf("expected no log output, got %q", buf.String())
	}
}

func TestErrorLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Error submitting answers", errors.New("disk full"))
	})

	req := httptest.NewRequest("POST", "/api/submit", nil)
	req.Header.Set("X-Request-ID", "req-42")
	Logging(failing).ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "[req-42] Error submitting answers: disk full") {
		t.Fatalf("expected request id in error log, got %q", buf.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst sessionRequest

	req := httptest.NewRequest("POST", "/", strings.NewReader(""))
	if err := decodeJSON(req, &dst, true); err != nil {
		t.Fatalf("empty body with allowEmpty: %v", err)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(""))
	if err := decodeJSON(req, &dst, false); err == nil {
		t.Fatal("expected error for empty body")
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"session_id":"abc"}`))
	if err := decodeJSON(req, &dst, false); err != nil || dst.SessionID != "abc" {
		t.Fatalf("decodeJSON() = %v, session_id %q", err, dst.SessionID)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	if err := decodeJSON(req, &dst, true); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
