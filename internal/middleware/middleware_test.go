package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseJSONBody(t *testing.T) {
	type payload struct {
		QRCode string `json:"qr_code"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"qr_code":"LOC42"}`, false},
		{"unknown field", `{"qr_code":"LOC42","extra":1}`, true},
		{"malformed", `{"qr_code":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/scan-qr/", strings.NewReader(tt.body))
			var dst payload
			err := ParseJSONBody(req, &dst)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseJSONBody error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, http.StatusForbidden, "access token expired")

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("expected {error} payload, got %s", rec.Body.String())
	}
}

func TestWithLoggingPreservesStatus(t *testing.T) {
	handler := WithLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("middleware altered status: %d", rec.Code)
	}
}
