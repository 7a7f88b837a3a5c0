package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurity(t *testing.T) {
	tests := []struct {
		name        string
		isDev       bool
		checkHeader string
		wantValue   string
	}{
		{name: "nosniff", checkHeader: "X-Content-Type-Options", wantValue: "nosniff"},
		{name: "no framing", checkHeader: "X-Frame-Options", wantValue: "DENY"},
		{name: "no referrer", checkHeader: "Referrer-Policy", wantValue: "no-referrer"},
		{name: "CSP", checkHeader: "Content-Security-Policy", wantValue: "default-src 'none'; frame-ancestors 'none'"},
		{name: "COOP", checkHeader: "Cross-Origin-Opener-Policy", wantValue: "same-origin"},
		{name: "CORP", checkHeader: "Cross-Origin-Resource-Policy", wantValue: "same-origin"},
		{name: "no caching", checkHeader: "Cache-Control", wantValue: "no-store"},
		{name: "HSTS in production", checkHeader: "Strict-Transport-Security", wantValue: "max-age=31536000; includeSubDomains"},
		{name: "no HSTS in development", isDev: true, checkHeader: "Strict-Transport-Security", wantValue: ""},
		{name: "no legacy XSS header", checkHeader: "X-XSS-Protection", wantValue: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Security(SecurityConfig{IsDevelopment: tt.isDev})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cashcards/99", nil))

			if got := rec.Header().Get(tt.checkHeader); got != tt.wantValue {
				t.Errorf("header %s = %q, want %q", tt.checkHeader, got, tt.wantValue)
			}
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	tests := []struct {
		name          string
		maxBytes      int64
		contentLength int64
		body          string
		wantStatus    int
	}{
		{
			name:          "small body allowed",
			maxBytes:      1024,
			contentLength: 14,
			body:          `{"amount":1.5}`,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "content-length exceeds limit",
			maxBytes:      10,
			contentLength: 100,
			body:          `{"amount":123456789.00, "id": 99}`,
			wantStatus:    http.StatusRequestEntityTooLarge,
		},
		{
			name:          "unknown length cut off while streaming",
			maxBytes:      10,
			contentLength: -1,
			body:          `{"amount":123456789.00}`,
			wantStatus:    http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := MaxBodySize(tt.maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, err := io.Copy(io.Discard, r.Body); err != nil {
					var maxErr *http.MaxBytesError
					if errors.As(err, &maxErr) {
						w.WriteHeader(http.StatusRequestEntityTooLarge)
						return
					}
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/cashcards", strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("body = %q, want empty", rec.Body.String())
			}
		})
	}
}
