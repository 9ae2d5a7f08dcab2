package main

import (
	"net/http"
	"testing"

	"github.com/hireloop/backend/services"
)

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins string
		expected       bool
	}{
		{
			name:           "allowed origin",
			origin:         "http://localhost:3000",
			allowedOrigins: "http://localhost:3000,https://app.example.com",
			expected:       true,
		},
		{
			name:           "allowed origin with whitespace in list",
			origin:         "https://app.example.com",
			allowedOrigins: "http://localhost:3000, https://app.example.com",
			expected:       true,
		},
		{
			name:           "disallowed origin",
			origin:         "https://evil.example.com",
			allowedOrigins: "http://localhost:3000",
			expected:       false,
		},
		{
			name:           "no allowed origins configured denies everything",
			origin:         "http://localhost:3000",
			allowedOrigins: "",
			expected:       false,
		},
		{
			name:           "empty origin header",
			origin:         "",
			allowedOrigins: "http://localhost:3000",
			expected:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/api/v1/ws", nil)
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			if got := services.CheckOrigin(req, tt.allowedOrigins); got != tt.expected {
				t.Errorf("CheckOrigin() = %v, want %v", got, tt.expected)
			}
		})
	}
}
