package httpx

import (
	"net/http"
	"testing"
)

func TestNewStatusError_MessageExtraction(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "message field",
			status: 400,
			body:   `{"message":"Invalid marketplace"}`,
			want:   "HTTP 400: Invalid marketplace",
		},
		{
			name:   "error_description field",
			status: 400,
			body:   `{"error":"invalid_grant","error_description":"The request has an invalid grant parameter"}`,
			want:   "HTTP 400: The request has an invalid grant parameter",
		},
		{
			name:   "errors array",
			status: 403,
			body:   `{"errors":[{"code":"Unauthorized","message":"Access to requested resource is denied"}]}`,
			want:   "HTTP 403: Access to requested resource is denied",
		},
		{
			name:   "errors array with detail",
			status: 400,
			body:   `{"errors":[{"detail":"Field 'q' is required"}]}`,
			want:   "HTTP 400: Field 'q' is required",
		},
		{
			name:   "bare error string",
			status: 401,
			body:   `{"error":"unauthorized"}`,
			want:   "HTTP 401: unauthorized",
		},
		{
			name:   "unparseable body falls back to status text",
			status: 503,
			body:   `<html>Service Unavailable</html>`,
			want:   "HTTP 503: Service Unavailable",
		},
		{
			name:   "empty body",
			status: 500,
			body:   "",
			want:   "HTTP 500: Internal Server Error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewStatusError(tt.status, []byte(tt.body))
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestStatusPredicates(t *testing.T) {
	auth := NewStatusError(http.StatusUnauthorized, nil)
	if !IsAuth(auth) {
		t.Error("IsAuth(401) = false")
	}
	if !IsAuth(NewStatusError(http.StatusForbidden, nil)) {
		t.Error("IsAuth(403) = false")
	}
	if IsAuth(NewStatusError(http.StatusNotFound, nil)) {
		t.Error("IsAuth(404) = true")
	}
	if !IsThrottle(NewStatusError(http.StatusTooManyRequests, nil)) {
		t.Error("IsThrottle(429) = false")
	}
	if !IsNotFound(NewStatusError(http.StatusNotFound, nil)) {
		t.Error("IsNotFound(404) = false")
	}
	if IsAuth(nil) {
		t.Error("IsAuth(nil) = true")
	}
}

func TestNewStatusError_TruncatesBody(t *testing.T) {
	big := make([]byte, maxErrorBody*2)
	for i := range big {
		big[i] = 'x'
	}
	err := NewStatusError(500, big)
	if len(err.Body) != maxErrorBody {
		t.Errorf("Body length = %d, want %d", len(err.Body), maxErrorBody)
	}
}
