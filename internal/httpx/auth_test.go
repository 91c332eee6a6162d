package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "bearer credential",
			header: "Bearer abc123",
			want:   "abc123",
		},
		{
			name:   "trims surrounding whitespace",
			header: "Bearer   abc123  ",
			want:   "abc123",
		},
		{
			name:   "missing header",
			header: "",
			want:   "",
		},
		{
			name:   "other scheme",
			header: "Basic dXNlcjpwYXNz",
			want:   "",
		},
		{
			name:   "bare token without scheme",
			header: "abc123",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if got := BearerToken(req); got != tt.want {
				t.Errorf("BearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
