package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorsMiddleware(t *testing.T) {
	testCases := []struct {
		name           string
		allowed        []string
		origin         string
		userAgent      string
		path           string
		expectCors     bool
		expectedOrigin string
		expectedStatus int
	}{
		{
			name:           "AllowedOrigin",
			origin:         "https://repit.app",
			path:           "/workouts",
			expectCors:     true,
			expectedOrigin: "https://repit.app",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "ConfiguredOrigin",
			allowed:        []string{"https://gym.example.com"},
			origin:         "https://gym.example.com",
			path:           "/workouts",
			expectCors:     true,
			expectedOrigin: "https://gym.example.com",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "DefaultOriginNotAllowedWhenConfigured",
			allowed:        []string{"https://gym.example.com"},
			origin:         "https://repit.app",
			path:           "/workouts",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "NotAllowedOrigin",
			origin:         "https://www.notallowed.com",
			path:           "/workouts",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Curl",
			userAgent:      "curl/8.4.0",
			path:           "/stats",
			expectCors:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "MCPWithoutOrigin",
			userAgent:      "unknown-agent",
			path:           "/mcp",
			expectCors:     true,
			expectedOrigin: "*",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "UnknownAgent",
			userAgent:      "unknown-agent",
			path:           "/workouts",
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req, err := http.NewRequest("GET", tc.path, nil)
			require.NoError(t, err)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("User-Agent", tc.userAgent)

			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})
			Cors(tc.allowed...)(nextHandler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectCors, nextCalled)
			if tc.expectCors {
				assert.Equal(t, tc.expectedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
