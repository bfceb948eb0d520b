package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestIDRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		*seen = RequestIDFromContext(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequestIDEchoesCallerValue(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp := httptest.NewRecorder()
	requestIDRouter(&seen).ServeHTTP(resp, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", resp.Header().Get(RequestIDHeader))
}

func TestRequestIDReplacesMissingOrUnsafeValues(t *testing.T) {
	for _, incoming := range []string{"", "has space", strings.Repeat("x", maxRequestIDLen+1)} {
		var seen string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if incoming != "" {
			req.Header.Set(RequestIDHeader, incoming)
		}
		resp := httptest.NewRecorder()
		requestIDRouter(&seen).ServeHTTP(resp, req)

		_, err := uuid.Parse(seen)
		require.NoError(t, err, incoming)
		assert.Equal(t, seen, resp.Header().Get(RequestIDHeader))
	}
}
