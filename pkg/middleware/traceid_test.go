package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"submgmt/pkg/utils"
)

func TestTraceIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(seen *string) *gin.Engine {
		r := gin.New()
		r.Use(TraceIDMiddleware())
		r.GET("/ping", func(c *gin.Context) {
			*seen = utils.TraceIDFromContext(c.Request.Context())
			c.Status(http.StatusOK)
		})
		return r
	}

	t.Run("generates an id and propagates it to the request context", func(t *testing.T) {
		var seen string
		r := newRouter(&seen)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		header := w.Header().Get(TraceIDHeader)
		require.NotEmpty(t, header)
		_, err := uuid.Parse(header)
		assert.NoError(t, err)
		assert.Equal(t, header, seen)
	})

	t.Run("reuses the caller supplied id", func(t *testing.T) {
		var seen string
		r := newRouter(&seen)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(TraceIDHeader, "trace-abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, "trace-abc", w.Header().Get(TraceIDHeader))
		assert.Equal(t, "trace-abc", seen)
	})
}
