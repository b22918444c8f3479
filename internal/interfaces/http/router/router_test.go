package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouterSetup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	t.Run("registers routes under the version prefix", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, WithAPIVersion("v1"))

		group := NewDomainGroup("whatsapp", "/whatsapp")
		group.GET("/webhook", ok)
		group.POST("/messages", ok)

		r.Register(group)
		r.Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/whatsapp/webhook", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/whatsapp/messages", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("applies router middleware to group routes", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		r.Use(func(c *gin.Context) {
			c.Header("X-Seen", "yes")
			c.Next()
		})

		group := NewDomainGroup("ai", "/ai")
		group.GET("/suggestions", ok)
		r.Register(group).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ai/suggestions", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "yes", w.Header().Get("X-Seen"))
	})

	t.Run("unknown route is not found", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)
		r.Register(NewDomainGroup("ai", "/ai")).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ai/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDomainGroupName(t *testing.T) {
	assert.Equal(t, "whatsapp", NewDomainGroup("whatsapp", "/whatsapp").Name())
}
