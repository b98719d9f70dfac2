package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func echo(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func TestNewRouter_Defaults(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Equal(t, "/api/v1", r.BasePath())

	r.Register(NewDomainGroup("plots", "/plots"))
	assert.Len(t, r.registrars, 1)
}

func TestRouter_WithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())

	plots := NewDomainGroup("plots", "/plots")
	plots.GET("", echo("plots"))
	r.Register(plots).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/plots").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/plots").Code)
}

func TestDomainGroup_Accessors(t *testing.T) {
	g := NewDomainGroup("plots", "/plots")
	assert.Equal(t, "plots", g.Name())
	assert.Equal(t, "/plots", g.Prefix())
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("plots", "/plots")
	g.GET("/:id", echo("get")).
		POST("", echo("post")).
		PUT("/:id", echo("put")).
		DELETE("/:id", echo("delete")).
		Handle(http.MethodOptions, "/:id", echo("options"))
	r.Register(g).Setup()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/plots/p1", "get"},
		{http.MethodPost, "/api/v1/plots", "post"},
		{http.MethodPut, "/api/v1/plots/p1", "put"},
		{http.MethodDelete, "/api/v1/plots/p1", "delete"},
		{http.MethodOptions, "/api/v1/plots/p1", "options"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("reference", "/vegetables")
	g.Use(func(c *gin.Context) {
		c.Header("X-Catalog", "embedded")
		c.Next()
	})
	g.GET("", echo("ok"))
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/vegetables")
	assert.Equal(t, "embedded", w.Header().Get("X-Catalog"))
}

func TestDomainGroup_Subgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("plots", "/plots")

	rotation := g.Group("rotation", "/:id/rotation")
	rotation.GET("/suggestion", func(c *gin.Context) {
		c.String(http.StatusOK, "suggestion for "+c.Param("id"))
	})
	seasons := g.Group("seasons", "/:id/seasons")
	seasons.POST("/:year/close", func(c *gin.Context) {
		c.String(http.StatusOK, "closed "+c.Param("year"))
	})
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/plots/p1/rotation/suggestion")
	assert.Equal(t, "suggestion for p1", w.Body.String())

	w = serve(engine, http.MethodPost, "/api/v1/plots/p1/seasons/2025/close")
	assert.Equal(t, "closed 2025", w.Body.String())
}

func TestRouter_MultipleGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	reference := NewDomainGroup("reference", "/vegetables")
	reference.GET("", echo("vegetables"))
	plots := NewDomainGroup("plots", "/plots")
	plots.GET("", echo("plots"))
	r.Register(reference).Register(plots).Setup()

	assert.Equal(t, "vegetables", serve(engine, http.MethodGet, "/api/v1/vegetables").Body.String())
	assert.Equal(t, "plots", serve(engine, http.MethodGet, "/api/v1/plots").Body.String())
}
