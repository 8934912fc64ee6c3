package ui

import (
	"fmt"
	"log"

	"labstock/app"
	"labstock/internal/config"
	"labstock/ports"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP surface around the lookup cascade. Device and
// topology CRUD live in their own service; this one only serves spec
// resolution, the per-user cache, community submissions and the
// rate-limited search proxy.
type Server struct {
	router    *gin.Engine
	lookup    *app.LookupService
	community *app.CommunityService
	cache     ports.SpecCache
	limiter   ports.RateLimiter
	config    config.ServerConfig

	// overridable for tests
	searchBaseURL string
}

// NewServer creates the API server and wires its routes
func NewServer(
	serverConfig config.ServerConfig,
	lookup *app.LookupService,
	community *app.CommunityService,
	cache ports.SpecCache,
	limiter ports.RateLimiter,
) *Server {
	gin.SetMode(serverConfig.GinMode)

	s := &Server{
		router:    gin.Default(),
		lookup:    lookup,
		community: community,
		cache:     cache,
		limiter:   limiter,
		config:    serverConfig,

		searchBaseURL: "https://html.duckduckgo.com/html/",
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	api.GET("/community/specs", s.handleCommunityFind)
	api.GET("/llm/status", s.handleInferenceStatus)

	authed := api.Group("")
	authed.Use(JWTAuth(s.config.JWTSecret))
	authed.GET("/specs/cache", s.handleCacheCheck)
	authed.POST("/specs/cache", s.handleCacheSave)
	authed.POST("/specs/lookup", s.handleLookup)
	authed.POST("/specs/extract", s.handleExtract)
	authed.POST("/llm/reset", s.handleInferenceReset)
	authed.POST("/community/specs", s.handleCommunitySubmit)
	authed.GET("/proxy-search", s.handleProxySearch)
}

// Start runs the HTTP server on the configured port
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	log.Printf("[Server] listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}
