package rest

import (
	"github.com/dmitrijs2005/sociopedia/internal/logging"
	"github.com/dmitrijs2005/sociopedia/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

// NewRouter assembles the middleware stack and routes.
//
//	POST /auth/register   public
//	POST /auth/login      public
//	GET  /users/me        access token required
//	GET  /healthz         public
//	GET  /metrics         public
//
// Every response carries the security headers; OPTIONS preflights are
// answered by CORS before any route matches.
func NewRouter(h *Handler, keys TokenVerifier, l logging.Logger, m *metrics.Metrics, cors CORSConfig) *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(RequestID(), RequestLogger(l, m), Recovery(l), SecurityHeaders(), CORS(cors))

	engine.POST("/auth/register", h.Register)
	engine.POST("/auth/login", h.Login)

	protected := engine.Group("/", AccessControl(keys, l, m))
	protected.GET("/users/me", h.Me)

	engine.GET("/healthz", h.Health)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	return engine
}
