package httpserver

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail-customers/internal/logger"
	"retail-customers/internal/metrics"
)

// buildRouter wires routes for the API.
func buildRouter(log *zap.Logger, deps Deps) (*gin.Engine, error) {
	if deps.CustomerSvc == nil {
		return nil, errors.New("customer service is required")
	}

	router := gin.New()
	router.Use(logger.GinMiddleware(log), logger.Recovery(log))
	if deps.Metrics != nil {
		router.Use(metricsMiddleware(deps.Metrics))
	}
	if len(deps.CORSAllowOrigins) > 0 {
		router.Use(cors.New(corsConfig(deps.CORSAllowOrigins)))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	h := &customerHandler{svc: deps.CustomerSvc}
	customers := router.Group("/customers")
	customers.POST("", h.create)
	customers.GET("", h.list)
	customers.GET("/:id", h.get)
	customers.PUT("/:id", h.update)
	customers.DELETE("/:id", h.delete)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders: []string{logger.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.IncrementHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}
