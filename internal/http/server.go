// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kiloshare/internal/http/handlers"
	"kiloshare/internal/http/middleware"
	"kiloshare/internal/logger"
	"kiloshare/internal/modules/pricing"
)

type ServerDeps struct {
	Pricing  *pricing.Service
	Logger   logger.Logger
	Gatherer prometheus.Gatherer // nil disables /metrics
}

type Server struct {
	pricing  *pricing.Service
	log      logger.Logger
	gatherer prometheus.Gatherer
}

func NewServer(deps ServerDeps) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		pricing:  deps.Pricing,
		log:      log,
		gatherer: deps.Gatherer,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(s.log), middleware.Logging(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")

	transportHandler := handlers.NewTransportHandler(s.pricing.Modes())
	api.GET("/transport/limits", transportHandler.List)
	api.GET("/transport/limits/:mode", transportHandler.Get)

	pricingHandler := handlers.NewPricingHandler(s.pricing)
	api.POST("/pricing/suggest", pricingHandler.Suggest)
	api.POST("/pricing/recommend", pricingHandler.Recommend)

	return r
}
