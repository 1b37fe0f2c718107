package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/confshop/payment-api/internal/adapter/http/middleware"
	"github.com/confshop/payment-api/internal/logging"
)

func NewRouter(h *CheckoutHandler, wh *WebhookHandler, wv *middleware.WebhookVerify) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.GET("/product", h.GetProduct)
		v1.POST("/checkout", h.CreateCheckout)
		v1.GET("/transactions/:id/status", h.PollStatus)
		v1.POST("/payment-callback", wv.Verify(), wh.HandleCallback)
	}

	return r
}
