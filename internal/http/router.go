// README: HTTP router registration.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tripdesk/internal/http/handlers"
	"tripdesk/internal/http/middleware"
	"tripdesk/internal/logger"
	"tripdesk/internal/service"
)

func NewRouter(planner *service.ChatPlanner, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(log), middleware.Recovery(log))

	chatHandler := handlers.NewChatHandler(planner)
	r.POST("/api/chat/message", chatHandler.Message)

	pdfHandler := handlers.NewPdfHandler(planner)
	r.POST("/api/pdf/analyze", pdfHandler.Analyze)
	r.POST("/api/pdf/reprice", pdfHandler.Reprice)

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
