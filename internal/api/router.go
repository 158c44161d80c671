package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v62/github"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func NewRouter(webhook *WebhookApi, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/health", webhook.Health)
	router.POST("/webhook", webhook.Webhook)
	return router
}

// requestLogger puts a logger tagged with the webhook delivery id into the
// request context and writes one access line per request.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		delivery := github.DeliveryID(ctx.Request)
		if delivery == "" {
			delivery = uuid.NewString()
		}
		reqLog := log.With().Str("delivery", delivery).Logger()
		ctx.Request = ctx.Request.WithContext(reqLog.WithContext(ctx.Request.Context()))

		start := time.Now()
		ctx.Next()

		reqLog.Info().
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
