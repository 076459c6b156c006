package v1

import (
	"github.com/labstack/echo/v4"
	"github.com/leandro-lugaresi/hub"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/traPtitech/identfavicon/router/middlewares"
	"github.com/traPtitech/identfavicon/service/favicon"
	"github.com/traPtitech/identfavicon/service/icon"
)

// eventBodyLimit イベントのリクエストボディの上限[KiB]
const eventBodyLimit = 8

type Handlers struct {
	Hub      *hub.Hub
	Icons    icon.Manager
	Detector favicon.Checker
	Logger   *zap.Logger

	Config
}

type Config struct {
	// EventRateLimit IPアドレスごとの/eventsへのリクエスト数上限[回/秒]
	EventRateLimit rate.Limit
	// EventBurst /eventsのバースト数
	EventBurst int
}

// Setup APIルーティングを行います
func (h *Handlers) Setup(e *echo.Group) {
	api := e.Group("/v1")
	{
		apiIdenticons := api.Group("/identicons")
		{
			apiIdenticons.GET("/:seed", h.GetIdenticon)
		}
		apiFavicon := api.Group("/favicon")
		{
			apiFavicon.GET("", h.GetFavicon)
			apiFavicon.GET("/detection", h.GetFaviconDetection)
		}
		api.POST("/events", h.PostEvent,
			middlewares.RateLimiterWithLogging(h.EventRateLimit, h.EventBurst, h.Logger.Named("rate_limit")),
			middlewares.RequestBodyLengthLimit(eventBodyLimit),
		)
	}
}
