package router

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/leandro-lugaresi/hub"
	"go.uber.org/zap"

	"github.com/traPtitech/identfavicon/router/consts"
	"github.com/traPtitech/identfavicon/router/extension"
	"github.com/traPtitech/identfavicon/router/middlewares"
	v1 "github.com/traPtitech/identfavicon/router/v1"
	"github.com/traPtitech/identfavicon/service/favicon"
	"github.com/traPtitech/identfavicon/service/icon"
)

// Setup APIサーバーハンドラを構築します
func Setup(hub *hub.Hub, icons icon.Manager, detector favicon.Checker, logger *zap.Logger, config *Config) *echo.Echo {
	logger = logger.Named("router")
	e := newEcho(logger, config)

	api := e.Group("/api")
	api.GET("/metrics", echoprometheus.NewHandler())
	api.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, http.StatusText(http.StatusOK)) })
	api.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version":  config.Version,
			"revision": config.Revision,
		})
	})

	h := &v1.Handlers{
		Hub:      hub,
		Icons:    icons,
		Detector: detector,
		Logger:   logger.Named("api_handler"),
		Config:   config.V1,
	}
	h.Setup(api)

	return e
}

func newEcho(logger *zap.Logger, config *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = extension.ErrorHandler(logger)
	e.Binder = &extension.Binder{}
	e.IPExtractor = ipExtractor(config.TrustProxy)

	// ミドルウェア設定
	e.Use(middlewares.ServerVersion(config.Version))
	e.Use(middlewares.RequestID())
	if config.AccessLogging {
		e.Use(middlewares.AccessLogging(logger.Named("access_log"), config.Development))
	}
	e.Use(middlewares.Recovery(logger))
	if config.Gzipped {
		e.Use(middlewares.Gzip())
	}
	e.Use(extension.Wrap())
	e.Use(middlewares.RequestCounter())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  config.AllowedOrigins,
		ExposeHeaders: []string{consts.HeaderVersion, consts.HeaderIconHost, consts.HeaderLink, consts.HeaderETag, echo.HeaderXRequestID},
		AllowHeaders:  []string{echo.HeaderContentType, consts.HeaderIfNoneMatch},
		MaxAge:        3600,
	}))
	e.Use(echoprometheus.NewMiddleware("identfavicon"))

	return e
}

// ipExtractor クライアントIPの取得方法. プロキシを信頼しない場合はX-Forwarded-Forを無視します
func ipExtractor(trustProxy bool) echo.IPExtractor {
	if trustProxy {
		return echo.ExtractIPFromXFFHeader()
	}
	return echo.ExtractIPDirect()
}
