package middlewares

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/traPtitech/identfavicon/logging"
	"github.com/traPtitech/identfavicon/router/extension"
)

// AccessLogging アクセスログミドルウェア
func AccessLogging(logger *zap.Logger, dev bool) echo.MiddlewareFunc {
	if dev {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				start := time.Now()
				if err := next(c); err != nil {
					c.Error(err)
				}
				stop := time.Now()

				req := c.Request()
				res := c.Response()
				logger.Sugar().Infof("%3d | %s | %s %s %d", res.Status, stop.Sub(start), req.Method, req.URL, res.Size)
				return nil
			}
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Path(), "/api/ping") || strings.HasPrefix(c.Path(), "/api/metrics") {
				return next(c)
			}

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			stop := time.Now()

			res := c.Response()
			logger.Info("",
				logging.Trace(extension.GetTraceID(c)),
				logging.HTTPRequest(logging.NewHTTPPayload(c.Request(), res.Status, res.Size, c.RealIP(), stop.Sub(start))),
			)
			return nil
		}
	}
}
