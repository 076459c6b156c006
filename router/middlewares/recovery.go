package middlewares

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/traPtitech/identfavicon/router/extension"
	"github.com/traPtitech/identfavicon/router/extension/herror"
)

// Recovery Recoveryミドルウェア
func Recovery(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					pe, ok := r.(error)
					if !ok {
						pe = fmt.Errorf("%v", r)
					}

					var ne *net.OpError
					if errors.As(pe, &ne) {
						var se *os.SyscallError
						if errors.As(ne.Err, &se) {
							msg := strings.ToLower(se.Error())
							if strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer") {
								logger.Warn(pe.Error(),
									zap.String("requestId", extension.GetRequestID(c)),
									zap.Error(pe),
								)
								err = nil
								return
							}
						}
					}

					err = herror.Panic(pe)
				}
			}()
			return next(c)
		}
	}
}
