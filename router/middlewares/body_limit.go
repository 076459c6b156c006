package middlewares

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traPtitech/identfavicon/router/extension/herror"
)

// RequestBodyLengthLimit リクエストボディがkb[KiB]を超えるリクエストを413で拒否するミドルウェア
func RequestBodyLengthLimit(kb int64) echo.MiddlewareFunc {
	limit := kb << 10
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tooLarge := herror.HTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("the request must be smaller than %dKB", kb))

			req := c.Request()
			if req.ContentLength > limit {
				return tooLarge
			}
			if req.ContentLength >= 0 {
				return next(c)
			}

			// chunkedは上限まで読ませ、超えていれば結果に関わらず413
			body := &limitedBody{ReadCloser: http.MaxBytesReader(c.Response(), req.Body, limit)}
			req.Body = body
			err := next(c)
			if body.exceeded && !c.Response().Committed {
				return tooLarge
			}
			return err
		}
	}
}

type limitedBody struct {
	io.ReadCloser
	exceeded bool
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		b.exceeded = true
	}
	return n, err
}
