package extension

import (
	"strings"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"

	"github.com/traPtitech/identfavicon/router/consts"
)

// GetRequestID リクエストIDを返します
func GetRequestID(c echo.Context) string {
	rid := c.Request().Header.Get(echo.HeaderXRequestID)
	if len(rid) == 0 {
		rid = c.Response().Header().Get(echo.HeaderXRequestID)
	}
	if len(rid) == 0 {
		rid = uuid.Must(uuid.NewV4()).String()
	}
	return rid
}

// GetTraceID X-Cloud-Trace-ContextヘッダーのトレースIDを返します. 無い場合はリクエストID
func GetTraceID(c echo.Context) string {
	if h := c.Request().Header.Get(consts.HeaderCloudTrace); len(h) > 0 {
		id, _, _ := strings.Cut(h, "/")
		return id
	}
	return GetRequestID(c)
}
