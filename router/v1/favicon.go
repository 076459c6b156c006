package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traPtitech/identfavicon/router/consts"
	"github.com/traPtitech/identfavicon/router/extension"
	"github.com/traPtitech/identfavicon/service/favicon"
)

// GetFavicon GET /favicon?url={url}&size={size}
//
// ページにfaviconが無ければidenticonを返し、あれば204と既存アイコンのLinkヘッダーを返します。
func (h *Handlers) GetFavicon(c echo.Context) error {
	u, err := getPageURL(c)
	if err != nil {
		return err
	}
	size, err := getSize(c, h.Icons.DefaultSize(), h.Icons.MaxSize())
	if err != nil {
		return err
	}

	res, err := h.Detector.Detect(c.Request().Context(), u)
	if err != nil {
		return detectionError(err)
	}
	if !res.NeedsIdenticon {
		for _, href := range favicon.Hrefs(res.Links) {
			c.Response().Header().Add(consts.HeaderLink, fmt.Sprintf(`<%s>; rel="icon"`, href))
		}
		return c.NoContent(http.StatusNoContent)
	}

	c.Response().Header().Set(consts.HeaderIconHost, res.Seed)
	return h.serveIdenticon(c, res.Seed, size)
}

// GetFaviconDetection GET /favicon/detection?url={url}
func (h *Handlers) GetFaviconDetection(c echo.Context) error {
	u, err := getPageURL(c)
	if err != nil {
		return err
	}
	res, err := h.Detector.Detect(c.Request().Context(), u)
	if err != nil {
		return detectionError(err)
	}
	return extension.ServeJSONWithETag(c, res)
}
