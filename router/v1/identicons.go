package v1

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/traPtitech/identfavicon/router/consts"
	"github.com/traPtitech/identfavicon/router/extension"
	"github.com/traPtitech/identfavicon/router/extension/herror"
	"github.com/traPtitech/identfavicon/service/icon"
	"github.com/traPtitech/identfavicon/utils/identicon"
)

// GetIdenticon GET /identicons/:seed?size={size}
func (h *Handlers) GetIdenticon(c echo.Context) error {
	seed, err := getSeed(c)
	if err != nil {
		return err
	}
	size, err := getSize(c, h.Icons.DefaultSize(), h.Icons.MaxSize())
	if err != nil {
		return err
	}
	return h.serveIdenticon(c, seed, size)
}

func (h *Handlers) serveIdenticon(c echo.Context, seed string, size int) error {
	b, err := h.Icons.Get(c.Request().Context(), seed, size)
	if err != nil {
		if errors.Is(err, icon.ErrInvalidSize) {
			return herror.BadRequest(err)
		}
		return herror.InternalServerError(err)
	}

	// 同じシードとサイズからは常に同じ画像が生成される
	c.Response().Header().Set(consts.HeaderCacheControl, "public, max-age=31536000, immutable") // 1年間キャッシュ
	return extension.ServeWithETag(c, consts.MimeImagePNG, identiconETag(seed, size), b)
}

func identiconETag(seed string, size int) string {
	return fmt.Sprintf("%08x-%d", identicon.Hash(seed), size)
}
