package v1

import (
	"errors"
	"net/url"

	vd "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"

	"github.com/traPtitech/identfavicon/router/consts"
	"github.com/traPtitech/identfavicon/router/extension/herror"
	"github.com/traPtitech/identfavicon/service/favicon"
)

func bindAndValidate(c echo.Context, i interface{}) error {
	if err := c.Bind(i); err != nil {
		return err
	}
	if err := vd.Validate(i); err != nil {
		var ie vd.InternalError
		if errors.As(err, &ie) {
			return herror.InternalServerError(ie.InternalError())
		}
		return herror.BadRequest(err)
	}
	return nil
}

// getSize sizeクエリを取得します. 未指定の場合はdef
func getSize(c echo.Context, def, max int) (int, error) {
	if len(c.QueryParam(consts.ParamSize)) == 0 {
		return def, nil
	}
	var size int
	if err := echo.QueryParamsBinder(c).Int(consts.ParamSize, &size).BindError(); err != nil {
		return 0, herror.BadRequest("invalid size")
	}
	if err := vd.Validate(size, vd.Required, vd.Min(1), vd.Max(max)); err != nil {
		return 0, herror.BadRequest("invalid size: " + err.Error())
	}
	return size, nil
}

// getSeed パスパラメーターのシードを取得します
func getSeed(c echo.Context) (string, error) {
	seed := c.Param(consts.ParamSeed)
	// RawPathでルーティングされた場合はエスケープされたまま
	if len(c.Request().URL.RawPath) > 0 {
		s, err := url.PathUnescape(seed)
		if err != nil {
			return "", herror.BadRequest("invalid seed")
		}
		seed = s
	}
	return seed, nil
}

// getPageURL urlクエリを取得します
func getPageURL(c echo.Context) (*url.URL, error) {
	u, err := favicon.ParseURL(c.QueryParam(consts.ParamURL))
	if err != nil {
		return nil, herror.BadRequest("invalid url")
	}
	return u, nil
}

// detectionError 検出エラーをHTTPエラーに変換します
func detectionError(err error) error {
	switch {
	case errors.Is(err, favicon.ErrInvalidURL), errors.Is(err, favicon.ErrNotAllowed):
		return herror.BadRequest(err)
	case errors.Is(err, favicon.ErrClient),
		errors.Is(err, favicon.ErrServer),
		errors.Is(err, favicon.ErrContentTypeNotSupported),
		errors.Is(err, favicon.ErrParse):
		return herror.BadGateway(err)
	case errors.Is(err, favicon.ErrNetwork):
		// 接続先の詳細は返さない
		return herror.BadGateway(favicon.ErrNetwork.Error())
	default:
		return herror.InternalServerError(err)
	}
}
