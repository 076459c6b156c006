package extension

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/textproto"
	"strings"

	jsonIter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"

	"github.com/traPtitech/identfavicon/router/consts"
)

const weakPrefix = "W/"

type condResult int

const (
	condNone condResult = iota
	condTrue
	condFalse
)

func scanETag(s string) (eTag string, remain string) {
	s = textproto.TrimString(s)
	start := 0
	if strings.HasPrefix(s, weakPrefix) {
		start = 2
	}
	if len(s[start:]) < 2 || s[start] != '"' {
		return "", ""
	}
	for i := start + 1; i < len(s); i++ {
		if s[i] == '"' {
			return s[:i+1], s[i+1:]
		}
	}
	return "", ""
}

func eTagStrongMatch(a, b string) bool {
	return a == b && a != "" && a[0] == '"'
}

func eTagWeakMatch(a, b string) bool {
	return strings.TrimPrefix(a, weakPrefix) == strings.TrimPrefix(b, weakPrefix)
}

// matchETags ヘッダーのETagリストを走査し、いずれかがmatchすればcondTrueを返します
func matchETags(header string, current string, match func(a, b string) bool) condResult {
	if header == "" {
		return condNone
	}
	for {
		header = textproto.TrimString(header)
		if len(header) == 0 {
			break
		}
		if header[0] == ',' {
			header = header[1:]
			continue
		}
		if header[0] == '*' {
			return condTrue
		}
		eTag, remain := scanETag(header)
		if eTag == "" {
			break
		}
		if match(eTag, current) {
			return condTrue
		}
		header = remain
	}
	return condFalse
}

func writeNotModified(c echo.Context) error {
	h := c.Response().Header()
	delete(h, echo.HeaderContentType)
	delete(h, echo.HeaderContentLength)
	return c.NoContent(http.StatusNotModified)
}

// CheckPreconditions If-Match, If-None-Matchを検査します
//
// doneがtrueの場合はレスポンスを書き込み済みです。
func CheckPreconditions(c echo.Context) (done bool, err error) {
	req := c.Request()
	eTag := c.Response().Header().Get(consts.HeaderETag)

	if matchETags(req.Header.Get(consts.HeaderIfMatch), eTag, eTagStrongMatch) == condFalse {
		return true, c.NoContent(http.StatusPreconditionFailed)
	}
	if matchETags(req.Header.Get(consts.HeaderIfNoneMatch), eTag, eTagWeakMatch) == condTrue {
		if m := req.Method; m == http.MethodGet || m == http.MethodHead {
			return true, writeNotModified(c)
		}
		return true, c.NoContent(http.StatusPreconditionFailed)
	}
	return false, nil
}

// ServeJSONWithETag Etagを付与してJSONを返します。304を返せるときは304を返します。
func ServeJSONWithETag(c echo.Context, i interface{}) error {
	j := jsonIter.Config{
		EscapeHTML:                    false,
		MarshalFloatWith6Digits:       true,
		ObjectFieldMustBeSimpleString: true,
		SortMapKeys:                   true, // 順番が一致しないとEtagが一致しない
	}.Froze()

	b, err := j.Marshal(i)
	if err != nil {
		return err
	}
	sum := md5.Sum(b)
	return ServeWithETag(c, echo.MIMEApplicationJSON, hex.EncodeToString(sum[:]), b)
}

// ServeWithETag 指定したEtagを付与して返します。304を返せるときは304を返します。
func ServeWithETag(c echo.Context, contentType string, eTag string, bytes []byte) error {
	c.Response().Header().Set(consts.HeaderETag, `"`+eTag+`"`)
	if done, err := CheckPreconditions(c); done {
		return err
	}
	return c.Blob(http.StatusOK, contentType, bytes)
}
