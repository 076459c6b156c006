package favicon

import (
	"io"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// IconLink ページ内のアイコンを指すlink要素
type IconLink struct {
	// Rel rel属性(小文字)
	Rel string `json:"rel"`
	// Href 絶対URLに解決したhref属性. 属性が無い場合は空
	Href string `json:"href"`
}

// ParseIconLinks HTMLからrelに"icon"を含むlink要素を返します
//
// rel="icon", "shortcut icon", "apple-touch-icon", "apple-touch-icon-precomposed"などが該当します。
// contentTypeは文字コードの判定に、baseはhrefの解決に使用します。
func ParseIconLinks(r io.Reader, contentType string, base *url.URL) ([]IconLink, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, ErrParse
	}
	doc, err := html.Parse(decoded)
	if err != nil {
		return nil, ErrParse
	}
	return findIconLinks(doc, base), nil
}

// findIconLinks ノードを深さ優先で探索
func findIconLinks(doc *html.Node, base *url.URL) []IconLink {
	var links []IconLink
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			if l, ok := toIconLink(n, base); ok {
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return lo.Uniq(links)
}

func toIconLink(n *html.Node, base *url.URL) (IconLink, bool) {
	var l IconLink
	for _, a := range n.Attr {
		switch a.Key {
		case "rel":
			l.Rel = strings.ToLower(strings.TrimSpace(a.Val))
		case "href":
			l.Href = resolveHref(base, strings.TrimSpace(a.Val))
		}
	}
	return l, strings.Contains(l.Rel, "icon")
}

func resolveHref(base *url.URL, href string) string {
	if base == nil || len(href) == 0 {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// Hrefs 空でないhrefの一覧
func Hrefs(links []IconLink) []string {
	return lo.Uniq(lo.FilterMap(links, func(l IconLink, _ int) (string, bool) {
		return l.Href, len(l.Href) > 0
	}))
}
