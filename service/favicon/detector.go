package favicon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/motoki317/sc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/traPtitech/identfavicon/service/icon"
	"github.com/traPtitech/identfavicon/utils"
)

const (
	userAgent      = "identfavicon/1.0 (+https://github.com/traPtitech/identfavicon)"
	maxPageBytes   = 2 << 20
	remoteIconPath = "/favicon.ico"
)

var detectCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "identfavicon",
	Name:      "favicon_detections_total",
}, []string{"result"})

// Config faviconの検出設定
type Config struct {
	// PageTimeout ページ取得のタイムアウト
	PageTimeout time.Duration
	// ProbeTimeout /favicon.icoの存在確認のタイムアウト
	ProbeTimeout time.Duration
	// AllowPrivateNetwork 内部ネットワークへのアクセスを許可するかどうか
	AllowPrivateNetwork bool
	// Concurrency 同時に行う外部リクエスト数
	Concurrency int
	// CacheTTL 検出結果のキャッシュ保持時間
	CacheTTL time.Duration
	// CacheSize キャッシュするページ数
	CacheSize int
}

// Result faviconの検出結果
type Result struct {
	// URL 対象ページのURL
	URL string `json:"url"`
	// Seed identiconのシード
	Seed string `json:"seed"`
	// Links ページ内のアイコンを指すlink要素
	Links []IconLink `json:"links"`
	// RemoteIconExists /favicon.icoが2xx/3xxを返したかどうか. link要素が無い場合は確認しません
	RemoteIconExists bool `json:"remoteIconExists"`
	// NeedsIdenticon identiconを生成すべきかどうか
	NeedsIdenticon bool `json:"needsIdenticon"`
}

// HasIconLink アイコンのlink要素があるかどうか
func (r *Result) HasIconLink() bool {
	return len(r.Links) > 0
}

// Detector ページが既にfaviconを持っているかを調べます
type Detector struct {
	c      Config
	l      *zap.Logger
	client *http.Client
	sem    *semaphore.Weighted
	cache  *sc.Cache[string, *Result]
}

// NewDetector Detectorを生成します
func NewDetector(c Config, logger *zap.Logger) (*Detector, error) {
	if c.Concurrency <= 0 {
		return nil, errors.New("concurrency must be positive")
	}
	if c.CacheSize <= 0 || c.CacheTTL <= 0 {
		return nil, errors.New("cache size and ttl must be positive")
	}

	d := &Detector{
		c:   c,
		l:   logger.Named("favicon_detector"),
		sem: semaphore.NewWeighted(int64(c.Concurrency)),
	}
	d.client = d.newClient()
	cache, err := sc.New(d.detect, c.CacheTTL, c.CacheTTL, sc.WithLRUBackend(c.CacheSize))
	if err != nil {
		return nil, err
	}
	d.cache = cache
	return d, nil
}

func (d *Detector) newClient() *http.Client {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	if !d.c.AllowPrivateNetwork {
		// 名前解決後の接続先アドレスを検証する. リダイレクトやDNS rebindingにも効く
		dialer.Control = func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if utils.IsPrivateIP(net.ParseIP(host)) {
				return ErrNotAllowed
			}
			return nil
		}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.Proxy = nil

	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return validateScheme(req.URL)
		},
	}
}

// ParseURL 文字列をhttp(s)の絶対URLとしてパースします
func ParseURL(s string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, ErrInvalidURL
	}
	if err := validateScheme(u); err != nil {
		return nil, err
	}
	return u, nil
}

func validateScheme(u *url.URL) error {
	if (u.Scheme != "http" && u.Scheme != "https") || len(u.Hostname()) == 0 {
		return ErrInvalidURL
	}
	return nil
}

// Detect ページURLのfaviconの有無を調べます. 結果はキャッシュされます
func (d *Detector) Detect(ctx context.Context, u *url.URL) (*Result, error) {
	if err := validateScheme(u); err != nil {
		return nil, err
	}
	// フラグメントはページの同一性に関係しない
	page := *u
	page.Fragment = ""
	page.RawFragment = ""
	return d.cache.Get(ctx, page.String())
}

// Forget キャッシュされたページの検出結果を破棄します
func (d *Detector) Forget(u *url.URL) {
	page := *u
	page.Fragment = ""
	page.RawFragment = ""
	d.cache.Forget(page.String())
}

func (d *Detector) detect(ctx context.Context, pageURL string) (*Result, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, ErrInvalidURL
	}
	if !d.c.AllowPrivateNetwork {
		if _, err := utils.ResolvePublicHost(u); err != nil {
			if errors.Is(err, utils.ErrNotAllowedHost) {
				return nil, ErrNotAllowed
			}
			return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
		}
	}

	if err := d.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer d.sem.Release(1)

	links, err := d.fetchIconLinks(ctx, u)
	if err != nil {
		detectCounter.WithLabelValues("error").Inc()
		return nil, err
	}

	res := &Result{
		URL:   pageURL,
		Seed:  icon.SeedFromURL(u),
		Links: links,
	}
	// link要素がある場合のみ実体を確認する
	if res.HasIconLink() {
		res.RemoteIconExists = d.remoteIconExists(ctx, u)
	}
	res.NeedsIdenticon = !(res.HasIconLink() && res.RemoteIconExists)

	if res.NeedsIdenticon {
		detectCounter.WithLabelValues("missing").Inc()
	} else {
		detectCounter.WithLabelValues("found").Inc()
	}
	d.l.Debug("favicon detected",
		zap.String("url", pageURL),
		zap.Int("links", len(links)),
		zap.Bool("remoteIconExists", res.RemoteIconExists),
		zap.Bool("needsIdenticon", res.NeedsIdenticon),
	)
	return res, nil
}

func (d *Detector) fetchIconLinks(ctx context.Context, u *url.URL) ([]IconLink, error) {
	ctx, cancel := context.WithTimeout(ctx, d.c.PageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, ErrInvalidURL
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, classifyRequestError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, ErrServer
	} else if resp.StatusCode >= 400 {
		return nil, ErrClient
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "text/html") && !strings.HasPrefix(contentType, "application/xhtml+xml") {
		return nil, ErrContentTypeNotSupported
	}

	// リダイレクト後のURLを基準にhrefを解決する
	return ParseIconLinks(io.LimitReader(resp.Body, maxPageBytes), contentType, resp.Request.URL)
}

// remoteIconExists /favicon.icoにHEADリクエストを送り、2xxまたは3xxならtrueを返します
func (d *Detector) remoteIconExists(ctx context.Context, u *url.URL) bool {
	ctx, cancel := context.WithTimeout(ctx, d.c.ProbeTimeout)
	defer cancel()

	target := url.URL{Scheme: u.Scheme, Host: u.Host, Path: remoteIconPath}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		d.l.Debug("favicon probe failed", zap.String("url", target.String()), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func classifyRequestError(err error) error {
	switch {
	case errors.Is(err, ErrNotAllowed):
		return ErrNotAllowed
	case errors.Is(err, ErrInvalidURL):
		return ErrInvalidURL
	default:
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
}
