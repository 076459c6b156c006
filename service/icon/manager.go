package icon

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/motoki317/sc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/traPtitech/identfavicon/utils/identicon"
)

// ErrInvalidSize 画像サイズが不正です
var ErrInvalidSize = identicon.ErrInvalidSize

var (
	requestCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "identfavicon",
		Name:      "icon_requests_total",
	})
	generateCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "identfavicon",
		Name:      "icon_generated_total",
	}, []string{"result"})
)

// Config アイコンサービス設定
type Config struct {
	// DefaultSize サイズ未指定時の一辺の長さ
	DefaultSize int
	// MaxSize 生成を許可する最大の一辺の長さ
	MaxSize int
	// CacheSize キャッシュするアイコン数
	CacheSize int
	// CacheTTL キャッシュの保持時間
	CacheTTL time.Duration
}

// Manager 生成したidenticonをメモリにキャッシュして提供します
type Manager interface {
	// Get seedのsize x sizeのPNGを返します
	//
	// sizeが0以下、またはMaxSizeを超える場合はErrInvalidSizeを返します。
	Get(ctx context.Context, seed string, size int) ([]byte, error)
	// DefaultSize サイズ未指定時のサイズ
	DefaultSize() int
	// MaxSize 生成を許可する最大のサイズ
	MaxSize() int
	// Purge キャッシュを全て破棄します
	Purge()
}

type cacheKey struct {
	seed string
	size int
}

type manager struct {
	c     Config
	l     *zap.Logger
	cache *sc.Cache[cacheKey, []byte]
}

// NewManager アイコンマネージャーを生成します
func NewManager(c Config, logger *zap.Logger) (Manager, error) {
	if c.DefaultSize <= 0 || c.MaxSize <= 0 || c.DefaultSize > c.MaxSize {
		return nil, fmt.Errorf("invalid icon size config: default=%d, max=%d", c.DefaultSize, c.MaxSize)
	}
	if err := identicon.ValidateSize(c.MaxSize); err != nil {
		return nil, err
	}
	if c.CacheSize <= 0 || c.CacheTTL <= 0 {
		return nil, errors.New("cache size and ttl must be positive")
	}

	m := &manager{
		c: c,
		l: logger.Named("icon_manager"),
	}
	cache, err := sc.New(m.generate, c.CacheTTL, c.CacheTTL, sc.WithLRUBackend(c.CacheSize))
	if err != nil {
		return nil, err
	}
	m.cache = cache
	return m, nil
}

func (m *manager) Get(ctx context.Context, seed string, size int) ([]byte, error) {
	if size > m.c.MaxSize {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidSize, size, m.c.MaxSize)
	}
	if err := identicon.ValidateSize(size); err != nil {
		return nil, err
	}
	requestCounter.Inc()
	return m.cache.Get(ctx, cacheKey{seed: seed, size: size})
}

func (m *manager) generate(_ context.Context, key cacheKey) ([]byte, error) {
	b, err := identicon.Generate(key.seed, key.size)
	if err != nil {
		generateCounter.WithLabelValues("error").Inc()
		m.l.Error("failed to generate identicon", zap.Error(err), zap.String("seed", key.seed), zap.Int("size", key.size))
		return nil, err
	}
	generateCounter.WithLabelValues("ok").Inc()
	m.l.Debug("identicon generated", zap.String("seed", key.seed), zap.Int("size", key.size), zap.Int("bytes", len(b)))
	return b, nil
}

func (m *manager) DefaultSize() int {
	return m.c.DefaultSize
}

func (m *manager) MaxSize() int {
	return m.c.MaxSize
}

func (m *manager) Purge() {
	m.cache.Purge()
}

// NormalizeSeed hostname, origin, hrefのうち最初の空でないものを小文字にしてシードとします
func NormalizeSeed(hostname, origin, href string) string {
	for _, s := range []string{hostname, origin, href} {
		if len(s) > 0 {
			return strings.ToLower(s)
		}
	}
	return ""
}

// SeedFromURL ページURLからシードを求めます
func SeedFromURL(u *url.URL) string {
	var origin string
	if len(u.Scheme) > 0 && len(u.Host) > 0 {
		origin = u.Scheme + "://" + u.Host
	}
	return NormalizeSeed(u.Hostname(), origin, u.String())
}
