package cmd

import (
	"time"

	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/traPtitech/identfavicon/router"
	v1 "github.com/traPtitech/identfavicon/router/v1"
	"github.com/traPtitech/identfavicon/service/favicon"
	"github.com/traPtitech/identfavicon/service/icon"
)

// Config 設定
type Config struct {
	// DevMode 開発モードかどうか (default: false)
	DevMode bool `mapstructure:"dev" yaml:"dev"`
	// Pprof pprofを有効にするかどうか (default: false)
	Pprof bool `mapstructure:"pprof" yaml:"pprof"`

	// Origin サーバーオリジン (default: http://localhost:3000)
	Origin string `mapstructure:"origin" yaml:"origin"`
	// Port サーバーポート番号 (default: 3000)
	Port int `mapstructure:"port" yaml:"port"`
	// Gzip JSONレスポンスのGZIP圧縮を有効にするかどうか (default: true)
	Gzip bool `mapstructure:"gzip" yaml:"gzip"`
	// AllowedOrigins CORSで許可するオリジン. 空の場合は全て (default: [])
	AllowedOrigins []string `mapstructure:"allowedOrigins" yaml:"allowedOrigins"`
	// TrustProxy リバースプロキシのX-Forwarded-ForからクライアントIPを取得するかどうか (default: false)
	TrustProxy bool `mapstructure:"trustProxy" yaml:"trustProxy"`
	// ShutdownTimeout シャットダウン時のタイムアウト秒数 (default: 10)
	ShutdownTimeout int `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout"`

	// AccessLog HTTPアクセスログ設定
	AccessLog struct {
		// Enabled 有効かどうか (default: true)
		Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	} `mapstructure:"accessLog" yaml:"accessLog"`

	// Icon identicon生成設定
	Icon struct {
		// DefaultSize サイズ未指定時の一辺の長さ (default: 64)
		DefaultSize int `mapstructure:"defaultSize" yaml:"defaultSize"`
		// MaxSize 生成を許可する最大の一辺の長さ (default: 1024)
		MaxSize int `mapstructure:"maxSize" yaml:"maxSize"`
		// CacheSize キャッシュするアイコン数 (default: 1024)
		CacheSize int `mapstructure:"cacheSize" yaml:"cacheSize"`
		// CacheTTL キャッシュの保持時間 (default: 1h)
		CacheTTL time.Duration `mapstructure:"cacheTTL" yaml:"cacheTTL"`
	} `mapstructure:"icon" yaml:"icon"`

	// Favicon favicon検出設定
	Favicon struct {
		// PageTimeout ページ取得のタイムアウト (default: 10s)
		PageTimeout time.Duration `mapstructure:"pageTimeout" yaml:"pageTimeout"`
		// RequestTimeout /favicon.ico確認のタイムアウト (default: 3s)
		RequestTimeout time.Duration `mapstructure:"requestTimeout" yaml:"requestTimeout"`
		// AllowPrivateNetwork 内部ネットワークへのアクセスを許可するかどうか (default: false)
		AllowPrivateNetwork bool `mapstructure:"allowPrivateNetwork" yaml:"allowPrivateNetwork"`
		// Concurrency 同時に行う外部リクエスト数 (default: 8)
		Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
		// CacheSize キャッシュするページ数 (default: 1024)
		CacheSize int `mapstructure:"cacheSize" yaml:"cacheSize"`
		// CacheTTL 検出結果のキャッシュ保持時間 (default: 10m)
		CacheTTL time.Duration `mapstructure:"cacheTTL" yaml:"cacheTTL"`
	} `mapstructure:"favicon" yaml:"favicon"`

	// Scheduler 再生成スケジューラー設定
	Scheduler struct {
		// NavigationDelay ページ遷移からチェックまでの待ち時間 (default: 300ms)
		NavigationDelay time.Duration `mapstructure:"navigationDelay" yaml:"navigationDelay"`
		// MutationDelay head要素の変更からチェックまでの待ち時間 (default: 400ms)
		MutationDelay time.Duration `mapstructure:"mutationDelay" yaml:"mutationDelay"`
		// MinInterval 同一ページのチェック間隔の下限 (default: 1s)
		MinInterval time.Duration `mapstructure:"minInterval" yaml:"minInterval"`
		// TTL ページごとの状態の保持時間 (default: 10m)
		TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
	} `mapstructure:"scheduler" yaml:"scheduler"`

	// Events イベント受付設定
	Events struct {
		// RateLimit IPアドレスごとのリクエスト数上限[回/秒] (default: 10)
		RateLimit float64 `mapstructure:"rateLimit" yaml:"rateLimit"`
		// Burst バースト数 (default: 20)
		Burst int `mapstructure:"burst" yaml:"burst"`
	} `mapstructure:"events" yaml:"events"`
}

func init() {
	viper.SetDefault("dev", false)
	viper.SetDefault("pprof", false)
	viper.SetDefault("origin", "http://localhost:3000")
	viper.SetDefault("port", 3000)
	viper.SetDefault("gzip", true)
	viper.SetDefault("allowedOrigins", []string{})
	viper.SetDefault("trustProxy", false)
	viper.SetDefault("shutdownTimeout", 10)
	viper.SetDefault("accessLog.enabled", true)
	viper.SetDefault("icon.defaultSize", 64)
	viper.SetDefault("icon.maxSize", 1024)
	viper.SetDefault("icon.cacheSize", 1024)
	viper.SetDefault("icon.cacheTTL", time.Hour)
	viper.SetDefault("favicon.pageTimeout", 10*time.Second)
	viper.SetDefault("favicon.requestTimeout", 3*time.Second)
	viper.SetDefault("favicon.allowPrivateNetwork", false)
	viper.SetDefault("favicon.concurrency", 8)
	viper.SetDefault("favicon.cacheSize", 1024)
	viper.SetDefault("favicon.cacheTTL", 10*time.Minute)
	viper.SetDefault("scheduler.navigationDelay", 300*time.Millisecond)
	viper.SetDefault("scheduler.mutationDelay", 400*time.Millisecond)
	viper.SetDefault("scheduler.minInterval", time.Second)
	viper.SetDefault("scheduler.ttl", 10*time.Minute)
	viper.SetDefault("events.rateLimit", 10.0)
	viper.SetDefault("events.burst", 20)
}

func provideIconConfig(c *Config) icon.Config {
	return icon.Config{
		DefaultSize: c.Icon.DefaultSize,
		MaxSize:     c.Icon.MaxSize,
		CacheSize:   c.Icon.CacheSize,
		CacheTTL:    c.Icon.CacheTTL,
	}
}

func provideDetectorConfig(c *Config) favicon.Config {
	return favicon.Config{
		PageTimeout:         c.Favicon.PageTimeout,
		ProbeTimeout:        c.Favicon.RequestTimeout,
		AllowPrivateNetwork: c.Favicon.AllowPrivateNetwork,
		Concurrency:         c.Favicon.Concurrency,
		CacheTTL:            c.Favicon.CacheTTL,
		CacheSize:           c.Favicon.CacheSize,
	}
}

func provideSchedulerConfig(c *Config) favicon.SchedulerConfig {
	return favicon.SchedulerConfig{
		NavigationDelay: c.Scheduler.NavigationDelay,
		MutationDelay:   c.Scheduler.MutationDelay,
		MinInterval:     c.Scheduler.MinInterval,
		TTL:             c.Scheduler.TTL,
		IconSize:        c.Icon.DefaultSize,
	}
}

func provideRouterConfig(c *Config) *router.Config {
	return &router.Config{
		Version:        Version,
		Revision:       Revision,
		Development:    c.DevMode,
		AccessLogging:  c.AccessLog.Enabled,
		Gzipped:        c.Gzip,
		AllowedOrigins: c.AllowedOrigins,
		TrustProxy:     c.TrustProxy,
		V1: v1.Config{
			EventRateLimit: rate.Limit(c.Events.RateLimit),
			EventBurst:     c.Events.Burst,
		},
	}
}
