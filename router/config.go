package router

import (
	v1 "github.com/traPtitech/identfavicon/router/v1"
)

// Config APIサーバー設定
type Config struct {
	// Version サーバーバージョン
	Version string
	// Revision サーバーリビジョン
	Revision string
	// Development 開発モードかどうか
	Development bool
	// AccessLogging アクセスログを記録するかどうか
	AccessLogging bool
	// Gzipped JSONレスポンスをGzip圧縮するかどうか
	Gzipped bool
	// AllowedOrigins CORSで許可するオリジン. 空の場合は全て許可
	AllowedOrigins []string
	// TrustProxy リバースプロキシのX-Forwarded-Forを信頼するかどうか
	TrustProxy bool

	V1 v1.Config
}
