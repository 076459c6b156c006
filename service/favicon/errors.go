package favicon

import "errors"

var (
	// ErrInvalidURL 対象URLがhttp(s)の絶対URLではありません
	ErrInvalidURL = errors.New("invalid url")
	// ErrNotAllowed 対象URLが内部ネットワークを指しています
	ErrNotAllowed = errors.New("access to this URL is not allowed")
	// ErrNetwork 対象URLにアクセスできませんでした
	ErrNetwork = errors.New("network error")
	// ErrClient 対象URLにアクセスした際に4xxエラーが発生しました
	ErrClient = errors.New("network error (client)")
	// ErrServer 対象URLにアクセスした際に5xxエラーが発生しました
	ErrServer = errors.New("network error (server)")
	// ErrContentTypeNotSupported 対象URLのコンテンツがHTMLではありませんでした
	ErrContentTypeNotSupported = errors.New("content type not supported")
	// ErrParse 対象URLをHTMLとしてパースできませんでした
	ErrParse = errors.New("parse error")
)
