package utils

import (
	"errors"
	"net"
	"net/url"
)

// ErrNotAllowedHost 内部ネットワークを指すURLです
var ErrNotAllowedHost = errors.New("access to this host is not allowed")

// IsPrivateIP ループバック、プライベート、リンクローカル、未指定、マルチキャストのいずれかのアドレスかどうか
func IsPrivateIP(ip net.IP) bool {
	if ip == nil {
		return true // 不明なIPはブロック
	}
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified() ||
		ip.IsMulticast()
}

// ResolvePublicHost ホストを名前解決し、全てのアドレスが公開アドレスであれば返します
//
// 名前解決に失敗した場合はそのエラーを、内部アドレスが含まれていた場合はErrNotAllowedHostを返します。
func ResolvePublicHost(u *url.URL) ([]net.IP, error) {
	host := u.Hostname()
	if len(host) == 0 {
		return nil, ErrNotAllowedHost
	}
	if ip := net.ParseIP(host); ip != nil {
		if IsPrivateIP(ip) {
			return nil, ErrNotAllowedHost
		}
		return []net.IP{ip}, nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, err
	}
	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return nil, ErrNotAllowedHost
		}
	}
	return ips, nil
}
