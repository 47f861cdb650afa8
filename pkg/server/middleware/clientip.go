package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ProxyTrust reports whether a peer address may set X-Forwarded-For.
// *config.StoryhubConfig implements it.
type ProxyTrust interface {
	IsTrustedProxy(ip string) bool
}

// ClientIP returns the caller's address. X-Forwarded-For is honoured only
// when the direct peer is a trusted proxy; the rightmost untrusted hop wins.
func ClientIP(r *http.Request, trust ProxyTrust) string {
	peer := hostOnly(r.RemoteAddr)
	if trust == nil || !trust.IsTrustedProxy(peer) {
		return peer
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return peer
	}
	hops := strings.Split(forwarded, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !trust.IsTrustedProxy(hop) {
			return hop
		}
	}
	return strings.TrimSpace(hops[0])
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func parseIP(addr string) net.IP {
	return net.ParseIP(hostOnly(addr))
}
