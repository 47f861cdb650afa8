package middleware

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/storyhub-org/storyhub/pkg/authn"
	"github.com/storyhub-org/storyhub/pkg/identity"
)

var bearerRegex = regexp.MustCompile(`^Bearer\s+(\S+)$`)

// TokenParser verifies a raw access token. *authn.TokenIssuer implements it.
type TokenParser interface {
	Parse(token string) (*identity.Identity, error)
}

// JWTAuthenticator is middleware that validates bearer tokens
type JWTAuthenticator struct {
	Tokens TokenParser
	// ClientIP resolves the caller address; nil falls back to RemoteAddr.
	ClientIP func(r *http.Request) string
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(tokens TokenParser) *JWTAuthenticator {
	return &JWTAuthenticator{Tokens: tokens}
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// stores the caller's identity in the request context.
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			unauthorized(w, "Authorization missing")
			return
		}

		matches := bearerRegex.FindStringSubmatch(authHeader)
		if len(matches) != 2 {
			unauthorized(w, "Malformed authorization header")
			return
		}

		id, err := j.Tokens.Parse(matches[1])
		if err != nil {
			if errors.Is(err, authn.ErrTokenExpired) {
				unauthorized(w, "Token expired")
				return
			}
			unauthorized(w, "Invalid token")
			return
		}

		if j.ClientIP != nil {
			id.WithRemoteIP(parseIP(j.ClientIP(r)))
		} else {
			id.WithRemoteIP(parseIP(r.RemoteAddr))
		}

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="storyhub"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(msg))
}
