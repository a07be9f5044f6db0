package embedded

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type jwtHandler struct {
	keyFunc func(token *jwt.Token) (interface{}, error)
	maxSkew time.Duration
	next    http.Handler
}

// newJWTHandler creates a http.Handler with jwt authentication support.
func newJWTHandler(secret []byte, maxSkew time.Duration, next http.Handler) http.Handler {
	return &jwtHandler{
		keyFunc: func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		maxSkew: maxSkew,
		next:    next,
	}
}

// ServeHTTP implements http.Handler
func (handler *jwtHandler) ServeHTTP(out http.ResponseWriter, r *http.Request) {
	var (
		strToken string
		claims   jwt.RegisteredClaims
	)
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		strToken = strings.TrimPrefix(auth, "Bearer ")
	}
	if len(strToken) == 0 {
		http.Error(out, "missing token", http.StatusForbidden)
		return
	}
	// Only HS256 is accepted. Claim validation is done below so that
	// a small clock drift on 'iat' is tolerated.
	token, err := jwt.ParseWithClaims(strToken, &claims, handler.keyFunc,
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation())

	switch {
	case err != nil:
		http.Error(out, err.Error(), http.StatusForbidden)
	case !token.Valid:
		http.Error(out, "invalid token", http.StatusForbidden)
	case !claims.VerifyExpiresAt(time.Now(), false): // optional
		http.Error(out, "token is expired", http.StatusForbidden)
	case claims.IssuedAt == nil:
		http.Error(out, "missing issued-at", http.StatusForbidden)
	case time.Since(claims.IssuedAt.Time) > handler.maxSkew:
		http.Error(out, "stale token", http.StatusForbidden)
	case time.Until(claims.IssuedAt.Time) > handler.maxSkew:
		http.Error(out, "future token", http.StatusForbidden)
	default:
		handler.next.ServeHTTP(out, r)
	}
}
