package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/dukerupert/shoplist/internal/auth"
)

// TokenChecker verifies bearer tokens against one bcrypt hash. Tokens that
// passed once are remembered by fingerprint so bcrypt runs once per token.
type TokenChecker struct {
	hash string

	mu       sync.Mutex
	verified map[string]bool
}

func NewTokenChecker(hash string) *TokenChecker {
	return &TokenChecker{hash: hash, verified: make(map[string]bool)}
}

// Enabled reports whether a token hash is configured.
func (c *TokenChecker) Enabled() bool {
	return c != nil && c.hash != ""
}

func (c *TokenChecker) Check(token string) bool {
	fp := auth.TokenFingerprint(token)

	c.mu.Lock()
	ok := c.verified[fp]
	c.mu.Unlock()
	if ok {
		return true
	}

	if !auth.CheckToken(c.hash, token) {
		return false
	}
	c.mu.Lock()
	c.verified[fp] = true
	c.mu.Unlock()
	return true
}

// RequireToken rejects requests without a valid "Authorization: Bearer"
// token: 401 when the header is missing, 403 when the token is wrong. With no
// hash configured every request passes.
func RequireToken(checker *TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, http.StatusUnauthorized)
				return
			}
			if !checker.Check(token) {
				unauthorized(w, http.StatusForbidden)
				return
			}

			fp := auth.TokenFingerprint(token)
			noteToken(r.Context(), fp)
			ctx := auth.WithCaller(r.Context(), auth.Caller{Fingerprint: fp, Remote: RealIP(r)})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
