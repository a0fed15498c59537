package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	gen "github.com/kailas-cloud/cvdex/internal/transport/api"
)

// exemptPaths bypass authentication so probes and scrapers need no key.
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

const bearerScheme = "bearer"

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	digests := make([][sha256.Size]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			digests = append(digests, sha256.Sum256([]byte(k)))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(digests) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := bearerToken(r.Header.Get("Authorization"))
			if msg == "" && !knownKey(digests, token) {
				msg = "invalid api key"
			}
			if msg != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="cvdex"`)
				writeError(w, http.StatusUnauthorized, gen.ErrorResponseCodeUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token; a non-empty msg explains why it could not.
func bearerToken(header string) (token, msg string) {
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", "authorization header must use Bearer scheme"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "empty bearer token"
	}
	return token, ""
}

// knownKey compares digests in constant time and visits every key.
func knownKey(digests [][sha256.Size]byte, token string) bool {
	sum := sha256.Sum256([]byte(token))
	found := 0
	for i := range digests {
		found |= subtle.ConstantTimeCompare(digests[i][:], sum[:])
	}
	return found == 1
}
