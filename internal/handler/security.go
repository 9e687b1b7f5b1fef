package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/CodeRunne/burgershop/internal/domain/order"
)

// APIKeyHeader carries the caller's API key.
const APIKeyHeader = "api_key"

// ErrUnknownKey is returned when an API key hash has no registered identity.
var ErrUnknownKey = errors.New("unknown api key")

// IdentityLookup resolves an HMAC-SHA256 key hash to the caller identity it
// was issued for.
type IdentityLookup interface {
	FindByHash(ctx context.Context, hash string) (order.Identity, error)
}

// StaticKeys is an IdentityLookup over a fixed hash-to-identity map, loaded
// from configuration.
type StaticKeys map[string]order.Identity

func (s StaticKeys) FindByHash(_ context.Context, hash string) (order.Identity, error) {
	id, ok := s[hash]
	if !ok {
		return "", ErrUnknownKey
	}
	return id, nil
}

// APIKeyAuth authenticates requests by computing the HMAC-SHA256 of the
// presented key under pepper and resolving it to a caller identity, which is
// stored on the request context for the host environment.
func APIKeyAuth(keys IdentityLookup, pepper []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				writeError(w, http.StatusUnauthorized, "missing api key")
				return
			}

			mac := hmac.New(sha256.New, pepper)
			mac.Write([]byte(key))
			hash := hex.EncodeToString(mac.Sum(nil))

			identity, err := keys.FindByHash(r.Context(), hash)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), identity)))
		})
	}
}
