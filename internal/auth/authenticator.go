// Package auth implements the two authentication modes this service
// accepts: API mode (project key + HMAC body signature) and admin mode
// (shared admin token). Both comparisons are constant-time.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"github.com/akave-ai/akavelog/internal/apperr"
	"github.com/akave-ai/akavelog/internal/model"
	"github.com/akave-ai/akavelog/internal/tenant"
)

// TenantLookup is the narrow interface Authenticator needs from the
// tenant registry, so tests can supply a fake without a real store.
type TenantLookup interface {
	ByAPIKeyHash(ctx context.Context, hash string) (*model.Tenant, error)
}

// Authenticator verifies API-mode and admin-mode credentials.
type Authenticator struct {
	Tenants    TenantLookup
	HMACSecret []byte
	AdminToken []byte
}

// New builds an Authenticator over registry with the given shared secrets.
func New(registry TenantLookup, hmacSecret, adminToken string) *Authenticator {
	return &Authenticator{
		Tenants:    registry,
		HMACSecret: []byte(hmacSecret),
		AdminToken: []byte(adminToken),
	}
}

// HashAPIKey returns the lowercase hex SHA-256 digest of the plaintext key,
// the value stored in projects.api_key_hash and never the reverse.
func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Sign returns the lowercase hex HMAC-SHA-256 of body under secret: the
// value a client must send as X-Signature.
func Sign(body []byte, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// verify performs a constant-time comparison of two lowercase hex digests.
func verify(expectedHex, gotHex string) bool {
	expected, err1 := hex.DecodeString(expectedHex)
	got, err2 := hex.DecodeString(gotHex)
	if err1 != nil || err2 != nil {
		return false
	}
	return subtle.ConstantTimeCompare(expected, got) == 1
}

// AuthenticateAPI resolves and verifies an API-mode caller: header
// presence, project key lookup, then signature check. rawBody is the exact
// bytes the client signed: the request body for mutating methods, or the
// raw query string for GET (see the raw-body capture middleware). It
// returns the resolved tenant or a tagged *apperr.Error.
func (a *Authenticator) AuthenticateAPI(ctx context.Context, projectKey, signature string, rawBody []byte) (*model.Tenant, error) {
	if projectKey == "" {
		return nil, apperr.New(apperr.CodeProjectKeyMissing, "X-Project-Key header is required")
	}
	if signature == "" {
		return nil, apperr.New(apperr.CodeSignatureMissing, "X-Signature header is required")
	}

	hash := HashAPIKey(projectKey)
	t, err := a.Tenants.ByAPIKeyHash(ctx, hash)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrNotFound):
			return nil, apperr.New(apperr.CodeProjectNotFound, "no project matches this key")
		case errors.Is(err, tenant.ErrUnavailable):
			return nil, apperr.Wrap(apperr.CodeDatabaseError, "tenant lookup timed out", err)
		default:
			return nil, apperr.Wrap(apperr.CodeDatabaseError, "tenant lookup failed", err)
		}
	}

	expected := Sign(rawBody, a.HMACSecret)
	if !verify(expected, signature) {
		return nil, apperr.New(apperr.CodeSignatureInvalid, "signature does not match request body")
	}

	return t, nil
}

// AuthenticateAdmin verifies the shared admin token.
func (a *Authenticator) AuthenticateAdmin(token string) error {
	if token == "" {
		return apperr.New(apperr.CodeAdminTokenMissing, "X-Admin-Token header is required")
	}
	if subtle.ConstantTimeCompare([]byte(token), a.AdminToken) != 1 {
		return apperr.New(apperr.CodeAdminTokenInvalid, "admin token is invalid")
	}
	return nil
}
