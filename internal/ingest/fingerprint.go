package ingest

import (
	"crypto/sha1" //nolint:gosec // fingerprint is a clustering hint, not a security boundary
	"encoding/hex"
	"encoding/json"
)

// fingerprintLen is the number of hex characters kept from the SHA-1 digest.
const fingerprintLen = 16

// ctxStack extracts ctx.stack as a string, or "" if absent or not a string.
func ctxStack(ctx json.RawMessage) string {
	if len(ctx) == 0 {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(ctx, &m); err != nil {
		return ""
	}
	s, _ := m["stack"].(string)
	return s
}

// Fingerprint computes the first 16 hex chars of SHA-1("<message>|<source?>|<ctx.stack?>").
// An absent part contributes the empty string; the pipe separators are literal.
func Fingerprint(message, source string, ctx json.RawMessage) string {
	material := message + "|" + source + "|" + ctxStack(ctx)
	sum := sha1.Sum([]byte(material)) //nolint:gosec
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
