package linear

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// VerifySignature checks that body was signed by a party holding secret.
// The expected signature is the hex HMAC-SHA256 digest of the raw body,
// compared in constant time.
//
// An empty secret disables verification entirely: the function warns and
// accepts the payload. This is a development convenience, not something
// to rely on in production.
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" {
		slog.Warn("no LINEAR_WEBHOOK_SECRET set, skipping signature verification")
		return true
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal is constant-time.
	return hmac.Equal([]byte(signature), []byte(expected))
}

// Sign computes the hex HMAC-SHA256 signature of body with secret.
// Used by tests and by anyone replaying payloads against a local server.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
