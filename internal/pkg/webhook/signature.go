package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignedMessage builds the exact byte sequence the provider signs:
// the decimal timestamp, a literal period, and the raw request body.
func SignedMessage(timestamp string, body []byte) []byte {
	msg := make([]byte, 0, len(timestamp)+1+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, '.')
	msg = append(msg, body...)
	return msg
}

// VerifySignature checks an HMAC-SHA256 hex signature over message using
// secret as key. The comparison is constant-time.
func VerifySignature(message []byte, signature, secret string) bool {
	sig := strings.TrimSpace(signature)
	if sig == "" || secret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}

// Sign returns the lowercase hex HMAC-SHA256 of message keyed by secret.
// Used by tests and local tooling to produce valid webhook headers.
func Sign(message []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
