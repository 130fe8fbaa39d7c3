package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

/* HMAC-SHA256 signing primitive shared by both webhook pipelines
 * Outbound dispatch signs the canonical JSON body before sending,
 * inbound receive verifies the raw request bytes before parsing
 */

const (
	// Header is the HTTP header carrying the payload signature
	Header = "X-Webhook-Signature"

	// TimestampHeader is the HTTP header carrying the epoch-millisecond send time
	TimestampHeader = "X-Webhook-Timestamp"
)

// Sign computes the base64-encoded HMAC-SHA256 signature of payload using secret
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

/* Verify recomputes the signature and compares it in constant time
 * A byte-by-byte comparison with early exit would leak how many leading
 * bytes matched, so crypto/subtle is mandatory here
 */
func Verify(payload []byte, sig string, secret string) bool {
	expected := Sign(payload, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) == 1
}
