// Package signature implements HMAC authentication for webhook requests.
// The signature covers the exact raw body bytes plus a client-supplied
// timestamp; the timestamp is additionally checked against a replay window
// so a captured request cannot be replayed indefinitely.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// Verifier validates webhook request signatures. It holds one shared secret
// per api key so collaborator credentials can be rotated independently.
type Verifier struct {
	secrets map[string][]byte
	maxSkew time.Duration
	now     func() time.Time
}

// NewVerifier creates a Verifier. maxSkew bounds the accepted age of a
// signed timestamp in either direction (recommended: 5 minutes).
func NewVerifier(secrets map[string]string, maxSkew time.Duration) *Verifier {
	s := make(map[string][]byte, len(secrets))
	for key, secret := range secrets {
		s[key] = []byte(secret)
	}
	return &Verifier{
		secrets: s,
		maxSkew: maxSkew,
		now:     time.Now,
	}
}

// Verify checks the signature of a request against the raw body bytes it
// covers. timestamp is integer milliseconds since epoch as sent by the
// client; signature is lowercase hex of HMAC-SHA256(secret, timestamp + "."
// + body). All failures unwrap to domain.ErrUnauthorized. The body must be
// the exact bytes received on the wire; re-serialized JSON will not match.
func (v *Verifier) Verify(apiKey string, body []byte, timestamp, sig string) error {
	secret, ok := v.secrets[apiKey]
	if !ok {
		return fmt.Errorf("unknown api key: %w", domain.ErrUnauthorized)
	}

	ms, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed timestamp: %w", domain.ErrUnauthorized)
	}

	skew := v.now().Sub(time.UnixMilli(ms))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.maxSkew {
		return fmt.Errorf("timestamp outside replay window: %w", domain.ErrUnauthorized)
	}

	given, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return fmt.Errorf("malformed signature: %w", domain.ErrUnauthorized)
	}

	if !hmac.Equal(given, compute(secret, timestamp, body)) {
		return fmt.Errorf("signature mismatch: %w", domain.ErrUnauthorized)
	}

	return nil
}

// Sign computes the hex signature for a timestamp and body. Used by clients
// and tests; the verifier itself only compares.
func Sign(secret, timestamp string, body []byte) string {
	return hex.EncodeToString(compute([]byte(secret), timestamp, body))
}

func compute(secret []byte, timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}
