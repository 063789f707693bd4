package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// CookieVerifier validates signed session cookies. Tokens are minted by the
// surrounding authentication gateway; this service only checks the signature
// and expiry. Token format: base64url(payload) "." hex(hmac-sha256(payload)).
type CookieVerifier struct {
	secret []byte
}

func NewCookieVerifier(secret string) (*CookieVerifier, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}

	return &CookieVerifier{secret: []byte(secret)}, nil
}

type claims struct {
	Expires int64 `json:"exp"`
}

func (v *CookieVerifier) Verify(value string) bool {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		log.Debug().Msg("session cookie signature mismatch")
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return false
	}

	var c claims
	if err := json.Unmarshal(raw, &c); err != nil {
		return false
	}

	if c.Expires <= time.Now().Unix() {
		log.Debug().Int64("exp", c.Expires).Msg("session cookie expired")
		return false
	}

	return true
}

// Sign mints a token in the format Verify expects. The production issuer
// lives in the auth gateway; this is used by local tooling and tests.
func Sign(secret []byte, expires time.Time) string {
	raw, _ := json.Marshal(claims{Expires: expires.Unix()})
	payload := base64.RawURLEncoding.EncodeToString(raw)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))

	return payload + "." + hex.EncodeToString(mac.Sum(nil))
}
