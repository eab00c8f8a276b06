package verifiersession

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ephemeralIDMaxAge is the validity window for a generated ephemeral ID,
// measured against the timestamp embedded in it (spec: "valid for <=10s").
const ephemeralIDMaxAge = 10 * time.Second

// generateEphemeralID computes HMAC-SHA256(secret, sessionToken || "|" || rfc3339(t)),
// returning the hex-encoded MAC and the rfc3339 timestamp it was minted against.
func generateEphemeralID(secret, sessionToken string, t time.Time) (id string, timestamp string) {
	timestamp = t.UTC().Format(time.RFC3339)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sessionToken + "|" + timestamp))
	return hex.EncodeToString(mac.Sum(nil)), timestamp
}

// verifyEphemeralID recomputes the HMAC over the given timestamp and checks
// both the MAC and that now is within ephemeralIDMaxAge of it.
func verifyEphemeralID(secret, sessionToken, id, timestamp string, now time.Time) error {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return ErrInvalidEphemeralID
	}

	expected, _ := generateEphemeralID(secret, sessionToken, t)
	if !hmac.Equal([]byte(expected), []byte(id)) {
		return ErrInvalidEphemeralID
	}

	age := now.Sub(t)
	if age < 0 {
		age = -age
	}
	if age > ephemeralIDMaxAge {
		return ErrExpiredEphemeralID
	}
	return nil
}
