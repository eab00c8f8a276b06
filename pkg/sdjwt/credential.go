package sdjwt

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Token is a compact SD-JWT presentation: <jwt>~<disclosure>~...~<disclosure>~[<kb-jwt>]
type Token string

// ParsedCredential is the result of splitting and shallow-decoding a Token,
// without verifying its signature or its disclosure digest binding.
type ParsedCredential struct {
	Header      map[string]any
	Claims      map[string]any
	Disclosures []string
	KeyBinding  []string // the three dot-separated parts of the KB-JWT, if present
	jwt         string
}

// Parse splits the compact serialization and decodes the issuer-signed JWT's
// header and payload without verifying anything. Useful for key resolution
// (reading `iss`/`kid`) before full verification.
func (t Token) Parse() (*ParsedCredential, error) {
	s := string(t)
	hasTrailingTilde := strings.HasSuffix(s, "~")
	parts := strings.Split(strings.TrimSuffix(s, "~"), "~")
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("sdjwt: empty token")
	}

	jwtParts := strings.Split(parts[0], ".")
	if len(jwtParts) != 3 {
		return nil, fmt.Errorf("sdjwt: issuer-signed JWT must have 3 segments")
	}

	header, err := decodeSegment(jwtParts[0])
	if err != nil {
		return nil, fmt.Errorf("sdjwt: decode header: %w", err)
	}
	payload, err := decodeSegment(jwtParts[1])
	if err != nil {
		return nil, fmt.Errorf("sdjwt: decode payload: %w", err)
	}

	pc := &ParsedCredential{jwt: parts[0]}
	if err := json.Unmarshal(header, &pc.Header); err != nil {
		return nil, fmt.Errorf("sdjwt: parse header: %w", err)
	}
	if err := json.Unmarshal(payload, &pc.Claims); err != nil {
		return nil, fmt.Errorf("sdjwt: parse payload: %w", err)
	}

	disclosures := parts[1:]
	// The last segment is a KB-JWT, not a disclosure, when the token does not
	// end in a bare "~" and the final segment itself parses as a 3-part JWT
	// that is not a valid base64url JSON array (a disclosure never is).
	if !hasTrailingTilde && len(disclosures) > 0 {
		last := disclosures[len(disclosures)-1]
		if kbParts := strings.Split(last, "."); len(kbParts) == 3 {
			pc.KeyBinding = kbParts
			disclosures = disclosures[:len(disclosures)-1]
		}
	}
	for _, d := range disclosures {
		if d != "" {
			pc.Disclosures = append(pc.Disclosures, d)
		}
	}

	return pc, nil
}

func decodeSegment(s string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
