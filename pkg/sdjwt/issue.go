package sdjwt

import (
	"crypto"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// pendingDisclosure is a claim queued for selective disclosure before the
// issuer-signed JWT is assembled.
type pendingDisclosure struct {
	name  string // empty for array elements
	value any
	kind  disclosureKind
}

// Issuer builds SD-JWTs: a signed JWT whose payload replaces chosen claims
// with digests, paired with the disclosures needed to reveal them again.
type Issuer struct {
	alg     HashAlg
	claims  map[string]any
	pending []pendingDisclosure
}

// NewIssuer starts a new SD-JWT under construction, hashing disclosures with
// alg (DefaultHashAlg if zero).
func NewIssuer(alg HashAlg) *Issuer {
	if alg == "" {
		alg = DefaultHashAlg
	}
	return &Issuer{alg: alg, claims: make(map[string]any)}
}

// Claim adds a plain, always-visible claim (e.g. iss, vct, iat, cnf).
func (i *Issuer) Claim(name string, value any) *Issuer {
	i.claims[name] = value
	return i
}

// DiscloseClaim marks a top-level claim as selectively disclosable: it is
// removed from the signed payload and replaced with a digest in `_sd`.
func (i *Issuer) DiscloseClaim(name string, value any) *Issuer {
	i.pending = append(i.pending, pendingDisclosure{name: name, value: value, kind: kindObject})
	return i
}

// DiscloseArrayElement adds value as a selectively disclosable element of the
// array claim named arrayClaim, creating the claim if needed.
func (i *Issuer) DiscloseArrayElement(arrayClaim string, value any) *Issuer {
	i.pending = append(i.pending, pendingDisclosure{name: arrayClaim, value: value, kind: kindArrayElement})
	return i
}

// salt returns a fresh 128-bit base64url-encoded salt, per the SD-JWT
// disclosure format.
func salt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("sdjwt: generate salt: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// buildDisclosure renders the base64url disclosure string for a pending
// entry and returns it alongside the parsed Disclosure used to compute its
// digest.
func buildDisclosure(p pendingDisclosure) (*Disclosure, error) {
	s, err := salt()
	if err != nil {
		return nil, err
	}

	var arr []any
	switch p.kind {
	case kindObject:
		arr = []any{s, p.name, p.value}
	case kindArrayElement:
		arr = []any{s, p.value}
	}

	b, err := json.Marshal(arr)
	if err != nil {
		return nil, fmt.Errorf("sdjwt: marshal disclosure: %w", err)
	}
	raw := base64.RawURLEncoding.EncodeToString(b)

	return &Disclosure{Raw: raw, Salt: s, Name: p.name, Value: p.value, Kind: p.kind}, nil
}

// Sign finalizes the SD-JWT: it builds one disclosure per pending entry,
// folds their digests into the payload (`_sd` for object claims, array
// elements replaced in place), signs the payload with key under alg/kid, and
// returns the compact presentation (issuer-signed JWT followed by every
// disclosure, in construction order, each separated by "~", with a trailing
// "~").
func (i *Issuer) Sign(key crypto.Signer, alg string, kid string) (string, error) {
	method, err := signingMethod(alg)
	if err != nil {
		return "", err
	}

	payload := make(map[string]any, len(i.claims)+2)
	for k, v := range i.claims {
		payload[k] = v
	}
	payload["_sd_alg"] = string(i.alg)

	arrayClaims := make(map[string][]any)
	var sdDigests []any
	var disclosures []*Disclosure

	for _, p := range i.pending {
		d, err := buildDisclosure(p)
		if err != nil {
			return "", err
		}
		disclosures = append(disclosures, d)

		digest, err := d.Digest(i.alg)
		if err != nil {
			return "", err
		}

		switch p.kind {
		case kindObject:
			sdDigests = append(sdDigests, digest)
		case kindArrayElement:
			arrayClaims[p.name] = append(arrayClaims[p.name], map[string]string{"...": digest})
		}
	}
	if len(sdDigests) > 0 {
		payload["_sd"] = sdDigests
	}
	for name, elements := range arrayClaims {
		payload[name] = elements
	}

	token := jwtv5.NewWithClaims(method, jwtv5.MapClaims(payload))
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sdjwt: sign payload: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(signed)
	for _, d := range disclosures {
		sb.WriteString("~")
		sb.WriteString(d.Raw)
	}
	sb.WriteString("~")
	return sb.String(), nil
}
