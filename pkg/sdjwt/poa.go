package sdjwt

import (
	"crypto"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const poaTyp = "poa+jwt"

// PoAClaims are the claims of a Proof of Association: a JWT co-signed (in
// the sense that every named key signs its own instance) by every holder key
// bound to a single disclosure, asserting that those keys belong to the same
// holder and were presented together for (aud, nonce).
type PoAClaims struct {
	jwtv5.RegisteredClaims
	Nonce string `json:"nonce"`
}

// PoAKey is one holder key that must co-sign a Proof of Association.
type PoAKey struct {
	Kid    string
	Signer crypto.Signer
	Alg    string // jwt/v5 signing method name, e.g. "ES256"
}

// BuildPoA produces one detached JWS per key in keys, each over the same
// PoAClaims (aud, nonce), proving association of the keys without revealing
// which disclosure(s) each one is bound to.
func BuildPoA(keys []PoAKey, aud, nonce string, iat time.Time) ([]string, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("sdjwt: PoA requires at least one key")
	}

	claims := PoAClaims{
		RegisteredClaims: jwtv5.RegisteredClaims{
			Audience: jwtv5.ClaimStrings{aud},
			IssuedAt: jwtv5.NewNumericDate(iat),
		},
		Nonce: nonce,
	}

	sigs := make([]string, 0, len(keys))
	for _, k := range keys {
		method, err := signingMethod(k.Alg)
		if err != nil {
			return nil, err
		}
		token := jwtv5.NewWithClaims(method, claims)
		token.Header["typ"] = poaTyp
		if k.Kid != "" {
			token.Header["kid"] = k.Kid
		}
		signed, err := token.SignedString(k.Signer)
		if err != nil {
			return nil, fmt.Errorf("sdjwt: sign PoA for key %q: %w", k.Kid, err)
		}
		sigs = append(sigs, signed)
	}
	return sigs, nil
}

// VerifyPoA checks that every signature in poa was produced by one of
// holderKeys over the same (aud, nonce), independent of presentation order.
// It returns the set of key IDs that were actually proven associated.
func VerifyPoA(poa []string, holderKeys map[string]crypto.PublicKey, aud, nonce string, leeway time.Duration) ([]string, error) {
	proven := make([]string, 0, len(poa))
	seen := make(map[string]bool, len(poa))

	for _, compact := range poa {
		var claims PoAClaims
		parser := jwtv5.NewParser(jwtv5.WithLeeway(leeway))

		var matchedKid string
		token, err := parser.ParseWithClaims(compact, &claims, func(t *jwtv5.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			key, ok := holderKeys[kid]
			if !ok {
				return nil, fmt.Errorf("sdjwt: PoA signed by unknown key %q", kid)
			}
			matchedKid = kid
			return key, nil
		})
		if err != nil {
			return nil, fmt.Errorf("sdjwt: PoA signature invalid: %w", err)
		}
		if !token.Valid {
			return nil, fmt.Errorf("sdjwt: PoA rejected")
		}

		audMatch := false
		for _, a := range claims.RegisteredClaims.Audience {
			if a == aud {
				audMatch = true
				break
			}
		}
		if !audMatch {
			return nil, fmt.Errorf("sdjwt: PoA audience mismatch for key %q", matchedKid)
		}
		if claims.Nonce != nonce {
			return nil, fmt.Errorf("sdjwt: PoA nonce mismatch for key %q", matchedKid)
		}
		if seen[matchedKid] {
			return nil, fmt.Errorf("sdjwt: PoA has duplicate signature for key %q", matchedKid)
		}
		seen[matchedKid] = true
		proven = append(proven, matchedKid)
	}

	return proven, nil
}
