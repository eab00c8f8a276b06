package sdjwt

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

// cnfToPublicKey resolves the `jwk` member of a `cnf` confirmation claim to a
// usable public key, for verifying a Key-Binding JWT against the key the
// issuer bound the credential to.
func cnfToPublicKey(cnf map[string]any) (crypto.PublicKey, error) {
	if cnf == nil {
		return nil, fmt.Errorf("sdjwt: cnf claim missing")
	}
	jwkRaw, ok := cnf["jwk"]
	if !ok {
		return nil, fmt.Errorf("sdjwt: cnf.jwk missing")
	}
	b, err := json.Marshal(jwkRaw)
	if err != nil {
		return nil, fmt.Errorf("sdjwt: marshal cnf.jwk: %w", err)
	}

	var jwk struct {
		Kty string `json:"kty"`
		Crv string `json:"crv"`
		X   string `json:"x"`
		Y   string `json:"y"`
	}
	if err := json.Unmarshal(b, &jwk); err != nil {
		return nil, fmt.Errorf("sdjwt: parse cnf.jwk: %w", err)
	}

	switch jwk.Kty {
	case "EC":
		var curve elliptic.Curve
		switch jwk.Crv {
		case "P-256":
			curve = elliptic.P256()
		case "P-384":
			curve = elliptic.P384()
		case "P-521":
			curve = elliptic.P521()
		default:
			return nil, fmt.Errorf("sdjwt: unsupported cnf.jwk curve %q", jwk.Crv)
		}
		x, err := base64.RawURLEncoding.DecodeString(jwk.X)
		if err != nil {
			return nil, fmt.Errorf("sdjwt: decode cnf.jwk.x: %w", err)
		}
		y, err := base64.RawURLEncoding.DecodeString(jwk.Y)
		if err != nil {
			return nil, fmt.Errorf("sdjwt: decode cnf.jwk.y: %w", err)
		}
		return &ecdsa.PublicKey{
			Curve: curve,
			X:     new(big.Int).SetBytes(x),
			Y:     new(big.Int).SetBytes(y),
		}, nil

	case "OKP":
		x, err := base64.RawURLEncoding.DecodeString(jwk.X)
		if err != nil {
			return nil, fmt.Errorf("sdjwt: decode cnf.jwk.x: %w", err)
		}
		return ed25519.PublicKey(x), nil

	default:
		return nil, fmt.Errorf("sdjwt: unsupported cnf.jwk key type %q", jwk.Kty)
	}
}
