package sdjwt

import (
	"crypto"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const kbJWTTyp = "kb+jwt"

// KeyBindingClaims are the claims of a Key-Binding JWT, proving the holder's
// possession of the private key named in the issuer-signed `cnf` claim.
type KeyBindingClaims struct {
	jwtv5.RegisteredClaims
	Nonce  string `json:"nonce"`
	SDHash string `json:"sd_hash"`
}

// sdHash computes the `sd_hash` claim: the base64url-encoded digest of the
// issuer-signed JWT plus every disclosure, each joined by "~", exactly as it
// appears in the presentation up to (but not including) the KB-JWT itself.
func sdHash(alg HashAlg, issuerSignedAndDisclosures string) (string, error) {
	h, err := newHasher(alg)
	if err != nil {
		return "", err
	}
	h.Write([]byte(issuerSignedAndDisclosures))
	return encodeSegment(h.Sum(nil)), nil
}

// signerForMethod picks a jwt/v5 signing method by name; callers name the
// algorithm explicitly rather than inferring it from the key type.
func signingMethod(name string) (jwtv5.SigningMethod, error) {
	m := jwtv5.GetSigningMethod(name)
	if m == nil {
		return nil, fmt.Errorf("sdjwt: unsupported signing algorithm %q", name)
	}
	return m, nil
}

// SignKeyBinding appends a Key-Binding JWT to a presentation already built by
// Builder.Finish, binding it to aud/nonce and to the exact disclosures
// included in presentation.
func SignKeyBinding(presentation string, key crypto.Signer, alg string, kid string, aud, nonce string, iat time.Time) (string, error) {
	method, err := signingMethod(alg)
	if err != nil {
		return "", err
	}

	hash, err := sdHash(DefaultHashAlg, presentation)
	if err != nil {
		return "", err
	}

	claims := KeyBindingClaims{
		RegisteredClaims: jwtv5.RegisteredClaims{
			Audience:  jwtv5.ClaimStrings{aud},
			IssuedAt:  jwtv5.NewNumericDate(iat),
		},
		Nonce:  nonce,
		SDHash: hash,
	}

	token := jwtv5.NewWithClaims(method, claims)
	token.Header["typ"] = kbJWTTyp
	if kid != "" {
		token.Header["kid"] = kid
	}

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sdjwt: sign key binding: %w", err)
	}

	return presentation + signed, nil
}

// KeyBindingVerifyOptions constrains acceptance of a Key-Binding JWT.
type KeyBindingVerifyOptions struct {
	ExpectedAudience string
	ExpectedNonce    string
	AcceptWindow     time.Duration // max age of `iat`; zero disables the check
	Leeway           time.Duration
}

// VerifyKeyBinding checks a parsed KB-JWT's signature, `sd_hash`, audience,
// nonce, and freshness against opts. presentationPrefix is the issuer-signed
// JWT and disclosures exactly as they preceded the KB-JWT in the compact
// serialization (i.e. everything up to and including the final "~").
func VerifyKeyBinding(kbParts []string, holderKey crypto.PublicKey, presentationPrefix string, opts KeyBindingVerifyOptions) (*KeyBindingClaims, error) {
	if len(kbParts) != 3 {
		return nil, fmt.Errorf("sdjwt: key binding JWT must have 3 segments")
	}
	compact := strings.Join(kbParts, ".")

	var claims KeyBindingClaims
	parser := jwtv5.NewParser(jwtv5.WithLeeway(opts.Leeway))
	token, err := parser.ParseWithClaims(compact, &claims, func(t *jwtv5.Token) (any, error) {
		return holderKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sdjwt: key binding signature invalid: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("sdjwt: key binding JWT rejected")
	}

	expectedHash, err := sdHash(DefaultHashAlg, presentationPrefix)
	if err != nil {
		return nil, err
	}
	if claims.SDHash != expectedHash {
		return nil, fmt.Errorf("sdjwt: sd_hash mismatch")
	}

	if opts.ExpectedAudience != "" {
		found := false
		for _, aud := range claims.RegisteredClaims.Audience {
			if aud == opts.ExpectedAudience {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("sdjwt: key binding audience mismatch")
		}
	}
	if opts.ExpectedNonce != "" && claims.Nonce != opts.ExpectedNonce {
		return nil, fmt.Errorf("sdjwt: key binding nonce mismatch")
	}
	if opts.AcceptWindow > 0 {
		if claims.IssuedAt == nil {
			return nil, fmt.Errorf("sdjwt: key binding missing iat")
		}
		age := time.Since(claims.IssuedAt.Time)
		if age > opts.AcceptWindow+opts.Leeway || age < -opts.Leeway {
			return nil, fmt.Errorf("sdjwt: key binding iat outside acceptance window")
		}
	}

	return &claims, nil
}

// fingerprint is a small helper used by PoA to key holder public keys in an
// order-independent way.
func fingerprint(b []byte) string {
	sum := sha256.Sum256(b)
	return encodeSegment(sum[:])
}
