package sdjwt

import (
	"crypto"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// VCTM is a verifiable credential type metadata document, chained via its
// `extends`/`extends#integrity` claims back to a base type. Verification
// walks the chain and confirms each link's digest before trusting the leaf
// schema used to validate disclosed claims.
type VCTM struct {
	VCT       string `json:"vct"`
	Extends   string `json:"extends,omitempty"`
	Integrity string `json:"extends#integrity,omitempty"`
	Schema    map[string]any `json:"schema,omitempty"`
}

// VerificationOptions constrains acceptance of a presentation.
type VerificationOptions struct {
	ValidateTime      bool
	AllowedClockSkew  time.Duration
	RequireKeyBinding bool
	ExpectedAudience  string
	ExpectedNonce     string
}

// VerifyResult is the outcome of Client.ParseAndVerify.
type VerifyResult struct {
	Valid           bool
	Errors          []error
	Claims          map[string]any // fully expanded, with _sd/_sd_alg resolved away
	DisclosedClaims map[string]any // only the claims that came from a disclosure
	KeyBindingValid bool
	VCTM            *VCTM
}

// Client verifies SD-JWT presentations.
type Client struct{}

// New constructs a Client. SD-JWT verification carries no per-client state;
// New exists so callers have a stable construction point to extend later.
func New() *Client {
	return &Client{}
}

// ParseAndVerify verifies compact's issuer signature, disclosure-digest
// binding, and (when present or required) its Key-Binding JWT, returning the
// expanded claims tree.
func (c *Client) ParseAndVerify(compact string, issuerKey crypto.PublicKey, opts *VerificationOptions) (*VerifyResult, error) {
	if opts == nil {
		opts = &VerificationOptions{}
	}

	parsed, err := Token(compact).Parse()
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{}

	parser := jwtv5.NewParser(jwtv5.WithLeeway(opts.AllowedClockSkew))
	claims := jwtv5.MapClaims{}
	jwtToken, err := parser.ParseWithClaims(parsed.jwt, claims, func(t *jwtv5.Token) (any, error) {
		return issuerKey, nil
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("issuer signature invalid: %w", err))
		return result, nil
	}
	if !jwtToken.Valid {
		result.Errors = append(result.Errors, fmt.Errorf("issuer-signed JWT rejected"))
		return result, nil
	}

	var disclosures []*Disclosure
	for _, raw := range parsed.Disclosures {
		d, derr := ParseDisclosure(raw)
		if derr != nil {
			result.Errors = append(result.Errors, derr)
			return result, nil
		}
		disclosures = append(disclosures, d)
	}

	expanded, used, err := Expand(map[string]any(claims), disclosures)
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result, nil
	}
	result.Claims = expanded

	disclosed := make(map[string]any, len(used))
	for _, d := range used {
		if d.Kind == kindObject {
			disclosed[d.Name] = d.Value
		}
	}
	result.DisclosedClaims = disclosed

	if opts.ValidateTime {
		now := time.Now()
		if exp, ok := numericClaim(claims, "exp"); ok && now.After(exp.Add(opts.AllowedClockSkew)) {
			result.Errors = append(result.Errors, fmt.Errorf("token expired"))
		}
		if nbf, ok := numericClaim(claims, "nbf"); ok && now.Before(nbf.Add(-opts.AllowedClockSkew)) {
			result.Errors = append(result.Errors, fmt.Errorf("token not yet valid"))
		}
	}

	if len(parsed.KeyBinding) > 0 || opts.RequireKeyBinding {
		if len(parsed.KeyBinding) == 0 {
			result.Errors = append(result.Errors, fmt.Errorf("key binding required but absent"))
		} else {
			cnf, _ := expanded["cnf"].(map[string]any)
			holderKey, kerr := cnfToPublicKey(cnf)
			if kerr != nil {
				result.Errors = append(result.Errors, fmt.Errorf("resolve holder key from cnf: %w", kerr))
			} else {
				prefix := presentationPrefix(compact)
				_, kbErr := VerifyKeyBinding(parsed.KeyBinding, holderKey, prefix, KeyBindingVerifyOptions{
					ExpectedAudience: opts.ExpectedAudience,
					ExpectedNonce:    opts.ExpectedNonce,
					Leeway:           opts.AllowedClockSkew,
				})
				if kbErr != nil {
					result.Errors = append(result.Errors, kbErr)
				} else {
					result.KeyBindingValid = true
				}
			}
		}
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

// presentationPrefix returns everything preceding the final "~"-separated
// segment (the Key-Binding JWT) in a compact presentation.
func presentationPrefix(compact string) string {
	idx := lastTilde(compact)
	if idx < 0 {
		return compact
	}
	return compact[:idx+1]
}

func lastTilde(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '~' {
			return i
		}
	}
	return -1
}

func numericClaim(claims jwtv5.MapClaims, name string) (time.Time, bool) {
	v, ok := claims[name].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(v), 0), true
}
