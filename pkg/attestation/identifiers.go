package attestation

import (
	"fmt"
	"sort"

	"walletdisclosure/pkg/mdoc"
	"walletdisclosure/pkg/sdjwt"
)

// MDocAttributeIdentifiers computes attribute_identifiers() for an mso_mdoc
// candidate: one "namespace.element" entry per issuer-signed item.
func MDocAttributeIdentifiers(issuerSigned *mdoc.IssuerSigned) map[AttributeIdentifier]bool {
	out := make(map[AttributeIdentifier]bool)
	for namespace, items := range issuerSigned.NameSpaces {
		for _, item := range items {
			out[AttributeIdentifier(fmt.Sprintf("%s.%s", namespace, item.ElementIdentifier))] = true
		}
	}
	return out
}

// SDJWTAttributeIdentifiers computes attribute_identifiers() for a
// dc+sd-jwt candidate by expanding its disclosures and flattening the
// resulting claims tree into dotted paths, mirroring C7's Expand.
func SDJWTAttributeIdentifiers(compact string) (map[AttributeIdentifier]bool, error) {
	parsed, err := sdjwt.Token(compact).Parse()
	if err != nil {
		return nil, fmt.Errorf("attestation: parse sd-jwt candidate: %w", err)
	}

	var disclosures []*sdjwt.Disclosure
	for _, raw := range parsed.Disclosures {
		d, err := sdjwt.ParseDisclosure(raw)
		if err != nil {
			return nil, fmt.Errorf("attestation: parse disclosure: %w", err)
		}
		disclosures = append(disclosures, d)
	}

	expanded, _, err := sdjwt.Expand(parsed.Claims, disclosures)
	if err != nil {
		return nil, fmt.Errorf("attestation: expand sd-jwt candidate: %w", err)
	}

	out := make(map[AttributeIdentifier]bool)
	flattenClaimPaths(expanded, "$", out)
	return out, nil
}

func flattenClaimPaths(v any, path string, out map[AttributeIdentifier]bool) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			childPath := fmt.Sprintf("%s.%s", path, k)
			out[AttributeIdentifier(childPath)] = true
			flattenClaimPaths(t[k], childPath, out)
		}
	case []any:
		for i, val := range t {
			childPath := fmt.Sprintf("%s[%d]", path, i)
			flattenClaimPaths(val, childPath, out)
		}
	}
}
