package sdjwt

import (
	"crypto"
	"fmt"
)

// ErrDuplicateHash is returned when a single digest is reached more than once
// while expanding a claims tree.
type ErrDuplicateHash struct{ Digest string }

func (e *ErrDuplicateHash) Error() string { return fmt.Sprintf("sdjwt: duplicate digest %q", e.Digest) }

// ErrUnreferencedDisclosure is returned when a disclosure's digest is never
// reached from the issuer-signed payload.
type ErrUnreferencedDisclosure struct{ Disclosure *Disclosure }

func (e *ErrUnreferencedDisclosure) Error() string {
	return fmt.Sprintf("sdjwt: disclosure %q is not referenced by any digest in the payload", e.Disclosure.Raw)
}

// ErrDisclosureTypeMismatch is returned when a disclosure's structural form
// (object-property vs array-element) does not match where its digest appears.
type ErrDisclosureTypeMismatch struct {
	Digest string
	Want   string
	Got    string
}

func (e *ErrDisclosureTypeMismatch) Error() string {
	return fmt.Sprintf("sdjwt: disclosure for digest %q has shape %q, expected %q", e.Digest, e.Got, e.Want)
}

// digestKind mirrors disclosureKind but names the place a digest was found,
// for error messages.
type digestKind string

const (
	digestKindObject digestKind = "object"
	digestKindArray  digestKind = "array"
)

// expandState threads the shared bookkeeping through the recursive walk.
type expandState struct {
	alg      HashAlg
	byDigest map[string]*Disclosure
	used     map[string]bool
	// parent records, for each digest, the digest of the disclosure whose
	// value-tree it was found inside (empty string = reached from the root
	// payload directly). The presentation builder uses this to find every
	// ancestor digest that must be retained to reveal a given claim.
	parent map[string]string
}

// Expand verifies the disclosure-digest binding of an SD-JWT payload (spec
// algorithm: every disclosure's digest must be reachable from the payload,
// reachable at most once, and reached at a position whose structural kind
// matches the disclosure's own shape) and returns the claims tree with `_sd`
// arrays and `{"...": digest}` placeholders resolved to their disclosed
// values.
func Expand(payload map[string]any, disclosures []*Disclosure) (expanded map[string]any, used map[string]*Disclosure, err error) {
	alg := DefaultHashAlg
	if v, ok := payload["_sd_alg"].(string); ok && v != "" {
		alg = HashAlg(v)
	}

	st := &expandState{
		alg:      alg,
		byDigest: make(map[string]*Disclosure, len(disclosures)),
		used:     make(map[string]bool, len(disclosures)),
		parent:   make(map[string]string, len(disclosures)),
	}
	for _, d := range disclosures {
		digest, derr := d.Digest(alg)
		if derr != nil {
			return nil, nil, derr
		}
		st.byDigest[digest] = d
	}

	result, err := st.expandValue(payload, "")
	if err != nil {
		return nil, nil, err
	}
	expandedMap, ok := result.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("sdjwt: root payload did not expand to an object")
	}

	for digest, d := range st.byDigest {
		if !st.used[digest] {
			return nil, nil, &ErrUnreferencedDisclosure{Disclosure: d}
		}
	}

	used = make(map[string]*Disclosure, len(st.used))
	for digest := range st.used {
		used[digest] = st.byDigest[digest]
	}
	return expandedMap, used, nil
}

// expandValue recursively resolves `_sd` arrays and `{"...": digest}` entries
// within v, which was reached from the disclosure identified by parentDigest
// (empty for the root payload).
func (st *expandState) expandValue(v any, parentDigest string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if k == "_sd" || k == "_sd_alg" {
				continue
			}
			expandedVal, err := st.expandValue(val, parentDigest)
			if err != nil {
				return nil, err
			}
			out[k] = expandedVal
		}

		sdRaw, hasSD := t["_sd"]
		if hasSD {
			sdList, ok := sdRaw.([]any)
			if !ok {
				return nil, fmt.Errorf("sdjwt: _sd is not an array")
			}
			for _, item := range sdList {
				digest, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("sdjwt: _sd entry is not a string digest")
				}
				if err := st.reveal(digest, digestKindObject, parentDigest, out, ""); err != nil {
					return nil, err
				}
			}
		}
		return out, nil

	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if obj, ok := item.(map[string]any); ok && len(obj) == 1 {
				if digest, ok := obj["..."].(string); ok {
					revealed, err := st.revealArrayElement(digest, parentDigest)
					if err != nil {
						return nil, err
					}
					if revealed != nil {
						out = append(out, revealed.value)
						continue
					}
					// Digest not presented; the element stays concealed and
					// is simply omitted from the expanded array.
					continue
				}
			}
			expandedItem, err := st.expandValue(item, parentDigest)
			if err != nil {
				return nil, err
			}
			out = append(out, expandedItem)
		}
		return out, nil

	default:
		return v, nil
	}
}

type revealedValue struct{ value any }

// reveal resolves a digest found in an `_sd` array at the given parent,
// merging the disclosed claim name/value into dst.
func (st *expandState) reveal(digest string, kind digestKind, parentDigest string, dst map[string]any, _ string) error {
	d, ok := st.byDigest[digest]
	if !ok {
		return nil // not presented; the holder chose to conceal it
	}
	if st.used[digest] {
		return &ErrDuplicateHash{Digest: digest}
	}
	if d.Kind != kindObject {
		return &ErrDisclosureTypeMismatch{Digest: digest, Want: string(digestKindObject), Got: "array"}
	}
	st.used[digest] = true
	st.parent[digest] = parentDigest

	expandedVal, err := st.expandValue(d.Value, digest)
	if err != nil {
		return err
	}
	dst[d.Name] = expandedVal
	return nil
}

func (st *expandState) revealArrayElement(digest string, parentDigest string) (*revealedValue, error) {
	d, ok := st.byDigest[digest]
	if !ok {
		return nil, nil
	}
	if st.used[digest] {
		return nil, &ErrDuplicateHash{Digest: digest}
	}
	if d.Kind != kindArrayElement {
		return nil, &ErrDisclosureTypeMismatch{Digest: digest, Want: string(digestKindArray), Got: "object"}
	}
	st.used[digest] = true
	st.parent[digest] = parentDigest

	expandedVal, err := st.expandValue(d.Value, digest)
	if err != nil {
		return nil, err
	}
	return &revealedValue{value: expandedVal}, nil
}

// CnfPublicKey is implemented by callers who can turn a `cnf` claim's JWK
// representation into a usable public key, keeping this package decoupled
// from any one JWK library.
type CnfPublicKey func(cnf map[string]any) (crypto.PublicKey, error)
