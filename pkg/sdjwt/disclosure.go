package sdjwt

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/json"
	"fmt"
	"hash"
)

// HashAlg identifies the digest algorithm named in a payload's `_sd_alg` claim.
type HashAlg string

const (
	HashAlgSHA256 HashAlg = "sha-256"
	HashAlgSHA384 HashAlg = "sha-384"
	HashAlgSHA512 HashAlg = "sha-512"

	// DefaultHashAlg is used when a payload omits `_sd_alg`.
	DefaultHashAlg = HashAlgSHA256
)

func newHasher(alg HashAlg) (hash.Hash, error) {
	switch alg {
	case "", HashAlgSHA256:
		return sha256.New(), nil
	case HashAlgSHA384:
		return sha512.New384(), nil
	case HashAlgSHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("sdjwt: unsupported _sd_alg %q", alg)
	}
}

// disclosureKind distinguishes an object-property disclosure from an
// array-element disclosure; the two have different JSON array shapes.
type disclosureKind int

const (
	kindObject disclosureKind = iota
	kindArrayElement
)

// Disclosure is a single selectively-disclosable claim or array element.
type Disclosure struct {
	Raw   string // base64url-encoded form, exactly as it appears in the token
	Salt  string
	Name  string // empty for array-element disclosures
	Value any
	Kind  disclosureKind
}

// ParseDisclosure decodes a single base64url disclosure segment.
func ParseDisclosure(raw string) (*Disclosure, error) {
	decoded, err := decodeSegment(raw)
	if err != nil {
		return nil, fmt.Errorf("sdjwt: decode disclosure: %w", err)
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(decoded, &arr); err != nil {
		return nil, fmt.Errorf("sdjwt: disclosure is not a JSON array: %w", err)
	}

	d := &Disclosure{Raw: raw}
	switch len(arr) {
	case 2:
		d.Kind = kindArrayElement
		if err := json.Unmarshal(arr[0], &d.Salt); err != nil {
			return nil, fmt.Errorf("sdjwt: disclosure salt: %w", err)
		}
		if err := json.Unmarshal(arr[1], &d.Value); err != nil {
			return nil, fmt.Errorf("sdjwt: disclosure value: %w", err)
		}
	case 3:
		d.Kind = kindObject
		if err := json.Unmarshal(arr[0], &d.Salt); err != nil {
			return nil, fmt.Errorf("sdjwt: disclosure salt: %w", err)
		}
		if err := json.Unmarshal(arr[1], &d.Name); err != nil {
			return nil, fmt.Errorf("sdjwt: disclosure name: %w", err)
		}
		if err := json.Unmarshal(arr[2], &d.Value); err != nil {
			return nil, fmt.Errorf("sdjwt: disclosure value: %w", err)
		}
	default:
		return nil, fmt.Errorf("sdjwt: disclosure array has %d elements, want 2 or 3", len(arr))
	}

	return d, nil
}

// Digest computes this disclosure's digest under alg, base64url-encoded, the
// form that appears in `_sd` arrays and `{"...": digest}` entries.
func (d *Disclosure) Digest(alg HashAlg) (string, error) {
	h, err := newHasher(alg)
	if err != nil {
		return "", err
	}
	h.Write([]byte(d.Raw))
	return encodeSegment(h.Sum(nil)), nil
}

// ArrayElement renders the `{"...": digest}` placeholder for this disclosure
// under alg, as it would appear in the issuer-signed array.
func (d *Disclosure) ArrayElement(alg HashAlg) (map[string]string, error) {
	digest, err := d.Digest(alg)
	if err != nil {
		return nil, err
	}
	return map[string]string{"...": digest}, nil
}
