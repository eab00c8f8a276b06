package sdjwt

import (
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// pathDigest is one disclosed-or-disclosable claim, reachable at path in the
// expanded claims tree and bound to a digest in the issuer-signed payload.
type pathDigest struct {
	path   string
	digest string
}

// Builder assembles a presentation from a full issuer-signed credential by
// choosing which disclosures to include, following the disclosure tree
// produced by Expand so that disclosing a nested claim pulls in every
// ancestor disclosure it depends on.
type Builder struct {
	issuerSigned string // compact issuer-signed JWT
	expanded     map[string]any
	disclosures  map[string]*Disclosure
	parent       map[string]string
	entries      []pathDigest
	included     map[string]bool
	err          error
}

// NewBuilder parses compact (an issuer-signed SD-JWT with its disclosures,
// without a Key-Binding JWT) and verifies its disclosure-digest binding so
// Disclose can operate on a known-consistent tree.
func NewBuilder(compact string) (*Builder, error) {
	parsed, err := Token(compact).Parse()
	if err != nil {
		return nil, err
	}
	if len(parsed.KeyBinding) > 0 {
		return nil, fmt.Errorf("sdjwt: cannot build a presentation from a token that already has a key binding")
	}

	var disclosures []*Disclosure
	for _, raw := range parsed.Disclosures {
		d, err := ParseDisclosure(raw)
		if err != nil {
			return nil, err
		}
		disclosures = append(disclosures, d)
	}

	expanded, used, err := Expand(parsed.Claims, disclosures)
	if err != nil {
		return nil, err
	}

	st := &expandState{byDigest: make(map[string]*Disclosure), parent: make(map[string]string)}
	for digest, d := range used {
		st.byDigest[digest] = d
	}

	b := &Builder{
		issuerSigned: parsed.jwt,
		expanded:     expanded,
		disclosures:  st.byDigest,
		parent:       make(map[string]string, len(used)),
		included:     make(map[string]bool),
	}
	b.entries = indexDisclosedPaths(expanded, "$", st.byDigest, b.parent)
	return b, nil
}

// indexDisclosedPaths walks the expanded claims tree depth-first, recording
// the path and digest of every value that came from a disclosure, and the
// digest of the disclosure (if any) whose value-tree directly contains it —
// the ancestry Disclose needs to pull in parent disclosures automatically.
func indexDisclosedPaths(v any, path string, byDigest map[string]*Disclosure, parent map[string]string) []pathDigest {
	var entries []pathDigest
	var walk func(v any, path string, parentDigest string)
	digestOf := func(candidate any) (string, bool) {
		for digest, d := range byDigest {
			if valuesEqual(d.Value, candidate) {
				return digest, true
			}
		}
		return "", false
	}
	walk = func(v any, path string, parentDigest string) {
		switch t := v.(type) {
		case map[string]any:
			for k, val := range t {
				childPath := fmt.Sprintf("%s.%s", path, k)
				digest, ok := digestOf(val)
				nextParent := parentDigest
				if ok {
					entries = append(entries, pathDigest{path: childPath, digest: digest})
					parent[digest] = parentDigest
					nextParent = digest
				}
				walk(val, childPath, nextParent)
			}
		case []any:
			for i, val := range t {
				childPath := fmt.Sprintf("%s[%d]", path, i)
				digest, ok := digestOf(val)
				nextParent := parentDigest
				if ok {
					entries = append(entries, pathDigest{path: childPath, digest: digest})
					parent[digest] = parentDigest
					nextParent = digest
				}
				walk(val, childPath, nextParent)
			}
		}
	}
	walk(v, path, "")
	return entries
}

func valuesEqual(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// Disclose marks the claim at path (a JSONPath expression evaluated against
// the fully expanded claims tree, e.g. "$.address.street_address") for
// inclusion, along with every ancestor disclosure required to reach it.
func (b *Builder) Disclose(path string) *Builder {
	if b.err != nil {
		return b
	}

	if _, err := jsonpath.Get(path, b.expanded); err != nil {
		b.err = fmt.Errorf("sdjwt: path %q not present in claims: %w", path, err)
		return b
	}

	for _, e := range b.entries {
		if e.path == path {
			b.includeWithAncestors(e.digest)
			return b
		}
	}
	b.err = fmt.Errorf("sdjwt: claim at path %q is not selectively disclosable", path)
	return b
}

func (b *Builder) includeWithAncestors(digest string) {
	for digest != "" && !b.included[digest] {
		b.included[digest] = true
		digest = b.parent[digest]
	}
}

// Finish renders the presentation: the issuer-signed JWT followed by every
// disclosed (and ancestor-required) disclosure, each separated by "~", with
// a trailing "~" so a Key-Binding JWT (see SignKeyBinding) can be appended.
func (b *Builder) Finish() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	var sb strings.Builder
	sb.WriteString(b.issuerSigned)
	for digest, included := range b.included {
		if !included {
			continue
		}
		d := b.disclosures[digest]
		sb.WriteString("~")
		sb.WriteString(d.Raw)
	}
	sb.WriteString("~")
	return sb.String(), nil
}
