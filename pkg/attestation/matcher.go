// Package attestation implements the holder-side attestation matcher: given
// a set of requested doc_types and the attribute identifiers needed from
// each, it selects stored attestations that can satisfy the request and
// builds the filtered ProposedDocument the holder will go on to disclose.
package attestation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"walletdisclosure/pkg/mdoc"
)

// AttributeIdentifier names one requested attribute within a doc_type. For
// mso_mdoc candidates this is "namespace.element_identifier"; for
// dc+sd-jwt candidates it is a dotted claim path into the expanded claims
// tree. The matcher treats it as an opaque comparison key.
type AttributeIdentifier string

// Request is one requested doc_type plus the union of attribute identifiers
// that must be present for a candidate to satisfy it.
type Request struct {
	DocType    string
	Attributes []AttributeIdentifier
}

// Candidate is one stored attestation a Source reports as relevant to a
// doc_type, along with its own advertised attribute_identifiers().
type Candidate struct {
	// ID is a source-defined handle used to retrieve a signer for this
	// candidate's holder-bound key later, in C5's disclose(key_factory).
	ID      string
	DocType string

	// Attributes is this candidate's attribute_identifiers() — what it can
	// disclose, not what was requested.
	Attributes map[AttributeIdentifier]bool

	// IssuerSigned is populated for mso_mdoc candidates. Its MSO
	// (IssuerAuth) is never altered by filtering.
	IssuerSigned *mdoc.IssuerSigned

	// SDJWT is populated for dc+sd-jwt candidates: the full issuer-signed
	// compact token plus disclosures, pre-selection. Filtering for SD-JWT
	// is deferred to C7's presentation Builder, since disclosing a nested
	// claim there must pull in ancestor disclosures that this matcher has
	// no reason to inspect.
	SDJWT string
}

// Source fetches every stored candidate attestation for a set of doc_types
// in one call (§4.4 step 2: "fetch attestations for all required doc types
// in one call").
type Source interface {
	Candidates(ctx context.Context, docTypes []string) (map[string][]Candidate, error)
}

// ProposedDocument is one candidate attestation reduced to exactly the
// requested attributes, ready to be signed over in C5's disclose step.
type ProposedDocument struct {
	DocType     string
	CandidateID string

	// IssuerSigned is the filtered issuer-signed structure for mso_mdoc
	// proposals: NameSpaces contain only the requested elements, IssuerAuth
	// (the MSO) is copied unchanged.
	IssuerSigned *mdoc.IssuerSigned

	// SDJWT is the original (unfiltered) compact SD-JWT for dc+sd-jwt
	// proposals. Disclosed carries which paths the holder agreed to reveal;
	// C7's Builder performs the actual filtering at sign time.
	SDJWT string

	Disclosed []AttributeIdentifier
}

// ErrMultipleCandidates is the fatal error C5 must raise (§4.4 step 5) when
// Match returns more than one satisfying candidate for some doc_type. The
// matcher itself never resolves this ambiguity; it is a caller decision.
type ErrMultipleCandidates struct {
	DocType    string
	Candidates []string
}

func (e *ErrMultipleCandidates) Error() string {
	return fmt.Sprintf("attestation: %d candidates satisfy doc_type %q", len(e.Candidates), e.DocType)
}

// ErrNoSource is returned when attestation_source.Candidates fails outright.
var ErrNoSource = errors.New("attestation: source unavailable")

// Match is the sum type Match() produces: either every doc_type has at
// least one satisfying candidate (Candidates, possibly several per
// doc_type — see ErrMultipleCandidates), or at least one does not
// (MissingAttributes, the union of per-doctype missing sets).
type Match struct {
	Candidates        map[string][]ProposedDocument
	MissingAttributes []AttributeIdentifier
}

// Satisfied reports whether every requested doc_type had at least one
// satisfying candidate.
func (m Match) Satisfied() bool {
	return len(m.MissingAttributes) == 0
}

// AttestationMatcher implements §4.4's algorithm against a Source.
type AttestationMatcher struct {
	source Source
}

// NewAttestationMatcher builds a matcher over the given attestation source.
func NewAttestationMatcher(source Source) *AttestationMatcher {
	return &AttestationMatcher{source: source}
}

// Match runs the five-step algorithm from §4.4 against requested.
func (m *AttestationMatcher) Match(ctx context.Context, requested []Request) (Match, error) {
	// Step 1: requested is already grouped by doc_type; just collect the
	// doc_type list for the single fetch.
	docTypes := make([]string, 0, len(requested))
	for _, r := range requested {
		docTypes = append(docTypes, r.DocType)
	}

	// Step 2: fetch attestations for all required doc types in one call.
	byDocType, err := m.source.Candidates(ctx, docTypes)
	if err != nil {
		return Match{}, fmt.Errorf("%w: %w", ErrNoSource, err)
	}

	result := Match{Candidates: make(map[string][]ProposedDocument, len(requested))}
	var missingUnion []AttributeIdentifier
	seenMissing := make(map[AttributeIdentifier]bool)

	for _, req := range requested {
		candidates := byDocType[req.DocType]

		if len(candidates) == 0 {
			// Entirely absent: every requested attribute of this doc_type is missing.
			for _, attr := range req.Attributes {
				if !seenMissing[attr] {
					seenMissing[attr] = true
					missingUnion = append(missingUnion, attr)
				}
			}
			continue
		}

		var satisfying []ProposedDocument
		var representativeMissing []AttributeIdentifier

		for _, cand := range candidates {
			// Step 3: available = attestation.attribute_identifiers().
			var missing []AttributeIdentifier
			for _, attr := range req.Attributes {
				if !cand.Attributes[attr] {
					missing = append(missing, attr)
				}
			}

			if len(missing) == 0 {
				proposed, err := buildProposedDocument(cand, req.Attributes)
				if err != nil {
					return Match{}, err
				}
				satisfying = append(satisfying, proposed)
				continue
			}

			if representativeMissing == nil {
				representativeMissing = missing
			}
		}

		if len(satisfying) > 0 {
			result.Candidates[req.DocType] = satisfying
			continue
		}

		// Step 4: no candidate for this doc_type satisfies the request —
		// pick one candidate's missing set (the first one computed above).
		for _, attr := range representativeMissing {
			if !seenMissing[attr] {
				seenMissing[attr] = true
				missingUnion = append(missingUnion, attr)
			}
		}
	}

	if len(missingUnion) > 0 {
		sort.Slice(missingUnion, func(i, j int) bool { return missingUnion[i] < missingUnion[j] })
		return Match{MissingAttributes: missingUnion}, nil
	}

	return result, nil
}

// buildProposedDocument constructs a ProposedDocument retaining only the
// requested attributes (§4.4 step 3: "only requested items are retained
// (others removed, but the MSO is unchanged)").
func buildProposedDocument(cand Candidate, requested []AttributeIdentifier) (ProposedDocument, error) {
	proposed := ProposedDocument{
		DocType:     cand.DocType,
		CandidateID: cand.ID,
		Disclosed:   requested,
	}

	switch {
	case cand.IssuerSigned != nil:
		filtered, err := filterIssuerSigned(cand.IssuerSigned, requested)
		if err != nil {
			return ProposedDocument{}, err
		}
		proposed.IssuerSigned = filtered
	case cand.SDJWT != "":
		proposed.SDJWT = cand.SDJWT
	default:
		return ProposedDocument{}, fmt.Errorf("attestation: candidate %q for doc_type %q carries no payload", cand.ID, cand.DocType)
	}

	return proposed, nil
}

// filterIssuerSigned retains only the namespace.element pairs named by
// requested, reusing the selective-disclosure filter rather than
// re-implementing item-list trimming.
func filterIssuerSigned(issuerSigned *mdoc.IssuerSigned, requested []AttributeIdentifier) (*mdoc.IssuerSigned, error) {
	byNamespace := make(map[string][]string)
	for _, attr := range requested {
		namespace, element, ok := splitAttribute(string(attr))
		if !ok {
			continue
		}
		byNamespace[namespace] = append(byNamespace[namespace], element)
	}

	sd, err := mdoc.NewSelectiveDisclosure(issuerSigned)
	if err != nil {
		return nil, err
	}
	return sd.Disclose(byNamespace)
}

// splitAttribute parses "namespace.element" into its two parts. mdoc
// namespaces themselves may contain dots (e.g. "org.iso.18013.5.1"), so the
// element is always the final segment.
func splitAttribute(attr string) (namespace, element string, ok bool) {
	idx := -1
	for i := len(attr) - 1; i >= 0; i-- {
		if attr[i] == '.' {
			idx = i
			break
		}
	}
	if idx <= 0 || idx == len(attr)-1 {
		return "", "", false
	}
	return attr[:idx], attr[idx+1:], true
}
