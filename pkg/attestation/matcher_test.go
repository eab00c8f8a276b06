package attestation

import (
	"context"
	"testing"

	"walletdisclosure/pkg/mdoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	byDocType map[string][]Candidate
	err       error
}

func (f *fakeSource) Candidates(_ context.Context, docTypes []string) (map[string][]Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string][]Candidate)
	for _, dt := range docTypes {
		out[dt] = f.byDocType[dt]
	}
	return out, nil
}

func issuerSignedWith(elements map[string][]string) *mdoc.IssuerSigned {
	is := &mdoc.IssuerSigned{
		NameSpaces: make(map[string][]mdoc.IssuerSignedItem),
		IssuerAuth: []byte("mso-bytes"),
	}
	for ns, elems := range elements {
		for i, e := range elems {
			is.NameSpaces[ns] = append(is.NameSpaces[ns], mdoc.IssuerSignedItem{
				DigestID:          uint(i),
				Random:            make([]byte, 16),
				ElementIdentifier: e,
				ElementValue:      "value-" + e,
			})
		}
	}
	return is
}

func TestMatch_SingleSatisfyingCandidate(t *testing.T) {
	is := issuerSignedWith(map[string][]string{"org.iso.18013.5.1": {"family_name", "given_name", "portrait"}})
	cand := Candidate{
		ID:           "doc-1",
		DocType:      mdoc.DocType,
		Attributes:   MDocAttributeIdentifiers(is),
		IssuerSigned: is,
	}
	src := &fakeSource{byDocType: map[string][]Candidate{mdoc.DocType: {cand}}}
	m := NewAttestationMatcher(src)

	requested := []Request{{
		DocType:    mdoc.DocType,
		Attributes: []AttributeIdentifier{"org.iso.18013.5.1.family_name", "org.iso.18013.5.1.given_name"},
	}}

	result, err := m.Match(context.Background(), requested)
	require.NoError(t, err)
	require.True(t, result.Satisfied())
	require.Len(t, result.Candidates[mdoc.DocType], 1)

	proposed := result.Candidates[mdoc.DocType][0]
	assert.Equal(t, "doc-1", proposed.CandidateID)
	require.NotNil(t, proposed.IssuerSigned)
	assert.Len(t, proposed.IssuerSigned.NameSpaces["org.iso.18013.5.1"], 2)
	assert.Equal(t, is.IssuerAuth, proposed.IssuerSigned.IssuerAuth)
}

func TestMatch_MissingAttributes_NoCandidate(t *testing.T) {
	src := &fakeSource{byDocType: map[string][]Candidate{}}
	m := NewAttestationMatcher(src)

	requested := []Request{{
		DocType:    mdoc.DocType,
		Attributes: []AttributeIdentifier{"org.iso.18013.5.1.family_name"},
	}}

	result, err := m.Match(context.Background(), requested)
	require.NoError(t, err)
	assert.False(t, result.Satisfied())
	assert.Equal(t, []AttributeIdentifier{"org.iso.18013.5.1.family_name"}, result.MissingAttributes)
}

func TestMatch_MissingAttributes_InsufficientCandidate(t *testing.T) {
	is := issuerSignedWith(map[string][]string{"org.iso.18013.5.1": {"family_name"}})
	cand := Candidate{ID: "doc-1", DocType: mdoc.DocType, Attributes: MDocAttributeIdentifiers(is), IssuerSigned: is}
	src := &fakeSource{byDocType: map[string][]Candidate{mdoc.DocType: {cand}}}
	m := NewAttestationMatcher(src)

	requested := []Request{{
		DocType:    mdoc.DocType,
		Attributes: []AttributeIdentifier{"org.iso.18013.5.1.family_name", "org.iso.18013.5.1.portrait"},
	}}

	result, err := m.Match(context.Background(), requested)
	require.NoError(t, err)
	assert.False(t, result.Satisfied())
	assert.Equal(t, []AttributeIdentifier{"org.iso.18013.5.1.portrait"}, result.MissingAttributes)
}

func TestMatch_MultipleCandidates_LeftToCaller(t *testing.T) {
	is1 := issuerSignedWith(map[string][]string{"org.iso.18013.5.1": {"family_name"}})
	is2 := issuerSignedWith(map[string][]string{"org.iso.18013.5.1": {"family_name"}})
	candA := Candidate{ID: "doc-a", DocType: mdoc.DocType, Attributes: MDocAttributeIdentifiers(is1), IssuerSigned: is1}
	candB := Candidate{ID: "doc-b", DocType: mdoc.DocType, Attributes: MDocAttributeIdentifiers(is2), IssuerSigned: is2}
	src := &fakeSource{byDocType: map[string][]Candidate{mdoc.DocType: {candA, candB}}}
	m := NewAttestationMatcher(src)

	requested := []Request{{
		DocType:    mdoc.DocType,
		Attributes: []AttributeIdentifier{"org.iso.18013.5.1.family_name"},
	}}

	result, err := m.Match(context.Background(), requested)
	require.NoError(t, err)
	require.True(t, result.Satisfied())
	assert.Len(t, result.Candidates[mdoc.DocType], 2, "Match returns all satisfying candidates; MultipleCandidates is a caller-side check")
}

func TestMatch_SourceError(t *testing.T) {
	src := &fakeSource{err: assert.AnError}
	m := NewAttestationMatcher(src)

	_, err := m.Match(context.Background(), []Request{{DocType: mdoc.DocType}})
	require.Error(t, err)
}
