package holdersession

import (
	"testing"

	"walletdisclosure/pkg/attestation"
	"walletdisclosure/pkg/mdoc"
	"walletdisclosure/pkg/openid4vp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeWalletURI(t *testing.T) {
	assert.True(t, looksLikeWalletURI([]byte("openid4vp://?request=abc")))
	assert.True(t, looksLikeWalletURI([]byte("https://wallet.example/invoke?request_uri=abc")))
	assert.False(t, looksLikeWalletURI([]byte{0xa1, 0x65, 'h', 'e', 'l', 'l', 'o'}))
	assert.False(t, looksLikeWalletURI([]byte("no scheme here")))
}

func TestDedupeAttributes(t *testing.T) {
	in := []attestation.AttributeIdentifier{"a", "b", "a", "c", "b"}
	out := dedupeAttributes(in)
	assert.Equal(t, []attestation.AttributeIdentifier{"a", "b", "c"}, out)
}

func TestNormalizeCredentialQueryMdoc(t *testing.T) {
	cq := openid4vp.CredentialQuery{
		ID:     "cred1",
		Format: openid4vp.FormatMsoMdoc,
		Meta:   openid4vp.MetaQuery{DoctypeValue: "org.iso.18013.5.1.mDL"},
		Claims: []openid4vp.ClaimQuery{
			{Path: []string{"org.iso.18013.5.1", "given_name"}},
		},
	}
	docType, paths := normalizeCredentialQuery(cq)
	assert.Equal(t, "org.iso.18013.5.1.mDL", docType)
	require.Len(t, paths, 1)
	assert.Equal(t, attestation.AttributeIdentifier("org.iso.18013.5.1.given_name"), paths[0])
}

func TestNormalizeCredentialQuerySDJWT(t *testing.T) {
	cq := openid4vp.CredentialQuery{
		ID:     "cred1",
		Format: openid4vp.FormatSDJWTVC,
		Meta:   openid4vp.MetaQuery{VCTValues: []string{"urn:eu.europa.ec.eudi:pid:1"}},
		Claims: []openid4vp.ClaimQuery{
			{Path: []string{"given_name"}},
		},
	}
	docType, paths := normalizeCredentialQuery(cq)
	assert.Equal(t, "urn:eu.europa.ec.eudi:pid:1", docType)
	require.Len(t, paths, 1)
	assert.Equal(t, attestation.AttributeIdentifier("$.given_name"), paths[0])
}

func TestRequestsFromDCQLRejectsUnsupportedFormat(t *testing.T) {
	dcql := &openid4vp.DCQL{Credentials: []openid4vp.CredentialQuery{
		{ID: "cred1", Format: "ldp_vc", Meta: openid4vp.MetaQuery{}},
	}}
	_, _, err := requestsFromDCQL(dcql)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRejectMultipleCandidates(t *testing.T) {
	ok := attestation.Match{Candidates: map[string][]attestation.ProposedDocument{
		"doctype-a": {{CandidateID: "cand-1"}},
	}}
	assert.NoError(t, rejectMultipleCandidates(ok))

	ambiguous := attestation.Match{Candidates: map[string][]attestation.ProposedDocument{
		"doctype-a": {{CandidateID: "cand-1"}, {CandidateID: "cand-2"}},
	}}
	err := rejectMultipleCandidates(ambiguous)
	require.Error(t, err)
	var multi *attestation.ErrMultipleCandidates
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, "doctype-a", multi.DocType)
	assert.ElementsMatch(t, []string{"cand-1", "cand-2"}, multi.Candidates)
}

func TestFirstOfEach(t *testing.T) {
	candidates := map[string][]attestation.ProposedDocument{
		"doctype-a": {{CandidateID: "first"}, {CandidateID: "second"}},
		"doctype-b": {},
	}
	out := firstOfEach(candidates)
	require.Contains(t, out, "doctype-a")
	assert.Equal(t, "first", out["doctype-a"].CandidateID)
	assert.NotContains(t, out, "doctype-b")
}

func TestRetrievalURLFromOriginInfos(t *testing.T) {
	origins := []mdoc.OriginInfo{
		{Cat: 0, Type: 0, Details: "ignored"},
		{Cat: 1, Type: 1, Details: "https://reader.example/session"},
	}
	assert.Equal(t, "https://reader.example/session", retrievalURLFromOriginInfos(origins))
	assert.Equal(t, "", retrievalURLFromOriginInfos(nil))
}

func TestOID4VPHandoverIsDeterministic(t *testing.T) {
	encoder, err := mdoc.NewCBOREncoder()
	require.NoError(t, err)

	a, err := oid4vpHandover(encoder, "https://verifier.example", "https://verifier.example/response", "nonce-1", "mdoc-nonce-1")
	require.NoError(t, err)
	b, err := oid4vpHandover(encoder, "https://verifier.example", "https://verifier.example/response", "nonce-1", "mdoc-nonce-1")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := oid4vpHandover(encoder, "https://verifier.example", "https://verifier.example/response", "nonce-2", "mdoc-nonce-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestRandomNonceProducesDistinctValues(t *testing.T) {
	a, err := randomNonce()
	require.NoError(t, err)
	b, err := randomNonce()
	require.NoError(t, err)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
