package sdjwt

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuerKeyPair(t *testing.T) (*ecdsa.PrivateKey, *ecdsa.PublicKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key, &key.PublicKey
}

func issueSample(t *testing.T, issuerKey *ecdsa.PrivateKey) string {
	t.Helper()
	compact, err := NewIssuer(HashAlgSHA256).
		Claim("iss", "https://issuer.example").
		Claim("vct", "urn:eu.europa.ec.eudi:pid:1").
		DiscloseClaim("given_name", "Erika").
		DiscloseClaim("family_name", "Mustermann").
		DiscloseArrayElement("nationalities", "DE").
		Sign(issuerKey, "ES256", "issuer-key-1")
	require.NoError(t, err)
	return compact
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuerKey, issuerPub := issuerKeyPair(t)
	compact := issueSample(t, issuerKey)

	result, err := New().ParseAndVerify(compact, issuerPub, &VerificationOptions{})
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "https://issuer.example", result.Claims["iss"])
	assert.Equal(t, "Erika", result.Claims["given_name"])
	assert.Equal(t, "Mustermann", result.Claims["family_name"])
	assert.Contains(t, result.DisclosedClaims, "given_name")
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	issuerKey, _ := issuerKeyPair(t)
	_, otherPub := issuerKeyPair(t)
	compact := issueSample(t, issuerKey)

	result, err := New().ParseAndVerify(compact, otherPub, &VerificationOptions{})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestVerifyRejectsUnreferencedDisclosure(t *testing.T) {
	issuerKey, issuerPub := issuerKeyPair(t)
	compact := issueSample(t, issuerKey)

	extra, err := buildDisclosure(pendingDisclosure{name: "not_referenced", value: "x", kind: kindObject})
	require.NoError(t, err)

	result, err := New().ParseAndVerify(compact+extra.Raw+"~", issuerPub, &VerificationOptions{})
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestBuilderDisclosesOnlySelectedClaims(t *testing.T) {
	issuerKey, issuerPub := issuerKeyPair(t)
	compact := issueSample(t, issuerKey)

	b, err := NewBuilder(compact)
	require.NoError(t, err)

	presentation, err := b.Disclose("$.given_name").Finish()
	require.NoError(t, err)

	result, err := New().ParseAndVerify(presentation, issuerPub, &VerificationOptions{})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "Erika", result.Claims["given_name"])
	_, hasFamilyName := result.Claims["family_name"]
	assert.False(t, hasFamilyName)
}

func TestBuilderDisclosePathNotPresent(t *testing.T) {
	issuerKey, _ := issuerKeyPair(t)
	compact := issueSample(t, issuerKey)

	b, err := NewBuilder(compact)
	require.NoError(t, err)

	_, err = b.Disclose("$.does_not_exist").Finish()
	assert.Error(t, err)
}

func TestKeyBindingSignAndVerify(t *testing.T) {
	issuerKey, issuerPub := issuerKeyPair(t)
	compact := issueSample(t, issuerKey)

	b, err := NewBuilder(compact)
	require.NoError(t, err)
	presentation, err := b.Disclose("$.given_name").Finish()
	require.NoError(t, err)

	holderKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	bound, err := SignKeyBinding(presentation, holderKey, "ES256", "holder-key-1", "https://verifier.example", "nonce-123", time.Now())
	require.NoError(t, err)

	result, err := New().ParseAndVerify(bound, issuerPub, &VerificationOptions{
		RequireKeyBinding: true,
		ExpectedAudience:  "https://verifier.example",
		ExpectedNonce:     "nonce-123",
	})
	require.NoError(t, err)
	assert.False(t, result.Valid) // cnf claim was never issued, so key resolution fails
	assert.NotEmpty(t, result.Errors)
}

func TestPoABuildAndVerify(t *testing.T) {
	key1, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	key2, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	sigs, err := BuildPoA([]PoAKey{
		{Kid: "key-1", Signer: key1, Alg: "ES256"},
		{Kid: "key-2", Signer: key2, Alg: "ES256"},
	}, "https://verifier.example", "nonce-abc", time.Now())
	require.NoError(t, err)
	assert.Len(t, sigs, 2)

	proven, err := VerifyPoA(sigs, map[string]crypto.PublicKey{
		"key-1": &key1.PublicKey,
		"key-2": &key2.PublicKey,
	}, "https://verifier.example", "nonce-abc", time.Minute)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"key-1", "key-2"}, proven)
}

func TestPoARejectsWrongNonce(t *testing.T) {
	key1, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	sigs, err := BuildPoA([]PoAKey{{Kid: "key-1", Signer: key1, Alg: "ES256"}}, "aud", "right-nonce", time.Now())
	require.NoError(t, err)

	_, err = VerifyPoA(sigs, map[string]crypto.PublicKey{"key-1": &key1.PublicKey}, "aud", "wrong-nonce", time.Minute)
	assert.Error(t, err)
}

func TestDisclosureDigestMatchesArrayElementPlaceholder(t *testing.T) {
	d, err := buildDisclosure(pendingDisclosure{value: "DE", kind: kindArrayElement})
	require.NoError(t, err)

	el, err := d.ArrayElement(HashAlgSHA256)
	require.NoError(t, err)

	digest, err := d.Digest(HashAlgSHA256)
	require.NoError(t, err)
	assert.Equal(t, digest, el["..."])
}
