package holdersession_test

import (
	"context"
	"crypto"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/url"
	"testing"
	"time"

	"walletdisclosure/internal/holdersession"
	"walletdisclosure/pkg/attestation"
	"walletdisclosure/pkg/openid4vp"
	"walletdisclosure/pkg/sdjwt"
	"walletdisclosure/pkg/trust"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwe"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a recording Transport: Get serves the stubbed GET
// responses keyed by URL, Post appends to calls and returns the stubbed
// response for the target URL (or nil).
type fakeTransport struct {
	getResponses  map[string][]byte
	postResponses map[string][]byte
	calls         []postCall
}

type postCall struct {
	url         string
	contentType string
	body        []byte
}

func (f *fakeTransport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	return f.getResponses[rawURL], nil
}

func (f *fakeTransport) Post(ctx context.Context, rawURL string, contentType string, body []byte) ([]byte, error) {
	f.calls = append(f.calls, postCall{url: rawURL, contentType: contentType, body: body})
	return f.postResponses[rawURL], nil
}

// fakeTrustEvaluator trusts every subject it is asked about.
type fakeTrustEvaluator struct {
	trusted bool
}

func (f *fakeTrustEvaluator) Evaluate(ctx context.Context, req *trust.EvaluationRequest) (*trust.TrustDecision, error) {
	return &trust.TrustDecision{Trusted: f.trusted}, nil
}

func (f *fakeTrustEvaluator) SupportsKeyType(kt trust.KeyType) bool { return kt == trust.KeyTypeX5C }

// fakeSource serves a fixed set of candidates per doc_type.
type fakeSource struct {
	byDocType map[string][]attestation.Candidate
}

func (f *fakeSource) Candidates(ctx context.Context, docTypes []string) (map[string][]attestation.Candidate, error) {
	out := make(map[string][]attestation.Candidate, len(docTypes))
	for _, dt := range docTypes {
		out[dt] = f.byDocType[dt]
	}
	return out, nil
}

func generateVerifierCert(t *testing.T) (*ecdsa.PrivateKey, *x509.Certificate) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Test Verifier"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return key, cert
}

func generateRecipientJWK(t *testing.T) (private, public jwk.Key) {
	t.Helper()
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	private, err = jwk.Import(priv)
	require.NoError(t, err)
	require.NoError(t, private.Set(jwk.KeyIDKey, "verifier-enc-1"))

	public, err = jwk.Import(priv.Public())
	require.NoError(t, err)
	require.NoError(t, public.Set(jwk.KeyIDKey, "verifier-enc-1"))
	require.NoError(t, public.Set(jwk.KeyUsageKey, "enc"))
	return private, public
}

// signRequestObject builds and signs a compact Authorization Request JWS
// carrying the verifier's certificate in its x5c header, the way a real
// verifier's signed request object arrives.
func signRequestObject(t *testing.T, obj *openid4vp.RequestObject, verifierKey *ecdsa.PrivateKey, cert *x509.Certificate) string {
	t.Helper()
	raw, err := json.Marshal(obj)
	require.NoError(t, err)

	var claims jwt.MapClaims
	require.NoError(t, json.Unmarshal(raw, &claims))

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["x5c"] = []string{base64.StdEncoding.EncodeToString(cert.Raw)}

	compact, err := token.SignedString(verifierKey)
	require.NoError(t, err)
	return compact
}

func baseRequestObject(responseURI, clientID, nonce, state string, dcql *openid4vp.DCQL, recipientPub jwk.Key) *openid4vp.RequestObject {
	return &openid4vp.RequestObject{
		ISS:          clientID,
		AUD:          "https://self-issued.me/v2",
		IAT:          time.Now().Unix(),
		ResponseType: "code",
		ClientID:     clientID,
		State:        state,
		Nonce:        nonce,
		ResponseMode: "direct_post.jwt",
		DCQLQuery:    dcql,
		ResponseURI:  responseURI,
		ClientMetadata: &openid4vp.ClientMetadata{
			JWKS: &openid4vp.Keys{Keys: []jwk.Key{recipientPub}},
		},
	}
}

func sdjwtDCQL(vct string) *openid4vp.DCQL {
	return &openid4vp.DCQL{Credentials: []openid4vp.CredentialQuery{
		{
			ID:     "pid",
			Format: openid4vp.FormatSDJWTVC,
			Meta:   openid4vp.MetaQuery{VCTValues: []string{vct}},
			Claims: []openid4vp.ClaimQuery{{Path: []string{"given_name"}}},
		},
	}}
}

func issueSampleSDJWT(t *testing.T, issuerKey *ecdsa.PrivateKey, vct string) string {
	t.Helper()
	compact, err := sdjwt.NewIssuer(sdjwt.HashAlgSHA256).
		Claim("iss", "https://issuer.example").
		Claim("vct", vct).
		DiscloseClaim("given_name", "Erika").
		DiscloseClaim("family_name", "Mustermann").
		Sign(issuerKey, "ES256", "issuer-key-1")
	require.NoError(t, err)
	return compact
}

func TestStartOpenID4VPDiscloseRoundTrip(t *testing.T) {
	const vct = "urn:eu.europa.ec.eudi:pid:1"
	const responseURI = "https://verifier.example/response"
	const clientID = "https://verifier.example"

	verifierKey, verifierCert := generateVerifierCert(t)
	recipientPriv, recipientPub := generateRecipientJWK(t)

	obj := baseRequestObject(responseURI, clientID, "nonce-xyz", "state-abc", sdjwtDCQL(vct), recipientPub)
	compact := signRequestObject(t, obj, verifierKey, verifierCert)

	rawURI := "openid4vp://?request=" + url.QueryEscape(compact)

	issuerKey, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	candidateSDJWT := issueSampleSDJWT(t, issuerKey, vct)
	source := &fakeSource{byDocType: map[string][]attestation.Candidate{
		vct: {{
			ID:         "candidate-1",
			DocType:    vct,
			Attributes: map[attestation.AttributeIdentifier]bool{"$.given_name": true, "$.family_name": true},
			SDJWT:      candidateSDJWT,
		}},
	}}

	transport := &fakeTransport{}
	ctx := context.Background()

	session, err := holdersession.Start(ctx, transport, []byte(rawURI), holdersession.UriSourceLink, source, &fakeTrustEvaluator{trusted: true})
	require.NoError(t, err)
	require.Equal(t, holdersession.OutcomeProposal, session.Outcome())

	holderKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	keyFactory := holdersession.KeyFactoryFunc(func(candidateID string) (crypto.Signer, error) {
		return holderKey, nil
	})

	result, err := session.Proposal().Disclose(ctx, keyFactory)
	require.NoError(t, err)
	assert.NotNil(t, result)

	require.Len(t, transport.calls, 1)
	call := transport.calls[0]
	assert.Equal(t, responseURI, call.url)
	assert.Equal(t, "application/jwt", call.contentType)

	decrypted, err := jwe.Decrypt(call.body, jwe.WithKey(jwa.ECDH_ES(), recipientPriv))
	require.NoError(t, err)

	var payload struct {
		State   string            `json:"state"`
		VPToken map[string]string `json:"vp_token"`
	}
	require.NoError(t, json.Unmarshal(decrypted, &payload))
	assert.Equal(t, "state-abc", payload.State)
	require.Contains(t, payload.VPToken, "pid")
	assert.Contains(t, payload.VPToken["pid"], "~")
}

func TestStartOpenID4VPMissingAttributes(t *testing.T) {
	const vct = "urn:eu.europa.ec.eudi:pid:1"
	verifierKey, verifierCert := generateVerifierCert(t)
	_, recipientPub := generateRecipientJWK(t)

	obj := baseRequestObject("https://verifier.example/response", "https://verifier.example", "nonce", "state", sdjwtDCQL(vct), recipientPub)
	compact := signRequestObject(t, obj, verifierKey, verifierCert)
	rawURI := "openid4vp://?request=" + url.QueryEscape(compact)

	source := &fakeSource{byDocType: map[string][]attestation.Candidate{}}
	transport := &fakeTransport{}

	session, err := holdersession.Start(context.Background(), transport, []byte(rawURI), holdersession.UriSourceLink, source, &fakeTrustEvaluator{trusted: true})
	require.NoError(t, err)
	assert.Equal(t, holdersession.OutcomeMissingAttributes, session.Outcome())
	assert.NotEmpty(t, session.MissingAttributes())
}

func TestStartOpenID4VPUntrustedVerifierTerminates(t *testing.T) {
	const vct = "urn:eu.europa.ec.eudi:pid:1"
	verifierKey, verifierCert := generateVerifierCert(t)
	_, recipientPub := generateRecipientJWK(t)

	obj := baseRequestObject("https://verifier.example/response", "https://verifier.example", "nonce", "state", sdjwtDCQL(vct), recipientPub)
	compact := signRequestObject(t, obj, verifierKey, verifierCert)
	rawURI := "openid4vp://?request=" + url.QueryEscape(compact)

	source := &fakeSource{byDocType: map[string][]attestation.Candidate{}}
	transport := &fakeTransport{}

	_, err := holdersession.Start(context.Background(), transport, []byte(rawURI), holdersession.UriSourceLink, source, &fakeTrustEvaluator{trusted: false})
	require.Error(t, err)
	var termination *holdersession.Termination
	assert.ErrorAs(t, err, &termination)
}

func TestTerminateOpenID4VPPostsOAuthError(t *testing.T) {
	const vct = "urn:eu.europa.ec.eudi:pid:1"
	const responseURI = "https://verifier.example/response"
	verifierKey, verifierCert := generateVerifierCert(t)
	_, recipientPub := generateRecipientJWK(t)

	obj := baseRequestObject(responseURI, "https://verifier.example", "nonce", "state-term", sdjwtDCQL(vct), recipientPub)
	compact := signRequestObject(t, obj, verifierKey, verifierCert)
	rawURI := "openid4vp://?request=" + url.QueryEscape(compact)

	issuerKey, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	candidateSDJWT := issueSampleSDJWT(t, issuerKey, vct)
	source := &fakeSource{byDocType: map[string][]attestation.Candidate{
		vct: {{ID: "candidate-1", DocType: vct, Attributes: map[attestation.AttributeIdentifier]bool{"$.given_name": true}, SDJWT: candidateSDJWT}},
	}}
	transport := &fakeTransport{}

	session, err := holdersession.Start(context.Background(), transport, []byte(rawURI), holdersession.UriSourceLink, source, &fakeTrustEvaluator{trusted: true})
	require.NoError(t, err)
	require.Equal(t, holdersession.OutcomeProposal, session.Outcome())

	require.NoError(t, session.Terminate(context.Background()))
	require.Len(t, transport.calls, 1)
	var body struct {
		Error string `json:"error"`
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(transport.calls[0].body, &body))
	assert.Equal(t, "access_denied", body.Error)
	assert.Equal(t, "state-term", body.State)
}
