package holdersession_test

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"walletdisclosure/internal/holdersession"
	"walletdisclosure/pkg/attestation"
	"walletdisclosure/pkg/mdoc"
	"walletdisclosure/pkg/trust"

	"github.com/stretchr/testify/require"
)

const isoRetrievalURL = "https://reader.example/session"

// isoReaderTransport plays the remote reader's half of the ISO proximity
// exchange: it answers the device-engagement POST with an encrypted
// DeviceRequest, then decrypts whatever SessionData comes back so the test
// can assert on the DeviceResponse the holder produced.
type isoReaderTransport struct {
	t                *testing.T
	encoder          *mdoc.CBOREncoder
	readerPriv       *ecdsa.PrivateKey
	readerEngagement mdoc.ReaderEngagement
	docType          string
	namespace        string
	element          string

	sessionEncryption *mdoc.SessionEncryption
	sessionTranscript []byte
	decryptedResponse *mdoc.DeviceResponse
	lastTerminateBody []byte
}

func (tr *isoReaderTransport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	tr.t.Fatalf("unexpected GET to %s", rawURL)
	return nil, nil
}

func (tr *isoReaderTransport) Post(ctx context.Context, rawURL string, contentType string, body []byte) ([]byte, error) {
	require.Equal(tr.t, isoRetrievalURL, rawURL)

	var deviceEngagement mdoc.DeviceEngagement
	if err := tr.encoder.Unmarshal(body, &deviceEngagement); err == nil && len(deviceEngagement.Security.EDeviceKeyBytes) > 0 {
		return tr.respondWithDeviceRequest(body, deviceEngagement)
	}

	return tr.decryptDeviceResponse(body)
}

func (tr *isoReaderTransport) respondWithDeviceRequest(deviceEngagementBytes []byte, deviceEngagement mdoc.DeviceEngagement) ([]byte, error) {
	eDevicePub, err := mdoc.ExtractEDeviceKey(&deviceEngagement)
	require.NoError(tr.t, err)

	sessionTranscript, err := mdoc.BuildSessionTranscript(deviceEngagementBytes, tr.readerEngagement.Security.EDeviceKeyBytes, mdoc.QRHandover())
	require.NoError(tr.t, err)

	sessionEncryption, err := mdoc.NewSessionEncryptionReader(tr.readerPriv, eDevicePub, sessionTranscript)
	require.NoError(tr.t, err)
	tr.sessionEncryption = sessionEncryption
	tr.sessionTranscript = sessionTranscript

	itemsRequest := mdoc.ItemsRequest{
		DocType:    tr.docType,
		NameSpaces: map[string]map[string]bool{tr.namespace: {tr.element: true}},
	}
	itemsRequestBytes, err := tr.encoder.Marshal(itemsRequest)
	require.NoError(tr.t, err)

	deviceRequest := mdoc.DeviceRequest{
		Version:     "1.0",
		DocRequests: []mdoc.DocRequest{{ItemsRequest: itemsRequestBytes}},
	}
	deviceRequestBytes, err := tr.encoder.Marshal(deviceRequest)
	require.NoError(tr.t, err)

	ciphertext, err := sessionEncryption.Encrypt(deviceRequestBytes)
	require.NoError(tr.t, err)

	sessionData := mdoc.SessionData{Data: ciphertext}
	return tr.encoder.Marshal(sessionData)
}

func (tr *isoReaderTransport) decryptDeviceResponse(body []byte) ([]byte, error) {
	var sessionData mdoc.SessionData
	require.NoError(tr.t, tr.encoder.Unmarshal(body, &sessionData))

	if sessionData.Status != nil {
		tr.lastTerminateBody = body
		return nil, nil
	}

	plaintext, err := tr.sessionEncryption.Decrypt(sessionData.Data)
	require.NoError(tr.t, err)

	var deviceResponse mdoc.DeviceResponse
	require.NoError(tr.t, tr.encoder.Unmarshal(plaintext, &deviceResponse))
	tr.decryptedResponse = &deviceResponse
	return nil, nil
}

func buildReaderEngagement(t *testing.T, encoder *mdoc.CBOREncoder) (mdoc.ReaderEngagement, *ecdsa.PrivateKey) {
	t.Helper()
	builder, err := mdoc.NewEngagementBuilder().GenerateEphemeralKey()
	require.NoError(t, err)
	builder = builder.WithBLE(mdoc.BLEOptions{SupportsCentralMode: true}).
		WithOriginInfo(1, 1, isoRetrievalURL)

	deviceEngagement, readerPriv, err := builder.Build()
	require.NoError(t, err)

	return mdoc.ReaderEngagement{
		Version:     deviceEngagement.Version,
		Security:    deviceEngagement.Security,
		OriginInfos: deviceEngagement.OriginInfos,
	}, readerPriv
}

func issueTestMDLCandidate(t *testing.T, docType string, devicePub *ecdsa.PublicKey) *mdoc.IssuerSigned {
	t.Helper()
	issuerKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Test DS Certificate"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &issuerKey.PublicKey, issuerKey)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(certDER)
	require.NoError(t, err)

	issuer, err := mdoc.NewIssuer(mdoc.IssuerConfig{SignerKey: issuerKey, CertificateChain: []*x509.Certificate{cert}})
	require.NoError(t, err)

	issuedDoc, err := issuer.Issue(&mdoc.IssuanceRequest{
		DevicePublicKey: devicePub,
		MDoc: &mdoc.MDoc{
			FamilyName:       "Mustermann",
			GivenName:        "Erika",
			BirthDate:        "1990-01-15",
			IssueDate:        "2024-01-01",
			ExpiryDate:       "2034-01-01",
			IssuingCountry:   "SE",
			IssuingAuthority: "Transportstyrelsen",
			DocumentNumber:   "TEST123",
		},
	})
	require.NoError(t, err)
	return &issuedDoc.Document.IssuerSigned
}

func TestStartISODiscloseRoundTrip(t *testing.T) {
	const docType = "org.iso.18013.5.1.mDL"
	const namespace = "org.iso.18013.5.1"
	const element = "given_name"

	encoder, err := mdoc.NewCBOREncoder()
	require.NoError(t, err)

	readerEngagement, readerPriv := buildReaderEngagement(t, encoder)
	requestBytes, err := encoder.Marshal(readerEngagement)
	require.NoError(t, err)

	holderKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	issuerSigned := issueTestMDLCandidate(t, docType, &holderKey.PublicKey)

	source := &fakeSource{byDocType: map[string][]attestation.Candidate{
		docType: {{
			ID:           "candidate-mdl",
			DocType:      docType,
			Attributes:   map[attestation.AttributeIdentifier]bool{attestation.AttributeIdentifier(namespace + "." + element): true},
			IssuerSigned: issuerSigned,
		}},
	}}

	transport := &isoReaderTransport{
		t:                t,
		encoder:          encoder,
		readerPriv:       readerPriv,
		readerEngagement: readerEngagement,
		docType:          docType,
		namespace:        namespace,
		element:          element,
	}

	session, err := holdersession.Start(context.Background(), transport, requestBytes, holdersession.UriSourceQRCode, source, noopTrustEvaluator{})
	require.NoError(t, err)
	require.Equal(t, holdersession.OutcomeProposal, session.Outcome())

	keyFactory := holdersession.KeyFactoryFunc(func(candidateID string) (crypto.Signer, error) {
		return holderKey, nil
	})

	_, err = session.Proposal().Disclose(context.Background(), keyFactory)
	require.NoError(t, err)

	require.NotNil(t, transport.decryptedResponse)
	require.Len(t, transport.decryptedResponse.Documents, 1)
	doc := transport.decryptedResponse.Documents[0]
	require.Equal(t, docType, doc.DocType)
	require.NotEmpty(t, doc.DeviceSigned.DeviceAuth.DeviceSignature)
}

func TestStartISOTerminatePostsSessionTerminated(t *testing.T) {
	const docType = "org.iso.18013.5.1.mDL"
	const namespace = "org.iso.18013.5.1"
	const element = "given_name"

	encoder, err := mdoc.NewCBOREncoder()
	require.NoError(t, err)

	readerEngagement, readerPriv := buildReaderEngagement(t, encoder)
	requestBytes, err := encoder.Marshal(readerEngagement)
	require.NoError(t, err)

	holderKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	issuerSigned := issueTestMDLCandidate(t, docType, &holderKey.PublicKey)

	source := &fakeSource{byDocType: map[string][]attestation.Candidate{
		docType: {{
			ID:           "candidate-mdl",
			DocType:      docType,
			Attributes:   map[attestation.AttributeIdentifier]bool{attestation.AttributeIdentifier(namespace + "." + element): true},
			IssuerSigned: issuerSigned,
		}},
	}}

	transport := &isoReaderTransport{
		t:                t,
		encoder:          encoder,
		readerPriv:       readerPriv,
		readerEngagement: readerEngagement,
		docType:          docType,
		namespace:        namespace,
		element:          element,
	}

	session, err := holdersession.Start(context.Background(), transport, requestBytes, holdersession.UriSourceQRCode, source, noopTrustEvaluator{})
	require.NoError(t, err)
	require.Equal(t, holdersession.OutcomeProposal, session.Outcome())

	require.NoError(t, session.Terminate(context.Background()))

	var sessionData mdoc.SessionData
	require.NoError(t, encoder.Unmarshal(transport.lastTerminateBody, &sessionData))
	require.NotNil(t, sessionData.Status)
	require.Equal(t, mdoc.SessionStatusSessionTerminated, *sessionData.Status)
}

// noopTrustEvaluator trusts every reader; the ISO profile's own DocRequest
// loop is exercised without ReaderAuth in these tests, so this is only
// reached if a ReaderAuth branch is added later.
type noopTrustEvaluator struct{}

func (noopTrustEvaluator) Evaluate(ctx context.Context, req *trust.EvaluationRequest) (*trust.TrustDecision, error) {
	return &trust.TrustDecision{Trusted: true}, nil
}
func (noopTrustEvaluator) SupportsKeyType(kt trust.KeyType) bool { return true }
