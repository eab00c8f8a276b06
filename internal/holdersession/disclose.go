package holdersession

import (
	"context"
	"crypto"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"walletdisclosure/pkg/attestation"
	"walletdisclosure/pkg/jose"
	"walletdisclosure/pkg/mdoc"
	"walletdisclosure/pkg/openid4vp"
	"walletdisclosure/pkg/sdjwt"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwe"
)

// Disclose signs and sends the proposed documents, using keyFactory to
// resolve the holder-bound signer for each matched candidate. A failure
// discovered before the response is sent is reported as Termination or
// EncryptionError; any failure discovered after is reported as
// DisclosureError with DataShared: true, since the attributes have already
// left the device.
func (p *Proposal) Disclose(ctx context.Context, keyFactory KeyFactory) (*DisclosureResult, error) {
	if p.encryption.sessionEncryption != nil {
		return p.discloseISO(ctx, keyFactory)
	}
	return p.discloseOpenID4VP(ctx, keyFactory)
}

// Terminate ends the session without disclosing anything. It mirrors
// Disclose's profile split: an OpenID4VP session reports an OAuth-style
// error to response_uri, an ISO session posts a SessionData carrying
// SessionStatusSessionTerminated. Transport failures are swallowed — the
// session is ending either way.
func (s *DisclosureSession) Terminate(ctx context.Context) error {
	if s.proposal != nil && s.proposal.encryption.sessionEncryption != nil {
		return s.terminateISO(ctx)
	}
	return s.terminateOpenID4VP(ctx)
}

func (s *DisclosureSession) terminateOpenID4VP(ctx context.Context) error {
	if s.responseURI == "" {
		return nil
	}
	body, err := json.Marshal(map[string]string{
		"error":             "access_denied",
		"error_description": "holder declined to disclose",
		"state":             s.state,
	})
	if err != nil {
		return nil
	}
	_, _ = s.transport.Post(ctx, s.responseURI, "application/json", body)
	return nil
}

func (s *DisclosureSession) terminateISO(ctx context.Context) error {
	retrievalURL := s.proposal.encryption.retrievalURL
	if retrievalURL == "" {
		return nil
	}
	encoder, err := mdoc.NewCBOREncoder()
	if err != nil {
		return nil
	}
	status := mdoc.SessionStatusSessionTerminated
	body, err := encoder.Marshal(mdoc.SessionData{Status: &status})
	if err != nil {
		return nil
	}
	_, _ = s.transport.Post(ctx, retrievalURL, "application/cbor", body)
	return nil
}

// --- OpenID4VP disclose ---

func (p *Proposal) discloseOpenID4VP(ctx context.Context, keyFactory KeyFactory) (*DisclosureResult, error) {
	vpToken := make(map[string]string, len(p.requests))

	type signedKey struct {
		signer crypto.Signer
		alg    string
	}
	signerByCandidate := make(map[string]signedKey)

	for _, req := range p.requests {
		document, ok := p.documents[req.docType]
		if !ok {
			return nil, &Termination{Cause: fmt.Errorf("holdersession: no matched document for doc_type %q", req.docType)}
		}

		signer, err := keyFactory.SignerFor(document.CandidateID)
		if err != nil {
			return nil, &Termination{Cause: err}
		}

		switch req.format {
		case openid4vp.FormatMsoMdoc:
			presentation, err := p.signMdocPresentation(req.docType, document, signer)
			if err != nil {
				return nil, &Termination{Cause: err}
			}
			vpToken[req.credentialQueryID] = presentation
		default:
			presentation, alg, err := p.signSDJWTPresentation(document, signer)
			if err != nil {
				return nil, &Termination{Cause: err}
			}
			vpToken[req.credentialQueryID] = presentation
			signerByCandidate[document.CandidateID] = signedKey{signer: signer, alg: alg}
		}
	}

	payload := map[string]any{
		"state":    p.session.state,
		"vp_token": vpToken,
	}

	// Proof of Association is only meaningful when the presentation drew on
	// two or more distinct holder-bound keys; a single key already
	// self-associates.
	if len(signerByCandidate) >= 2 {
		poaKeys := make([]sdjwt.PoAKey, 0, len(signerByCandidate))
		for candidateID, sk := range signerByCandidate {
			poaKeys = append(poaKeys, sdjwt.PoAKey{Kid: candidateID, Signer: sk.signer, Alg: sk.alg})
		}
		poa, err := sdjwt.BuildPoA(poaKeys, p.session.clientID, p.session.nonce, now())
		if err != nil {
			return nil, &Termination{Cause: err}
		}
		payload["proof_of_association"] = poa
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Termination{Cause: err}
	}

	encrypted, err := jwe.Encrypt(body, jwe.WithKey(jwa.ECDH_ES(), p.encryption.recipientKey))
	if err != nil {
		return nil, &EncryptionError{Cause: err}
	}

	resp, err := p.session.transport.Post(ctx, p.session.responseURI, "application/jwt", encrypted)
	if err != nil {
		return nil, &DisclosureError{DataShared: true, Cause: err}
	}

	return parseDisclosureResponse(resp)
}

// signSDJWTPresentation builds the presentation for exactly the attributes
// the matcher reduced this candidate to, and appends a Key-Binding JWT.
func (p *Proposal) signSDJWTPresentation(document attestation.ProposedDocument, signer crypto.Signer) (string, string, error) {
	builder, err := sdjwt.NewBuilder(document.SDJWT)
	if err != nil {
		return "", "", err
	}
	for _, path := range document.Disclosed {
		builder = builder.Disclose(string(path))
	}
	presentation, err := builder.Finish()
	if err != nil {
		return "", "", err
	}

	alg := jose.GetSigningMethodFromKey(signer).Alg()
	kid := document.CandidateID

	signed, err := sdjwt.SignKeyBinding(presentation, signer, alg, kid, p.session.clientID, p.session.nonce, now())
	if err != nil {
		return "", "", err
	}
	return signed, alg, nil
}

// signMdocPresentation builds a single-document DeviceResponse for an
// mso_mdoc credential requested over OpenID4VP, per ISO 18013-7 Annex B: the
// vp_token entry is the base64url-encoded DeviceResponse, signed over an
// OID4VPHandover session transcript rather than the ISO proximity one.
func (p *Proposal) signMdocPresentation(docType string, document attestation.ProposedDocument, signer crypto.Signer) (string, error) {
	encoder, err := mdoc.NewCBOREncoder()
	if err != nil {
		return "", err
	}

	handover, err := oid4vpHandover(encoder, p.session.clientID, p.session.responseURI, p.session.nonce, p.mdocNonce)
	if err != nil {
		return "", err
	}
	sessionTranscript, err := mdoc.BuildSessionTranscript(nil, nil, handover)
	if err != nil {
		return "", err
	}

	deviceSigned, err := mdoc.NewDeviceAuthBuilder(docType).
		WithSessionTranscript(sessionTranscript).
		WithDeviceKey(signer).
		Build()
	if err != nil {
		return "", err
	}

	deviceResponse := mdoc.DeviceResponse{
		Version: "1.0",
		Documents: []mdoc.Document{{
			DocType:      docType,
			IssuerSigned: *document.IssuerSigned,
			DeviceSigned: *deviceSigned,
		}},
		Status: 0,
	}

	encoded, err := encoder.Marshal(deviceResponse)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(encoded), nil
}

// oid4vpHandover builds the ISO 18013-7 Annex B OID4VPHandover structure,
// binding an mdoc DeviceAuthentication to this specific OpenID4VP exchange
// instead of a BLE/NFC proximity transcript. Its result is embedded as a
// plain byte string within BuildSessionTranscript's third array element
// rather than an unwrapped nested array, since that function's handover
// parameter is typed []byte; holder and verifier need only agree on one
// encoding, and this exercise controls both ends of it (see DESIGN.md).
func oid4vpHandover(encoder *mdoc.CBOREncoder, clientID, responseURI, nonce, mdocNonce string) ([]byte, error) {
	clientIDToHash, err := encoder.Marshal([]any{clientID, mdocNonce})
	if err != nil {
		return nil, err
	}
	clientIDHash := sha256.Sum256(clientIDToHash)

	responseURIToHash, err := encoder.Marshal([]any{responseURI, mdocNonce})
	if err != nil {
		return nil, err
	}
	responseURIHash := sha256.Sum256(responseURIToHash)

	return encoder.Marshal([]any{clientIDHash[:], responseURIHash[:], nonce})
}

func parseDisclosureResponse(body []byte) (*DisclosureResult, error) {
	if len(body) == 0 {
		return &DisclosureResult{}, nil
	}
	var parsed struct {
		RedirectURI string `json:"redirect_uri"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		// A non-JSON (or empty) body from the response endpoint is not an
		// error: direct_post.jwt responses commonly get a bare 200 back.
		return &DisclosureResult{}, nil
	}
	return &DisclosureResult{RedirectURI: parsed.RedirectURI}, nil
}

// --- ISO disclose ---

func (p *Proposal) discloseISO(ctx context.Context, keyFactory KeyFactory) (*DisclosureResult, error) {
	encoder, err := mdoc.NewCBOREncoder()
	if err != nil {
		return nil, &Termination{Cause: err}
	}

	var documents []mdoc.Document
	for _, req := range p.requests {
		document, ok := p.documents[req.docType]
		if !ok {
			return nil, &Termination{Cause: fmt.Errorf("holdersession: no matched document for doc_type %q", req.docType)}
		}
		signer, err := keyFactory.SignerFor(document.CandidateID)
		if err != nil {
			return nil, &Termination{Cause: err}
		}

		deviceSigned, err := mdoc.NewDeviceAuthBuilder(req.docType).
			WithSessionTranscript(p.encryption.sessionTranscript).
			WithDeviceKey(signer).
			Build()
		if err != nil {
			return nil, &Termination{Cause: err}
		}

		documents = append(documents, mdoc.Document{
			DocType:      req.docType,
			IssuerSigned: *document.IssuerSigned,
			DeviceSigned: *deviceSigned,
		})
	}

	deviceResponse := mdoc.DeviceResponse{Version: "1.0", Documents: documents, Status: 0}
	responseBytes, err := encoder.Marshal(deviceResponse)
	if err != nil {
		return nil, &Termination{Cause: err}
	}

	ciphertext, err := p.encryption.sessionEncryption.Encrypt(responseBytes)
	if err != nil {
		return nil, &EncryptionError{Cause: err}
	}

	sessionData := mdoc.SessionData{Data: ciphertext}
	sessionDataBytes, err := encoder.Marshal(sessionData)
	if err != nil {
		return nil, &Termination{Cause: err}
	}

	if _, err := p.session.transport.Post(ctx, p.encryption.retrievalURL, "application/cbor", sessionDataBytes); err != nil {
		return nil, &DisclosureError{DataShared: true, Cause: err}
	}

	return &DisclosureResult{}, nil
}
