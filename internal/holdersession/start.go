package holdersession

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"walletdisclosure/pkg/attestation"
	"walletdisclosure/pkg/mdoc"
	"walletdisclosure/pkg/openid4vp"
	"walletdisclosure/pkg/trust"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

const sessionTypeQueryParam = "session_type"

// Start begins a disclosure session against either profile: requestBytes is
// CBOR-encoded reader engagement for the ISO proximity profile, or a
// wallet-invocation URI (openid4vp://... with a request/request_uri
// parameter) for the OpenID4VP profile. The two are distinguished by shape,
// not by an explicit flag, mirroring how a real wallet dispatches an
// incoming scan or deep link.
func Start(
	ctx context.Context,
	transport Transport,
	requestBytes []byte,
	uriSource UriSource,
	attestationSource attestation.Source,
	trustAnchors trust.TrustEvaluator,
) (*DisclosureSession, error) {
	if looksLikeWalletURI(requestBytes) {
		return startOpenID4VP(ctx, transport, string(requestBytes), uriSource, attestationSource, trustAnchors)
	}
	return startISO(ctx, transport, requestBytes, uriSource, attestationSource, trustAnchors)
}

func looksLikeWalletURI(data []byte) bool {
	for _, b := range data {
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return bytes.Contains(data, []byte("://"))
}

// --- OpenID4VP profile ---

func startOpenID4VP(
	ctx context.Context,
	transport Transport,
	rawURI string,
	uriSource UriSource,
	attestationSource attestation.Source,
	trustAnchors trust.TrustEvaluator,
) (*DisclosureSession, error) {
	invocation, err := url.Parse(rawURI)
	if err != nil {
		return nil, &DecodingError{Cause: err}
	}
	query := invocation.Query()

	if sessionType := query.Get(sessionTypeQueryParam); sessionType != "" && sessionType != uriSource.ExpectedSessionType() {
		return nil, ErrDisclosureUriSourceMismatch
	}

	compact, err := fetchRequestObject(ctx, transport, query)
	if err != nil {
		return nil, err
	}

	claims, headerX5C, err := parseRequestJWS(compact)
	if err != nil {
		return nil, &DecodingError{Cause: err}
	}

	chain, err := decodeX5C(headerX5C)
	if err != nil {
		return nil, &DecodingError{Cause: err}
	}
	if err := verifyTrustedVerifier(ctx, trustAnchors, chain, claims.ClientID); err != nil {
		return nil, &Termination{Cause: err}
	}

	requested, requests, err := requestsFromDCQL(claims.DCQLQuery)
	if err != nil {
		return nil, &DecodingError{Cause: err}
	}

	session := &DisclosureSession{
		transport:   transport,
		responseURI: claims.ResponseURI,
		clientID:    claims.ClientID,
		nonce:       claims.Nonce,
		state:       claims.State,
	}

	match, err := attestation.NewAttestationMatcher(attestationSource).Match(ctx, requested)
	if err != nil {
		return nil, err
	}
	if !match.Satisfied() {
		session.outcome = OutcomeMissingAttributes
		session.missingAttributes = match.MissingAttributes
		return session, nil
	}
	if err := rejectMultipleCandidates(match); err != nil {
		return nil, err
	}

	encCtx, err := encryptionContextFromClientMetadata(claims.ClientMetadata)
	if err != nil {
		return nil, &DecodingError{Cause: err}
	}

	mdocNonce, err := randomNonce()
	if err != nil {
		return nil, &EncryptionError{Cause: err}
	}

	proposal := &Proposal{
		session:    session,
		requests:   requests,
		documents:  firstOfEach(match.Candidates),
		mdocNonce:  mdocNonce,
		encryption: encCtx,
	}
	session.outcome = OutcomeProposal
	session.proposal = proposal
	return session, nil
}

// fetchRequestObject resolves the compact JWS either from an inline
// "request" parameter or by fetching "request_uri".
func fetchRequestObject(ctx context.Context, transport Transport, query url.Values) (string, error) {
	if inline := query.Get("request"); inline != "" {
		return inline, nil
	}
	requestURI := query.Get("request_uri")
	if requestURI == "" {
		return "", &DecodingError{Cause: fmt.Errorf("holdersession: wallet invocation carries neither request nor request_uri")}
	}
	body, err := transport.Get(ctx, requestURI)
	if err != nil {
		return "", &Termination{Cause: err}
	}
	return strings.TrimSpace(string(body)), nil
}

// parseRequestJWS parses the compact JWS's claims without yet trusting its
// signer, returning the x5c header so the caller can run trust evaluation
// before verifying the signature against the leaf certificate.
func parseRequestJWS(compact string) (*openid4vp.RequestObject, []string, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(compact, jwt.MapClaims{})
	if err != nil {
		return nil, nil, err
	}

	mapClaims, _ := token.Claims.(jwt.MapClaims)
	claimsJSON, err := json.Marshal(mapClaims)
	if err != nil {
		return nil, nil, err
	}
	var claims openid4vp.RequestObject
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return nil, nil, err
	}

	var headerX5C []string
	if raw, ok := token.Header["x5c"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				headerX5C = append(headerX5C, s)
			}
		}
	}

	verified, err := jwt.Parse(compact, func(t *jwt.Token) (any, error) {
		chain, err := decodeX5C(headerX5C)
		if err != nil {
			return nil, err
		}
		if len(chain) == 0 {
			return nil, fmt.Errorf("holdersession: request carries no x5c chain")
		}
		return chain[0].PublicKey, nil
	})
	if err != nil || !verified.Valid {
		return nil, nil, fmt.Errorf("holdersession: request signature verification failed: %w", err)
	}

	return &claims, headerX5C, nil
}

func decodeX5C(x5c []string) ([]*x509.Certificate, error) {
	chain := make([]*x509.Certificate, 0, len(x5c))
	for _, b64 := range x5c {
		der, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, err
		}
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, err
		}
		chain = append(chain, cert)
	}
	return chain, nil
}

func verifyTrustedVerifier(ctx context.Context, trustAnchors trust.TrustEvaluator, chain []*x509.Certificate, clientID string) error {
	if trustAnchors == nil {
		return fmt.Errorf("holdersession: no trust anchors configured")
	}
	decision, err := trustAnchors.Evaluate(ctx, &trust.EvaluationRequest{
		SubjectID: clientID,
		KeyType:   trust.KeyTypeX5C,
		Key:       chain,
		Role:      trust.RoleVerifier,
	})
	if err != nil {
		return err
	}
	if decision == nil || !decision.Trusted {
		return fmt.Errorf("holdersession: verifier %q is not trusted", clientID)
	}
	return nil
}

// requestsFromDCQL normalizes a DCQL query into both the matcher's Request
// shape (grouped by doc_type/vct) and the per-credential-query bookkeeping
// disclose() needs to rebuild each presentation.
func requestsFromDCQL(dcql *openid4vp.DCQL) ([]attestation.Request, []documentRequest, error) {
	if dcql == nil || len(dcql.Credentials) == 0 {
		return nil, nil, fmt.Errorf("holdersession: request carries no dcql_query")
	}

	byDocType := make(map[string][]attestation.AttributeIdentifier)
	var docRequests []documentRequest

	for _, cq := range dcql.Credentials {
		if cq.Format != openid4vp.FormatMsoMdoc && cq.Format != openid4vp.FormatSDJWTVC {
			return nil, nil, ErrUnsupportedFormat
		}
		docType, paths := normalizeCredentialQuery(cq)
		byDocType[docType] = append(byDocType[docType], paths...)
		docRequests = append(docRequests, documentRequest{
			credentialQueryID: cq.ID,
			format:            cq.Format,
			docType:           docType,
			claimPaths:        paths,
		})
	}

	requests := make([]attestation.Request, 0, len(byDocType))
	for docType, attrs := range byDocType {
		requests = append(requests, attestation.Request{DocType: docType, Attributes: dedupeAttributes(attrs)})
	}
	return requests, docRequests, nil
}

func normalizeCredentialQuery(cq openid4vp.CredentialQuery) (docType string, paths []attestation.AttributeIdentifier) {
	switch cq.Format {
	case openid4vp.FormatMsoMdoc:
		docType = cq.Meta.DoctypeValue
		for _, claim := range cq.Claims {
			paths = append(paths, attestation.AttributeIdentifier(strings.Join(claim.Path, ".")))
		}
	default:
		if len(cq.Meta.VCTValues) > 0 {
			docType = cq.Meta.VCTValues[0]
		}
		for _, claim := range cq.Claims {
			paths = append(paths, attestation.AttributeIdentifier("$."+strings.Join(claim.Path, ".")))
		}
	}
	return docType, paths
}

func dedupeAttributes(in []attestation.AttributeIdentifier) []attestation.AttributeIdentifier {
	seen := make(map[attestation.AttributeIdentifier]bool, len(in))
	out := make([]attestation.AttributeIdentifier, 0, len(in))
	for _, a := range in {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

func rejectMultipleCandidates(match attestation.Match) error {
	for docType, candidates := range match.Candidates {
		if len(candidates) > 1 {
			ids := make([]string, len(candidates))
			for i, c := range candidates {
				ids[i] = c.CandidateID
			}
			return &attestation.ErrMultipleCandidates{DocType: docType, Candidates: ids}
		}
	}
	return nil
}

func firstOfEach(candidates map[string][]attestation.ProposedDocument) map[string]attestation.ProposedDocument {
	out := make(map[string]attestation.ProposedDocument, len(candidates))
	for docType, list := range candidates {
		if len(list) > 0 {
			out[docType] = list[0]
		}
	}
	return out
}

// encryptionContext carries what disclose() needs to seal a response,
// independent of which profile produced the Proposal.
type encryptionContext struct {
	// openID4VP fields
	recipientKey jwk.Key
	recipientAlg string

	// ISO fields
	sessionEncryption *mdoc.SessionEncryption
	sessionTranscript []byte
	retrievalURL      string
}

// encryptionContextFromClientMetadata picks the verifier's "enc"-use
// ephemeral key out of client_metadata.jwks, the key the Authorization
// Response must be ECDH-ES encrypted to.
func encryptionContextFromClientMetadata(meta *openid4vp.ClientMetadata) (encryptionContext, error) {
	if meta == nil || meta.JWKS == nil || len(meta.JWKS.Keys) == 0 {
		return encryptionContext{}, fmt.Errorf("holdersession: client_metadata carries no encryption key")
	}
	for _, k := range meta.JWKS.Keys {
		if use, ok := k.Get(jwk.KeyUsageKey); ok && use == "enc" {
			return encryptionContext{recipientKey: k, recipientAlg: "ECDH-ES"}, nil
		}
	}
	return encryptionContext{recipientKey: meta.JWKS.Keys[0], recipientAlg: "ECDH-ES"}, nil
}

// --- ISO profile ---
//
// This profile exercises real CBOR engagement structures, ECDH session-key
// derivation and COSE_Sign1 reader-auth verification, grounded directly on
// pkg/mdoc. It models the ISO 18013-7 Annex B "web API" retrieval variant
// rather than a BLE/NFC central-peripheral connection: the reader's
// retrieval endpoint is carried in ReaderEngagement.OriginInfos (reusing the
// existing OriginInfo.Details field as the callback URL, the closest fit
// pkg/mdoc already offers for a web-reachable origin) and the session is
// established with a single POST/response exchange rather than a live BLE
// GATT session. See DESIGN.md for the full rationale.
func startISO(
	ctx context.Context,
	transport Transport,
	requestBytes []byte,
	uriSource UriSource,
	attestationSource attestation.Source,
	trustAnchors trust.TrustEvaluator,
) (*DisclosureSession, error) {
	encoder, err := mdoc.NewCBOREncoder()
	if err != nil {
		return nil, &DecodingError{Cause: err}
	}

	var readerEngagement mdoc.ReaderEngagement
	if err := encoder.Unmarshal(requestBytes, &readerEngagement); err != nil {
		return nil, &DecodingError{Cause: err}
	}

	retrievalURL := retrievalURLFromOriginInfos(readerEngagement.OriginInfos)
	if retrievalURL == "" {
		return nil, ErrNoRetrievalEndpoint
	}

	builder, err := mdoc.NewEngagementBuilder().GenerateEphemeralKey()
	if err != nil {
		return nil, &EncryptionError{Cause: err}
	}
	builder = builder.WithBLE(mdoc.BLEOptions{SupportsCentralMode: true})
	deviceEngagement, eDevicePriv, err := builder.Build()
	if err != nil {
		return nil, &EncryptionError{Cause: err}
	}

	eReaderPub, err := mdoc.ExtractEDeviceKey(&mdoc.DeviceEngagement{Security: readerEngagement.Security})
	if err != nil {
		return nil, &DecodingError{Cause: err}
	}

	deviceEngagementBytes, err := mdoc.EncodeDeviceEngagement(deviceEngagement)
	if err != nil {
		return nil, &EncryptionError{Cause: err}
	}

	sessionTranscript, err := mdoc.BuildSessionTranscript(deviceEngagementBytes, readerEngagement.Security.EDeviceKeyBytes, mdoc.QRHandover())
	if err != nil {
		return nil, &EncryptionError{Cause: err}
	}

	sessionEncryption, err := mdoc.NewSessionEncryptionDevice(eDevicePriv, eReaderPub, sessionTranscript)
	if err != nil {
		return nil, &EncryptionError{Cause: err}
	}

	respBytes, err := transport.Post(ctx, retrievalURL, "application/cbor", deviceEngagementBytes)
	if err != nil {
		return nil, &Termination{Cause: err}
	}

	var sessionData mdoc.SessionData
	if err := encoder.Unmarshal(respBytes, &sessionData); err != nil {
		return nil, &DecodingError{Cause: err}
	}

	decrypted, err := sessionEncryption.Decrypt(sessionData.Data)
	if err != nil {
		return nil, &EncryptionError{Cause: err}
	}

	var deviceRequest mdoc.DeviceRequest
	if err := encoder.Unmarshal(decrypted, &deviceRequest); err != nil {
		return nil, &DecodingError{Cause: err}
	}

	requested, docRequests, err := requestsFromDeviceRequest(encoder, sessionTranscript, &deviceRequest, trustAnchors, ctx)
	if err != nil {
		return nil, err
	}

	session := &DisclosureSession{transport: transport}

	match, err := attestation.NewAttestationMatcher(attestationSource).Match(ctx, requested)
	if err != nil {
		return nil, err
	}
	if !match.Satisfied() {
		session.outcome = OutcomeMissingAttributes
		session.missingAttributes = match.MissingAttributes
		return session, nil
	}
	if err := rejectMultipleCandidates(match); err != nil {
		return nil, err
	}

	proposal := &Proposal{
		session:   session,
		requests:  docRequests,
		documents: firstOfEach(match.Candidates),
		encryption: encryptionContext{
			sessionEncryption: sessionEncryption,
			sessionTranscript: sessionTranscript,
			retrievalURL:      retrievalURL,
		},
	}
	session.outcome = OutcomeProposal
	session.proposal = proposal
	return session, nil
}

// retrievalURLFromOriginInfos finds a web-reachable origin in engagement's
// OriginInfos and returns its Details, treated as the retrieval endpoint.
func retrievalURLFromOriginInfos(origins []mdoc.OriginInfo) string {
	for _, o := range origins {
		if o.Type == 1 && o.Details != "" {
			return o.Details
		}
	}
	return ""
}

// requestsFromDeviceRequest verifies every DocRequest's reader auth (when
// present) against trustAnchors — extracting the signer's chain
// independently first so trust is evaluated through the same
// trust.TrustEvaluator the OpenID4VP profile uses, then reusing
// ReaderAuthVerifier purely for its signature check (trustedReaders: nil
// skips its own, separate trust-list lookup).
func requestsFromDeviceRequest(
	encoder *mdoc.CBOREncoder,
	sessionTranscript []byte,
	deviceRequest *mdoc.DeviceRequest,
	trustAnchors trust.TrustEvaluator,
	ctx context.Context,
) ([]attestation.Request, []documentRequest, error) {
	verifier := mdoc.NewReaderAuthVerifier(sessionTranscript, nil)

	var requests []attestation.Request
	var docRequests []documentRequest

	for _, docReq := range deviceRequest.DocRequests {
		var itemsRequest mdoc.ItemsRequest

		if len(docReq.ReaderAuth) > 0 {
			var sign1 mdoc.COSESign1
			if err := encoder.Unmarshal(docReq.ReaderAuth, &sign1); err != nil {
				return nil, nil, &DecodingError{Cause: err}
			}
			chain, err := mdoc.GetCertificateChainFromSign1(&sign1)
			if err != nil {
				return nil, nil, &DecodingError{Cause: err}
			}
			if trustAnchors != nil && len(chain) > 0 {
				decision, err := trustAnchors.Evaluate(ctx, &trust.EvaluationRequest{
					KeyType: trust.KeyTypeX5C,
					Key:     chain,
					Role:    trust.RoleVerifier,
				})
				if err != nil || decision == nil || !decision.Trusted {
					return nil, nil, &Termination{Cause: fmt.Errorf("holdersession: reader not trusted")}
				}
			}

			verified, _, err := verifier.VerifyReaderAuth(docReq.ReaderAuth, docReq.ItemsRequest)
			if err != nil {
				return nil, nil, &Termination{Cause: err}
			}
			itemsRequest = *verified
		} else if err := encoder.Unmarshal(docReq.ItemsRequest, &itemsRequest); err != nil {
			return nil, nil, &DecodingError{Cause: err}
		}

		var paths []attestation.AttributeIdentifier
		for namespace, elements := range itemsRequest.NameSpaces {
			for element, requestedFlag := range elements {
				if !requestedFlag {
					continue
				}
				paths = append(paths, attestation.AttributeIdentifier(namespace+"."+element))
			}
		}

		requests = append(requests, attestation.Request{DocType: itemsRequest.DocType, Attributes: dedupeAttributes(paths)})
		docRequests = append(docRequests, documentRequest{
			credentialQueryID: itemsRequest.DocType,
			format:            "mso_mdoc",
			docType:           itemsRequest.DocType,
			claimPaths:        dedupeAttributes(paths),
		})
	}

	return requests, docRequests, nil
}

// randomNonce generates the holder-side mdoc_generated_nonce ISO 18013-7
// Annex B mixes into the OID4VP session transcript alongside the verifier's
// own nonce, binding an mdoc DeviceAuthentication to this exact exchange.
func randomNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func now() time.Time { return time.Now() }
