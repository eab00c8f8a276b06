// Package holdersession implements the holder-side disclosure session: two
// public constructors (start, and disclose on the resulting Proposal) plus
// terminate, matching the engagement/transcript (C1), session-key agreement
// (C2), reader authentication (C3), attestation matching (C4), SD-JWT core
// (C7) and Authorization Request/Response (C8) building blocks it wires
// together.
package holdersession

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"walletdisclosure/pkg/attestation"
)

// UriSource records how the holder obtained the engagement/request payload,
// the supplemented type SPEC_FULL.md's §5 calls for so that a caller-
// reported value can be compared against what the request itself claims.
type UriSource int

const (
	// UriSourceLink is a universal/app link tapped on the same device as
	// the verifier's browser session.
	UriSourceLink UriSource = iota
	// UriSourceQRCode is a QR code scanned from a separate device.
	UriSourceQRCode
)

const (
	sessionTypeSameDevice  = "same_device"
	sessionTypeCrossDevice = "cross_device"
)

// ExpectedSessionType returns the session_type this UriSource implies:
// a universal link is always same-device, a QR code always cross-device.
func (u UriSource) ExpectedSessionType() string {
	if u == UriSourceLink {
		return sessionTypeSameDevice
	}
	return sessionTypeCrossDevice
}

func (u UriSource) String() string {
	if u == UriSourceLink {
		return "link"
	}
	return "qr_code"
}

// Transport abstracts the network calls a disclosure session makes against
// the verifier: retrieving a request object and posting a response or
// termination message. A real implementation wraps net/http; tests supply
// a fake.
type Transport interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
	Post(ctx context.Context, rawURL string, contentType string, body []byte) ([]byte, error)
}

// HTTPTransport is the default Transport, a thin net/http client. No
// ecosystem HTTP client library is named in the domain stack for this
// outbound leg (see DESIGN.md); net/http is used directly rather than
// hand-rolling retry/pooling logic the standard client already provides.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport builds an HTTPTransport with http.DefaultClient.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{Client: http.DefaultClient}
}

func (t *HTTPTransport) client() *http.Client {
	if t.Client != nil {
		return t.Client
	}
	return http.DefaultClient
}

// Get issues an HTTP GET and returns the response body.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return t.do(req)
}

// Post issues an HTTP POST with the given content type and returns the
// response body.
func (t *HTTPTransport) Post(ctx context.Context, rawURL string, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return t.do(req)
}

func (t *HTTPTransport) do(req *http.Request) ([]byte, error) {
	resp, err := t.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Outcome discriminates the two shapes Start can return. Go has no sum
// types; DisclosureSession carries exactly the fields valid for its
// Outcome, matching the pattern already used by the verifier-side session
// (one struct, one discriminator).
type Outcome int

const (
	// OutcomeMissingAttributes means the attestation matcher (C4) could not
	// satisfy every requested doc_type.
	OutcomeMissingAttributes Outcome = iota
	// OutcomeProposal means every requested doc_type has exactly one
	// satisfying candidate and the holder can proceed to disclose().
	OutcomeProposal
)

// DisclosureSession is the result of Start: either MissingAttributes or a
// Proposal, both retaining Terminate().
type DisclosureSession struct {
	outcome Outcome

	missingAttributes []attestation.AttributeIdentifier
	proposal          *Proposal

	transport   Transport
	responseURI string
	clientID    string
	nonce       string
	state       string
}

// Outcome reports which shape this session carries.
func (s *DisclosureSession) Outcome() Outcome { return s.outcome }

// MissingAttributes is only meaningful when Outcome() == OutcomeMissingAttributes.
func (s *DisclosureSession) MissingAttributes() []attestation.AttributeIdentifier {
	return s.missingAttributes
}

// Proposal is only meaningful when Outcome() == OutcomeProposal.
func (s *DisclosureSession) Proposal() *Proposal { return s.proposal }

// documentRequest is one credential_query_id's normalized request, carried
// alongside the matched ProposedDocument so disclose() can re-derive
// per-format claim paths/doc types without consulting the matcher again.
type documentRequest struct {
	credentialQueryID string
	format            string // "mso_mdoc" or "dc+sd-jwt"
	docType           string
	claimPaths        []attestation.AttributeIdentifier
}

// Proposal is the Candidates outcome of the attestation matcher, reduced to
// exactly one ProposedDocument per requested doc_type (C5 has already
// rejected MultipleCandidates by this point) plus everything disclose()
// needs to assemble and send a response.
type Proposal struct {
	session *DisclosureSession

	requests   []documentRequest
	documents  map[string]attestation.ProposedDocument // keyed by doc_type
	mdocNonce  string
	encryption encryptionContext
}

// DisclosureResult is what disclose() returns on success.
type DisclosureResult struct {
	// RedirectURI is the verifier's echoed redirect target, if any.
	RedirectURI string
}
