package verifiersession

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"walletdisclosure/pkg/jose"
	"walletdisclosure/pkg/mdoc"
	"walletdisclosure/pkg/openid4vp"
	"walletdisclosure/pkg/pki"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwe"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// NewSessionInput is what a caller supplies to open a disclosure session.
type NewSessionInput struct {
	UseCaseID         string
	ReturnURLTemplate string
}

// NewSessionOutput carries what the caller needs to engage the holder:
// the request_uri the wallet will fetch and the session token to poll.
type NewSessionOutput struct {
	SessionToken string
	RequestURI   string
}

// NewSession validates the use case, builds its DCQL-derived request set,
// and persists a Created session. It does not yet mint the Authorization
// Request JWT — that happens lazily in GetRequest, the first time the
// wallet actually asks for it.
func (c *Client) NewSession(ctx context.Context, in NewSessionInput) (*NewSessionOutput, error) {
	uc, ok := c.useCases[in.UseCaseID]
	if !ok {
		return nil, ErrUnknownUseCase
	}

	hasTemplate := in.ReturnURLTemplate != ""
	if hasTemplate && (uc.ReturnURLPolicy == "neither" || uc.ReturnURLPolicy == "") {
		return nil, ErrReturnURLConfigurationMismatch
	}

	if len(uc.ClaimPaths) == 0 {
		return nil, ErrNoCredentialRequests
	}

	format := formatSDJWT
	if uc.DoctypeValue != "" {
		format = formatMDoc
	}

	now := time.Now()
	token := uuid.NewString()
	session := &Session{
		Token:     token,
		Status:    StatusCreated,
		UseCaseID: in.UseCaseID,
		ClientID:  c.cfg.ClientID,
		CreatedAt: now,
		UpdatedAt: now,
		Requests: []Request{{
			CredentialQueryID: "cq1",
			Format:            format,
			DoctypeValue:      uc.DoctypeValue,
			VCTValues:         uc.VCTValues,
			ClaimPaths:        uc.ClaimPaths,
		}},
		ReturnURLTemplate: in.ReturnURLTemplate,
	}

	if err := c.store.Create(ctx, session); err != nil {
		return nil, err
	}

	return &NewSessionOutput{
		SessionToken: token,
		RequestURI:   c.requestURI(token),
	}, nil
}

func (c *Client) requestURI(token string) string {
	return fmt.Sprintf("%s/verification/request-object/%s", strings.TrimRight(c.cfg.ExternalURL, "/"), token)
}

// StatusOutput reports where a session currently stands, including a fresh
// ephemeral ID for get_request when the use case requires one.
type StatusOutput struct {
	Status       Status
	ResultStatus ResultStatus
	EphemeralID  string
	Timestamp    string
}

// Status reports a session's current Status, minting a fresh ephemeral ID
// when the owning use case requires one for get_request.
func (c *Client) Status(ctx context.Context, token string) (*StatusOutput, error) {
	session, err := c.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	out := &StatusOutput{Status: session.Status}
	if session.Result != nil {
		out.ResultStatus = session.Result.Status
	}

	uc := c.useCases[session.UseCaseID]
	if uc.EphemeralIDRequired {
		id, ts := generateEphemeralID(c.cfg.EphemeralIDSecret, token, time.Now())
		out.EphemeralID = id
		out.Timestamp = ts
	}

	return out, nil
}

// GetRequest checks the ephemeral ID (when the use case requires one),
// mints the Authorization Request JWT and ephemeral encryption key on first
// call, and advances Created -> WaitingForResponse.
func (c *Client) GetRequest(ctx context.Context, token, ephemeralID, timestamp string) (string, error) {
	session, err := c.store.Get(ctx, token)
	if err != nil {
		return "", err
	}

	uc, ok := c.useCases[session.UseCaseID]
	if !ok {
		return "", ErrUnknownUseCase
	}

	if uc.EphemeralIDRequired {
		if err := verifyEphemeralID(c.cfg.EphemeralIDSecret, token, ephemeralID, timestamp, time.Now()); err != nil {
			return "", err
		}
	}

	switch session.Status {
	case StatusWaitingForResponse:
		return session.AuthRequestJWT, nil
	case StatusDone:
		return "", &ErrUnexpectedState{Observed: session.Status, Expected: StatusCreated}
	}

	nonce, err := randomURLSafeString(24)
	if err != nil {
		return "", err
	}
	state, err := randomURLSafeString(24)
	if err != nil {
		return "", err
	}

	kid := uuid.NewString()
	privateJWK, publicJWK, err := generateEphemeralECDHKey(kid)
	if err != nil {
		return "", err
	}
	privateJWKBytes, err := json.Marshal(privateJWK)
	if err != nil {
		return "", err
	}

	dcql := buildDCQL(session.Requests)

	responseURI := c.requestURI(token) + "/response"

	claims := jwt.MapClaims{
		"iss":               c.cfg.ClientID,
		"aud":               "https://self-issued.me/v2",
		"iat":               time.Now().Unix(),
		"response_type":     "vp_token",
		"client_id":         "x509_san_dns:" + c.cfg.ClientID,
		"client_id_scheme":  "x509_san_dns",
		"response_mode":     "direct_post.jwt",
		"response_uri":      responseURI,
		"nonce":             nonce,
		"state":             state,
		"dcql_query":        dcql,
		"client_metadata": map[string]any{
			"jwks": map[string]any{
				"keys": []any{publicJWK},
			},
			"vp_formats_supported": vpFormatsSupported(),
		},
	}

	header := jwt.MapClaims{
		"alg": jose.GetSigningMethodFromKey(c.signingKey).Alg(),
		"x5c": certChainBase64(c.certChain),
	}

	signed, err := jose.MakeJWT(header, claims, jose.GetSigningMethodFromKey(c.signingKey), c.signingKey)
	if err != nil {
		return "", err
	}

	next := *session
	next.Status = StatusWaitingForResponse
	next.UpdatedAt = time.Now()
	next.AuthRequestJWT = signed
	next.Nonce = nonce
	next.State = state
	next.EncryptionPrivateJWK = privateJWKBytes
	next.EncryptionKeyID = kid

	if err := c.store.CompareAndSwap(ctx, token, StatusCreated, &next); err != nil {
		return "", err
	}

	return signed, nil
}

// PostResponse decrypts and verifies the wallet's Authorization Response,
// advancing WaitingForResponse -> Done. redirectURI is returned only when
// the use case permits sharing it (always on success; on failure only when
// ShareOnError is set).
func (c *Client) PostResponse(ctx context.Context, token, encryptedResponse string, mdocVerifier *mdoc.Verifier) (redirectURI string, err error) {
	session, err := c.store.Get(ctx, token)
	if err != nil {
		return "", err
	}
	if session.Status != StatusWaitingForResponse {
		return "", &ErrUnexpectedState{Observed: session.Status, Expected: StatusWaitingForResponse}
	}

	uc := c.useCases[session.UseCaseID]

	result, failure := c.decryptAndVerify(session, encryptedResponse, mdocVerifier)

	next := *session
	next.Status = StatusDone
	next.UpdatedAt = time.Now()
	next.Requests = nil
	next.AuthRequestJWT = ""
	next.EncryptionPrivateJWK = nil
	next.Result = result

	if err := c.store.CompareAndSwap(ctx, token, StatusWaitingForResponse, &next); err != nil {
		return "", err
	}
	c.publishTerminal(&next)

	if failure != nil && !uc.ShareOnError {
		return "", failure
	}
	return c.buildRedirectURI(&next), failure
}

func (c *Client) decryptAndVerify(session *Session, encryptedResponse string, mdocVerifier *mdoc.Verifier) (*Result, error) {
	privateJWK, err := jwk.ParseKey(session.EncryptionPrivateJWK)
	if err != nil {
		return &Result{Status: ResultFailed, Message: "malformed session state"}, err
	}

	decrypted, err := jwe.Decrypt([]byte(encryptedResponse), jwe.WithKey(jwa.ECDH_ES(), privateJWK))
	if err != nil {
		return &Result{Status: ResultFailed, Message: "response decryption failed"}, err
	}

	var payload struct {
		State   string  `json:"state"`
		VPToken VPToken `json:"vp_token"`
	}
	if err := json.Unmarshal(decrypted, &payload); err != nil {
		return &Result{Status: ResultFailed, Message: "malformed response payload"}, err
	}
	if payload.State != session.State {
		return &Result{Status: ResultFailed, Message: "state mismatch"}, fmt.Errorf("state mismatch")
	}

	disclosed, err := c.verifyResponse(session, payload.VPToken, mdocVerifier)
	if err != nil {
		return &Result{Status: ResultFailed, Message: "presentation verification failed"}, err
	}

	return &Result{Status: ResultDone, Disclosed: disclosed}, nil
}

func (c *Client) buildRedirectURI(session *Session) string {
	if session.ReturnURLTemplate == "" {
		return ""
	}
	return strings.ReplaceAll(session.ReturnURLTemplate, "{session_token}", session.Token)
}

// Cancel advances a non-terminal session straight to Done{Cancelled}.
func (c *Client) Cancel(ctx context.Context, token string) error {
	session, err := c.store.Get(ctx, token)
	if err != nil {
		return err
	}
	if session.Status == StatusDone {
		return &ErrUnexpectedState{Observed: session.Status, Expected: StatusCreated}
	}

	next := *session
	next.Status = StatusDone
	next.UpdatedAt = time.Now()
	next.Requests = nil
	next.AuthRequestJWT = ""
	next.EncryptionPrivateJWK = nil
	next.Result = &Result{Status: ResultCancelled}

	if err := c.store.CompareAndSwap(ctx, token, session.Status, &next); err != nil {
		return err
	}
	c.publishTerminal(&next)
	return nil
}

// DisclosedAttributes returns a Done session's disclosed attributes to the
// RP's own backend, gated by the redirect_uri nonce when the session has
// one (i.e. when it used response_mode direct_post.jwt with a return URL).
func (c *Client) DisclosedAttributes(ctx context.Context, token, redirectURINonce string) (*Result, error) {
	session, err := c.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Status != StatusDone {
		return nil, &ErrUnexpectedState{Observed: session.Status, Expected: StatusDone}
	}

	if session.RedirectURINonce != "" {
		if redirectURINonce == "" {
			return nil, ErrRedirectURINonceMissing
		}
		if redirectURINonce != session.RedirectURINonce {
			return nil, ErrRedirectURINonceMismatch
		}
	}

	return session.Result, nil
}

// ExportXLSX renders a Done session's disclosed attributes as a workbook
// for the RP operator's own records, the use-case registry's export half of
// C10. Unlike DisclosedAttributes this is not nonce-gated: it is reached
// only through the operator-facing admin surface, already gated by basic
// auth at the HTTP edge.
func (c *Client) ExportXLSX(ctx context.Context, token string) ([]byte, error) {
	session, err := c.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return ExportDisclosedAttributesXLSX(session)
}

func randomURLSafeString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// generateEphemeralECDHKey creates a fresh P-256 key pair for encrypting the
// Authorization Response, the request-scoped analogue of
// EphemeralEncryptionKeyCache.GenerateAndStore: here the private JWK is
// carried in the session record itself rather than a process-wide cache,
// since the session store is already the source of truth for session state.
func generateEphemeralECDHKey(kid string) (privateJWK, publicJWK jwk.Key, err error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	privateJWK, err = jwk.Import(priv)
	if err != nil {
		return nil, nil, err
	}
	if err := privateJWK.Set(jwk.KeyIDKey, kid); err != nil {
		return nil, nil, err
	}

	publicJWK, err = jwk.Import(priv.Public())
	if err != nil {
		return nil, nil, err
	}
	if err := publicJWK.Set(jwk.KeyIDKey, kid); err != nil {
		return nil, nil, err
	}
	if err := publicJWK.Set(jwk.KeyUsageKey, "enc"); err != nil {
		return nil, nil, err
	}

	return privateJWK, publicJWK, nil
}

// buildDCQL translates the session's Requests into a DCQL query: one
// credential query per request, each constrained to the claim paths asked
// for and the format-specific type metadata.
func buildDCQL(requests []Request) *openid4vp.DCQL {
	dcql := &openid4vp.DCQL{Credentials: make([]openid4vp.CredentialQuery, 0, len(requests))}

	for _, req := range requests {
		claims := make([]openid4vp.ClaimQuery, 0, len(req.ClaimPaths))
		for _, path := range req.ClaimPaths {
			claims = append(claims, openid4vp.ClaimQuery{Path: []string{path}})
		}

		cq := openid4vp.CredentialQuery{
			ID:     req.CredentialQueryID,
			Format: req.Format,
			Claims: claims,
		}
		switch req.Format {
		case formatSDJWT:
			cq.Meta = openid4vp.MetaQuery{VCTValues: req.VCTValues}
		case formatMDoc:
			cq.Meta = openid4vp.MetaQuery{DoctypeValue: req.DoctypeValue}
		}

		dcql.Credentials = append(dcql.Credentials, cq)
	}

	return dcql
}

// vpFormatsSupported advertises the two presentation formats this engine
// can verify, using the vp_formats_supported shape client_metadata expects.
func vpFormatsSupported() map[string]map[string][]string {
	return map[string]map[string][]string{
		formatSDJWT: {"sd-jwt_alg_values": {"ES256"}, "kb-jwt_alg_values": {"ES256"}},
		formatMDoc:  {"issuerauth_alg_values": {"ES256"}, "deviceauth_alg_values": {"ES256"}},
	}
}

// certChainBase64 renders an RP certificate chain as the base64 DER strings
// the x5c JWS header expects.
func certChainBase64(chain []*x509.Certificate) []string {
	out := make([]string, 0, len(chain))
	for _, cert := range chain {
		out = append(out, pki.Base64EncodeCertificate(cert))
	}
	return out
}
