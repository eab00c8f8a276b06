// Package verifiersession implements the RP-side disclosure session state
// machine: new_session, status, get_request, post_response, cancel and
// disclosed_attributes, plus the background expiry sweep.
package verifiersession

import "time"

// Status discriminates the three persisted session shapes. Go has no sum
// types; Session below carries exactly the fields valid for its Status,
// projected and validated by each operation before it runs its transition.
type Status string

const (
	StatusCreated           Status = "CREATED"
	StatusWaitingForResponse Status = "WAITING_FOR_RESPONSE"
	StatusDone              Status = "DONE"
)

// ResultStatus discriminates the outcome once a session reaches Done.
type ResultStatus string

const (
	ResultDone      ResultStatus = "DONE"
	ResultFailed    ResultStatus = "FAILED"
	ResultCancelled ResultStatus = "CANCELLED"
	ResultExpired   ResultStatus = "EXPIRED"
)

// DisclosedAttribute is one claim/element the holder revealed, already
// pruned and re-ordered to match the request (C8 step 7).
type DisclosedAttribute struct {
	CredentialQueryID string `json:"credential_query_id" bson:"credential_query_id"`
	Path              string `json:"path" bson:"path"`
	Value             any    `json:"value" bson:"value"`
}

// Result is the terminal payload of a Done session.
type Result struct {
	Status ResultStatus `json:"status" bson:"status"`

	// Disclosed is populated only for Status == ResultDone.
	Disclosed []DisclosedAttribute `json:"disclosed,omitempty" bson:"disclosed,omitempty"`

	// Message carries a Failed session's error detail. Never exposes which
	// cryptographic primitive failed (§7 of the error-handling design).
	Message string `json:"message,omitempty" bson:"message,omitempty"`
}

// Request is one requested credential: a doc_type/vct plus the claim paths
// the verifier wants disclosed, the unit new_session accepts and the DCQL
// query is built from.
type Request struct {
	CredentialQueryID string   `json:"credential_query_id" bson:"credential_query_id"`
	Format            string   `json:"format" bson:"format"`
	DoctypeValue      string   `json:"doctype_value,omitempty" bson:"doctype_value,omitempty"`
	VCTValues         []string `json:"vct_values,omitempty" bson:"vct_values,omitempty"`
	ClaimPaths        []string `json:"claim_paths" bson:"claim_paths"`
}

// Session is the persisted verifier disclosure session record. Exactly one
// of the state-specific field groups is populated depending on Status.
type Session struct {
	Token     string    `json:"session_token" bson:"_id"`
	Status    Status    `json:"status" bson:"status"`
	UseCaseID string    `json:"usecase_id" bson:"usecase_id"`
	ClientID  string    `json:"client_id" bson:"client_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// --- Created ---
	Requests            []Request `json:"requests,omitempty" bson:"requests,omitempty"`
	ReturnURLTemplate    string    `json:"return_url_template,omitempty" bson:"return_url_template,omitempty"`

	// --- WaitingForResponse ---
	AuthRequestJWT        string `json:"auth_request_jwt,omitempty" bson:"auth_request_jwt,omitempty"`
	Nonce                 string `json:"nonce,omitempty" bson:"nonce,omitempty"`
	EncryptionPrivateJWK  []byte `json:"encryption_private_jwk,omitempty" bson:"encryption_private_jwk,omitempty"`
	EncryptionKeyID       string `json:"encryption_key_id,omitempty" bson:"encryption_key_id,omitempty"`
	RedirectURI           string `json:"redirect_uri,omitempty" bson:"redirect_uri,omitempty"`
	RedirectURINonce      string `json:"redirect_uri_nonce,omitempty" bson:"redirect_uri_nonce,omitempty"`
	State                 string `json:"state,omitempty" bson:"state,omitempty"`

	// --- Done ---
	Result *Result `json:"result,omitempty" bson:"result,omitempty"`
}

// activeSince reports whether the session is still Created or
// WaitingForResponse and older than maxAge as of now, i.e. a candidate for
// the cleanup sweep's expiry pass.
func (s *Session) activeOlderThan(now time.Time, maxAge time.Duration) bool {
	return s.Status != StatusDone && now.Sub(s.CreatedAt) > maxAge
}
