package verifiersession

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownUseCase is returned by new_session for an unregistered usecase_id.
	ErrUnknownUseCase = errors.New("unknown_use_case")
	// ErrNoCredentialRequests is returned by new_session with an empty request set.
	ErrNoCredentialRequests = errors.New("no_credential_requests")
	// ErrReturnURLConfigurationMismatch signals the usecase's return-URL
	// policy disagrees with whether a template was supplied.
	ErrReturnURLConfigurationMismatch = errors.New("return_url_configuration_mismatch")
	// ErrUnsupportedDCQL is returned when requests cannot be normalized into a DCQL query.
	ErrUnsupportedDCQL = errors.New("unsupported_dcql")

	// ErrExpiredEphemeralID is returned by get_request for a stale ephemeral ID.
	ErrExpiredEphemeralID = errors.New("expired_ephemeral_id")
	// ErrInvalidEphemeralID is returned by get_request for a non-matching HMAC.
	ErrInvalidEphemeralID = errors.New("invalid_ephemeral_id")

	// ErrRedirectURINonceMismatch is returned by disclosed_attributes when
	// the supplied nonce does not equal the stored one.
	ErrRedirectURINonceMismatch = errors.New("redirect_uri_nonce_mismatch")
	// ErrRedirectURINonceMissing is returned by disclosed_attributes when the
	// session has a stored nonce but none was supplied.
	ErrRedirectURINonceMissing = errors.New("redirect_uri_nonce_missing")

	// ErrSessionNotFound is returned when a token has no session record.
	ErrSessionNotFound = errors.New("session_not_found")
	// ErrStateConflict is returned by the store when a write's antecedent
	// state no longer matches what the caller observed (§5 ordering).
	ErrStateConflict = errors.New("state_conflict")
)

// ErrUnexpectedState is returned whenever an operation finds the session in
// a state its transition does not accept.
type ErrUnexpectedState struct {
	Observed Status
	Expected Status
}

func (e *ErrUnexpectedState) Error() string {
	return fmt.Sprintf("unexpected_state: observed %s, expected %s", e.Observed, e.Expected)
}
