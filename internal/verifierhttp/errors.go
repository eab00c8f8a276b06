package verifierhttp

import (
	"errors"
	"net/http"

	"walletdisclosure/internal/verifiersession"

	"github.com/gin-gonic/gin"
)

// rpStatusCode maps a verifiersession sentinel error to the status code
// spec §6 documents for the RP-facing endpoints. Unrecognized errors fall
// back to 500, since anything reaching that path is a storage/programming
// failure rather than a caller mistake.
func rpStatusCode(err error) (int, string) {
	switch {
	case errors.Is(err, verifiersession.ErrUnknownUseCase):
		return http.StatusBadRequest, "unknown_use_case"
	case errors.Is(err, verifiersession.ErrNoCredentialRequests):
		return http.StatusBadRequest, "no_credential_requests"
	case errors.Is(err, verifiersession.ErrReturnURLConfigurationMismatch):
		return http.StatusBadRequest, "return_url_configuration_mismatch"
	case errors.Is(err, verifiersession.ErrUnsupportedDCQL):
		return http.StatusBadRequest, "unsupported_dcql"
	case errors.Is(err, verifiersession.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, verifiersession.ErrRedirectURINonceMissing):
		return http.StatusBadRequest, "redirect_uri_nonce_missing"
	case errors.Is(err, verifiersession.ErrRedirectURINonceMismatch):
		return http.StatusForbidden, "redirect_uri_nonce_mismatch"
	}

	var unexpected *verifiersession.ErrUnexpectedState
	if errors.As(err, &unexpected) {
		if unexpected.Expected == verifiersession.StatusDone {
			return http.StatusConflict, "session_not_done"
		}
		return http.StatusConflict, "unexpected_state"
	}

	return http.StatusInternalServerError, "internal_server_error"
}

func (s *Service) writeRPError(c *gin.Context, err error) {
	code, title := rpStatusCode(err)
	c.JSON(code, gin.H{"error": title})
}

// walletErrorCode maps a verifiersession sentinel error to the OpenID4VP
// error code spec §6 names for the wallet-facing request_uri/response_uri
// endpoints.
func walletErrorCode(err error) (int, string) {
	switch {
	case errors.Is(err, verifiersession.ErrExpiredEphemeralID):
		return http.StatusBadRequest, "expired_ephemeral_id"
	case errors.Is(err, verifiersession.ErrInvalidEphemeralID):
		return http.StatusBadRequest, "invalid_ephemeral_id"
	case errors.Is(err, verifiersession.ErrSessionNotFound):
		return http.StatusNotFound, "expired_session"
	}

	var unexpected *verifiersession.ErrUnexpectedState
	if errors.As(err, &unexpected) {
		if unexpected.Observed == verifiersession.StatusDone {
			return http.StatusGone, "cancelled_session"
		}
		return http.StatusConflict, "expired_session"
	}

	return http.StatusInternalServerError, "server_error"
}

func (s *Service) writeWalletError(c *gin.Context, err error) {
	code, errCode := walletErrorCode(err)
	c.JSON(code, gin.H{"error": errCode, "error_description": err.Error()})
}
