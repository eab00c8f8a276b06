package verifierhttp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"walletdisclosure/internal/verifiersession"

	"github.com/gin-gonic/gin"
)

type newSessionRequest struct {
	UseCaseID         string `json:"usecase_id" binding:"required"`
	DCQLQuery         any    `json:"dcql_query,omitempty"`
	ReturnURLTemplate string `json:"return_url_template,omitempty"`
}

// endpointNewSession implements POST /sessions.
func (s *Service) endpointNewSession(ctx context.Context, c *gin.Context) (any, error) {
	var req newSessionRequest
	if err := s.httpHelpers.Binding.FastAndSimple(ctx, c, &req); err != nil {
		return nil, err
	}

	if req.DCQLQuery != nil {
		s.writeRPError(c, verifiersession.ErrUnsupportedDCQL)
		return nil, nil
	}

	out, err := s.sessions.NewSession(ctx, verifiersession.NewSessionInput{
		UseCaseID:         req.UseCaseID,
		ReturnURLTemplate: req.ReturnURLTemplate,
	})
	if err != nil {
		s.writeRPError(c, err)
		return nil, nil
	}

	return gin.H{"session_token": out.SessionToken}, nil
}

// endpointStatus implements GET /sessions/{token}/status?session_type=….
func (s *Service) endpointStatus(ctx context.Context, c *gin.Context) (any, error) {
	token := c.Param("token")
	sessionType := c.DefaultQuery("session_type", "cross_device")

	out, err := s.sessions.Status(ctx, token)
	if err != nil {
		s.writeRPError(c, err)
		return nil, nil
	}

	resp := gin.H{"status": out.Status}
	if out.ResultStatus != "" {
		resp["result_status"] = out.ResultStatus
	}
	if out.EphemeralID != "" {
		resp["ul"] = s.universalLink(token, sessionType, out.EphemeralID, out.Timestamp)
	}
	return resp, nil
}

// universalLink builds the base_ul QR/app-link payload named in spec §6.
func (s *Service) universalLink(token, sessionType, ephemeralID, timestamp string) string {
	verifierURL := fmt.Sprintf("%s/%s?session_type=%s&ephemeral_id=%s&time=%s",
		strings.TrimRight(s.cfg.ExternalURL, "/"), token, sessionType, ephemeralID, timestamp)
	return fmt.Sprintf("https://wallet.example/?request_uri=%s&request_uri_method=post&client_id=%s", verifierURL, s.cfg.ClientID)
}

// endpointCancel implements POST /sessions/{token}/cancel.
func (s *Service) endpointCancel(ctx context.Context, c *gin.Context) (any, error) {
	token := c.Param("token")
	if err := s.sessions.Cancel(ctx, token); err != nil {
		s.writeRPError(c, err)
		return nil, nil
	}
	c.Status(http.StatusNoContent)
	return nil, nil
}

// endpointDisclosedAttributes implements
// GET /sessions/{token}/disclosed_attributes?nonce=….
func (s *Service) endpointDisclosedAttributes(ctx context.Context, c *gin.Context) (any, error) {
	token := c.Param("token")
	nonce := c.Query("nonce")

	result, err := s.sessions.DisclosedAttributes(ctx, token, nonce)
	if err != nil {
		s.writeRPError(c, err)
		return nil, nil
	}

	if result.Status != verifiersession.ResultDone {
		return gin.H{"status": result.Status, "message": result.Message}, nil
	}
	return gin.H{"attestations": result.Disclosed}, nil
}
