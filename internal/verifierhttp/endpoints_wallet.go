package verifierhttp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// endpointGetRequest implements GET|POST /{token}/request_uri: the wallet's
// fetch of the Authorization Request JWT. Response shape on error is an
// OpenID4VP error object, not the generic envelope, so this bypasses
// RegEndpoint's renderer and writes directly, following the teacher's own
// idiom for endpoints with a protocol-mandated error wire shape.
func (s *Service) endpointGetRequest(ctx context.Context, c *gin.Context) {
	ctx, span := s.tracer.Start(ctx, "verifierhttp:endpointGetRequest")
	defer span.End()

	token := c.Param("token")
	ephemeralID := c.Query("ephemeral_id")
	timestamp := c.Query("time")

	signed, err := s.sessions.GetRequest(ctx, token, ephemeralID, timestamp)
	if err != nil {
		s.writeWalletError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/oauth-authz-req+jwt", []byte(signed))
}

// endpointPostResponse implements POST /{token}/response_uri: the wallet's
// Authorization Response. Body is `{vp_token: <jwe>}`; the JWE itself
// carries the encrypted state/vp_token payload decrypted inside
// PostResponse, so only the outer compact JWE string is read here.
func (s *Service) endpointPostResponse(ctx context.Context, c *gin.Context) {
	ctx, span := s.tracer.Start(ctx, "verifierhttp:endpointPostResponse")
	defer span.End()

	token := c.Param("token")

	var body struct {
		VPToken string `json:"vp_token"`
		Error   string `json:"error"`
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "could not read body"})
		return
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "malformed body"})
		return
	}

	if body.Error != "" {
		if err := s.sessions.Cancel(ctx, token); err != nil {
			s.writeWalletError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	redirectURI, err := s.sessions.PostResponse(ctx, token, body.VPToken, s.mdocVerifier)
	if err != nil {
		if redirectURI != "" {
			c.JSON(http.StatusOK, gin.H{"redirect_uri": redirectURI})
			return
		}
		s.writeWalletError(c, err)
		return
	}

	resp := gin.H{}
	if redirectURI != "" {
		resp["redirect_uri"] = redirectURI
	}
	c.JSON(http.StatusOK, resp)
}
