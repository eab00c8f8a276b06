package verifierhttp

import (
	"context"
	"fmt"
	"html"
	"net/http"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// endpointContinuePage serves the same-device interstitial the RP's own
// page redirects the user's browser to immediately after new_session: it
// polls status and reloads once the wallet has posted its response, so the
// RP's own script can then call disclosed_attributes and take the user
// onward — this page never holds the return_url_template nonce itself, so
// it cannot build redirect_uri on its own. The session cookie binds this
// browser to the one token it is allowed to poll, grounded on the teacher's
// middlewareUserSession/authRequired cookie idiom adapted from "is this
// browser logged in" to "is this browser the one that started this token".
func (s *Service) endpointContinuePage(ctx context.Context, c *gin.Context) (any, error) {
	token := c.Param("token")

	session := ginsessions.Default(c)
	session.Set(continueSessionKey, token)
	if err := session.Save(); err != nil {
		return nil, err
	}

	c.Header("Content-Type", "text/html")
	return HTMLResponse(continuePageHTML(token)), nil
}

// endpointContinuePoll is the page's own polling target: it refuses to
// report status for a token other than the one this browser's cookie was
// minted for, then proxies the session's status.
func (s *Service) endpointContinuePoll(ctx context.Context, c *gin.Context) (any, error) {
	token := c.Param("token")

	session := ginsessions.Default(c)
	bound, _ := session.Get(continueSessionKey).(string)
	if bound == "" || bound != token {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "session_mismatch"})
		return nil, nil
	}

	out, err := s.sessions.Status(ctx, token)
	if err != nil {
		s.writeRPError(c, err)
		return nil, nil
	}

	return gin.H{"status": out.Status, "result_status": out.ResultStatus}, nil
}

// HTMLResponse marks a value as pre-rendered HTML, rendered verbatim by
// Rendering.Content's text/html negotiation branch.
type HTMLResponse string

func continuePageHTML(token string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Continuing...</title>
</head>
<body>
	<p>Waiting for your wallet to finish session %s. This page will redirect automatically.</p>
	<script>
		(function poll() {
			fetch(window.location.pathname + "/poll")
				.then(function (r) { return r.json(); })
				.then(function (body) {
					if (body.status === "DONE") {
						window.location.reload();
						return;
					}
					setTimeout(poll, 2000);
				})
				.catch(function () { setTimeout(poll, 2000); });
		})();
	</script>
</body>
</html>`, html.EscapeString(token))
}
