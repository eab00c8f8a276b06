package verifierhttp

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// adminAuthMiddleware gates the dashboard behind the gorilla/sessions
// cookie set by endpointAdminLogin, grounded on the teacher's registry
// admin-GUI session check (internal/registry/httpserver/endpoints_admin.go).
func (s *Service) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.adminStore.Get(c.Request, adminSessionName)
		if err != nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}

		auth, ok := session.Values[adminSessionAuthKey].(bool)
		if !ok || !auth {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}

		c.Next()
	}
}

// endpointAdminLoginPage, endpointAdminLogin and endpointAdminLogout all
// either redirect or write HTML directly, so they are registered as plain
// gin handlers rather than through RegEndpoint — the same bypass the wallet
// endpoints use, avoiding a second write attempt by the generic renderer
// after a redirect has already committed the response.
func (s *Service) endpointAdminLoginPage(c *gin.Context) {
	session, _ := s.adminStore.Get(c.Request, adminSessionName)
	if auth, ok := session.Values[adminSessionAuthKey].(bool); ok && auth {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPageHTML(c.Query("error"))))
}

type adminLoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (s *Service) endpointAdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusFound, "/admin/login?error=Invalid+request")
		return
	}

	expected, usernameKnown := s.cfg.APIServer.BasicAuth.Users[req.Username]
	passwordMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(expected)) == 1

	if !usernameKnown || !passwordMatch {
		s.log.Info("admin login failed", "username", req.Username)
		c.Redirect(http.StatusFound, "/admin/login?error=Invalid+credentials")
		return
	}

	session, _ := s.adminStore.Get(c.Request, adminSessionName)
	session.Values[adminSessionAuthKey] = true
	session.Values[adminSessionUserKey] = req.Username
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.Redirect(http.StatusFound, "/admin/login?error=Session+error")
		return
	}

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (s *Service) endpointAdminLogout(c *gin.Context) {
	session, _ := s.adminStore.Get(c.Request, adminSessionName)
	session.Values[adminSessionAuthKey] = false
	session.Options.MaxAge = -1
	_ = session.Save(c.Request, c.Writer)

	c.Redirect(http.StatusFound, "/admin/login")
}

func (s *Service) endpointAdminDashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(dashboardPageHTML(s.useCases)))
}

func (s *Service) endpointAdminSessionLookup(ctx context.Context, c *gin.Context) (any, error) {
	token := c.Param("token")

	out, err := s.sessions.Status(ctx, token)
	if err != nil {
		c.Header("Content-Type", "text/html")
		return HTMLResponse(sessionPageHTML(&sessionView{Token: token, Status: "not found"})), nil
	}

	c.Header("Content-Type", "text/html")
	return HTMLResponse(sessionPageHTML(&sessionView{Token: token, Status: string(out.Status)})), nil
}

// endpointAdminExport streams a Done session's disclosed attributes as an
// xlsx workbook; it bypasses RegEndpoint's JSON renderer since the response
// is a binary attachment.
func (s *Service) endpointAdminExport(ctx context.Context, c *gin.Context) {
	ctx, span := s.tracer.Start(ctx, "verifierhttp:endpointAdminExport")
	defer span.End()

	token := c.Param("token")

	data, err := s.sessions.ExportXLSX(ctx, token)
	if err != nil {
		code, title := rpStatusCode(err)
		c.JSON(code, gin.H{"error": title})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+token+`.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
