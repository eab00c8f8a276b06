// Package verifierhttp is the browser/wallet/RP-facing HTTP edge for
// cmd/verifier: it wires internal/verifiersession's six operations onto
// concrete routes, plus a cookie-gated dashboard over the use-case
// registry (C10).
package verifierhttp

import (
	"context"
	"net/http"
	"time"

	"walletdisclosure/internal/verifiersession"
	"walletdisclosure/pkg/httphelpers"
	"walletdisclosure/pkg/logger"
	"walletdisclosure/pkg/mdoc"
	"walletdisclosure/pkg/model"
	"walletdisclosure/pkg/oauth2"
	"walletdisclosure/pkg/trace"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	gorillasessions "github.com/gorilla/sessions"
)

const (
	continueSessionName = "verifier_continue_session"
	continueSessionKey  = "session_token"
	adminSessionName    = "verifier_admin_session"
	adminSessionAuthKey = "authenticated"
	adminSessionUserKey = "username"
)

// Service is the httpserver object for the verifier edge.
type Service struct {
	cfg         model.Verifier
	log         *logger.Log
	server      *http.Server
	gin         *gin.Engine
	tracer      *trace.Tracer
	httpHelpers *httphelpers.Client
	sessions    *verifiersession.Client
	useCases    map[string]model.UseCase
	mdocVerifier *mdoc.Verifier

	continueSessionOptions ginsessions.Options
	continueAuthKey        string
	continueEncKey         string

	adminStore *gorillasessions.CookieStore
}

// New builds the Service, registers every route, and starts listening.
func New(ctx context.Context, cfg *model.Cfg, sessionsClient *verifiersession.Client, mdocVerifier *mdoc.Verifier, tracer *trace.Tracer, log *logger.Log) (*Service, error) {
	s := &Service{
		cfg:          cfg.Verifier,
		log:          log.New("verifierhttp"),
		gin:          gin.New(),
		tracer:       tracer,
		sessions:     sessionsClient,
		useCases:     cfg.UseCaseRegistry.UseCases,
		mdocVerifier: mdocVerifier,
		server: &http.Server{
			ReadHeaderTimeout: 3 * time.Second,
		},
		continueAuthKey: oauth2.GenerateCryptographicNonceWithLength(32),
		continueEncKey:  oauth2.GenerateCryptographicNonceWithLength(32),
		continueSessionOptions: ginsessions.Options{
			Path:     "/continue",
			MaxAge:   900,
			Secure:   cfg.Verifier.APIServer.TLS.Enabled,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}

	if s.cfg.AdminGUIEnabled {
		s.adminStore = gorillasessions.NewCookieStore([]byte(s.cfg.SessionCookieAuthenticationKey), []byte(s.cfg.SessionStoreEncryptionKey))
		s.adminStore.Options = &gorillasessions.Options{
			Path:     "/admin",
			MaxAge:   3600,
			HttpOnly: true,
			Secure:   s.cfg.APIServer.TLS.Enabled,
			SameSite: http.SameSiteStrictMode,
		}
	}

	var err error
	s.httpHelpers, err = httphelpers.New(ctx, s.tracer, cfg, log)
	if err != nil {
		return nil, err
	}

	rgRoot, err := s.httpHelpers.Server.Default(ctx, s.server, s.gin, s.cfg.APIServer.Addr)
	if err != nil {
		return nil, err
	}

	s.httpHelpers.Server.RegEndpoint(ctx, rgRoot, http.MethodGet, "health", http.StatusOK, s.endpointHealth)

	// RP-facing session management, open to cross-origin browser callers.
	rgSessions := rgRoot.Group("/sessions")
	rgSessions.Use(s.httpHelpers.Middleware.CORS(ctx, s.cfg.AllowedOrigins))
	s.httpHelpers.Server.RegEndpoint(ctx, rgSessions, http.MethodPost, "", http.StatusCreated, s.endpointNewSession)
	s.httpHelpers.Server.RegEndpoint(ctx, rgSessions, http.MethodGet, ":token/status", http.StatusOK, s.endpointStatus)
	s.httpHelpers.Server.RegEndpoint(ctx, rgSessions, http.MethodPost, ":token/cancel", http.StatusOK, s.endpointCancel)
	s.httpHelpers.Server.RegEndpoint(ctx, rgSessions, http.MethodGet, ":token/disclosed_attributes", http.StatusOK, s.endpointDisclosedAttributes)

	// Wallet-facing retrieval/response endpoints, OpenID4VP error shapes.
	rgWallet := rgRoot.Group("")
	rgWallet.GET(":token/request_uri", func(c *gin.Context) { s.endpointGetRequest(ctx, c) })
	rgWallet.POST(":token/request_uri", func(c *gin.Context) { s.endpointGetRequest(ctx, c) })
	rgWallet.POST(":token/response_uri", func(c *gin.Context) { s.endpointPostResponse(ctx, c) })

	// Same-device browser continue page.
	rgContinue := rgRoot.Group("/continue")
	rgContinue.Use(s.httpHelpers.Middleware.UserSession(continueSessionName, s.continueAuthKey, s.continueEncKey, s.continueSessionOptions))
	s.httpHelpers.Server.RegEndpoint(ctx, rgContinue, http.MethodGet, ":token", http.StatusOK, s.endpointContinuePage)
	s.httpHelpers.Server.RegEndpoint(ctx, rgContinue, http.MethodGet, ":token/poll", http.StatusOK, s.endpointContinuePoll)

	// Operator dashboard (C10 use-case registry/export surface).
	if s.cfg.AdminGUIEnabled {
		rgAdmin := rgRoot.Group("/admin")
		rgAdmin.GET("/login", s.endpointAdminLoginPage)
		rgAdmin.POST("/login", s.endpointAdminLogin)

		rgAdminProtected := rgAdmin.Group("")
		rgAdminProtected.Use(s.adminAuthMiddleware())
		rgAdminProtected.GET("", s.endpointAdminDashboard)
		rgAdminProtected.GET("/dashboard", s.endpointAdminDashboard)
		rgAdminProtected.POST("/logout", s.endpointAdminLogout)
		s.httpHelpers.Server.RegEndpoint(ctx, rgAdminProtected, http.MethodGet, "/sessions/:token", http.StatusOK, s.endpointAdminSessionLookup)
		rgAdminProtected.GET("/sessions/:token/export.xlsx", func(c *gin.Context) { s.endpointAdminExport(ctx, c) })

		s.log.Info("admin dashboard enabled", "path", "/admin")
	}

	go func() {
		if err := s.httpHelpers.Server.ListenAndServe(ctx, s.server, s.cfg.APIServer); err != nil {
			s.log.Trace("listen_error", "error", err)
		}
	}()

	s.log.Info("Started")
	return s, nil
}

func (s *Service) endpointHealth(ctx context.Context, c *gin.Context) (any, error) {
	return gin.H{"status": "ok"}, nil
}

// Close stops the session engine's cleanup sweep and shuts the server down.
func (s *Service) Close(ctx context.Context) error {
	s.sessions.Close()
	s.log.Info("Stopped")
	return s.server.Shutdown(ctx)
}
