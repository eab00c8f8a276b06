package httphelpers

import (
	"context"
	"fmt"
	"time"
	"walletdisclosure/pkg/helpers"
	"walletdisclosure/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/lithammer/shortuuid/v4"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
)

type middlewareHandler struct {
	client *Client
	log    *logger.Log
}

// Duration middleware to calculate the duration of the request and set it in the gin context
func (m *middlewareHandler) Duration(ctx context.Context) gin.HandlerFunc {
	_, span := m.client.tracer.Start(ctx, "httphelpers:middleware:Duration")
	defer span.End()

	return func(c *gin.Context) {
		t := time.Now()
		c.Next()
		duration := time.Since(t)
		c.Set("duration", duration)
	}
}

// RequestID middleware to set a unique request ID in the gin context and header
func (m *middlewareHandler) RequestID(ctx context.Context) gin.HandlerFunc {
	_, span := m.client.tracer.Start(ctx, "httphelpers:middleware:RequestID")
	defer span.End()

	return func(c *gin.Context) {
		id := shortuuid.New()
		c.Set("req_id", id)
		c.Header("req_id", id)
		c.Next()
	}
}

// Logger middleware to log the request details
func (m *middlewareHandler) Logger(ctx context.Context) gin.HandlerFunc {
	_, span := m.client.tracer.Start(ctx, "httphelpers:middleware:Logger")
	defer span.End()

	log := m.log.New("http")
	return func(c *gin.Context) {
		c.Next()
		log.Info("request", "status", c.Writer.Status(), "url", c.Request.URL.String(), "method", c.Request.Method, "req_id", c.GetString("req_id"))
	}
}

// AuthLog middleware to log the request details with the user information
func (m *middlewareHandler) AuthLog(ctx context.Context) gin.HandlerFunc {
	_, span := m.client.tracer.Start(ctx, "httphelpers:middleware:AuthLog")
	defer span.End()

	log := m.log.New("http")
	return func(c *gin.Context) {
		u, _ := c.Get("user")
		c.Next()
		log.Info("auth", "user", u, "req_id", c.GetString("req_id"))
	}
}

// Crash middleware to recover from panics and return a 500 error
func (m *middlewareHandler) Crash(ctx context.Context) gin.HandlerFunc {
	ctx, span := m.client.tracer.Start(ctx, "httphelpers:middleware:Crash")
	defer span.End()

	log := m.log.New("http")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				status := c.Writer.Status()
				log.Trace("crash", "error", r, "status", status, "url", c.Request.URL.Path, "method", c.Request.Method)
				m.client.Rendering.Content(ctx, c, 500, gin.H{"data": nil, "error": helpers.NewError("internal_server_error")})
			}
		}()
		c.Next()
	}
}

// ClientCertAuth middleware to authenticate the client certificate, this should compare client certificate SAH1 hash with some config value.
func (m *middlewareHandler) ClientCertAuth(ctx context.Context) gin.HandlerFunc {
	_, span := m.client.tracer.Start(ctx, "httphelpers:middleware:ClientCertAuth")
	defer span.End()

	log := m.log.New("http")
	return func(c *gin.Context) {
		clientCertSHA1 := c.Request.Header.Get("X-SSL-Client-SHA1")
		log.Info("clientCertSHA1", "clientCertSHA1", clientCertSHA1)
		fmt.Println("clientCertSHA1", clientCertSHA1)
		c.Next()
	}
}

// BasicAuth middleware to authenticate the user with basic auth
func (m *middlewareHandler) BasicAuth(ctx context.Context, users map[string]string) gin.HandlerFunc {
	_, span := m.client.tracer.Start(ctx, "httphelpers:middleware:BasicAuth")
	defer span.End()

	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		password, ok := users[user]
		if !ok || pass != password {
			c.AbortWithStatus(401)
			return
		}
		c.Next()
		m.log.Info("basic_auth", "user", user, "req_id", c.GetString("req_id"))
	}
}

// Gzip middleware sets the compression level
func (m *middlewareHandler) Gzip(ctx context.Context) gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression)
}

// CORS middleware allows an RP's own browser-hosted frontend to call the
// JSON session endpoints cross-origin. An empty allowedOrigins disables
// credentialed requests and falls back to AllowAllOrigins, suitable for
// endpoints that carry no cookies.
func (m *middlewareHandler) CORS(ctx context.Context, allowedOrigins []string) gin.HandlerFunc {
	_, span := m.client.tracer.Start(ctx, "httphelpers:middleware:CORS")
	defer span.End()

	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// UserSession installs a gin-contrib/sessions cookie-backed session under
// name, keyed by authKey/encKey. Handlers read/write it via
// sessions.Default(c).
func (m *middlewareHandler) UserSession(name, authKey, encKey string, options sessions.Options) gin.HandlerFunc {
	store := cookie.NewStore([]byte(authKey), []byte(encKey))
	store.Options(options)
	return sessions.Sessions(name, store)
}
