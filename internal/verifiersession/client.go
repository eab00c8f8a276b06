package verifiersession

import (
	"context"
	"crypto/x509"
	"fmt"
	"sync"
	"time"

	"walletdisclosure/pkg/jose"
	"walletdisclosure/pkg/logger"
	"walletdisclosure/pkg/model"
	"walletdisclosure/pkg/pki"
	"walletdisclosure/pkg/trace"

	"github.com/golang-jwt/jwt/v5"
)

// Client is the engine behind the six public operations (new_session,
// status, get_request, post_response, cancel, disclosed_attributes). One
// Client is built per verifier instance and shared across requests.
type Client struct {
	cfg      model.Verifier
	useCases map[string]model.UseCase
	store    Store
	log      *logger.Log
	tracer   *trace.Tracer

	signingKey    any
	signingMethod jwt.SigningMethod
	cert          *x509.Certificate
	certChain     []*x509.Certificate

	stopCleanup context.CancelFunc
	cleanupWG   sync.WaitGroup

	events EventPublisher
}

// New builds a Client, loading the RP's signing key/certificate from the
// paths named in cfg and starting the background cleanup sweep. Call
// Close to stop the sweep when the verifier instance shuts down. events may
// be nil, in which case session lifecycle publishing is a no-op.
func New(ctx context.Context, cfg model.Verifier, useCases map[string]model.UseCase, store Store, events EventPublisher, log *logger.Log, tracer *trace.Tracer) (*Client, error) {
	privateKey, err := pki.ParseKeyFromFile(cfg.SigningKeyPath)
	if err != nil {
		return nil, fmt.Errorf("loading signing key: %w", err)
	}

	cert, chain, err := pki.ParseX509CertificateFromFile(cfg.SigningCertPath)
	if err != nil {
		return nil, fmt.Errorf("loading signing certificate: %w", err)
	}

	c := &Client{
		cfg:           cfg,
		useCases:      useCases,
		store:         store,
		events:        events,
		log:           log,
		tracer:        tracer,
		signingKey:    privateKey,
		signingMethod: jose.GetSigningMethodFromKey(privateKey),
		cert:          cert,
		certChain:     chain,
	}

	cleanupCtx, cancel := context.WithCancel(ctx)
	c.stopCleanup = cancel
	c.cleanupWG.Add(1)
	go c.runCleanup(cleanupCtx)

	return c, nil
}

// Close stops the background cleanup sweep and waits for it to exit.
func (c *Client) Close() {
	c.stopCleanup()
	c.cleanupWG.Wait()
}

func (c *Client) runCleanup(ctx context.Context) {
	defer c.cleanupWG.Done()

	interval := time.Duration(c.cfg.CleanupIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweepOnce(ctx)
		}
	}
}

// sweepOnce runs one pass of the expiry sweep (marking stale Created/
// WaitingForResponse sessions Done{Expired}) followed by the retention
// purge (deleting long-settled Done{Expired} records).
func (c *Client) sweepOnce(ctx context.Context) {
	now := time.Now()

	for useCaseID, uc := range c.useCases {
		maxAge := time.Duration(uc.MaxAgeSeconds) * time.Second
		if maxAge <= 0 {
			maxAge = 5 * time.Minute
		}

		stale, err := c.store.ScanActiveOlderThan(ctx, now, maxAge)
		if err != nil {
			c.log.Info("cleanup scan failed", "use_case", useCaseID, "error", err.Error())
			continue
		}

		for _, session := range stale {
			if session.UseCaseID != useCaseID {
				continue
			}
			c.expireSession(ctx, session, now)
		}
	}

	retention := time.Duration(c.cfg.RetentionSeconds) * time.Second
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	removed, err := c.store.DeleteExpiredOlderThan(ctx, now.Add(-retention))
	if err != nil {
		c.log.Info("cleanup purge failed", "error", err.Error())
		return
	}
	if removed > 0 {
		c.log.Debug("cleanup purge removed sessions", "count", removed)
	}
}

func (c *Client) expireSession(ctx context.Context, session *Session, now time.Time) {
	next := *session
	next.Status = StatusDone
	next.UpdatedAt = now
	next.Requests = nil
	next.AuthRequestJWT = ""
	next.EncryptionPrivateJWK = nil
	next.Result = &Result{Status: ResultExpired}

	if err := c.store.CompareAndSwap(ctx, session.Token, session.Status, &next); err != nil && err != ErrStateConflict {
		c.log.Info("cleanup expire failed", "token", session.Token, "error", err.Error())
		return
	}
	c.publishTerminal(&next)
}
