package kvclient

import (
	"context"
	"sync"
	"time"
	"walletdisclosure/pkg/logger"
	"walletdisclosure/pkg/model"
	"walletdisclosure/pkg/trace"

	"github.com/redis/go-redis/v9"
)

// StatusProbe is a point-in-time health result for a dependency, cached for
// probeCacheTTL so liveness checks don't hammer the backing store.
type StatusProbe struct {
	Name          string
	Healthy       bool
	Message       string
	LastCheckedTS time.Time
}

const probeCacheTTL = 10 * time.Second

type probeStore struct {
	mu       sync.Mutex
	result   *StatusProbe
	nextPoll time.Time
}

// Client holds the kv object
type Client struct {
	RedisClient *redis.Client
	cfg         *model.Cfg
	log         *logger.Log
	probeStore  *probeStore
	tp          *trace.Tracer
}

// New creates a new instance of kv
func New(ctx context.Context, cfg *model.Cfg, tracer *trace.Tracer, log *logger.Log) (*Client, error) {
	c := &Client{
		cfg:        cfg,
		log:        log,
		probeStore: &probeStore{},
		tp:         tracer,
	}

	c.RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.Common.KeyValue.Addr,
		Password: cfg.Common.KeyValue.Password,
		DB:       cfg.Common.KeyValue.DB,
	},
	)

	c.log.Info("Started")

	return c, nil
}

// Status returns the status of the database
func (c *Client) Status(ctx context.Context) *StatusProbe {
	c.probeStore.mu.Lock()
	defer c.probeStore.mu.Unlock()

	if time.Now().Before(c.probeStore.nextPoll) {
		return c.probeStore.result
	}

	probe := &StatusProbe{
		Name:          "kv",
		Healthy:       true,
		Message:       "OK",
		LastCheckedTS: time.Now(),
	}

	_, err := c.RedisClient.Ping(ctx).Result()
	if err != nil {
		probe.Message = err.Error()
		probe.Healthy = false
	}
	c.probeStore.result = probe
	c.probeStore.nextPoll = time.Now().Add(probeCacheTTL)

	return probe
}

// Close closes the connection to the database
func (c *Client) Close(ctx context.Context) error {
	return c.RedisClient.Close()
}
