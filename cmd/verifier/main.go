package main

import (
	"context"
	"encoding/gob"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"walletdisclosure/internal/verifierhttp"
	"walletdisclosure/internal/verifiersession"
	"walletdisclosure/pkg/configuration"
	"walletdisclosure/pkg/kafka"
	"walletdisclosure/pkg/logger"
	"walletdisclosure/pkg/mdoc"
	"walletdisclosure/pkg/pki"
	"walletdisclosure/pkg/trace"
	"walletdisclosure/pkg/trust"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func init() {
	// Needed to serialize/deserialize time.Time in the session record and cookie.
	gob.Register(time.Time{})
}

type service interface {
	Close(ctx context.Context) error
}

func main() {
	var (
		wg                 = &sync.WaitGroup{}
		ctx                = context.Background()
		services           = make(map[string]service)
		serviceName string = "verifier"
	)

	cfg, err := configuration.New(ctx)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(serviceName, cfg.Common.Log.FolderPath, cfg.Common.Production)
	if err != nil {
		panic(err)
	}

	mainLog := log.New("main")

	tracer, err := trace.New(ctx, cfg, log, "walletdisclosure", serviceName)
	if err != nil {
		panic(err)
	}

	store, closeStore, err := newSessionStore(ctx, cfg.Common.Mongo.URI)
	if err != nil {
		panic(err)
	}

	var events verifiersession.EventPublisher
	if len(cfg.Common.Kafka.Brokers) > 0 {
		producer, err := kafka.NewMessageSyncProducerClient(kafka.CommonProducerConfig(cfg), ctx, cfg, tracer, log)
		if err != nil {
			panic(err)
		}
		services["kafkaProducer"] = kafkaProducerService{producer}
		events = verifiersession.NewKafkaEventPublisher(producer, cfg.Common.Kafka.Topics.SessionEvents)
	}

	_, trustAnchors, err := pki.ParseX509CertificateFromFile(cfg.Verifier.MdocTrustAnchorsPath)
	if err != nil {
		panic(err)
	}

	trustEvaluator := trust.NewLocalTrustEvaluator(trust.LocalTrustConfig{
		TrustedRoots: trustAnchors,
	})

	mdocVerifier, err := mdoc.NewVerifier(mdoc.VerifierConfig{
		TrustEvaluator: trustEvaluator,
	})
	if err != nil {
		panic(err)
	}

	sessionsClient, err := verifiersession.New(ctx, cfg.Verifier, cfg.UseCaseRegistry.UseCases, store, events, log, tracer)
	if err != nil {
		panic(err)
	}

	httpService, err := verifierhttp.New(ctx, cfg, sessionsClient, mdocVerifier, tracer, log)
	if err != nil {
		panic(err)
	}
	services["verifierhttp"] = httpService

	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)

	<-termChan // Blocks here until interrupted

	mainLog.Info("HALTING SIGNAL!")

	for serviceName, svc := range services {
		if err := svc.Close(ctx); err != nil {
			mainLog.Trace("serviceName", serviceName, "error", err)
		}
	}
	if closeStore != nil {
		if err := closeStore(ctx); err != nil {
			mainLog.Trace("serviceName", "mongo", "error", err)
		}
	}

	wg.Wait()

	mainLog.Info("Stopped")
}

// newSessionStore opens the Mongo-backed session store when a URI is
// configured, falling back to the in-memory store for single-instance
// deployments and local development.
func newSessionStore(ctx context.Context, uri string) (verifiersession.Store, func(context.Context) error, error) {
	if uri == "" {
		return verifiersession.NewMemoryStore(4096), nil, nil
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	store := verifiersession.NewMongoStore(client, "walletdisclosure", "verifier_sessions")
	return store, client.Disconnect, nil
}

// kafkaProducerService adapts MessageSyncProducerClient.Close to the
// service interface shared by every component this binary shuts down.
type kafkaProducerService struct {
	producer *kafka.MessageSyncProducerClient
}

func (k kafkaProducerService) Close(ctx context.Context) error {
	return k.producer.Close(ctx)
}
