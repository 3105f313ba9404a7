package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	accountstore "authflow/internal/account/store"
	"authflow/internal/authclient"
	"authflow/internal/broker"
	"authflow/internal/platform/config"
	"authflow/internal/platform/health"
	"authflow/internal/platform/httpserver"
	"authflow/internal/platform/kafka"
	"authflow/internal/platform/kafka/producer"
	"authflow/internal/platform/logger"
	"authflow/internal/platform/redis"
	"authflow/internal/platform/tracer"
	"authflow/internal/relier"
	reliermetrics "authflow/internal/relier/metrics"
	"authflow/internal/relier/registry"
	"authflow/internal/relier/scope"
	relierstore "authflow/internal/relier/store"
	"authflow/internal/signin"
	signinmetrics "authflow/internal/signin/metrics"
	"authflow/internal/telemetry"
	httptransport "authflow/internal/transport/http"
	"authflow/pkg/platform/circuit"
	"authflow/pkg/platform/middleware/metadata"
	"authflow/pkg/platform/middleware/request"
)

var errRegistryCircuitOpen = errors.New("client registry circuit open")

// main wires the collaborators from configuration and serves until SIGINT
// or SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	log.Info("initializing authflow",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"broker", cfg.Broker.Kind,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	trace := tracer.NewOTel()
	probes := health.New(cfg.Environment)

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck // shutdown
		reg.MustRegister(redis.NewPoolCollector(rdb))
		probes.RegisterCheck("redis", rdb.Health)
	}

	relierMetrics := reliermetrics.NewWithRegisterer(reg)
	clients, err := newRegistry(cfg.Registry, log, relierMetrics, probes)
	if err != nil {
		return err
	}

	var (
		contexts relier.VerificationStore
		seen     signin.PermissionStore
	)
	if rdb != nil {
		contexts = relierstore.NewRedis(rdb.Client, cfg.VerificationContextTTL)
		seen = accountstore.NewRedis(rdb.Client)
	} else {
		log.Warn("redis not configured; using in-memory stores")
		contexts = relierstore.NewMemory(cfg.VerificationContextTTL)
		seen = accountstore.NewMemory()
	}

	resolver := relier.NewResolver(clients, contexts,
		relier.WithLogger(log),
		relier.WithMetrics(relierMetrics),
		relier.WithTracer(trace),
		relier.WithNormalizer(scope.New(scopePolicy(cfg.Scope))),
	)

	recorders := []telemetry.Recorder{telemetry.NewMetrics(reg), telemetry.NewLogger(log)}
	if cfg.Kafka.Brokers != "" {
		pcfg := producer.DefaultConfig(cfg.Kafka.Brokers)
		pcfg.Acks = cfg.Kafka.Acks
		prod, err := producer.New(pcfg, log)
		if err != nil {
			return err
		}
		defer prod.Close() //nolint:errcheck // flushes on shutdown
		recorders = append(recorders, telemetry.NewKafka(prod, cfg.Kafka.TelemetryTopic, log))
		probes.RegisterCheck("kafka", kafka.HealthCheck(prod, kafka.DefaultCheckTimeout))
	}

	auth := authclient.New(cfg.Auth.URL,
		authclient.WithHTTPClient(&http.Client{Timeout: cfg.Auth.Timeout}),
		authclient.WithLogger(log),
	)
	newBroker, err := brokerFactory(cfg.Broker, log)
	if err != nil {
		return err
	}
	signIn := signin.NewService(auth, newBroker,
		signin.WithLogger(log),
		signin.WithMetrics(signinmetrics.NewWithRegisterer(reg)),
		signin.WithTracer(trace),
		signin.WithPermissionStore(seen),
		signin.WithExperimentGrouper(signin.HashGrouper{
			CodePercent: cfg.Experiment.CodePercent,
			LinkPercent: cfg.Experiment.LinkPercent,
		}),
		signin.WithTelemetry(telemetry.WithDeviceTags(telemetry.Multi(recorders...))),
	)

	proxies, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}
	router := httptransport.NewRouter(httptransport.New(resolver, signIn, log), httptransport.RouterConfig{
		Logger:   log,
		Metrics:  request.NewMetrics(reg),
		Metadata: metadata.NewMiddleware(metadata.Config{TrustedProxies: proxies}),
		Health:   probes,
		Gatherer: reg,
		Timeout:  cfg.RequestTimeout,
	})

	return httpserver.New(cfg.Addr, router, httpserver.WithLogger(log)).Run(ctx)
}

// newRegistry builds the client registry. A static file serves local
// development; otherwise the HTTP registry sits behind the resilient cache.
func newRegistry(cfg config.RegistryConfig, log *slog.Logger, m *reliermetrics.Metrics, probes *health.Handler) (relier.ClientRegistry, error) {
	if cfg.StaticFile != "" {
		log.Info("using static client registry", "path", cfg.StaticFile)
		static, err := registry.LoadStatic(cfg.StaticFile)
		if err != nil {
			return nil, err
		}
		return static, nil
	}
	remote := registry.NewHTTPClient(cfg.URL,
		registry.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		registry.WithLogger(log),
	)
	resilient := registry.NewResilient(remote,
		registry.WithFailureThreshold(cfg.FailureThreshold),
		registry.WithSuccessThreshold(cfg.SuccessThreshold),
		registry.WithCacheTTL(cfg.CacheTTL),
		registry.WithResilientLogger(log),
		registry.WithMetrics(m),
	)
	probes.RegisterCheck("registry", func(context.Context) error {
		if resilient.BreakerState() == circuit.StateOpen {
			return errRegistryCircuitOpen
		}
		return nil
	})
	return resilient, nil
}

func brokerFactory(cfg config.BrokerConfig, log *slog.Logger) (func() broker.Broker, error) {
	switch cfg.Kind {
	case config.BrokerSync:
		channel := broker.LogChannel(log)
		return func() broker.Broker { return broker.NewSyncHandoff(channel) }, nil
	case config.BrokerCaptcha:
		verifier := broker.NewSiteVerifier(cfg.CaptchaVerifyURL, cfg.CaptchaSecret, &http.Client{Timeout: 5 * time.Second})
		return func() broker.Broker { return broker.NewCaptchaRequired(verifier) }, nil
	default:
		return func() broker.Broker { return broker.NewDefault() }, nil
	}
}

func scopePolicy(cfg config.ScopeConfig) scope.Policy {
	policy := scope.DefaultPolicy()
	if len(cfg.UntrustedAllowed) > 0 {
		policy.UntrustedAllowed = cfg.UntrustedAllowed
	}
	if cfg.MaxScopes > 0 {
		policy.MaxScopes = cfg.MaxScopes
	}
	return policy
}
