package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/RailStatus/config"
	"github.com/BearBump/RailStatus/internal/broker/kafka"
	"github.com/BearBump/RailStatus/internal/integrations/railapi"
	"github.com/BearBump/RailStatus/internal/integrations/railapi/fake"
	"github.com/BearBump/RailStatus/internal/integrations/railapi/statushttp"
	"github.com/BearBump/RailStatus/internal/services/lookups"
	"github.com/BearBump/RailStatus/internal/storage/redisviews"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type railAPIApp struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   railAPIOpts
	deps   railAPIDeps

	closers []func() error
}

func mustBootstrapRailAPI() *railAPIApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}
	swaggerPath := os.Getenv("swaggerPath")
	if swaggerPath == "" {
		panic("swaggerPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("config parse error, %v", err))
	}

	httpAddr := cfg.RailStatus.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	topic := cfg.Kafka.LookupCompletedTopicName
	if topic == "" {
		topic = lookups.DefaultTopic
	}
	rlPerMin := int64(cfg.RailStatus.ClientRateLimitPerMinute)
	if rlPerMin <= 0 {
		rlPerMin = 60
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	views := redisviews.NewPageViews(cfg.Redis.Addr(), cfg.RailStatus.PageViewsKey)
	limiter := redisviews.NewRateLimiter(cfg.Redis.Addr())
	closers := []func() error{views.Close, limiter.Close}

	var pub lookups.Publisher
	if cfg.RailStatus.PublishEnabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers(), topic)
		pub = producer
		closers = append(closers, producer.Close)
	}

	svc := lookups.New(newStatusClient(cfg.RailStatus), pub, views, lookups.NewMetrics(reg))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &railAPIApp{
		ctx:    ctx,
		cancel: cancel,
		opts: railAPIOpts{
			httpAddr:           httpAddr,
			swaggerPath:        swaggerPath,
			rateLimitPerMinute: rlPerMin,
			trustProxyHeaders:  cfg.RailStatus.TrustProxyHeaders,
		},
		deps: railAPIDeps{
			svc:      svc,
			limiter:  limiter,
			gatherer: reg,
			ready:    views.Ping,
		},
		closers: closers,
	}
}

func newStatusClient(cfg config.RailStatusConfig) railapi.Client {
	if cfg.PNRStatusURL == "" && cfg.RunningStatusURL == "" {
		slog.Warn("no upstream configured, using offline fake client")
		return fake.New()
	}
	c := statushttp.New(cfg.PNRStatusURL, cfg.RunningStatusURL)
	if cfg.RequestTimeoutSeconds > 0 {
		c = c.WithTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second)
	}
	return c
}

func (a *railAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	for _, c := range a.closers {
		_ = c()
	}
}
