package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/RailStatus/config"
	"github.com/BearBump/RailStatus/internal/integrations/railapi"
	"github.com/BearBump/RailStatus/internal/integrations/railapi/fake"
	"github.com/BearBump/RailStatus/internal/integrations/railapi/statushttp"
	"github.com/BearBump/RailStatus/internal/services/lookups"
	"github.com/BearBump/RailStatus/internal/storage/redisviews"
)

func main() {
	offline := flag.Bool("offline", false, "use the offline fake client")
	legacy := flag.Bool("last-resolved-wins", false, "apply every result in arrival order instead of dropping stale ones")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	var cfg *config.Config
	if p := os.Getenv("configPath"); p != "" {
		c, err := config.LoadConfig(p)
		if err != nil {
			panic(fmt.Sprintf("config parse error, %v", err))
		}
		cfg = c
	}

	policy := lookups.SequenceGuarded
	if *legacy {
		policy = lookups.LastResolvedWins
	}

	var views lookups.PageViews
	if cfg != nil && cfg.Redis.Host != "" {
		pv := redisviews.NewPageViews(cfg.Redis.Addr(), cfg.RailStatus.PageViewsKey)
		defer pv.Close()
		views = pv
	}

	svc := lookups.New(statusClient(cfg, *offline), nil, views, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println(helpText)
	var counter viewCounter
	if views != nil {
		counter = svc
	}
	t := newTerminal(os.Stdout, svc, counter, policy)
	if err := t.run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func statusClient(cfg *config.Config, offline bool) railapi.Client {
	if offline {
		return fake.New()
	}
	if cfg == nil {
		return statushttp.New("", "")
	}
	c := statushttp.New(cfg.RailStatus.PNRStatusURL, cfg.RailStatus.RunningStatusURL)
	if cfg.RailStatus.RequestTimeoutSeconds > 0 {
		c = c.WithTimeout(time.Duration(cfg.RailStatus.RequestTimeoutSeconds) * time.Second)
	}
	return c
}
