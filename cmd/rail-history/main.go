package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/RailStatus/config"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("config parse error, %v", err))
	}
	swaggerPath := os.Getenv("historySwaggerPath")
	if swaggerPath == "" {
		panic("historySwaggerPath env var is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = RunRailHistory(ctx, cfg, historyRunOpts{swaggerPath: swaggerPath}, defaultHistoryFactories())
	if err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
