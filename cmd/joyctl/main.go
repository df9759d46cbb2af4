// Command joyctl is the operator CLI for the JoyJuncture backend: it loads puzzle packs into the
// catalog, lists import runs and mints development access tokens.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
