package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"napd/internal/napctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := napctl.NewRootCmd().ExecuteContext(ctx); err != nil {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		log.Error().Err(err).Msg("napctl failed")
		os.Exit(1)
	}
}
