package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/junsooki/cliprec/cmd/cliprec/commands"
	"github.com/junsooki/cliprec/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logging.CtxWithLevel(ctx, logger.LevelInfo)
	defer belt.Flush(ctx)

	if err := commands.Root.ExecuteContext(ctx); err != nil {
		logger.Error(ctx, err)
		os.Exit(1)
	}
}
