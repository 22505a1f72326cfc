package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ssosweep/ssosweep/cmd"
)

func main() {
	// Interrupts cancel the run context so a sweep in flight can stop the
	// current child command and still report what already completed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.Execute(ctx)
}
