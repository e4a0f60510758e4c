package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"selenictia/internal/cli"
)

// main only wires the process: signals cancel the invocation context, and the
// semantic exit code of the run becomes the process exit code.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	result, err := cli.Run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "selenictia:", err)
	}
	os.Exit(result.ExitCode)
}
