// cmd/affkit/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/contentdesk/affkit/internal/cli"
)

func main() {
	// Cancel in-flight resolutions and shut the API server down on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
