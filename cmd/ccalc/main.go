// Command ccalc is a symbolic calculator with a Newton-Raphson root finder.
//
// Usage:
//
//	ccalc diff "x**3 + 2*x"
//	ccalc newton "x**2 - 2" --x0 1 --trace
//	ccalc console
//	ccalc serve --addr :8080
//	ccalc mcp
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
