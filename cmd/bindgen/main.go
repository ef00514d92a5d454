// Package main provides the CLI entrypoint for bindgen.
//
// bindgen resolves type declarations of independently compiled components
// into one graph and renders bindings from it:
//   - Reads YAML declaration files or analyzes Go packages
//   - Links external type references and custom types across components
//   - Reports every problem of a run at once
//   - Emits Go declarations and YAML manifests
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Getenv).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
