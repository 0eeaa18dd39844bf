package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// NewSigctx returns a context that is canceled on the first signal. A
// second signal exits immediately.
func NewSigctx() context.Context {
	ctx, cancel := context.WithCancelCause(context.Background())
	go func() {
		sigs := make(chan os.Signal, 2)
		signal.Notify(sigs, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		sig := <-sigs
		cancel(fmt.Errorf("got signal: %s", sig))
		sig = <-sigs
		fmt.Fprintf(os.Stderr, "got second signal: %s; exiting\n", sig)
		os.Exit(1)
	}()
	return ctx
}
