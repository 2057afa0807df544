package util

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// SetupInterruptHandler cancels the run on the first SIGINT/SIGTERM so the
// pipeline can remove its fragments. A second signal exits immediately.
func SetupInterruptHandler(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sig:
		case <-done:
			return
		}

		fmt.Println("\nInterrupt received. Cleaning up...")
		cancel()

		select {
		case <-sig:
			fmt.Println("\nExiting due to second interrupt.")
			os.Exit(1)
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sig)
		close(done)
		cancel()
	}
}

// RemoveFiles deletes every path, reporting the ones that could not be
// removed. Missing files are not an error.
func RemoveFiles(paths []string) []error {
	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("removing %s: %w", p, err))
		}
	}

	return errs
}
