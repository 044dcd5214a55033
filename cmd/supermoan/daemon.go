package main

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// runDaemon runs the monitor and player loops until the context is canceled
// or the input device fails, and does not return before both have stopped.
//
// Wiring rules:
//   - The two loops share nothing but the intensity channel.
//   - The watcher goroutine is the only place that performs the unblocking
//     side effects: it shuts the channel down (waking the player out of
//     takeBlocking) and calls interrupt (closing the device node, which
//     unblocks the monitor's pending read).
//   - A fatal monitor error cancels the group context, so the watcher tears
//     the player down too; the loops never stop independently.
func runDaemon(
	ctx context.Context,
	src eventSource,
	interrupt func(),
	ch *intensityChannel,
	soundDir string,
	backend playerBackend,
	cfg MapperConfig,
	stats *debugStats,
	logger *slog.Logger,
) error {
	errg, gctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("daemon stopping (shutdown requested)")
		} else {
			logger.Info("daemon stopping (input monitor failed)")
		}
		ch.shutdown()
		interrupt()
		return gctx.Err()
	})

	errg.Go(func() error {
		err := monitorLoop(src, ch, cfg, stats, logger)
		if err != nil {
			logger.Error("input monitor failed", "error", err)
		}
		return err
	})

	errg.Go(func() error {
		playerLoop(gctx, ch, soundDir, backend, logger)
		return nil
	})

	return errg.Wait()
}
