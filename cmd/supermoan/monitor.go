package main

import (
	"io/fs"
	"log/slog"

	"github.com/pkg/errors"
)

// monitorLoop reads motion events from src and deposits mapped intensity
// levels into the channel until the source fails or shutdown interrupts it.
//
// Error classification: a read that fails because the device handle was
// closed underneath us is the normal shutdown path and returns nil. Any
// other failure while the channel is still running is fatal for this device
// and is returned, which tears down the player side as well.
func monitorLoop(src eventSource, ch *intensityChannel, cfg MapperConfig, stats *debugStats, logger *slog.Logger) error {
	for {
		ev, err := src.next()
		if err != nil {
			if errors.Is(err, fs.ErrClosed) || !ch.isRunning() {
				logger.Debug("monitor loop stopping", "reason", err)
				return nil
			}
			return errors.Wrap(err, "read input event")
		}

		// Pointer deltas arrive one axis per event; wheel and non-relative
		// events share the node and are skipped.
		if ev.Type != EV_REL {
			continue
		}
		var dx, dy int32
		switch ev.Code {
		case REL_X:
			dx = ev.Value
		case REL_Y:
			dy = ev.Value
		default:
			continue
		}

		res := calculateIntensity(dx, dy, cfg)
		stats.observe(res)
		ch.deposit(res.level)
	}
}
