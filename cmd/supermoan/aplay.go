package main

import (
	"context"
	"log/slog"
	"os/exec"

	"github.com/pkg/errors"
)

// aplayPlayer shells out to ALSA's aplay for each sample. Playback is killed
// when the context ends, so shutdown never waits out a long sample.
type aplayPlayer struct{}

func init() { registerPlayerBackend("aplay", &aplayPlayer{}) }

func (p *aplayPlayer) Init(soundDir string, _ *slog.Logger) error {
	if _, err := exec.LookPath("aplay"); err != nil {
		return errors.Wrap(err, "aplay not found in PATH")
	}
	return nil
}

func (p *aplayPlayer) Play(ctx context.Context, soundDir string, level int) error {
	path := samplePath(soundDir, level)

	// Stderr stays disconnected: aplay chatters on a dead ALSA device and the
	// player loop already reports the failure.
	cmd := exec.CommandContext(ctx, "aplay", "-q", path)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrapf(err, "aplay %s", path)
	}
	return nil
}

func (p *aplayPlayer) Close() error { return nil }
