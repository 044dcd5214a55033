package main

import (
	"context"
	"log/slog"
	"os/exec"

	"github.com/lawl/pulseaudio"
	"github.com/pkg/errors"
)

// paplayPlayer shells out to PulseAudio's paplay for each sample.
//
// Init connects to the PulseAudio server once so a missing or dead server
// fails backend selection at startup instead of on the first movement.
type paplayPlayer struct{}

func init() { registerPlayerBackend("paplay", &paplayPlayer{}) }

func (p *paplayPlayer) Init(soundDir string, _ *slog.Logger) error {
	if _, err := exec.LookPath("paplay"); err != nil {
		return errors.Wrap(err, "paplay not found in PATH")
	}

	client, err := pulseaudio.NewClient()
	if err != nil {
		return errors.Wrap(err, "failed to connect to pulseaudio")
	}
	defer client.Close()

	if _, err := client.Sources(); err != nil {
		return errors.Wrap(err, "failed to query pulseaudio server")
	}
	return nil
}

func (p *paplayPlayer) Play(ctx context.Context, soundDir string, level int) error {
	path := samplePath(soundDir, level)

	cmd := exec.CommandContext(ctx, "paplay", path)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrapf(err, "paplay %s", path)
	}
	return nil
}

func (p *paplayPlayer) Close() error { return nil }
