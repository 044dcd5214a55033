package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// playerBackend turns an intensity level into an audible sample. Play blocks
// until the sample has finished (or failed); the player loop is its only
// caller, so samples never overlap.
type playerBackend interface {
	// Init prepares the backend and verifies its requirements. Called once
	// before the player loop starts; backends that log keep the logger.
	Init(soundDir string, logger *slog.Logger) error
	// Play plays soundDir/<level>.wav to completion. Cancelling ctx asks the
	// backend to stop early where it can.
	Play(ctx context.Context, soundDir string, level int) error
	Close() error
}

type namedPlayerBackend struct {
	Name string
	playerBackend
}

var playerBackends []namedPlayerBackend

// registerPlayerBackend registers a backend globally. Not thread-safe;
// backends call it on init().
func registerPlayerBackend(name string, b playerBackend) {
	playerBackends = append(playerBackends, namedPlayerBackend{Name: name, playerBackend: b})
}

func findPlayerBackend(name string) playerBackend {
	for _, b := range playerBackends {
		if b.Name == name {
			return b.playerBackend
		}
	}
	return nil
}

func playerBackendNames() []string {
	names := make([]string, len(playerBackends))
	for i, b := range playerBackends {
		names[i] = b.Name
	}
	return names
}

// defaultPlayerBackend picks a backend by probing the external players on
// PATH, falling back to in-process playback.
func defaultPlayerBackend() string {
	if path, _ := exec.LookPath("aplay"); path != "" {
		return "aplay"
	}
	if path, _ := exec.LookPath("paplay"); path != "" {
		return "paplay"
	}
	return "beep"
}

func samplePath(soundDir string, level int) string {
	return filepath.Join(soundDir, strconv.Itoa(level)+".wav")
}

// validateSoundDir checks that every sample the mapper can select is present
// and readable before the loops start.
func validateSoundDir(soundDir string) error {
	st, err := os.Stat(soundDir)
	if err != nil {
		return errors.Wrapf(err, "sound directory %s", soundDir)
	}
	if !st.IsDir() {
		return fmt.Errorf("sound directory %s is not a directory", soundDir)
	}

	for level := 1; level <= numIntensityLevels; level++ {
		if err := unix.Access(samplePath(soundDir, level), unix.R_OK); err != nil {
			return errors.Wrapf(err, "sound directory must contain readable 1.wav through %d.wav, missing %s",
				numIntensityLevels, samplePath(soundDir, level))
		}
	}
	return nil
}

// nonePlayer is the no-sound backend: it accepts every level immediately.
// Used by -n/--no-sound and whenever playback should be exercised without
// audio output.
type nonePlayer struct {
	logger *slog.Logger
}

func init() { registerPlayerBackend("none", &nonePlayer{}) }

func (p *nonePlayer) Init(soundDir string, logger *slog.Logger) error {
	p.logger = logger
	return nil
}

func (p *nonePlayer) Play(_ context.Context, soundDir string, level int) error {
	p.logger.Debug("sound disabled, would have played", "sample", samplePath(soundDir, level))
	return nil
}

func (p *nonePlayer) Close() error { return nil }

// playerLoop drains the intensity channel and plays one sample per taken
// level. Playback failures are reported and the loop moves on; only channel
// shutdown ends it.
func playerLoop(ctx context.Context, ch *intensityChannel, soundDir string, backend playerBackend, logger *slog.Logger) {
	for {
		level, ok := ch.takeBlocking()
		if !ok {
			logger.Debug("player loop stopping")
			return
		}

		if err := backend.Play(ctx, soundDir, level); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("playback failed", "level", level, "error", err)
			}
		}
		ch.markIdle()
	}
}
