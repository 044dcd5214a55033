package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/pkg/errors"
)

// beepPlayer decodes and plays samples in-process, with no external player
// binary. The speaker is initialized once from the first sample's rate;
// samples recorded at other rates are resampled on the fly.
//
// An in-flight sample cannot be cut short: PlayAndWait drains the streamer
// fully, so shutdown can lag by up to one sample with this backend. The exec
// backends do not have this limitation.
type beepPlayer struct {
	sampleRate beep.SampleRate
	ready      bool
}

func init() { registerPlayerBackend("beep", &beepPlayer{}) }

func (p *beepPlayer) Init(soundDir string, logger *slog.Logger) error {
	f, err := os.Open(samplePath(soundDir, 1))
	if err != nil {
		return errors.Wrap(err, "open reference sample")
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return errors.Wrap(err, "decode reference sample")
	}
	streamer.Close()
	f.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	p.sampleRate = format.SampleRate
	p.ready = true
	logger.Debug("speaker initialized", "sample_rate", int(p.sampleRate))
	return nil
}

func (p *beepPlayer) Play(_ context.Context, soundDir string, level int) error {
	path := samplePath(soundDir, level)

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "decode %s", path)
	}
	defer streamer.Close()
	defer f.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}

	speaker.PlayAndWait(s)
	return nil
}

func (p *beepPlayer) Close() error {
	if p.ready {
		speaker.Close()
		p.ready = false
	}
	return nil
}
