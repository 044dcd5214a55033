package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
)

// ============================================================================
// moanprobe - Threshold calibration tool
// ============================================================================
// Reads raw motion events from an input device and prints the intensity
// level each movement would map to, so thresholds can be tuned before
// editing the daemon config.
//
// Usage:
//   moanprobe -device /dev/input/event3
//   moanprobe -device /dev/input/event3 -min 2 -max 50 -base 2
//   moanprobe -device /dev/input/event3 -count 20
// ============================================================================

// Event constants and mapping (duplicated from daemon package for standalone binary)
const (
	evRel = 0x02
	relX  = 0x00
	relY  = 0x01

	topLevel = 10
)

type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// mapLevel mirrors the daemon's movement-to-intensity mapping. The second
// return value reports whether the log-scaled magnitude is meaningful.
func mapLevel(magnitude, min, max, base float64) (int, float64, bool) {
	if magnitude < min {
		return 1, 0, false
	}
	if magnitude > max {
		return topLevel, 0, false
	}

	scaled := math.Log(magnitude) / math.Log(base)
	maxScaled := math.Log(max) / math.Log(base)
	v := 1.0 + (scaled/maxScaled)*float64(topLevel-1)

	level := int(v + 0.5)
	if level < 1 {
		level = 1
	}
	if level > topLevel {
		level = topLevel
	}
	return level, scaled, true
}

func main() {
	var (
		device = flag.String("device", "", "input event device to probe (e.g. /dev/input/event3)")
		min    = flag.Float64("min", 1.0, "minimum movement threshold")
		max    = flag.Float64("max", 100.0, "maximum movement threshold")
		base   = flag.Float64("base", 2.0, "logarithm base for intensity scaling")
		count  = flag.Int("count", 0, "stop after this many motion events (0 = run until interrupted)")
	)
	flag.Parse()

	if *device == "" {
		fmt.Fprintln(os.Stderr, "usage: moanprobe -device /dev/input/eventN [-min F] [-max F] [-base F] [-count N]")
		os.Exit(1)
	}
	if *min <= 0 {
		log.Fatalf("-min must be > 0, got %v", *min)
	}
	if *max <= *min {
		log.Fatalf("-max must be greater than -min, got %v", *max)
	}
	if *base <= 1 {
		log.Fatalf("-base must be greater than 1, got %v", *base)
	}

	f, err := os.Open(*device)
	if err != nil {
		log.Fatalf("failed to open %s: %v (try running with sudo or add yourself to the input group)", *device, err)
	}
	defer f.Close()

	// Closing the device unblocks the pending read below.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		f.Close()
	}()

	log.Printf("probing %s with min=%v max=%v base=%v (press Ctrl+C to exit)", *device, *min, *max, *base)
	fmt.Printf("%-4s %8s %12s %10s %6s\n", "axis", "delta", "magnitude", "scaled", "level")

	buf := make([]byte, binary.Size(inputEvent{}))
	seen := 0
	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			return
		}

		var ev inputEvent
		if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &ev); err != nil {
			continue
		}
		if ev.Type != evRel {
			continue
		}

		var axis string
		var dx, dy int32
		switch ev.Code {
		case relX:
			axis, dx = "X", ev.Value
		case relY:
			axis, dy = "Y", ev.Value
		default:
			continue
		}

		magnitude := math.Hypot(float64(dx), float64(dy))
		level, scaled, scaledKnown := mapLevel(magnitude, *min, *max, *base)

		scaledStr := "-"
		if scaledKnown {
			scaledStr = fmt.Sprintf("%.3f", scaled)
		}
		fmt.Printf("%-4s %8d %12.2f %10s %6d\n", axis, dx+dy, magnitude, scaledStr, level)

		seen++
		if *count > 0 && seen >= *count {
			return
		}
	}
}
