package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"gonum.org/v1/gonum/stat"
)

const (
	// Widest histogram bar in the report, in characters.
	histogramWidth = 50

	// Retained magnitudes are capped so a long debug session cannot grow
	// without bound; aggregate statistics use whatever was kept.
	maxStatMagnitudes = 10000
)

// debugStats counts mapped movements for the end-of-run report. It is a pure
// observer of the monitor loop: it never influences what gets played.
type debugStats struct {
	mu      sync.Mutex
	enabled bool

	levelCounts    [numIntensityLevels + 1]int64 // indexed by level, slot 0 unused
	totalMovements int64
	lastMagnitude  float64
	lastScaled     float64
	magnitudes     []float64
}

func newDebugStats(enabled bool) *debugStats {
	return &debugStats{enabled: enabled}
}

// observe records one mapped movement. A disabled collector is a no-op, so
// the monitor loop calls it unconditionally.
func (s *debugStats) observe(res intensityResult) {
	if !s.enabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if res.level >= 1 && res.level <= numIntensityLevels {
		s.levelCounts[res.level]++
	}
	s.totalMovements++
	s.lastMagnitude = res.magnitude
	if res.scaledKnown {
		s.lastScaled = res.scaled
	}
	if len(s.magnitudes) < maxStatMagnitudes {
		s.magnitudes = append(s.magnitudes, res.magnitude)
	}
}

// histogramBar scales count against the most frequent level so the busiest
// bar spans the full histogram width.
func histogramBar(count, max int64) string {
	if max <= 0 || count <= 0 {
		return ""
	}
	width := int(float64(count) / float64(max) * histogramWidth)
	return strings.Repeat("#", width)
}

// report writes the end-of-run summary: the per-level distribution with a
// histogram, aggregate magnitude statistics, and how many deposits the
// channel coalesced away.
func (s *debugStats) report(w io.Writer, coalesced uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Intensity statistics ===")
	fmt.Fprintf(w, "Total movements: %d\n\n", s.totalMovements)

	var max int64
	for i := 1; i <= numIntensityLevels; i++ {
		if s.levelCounts[i] > max {
			max = s.levelCounts[i]
		}
	}

	for i := 1; i <= numIntensityLevels; i++ {
		pct := 0.0
		if s.totalMovements > 0 {
			pct = float64(s.levelCounts[i]) / float64(s.totalMovements) * 100.0
		}
		fmt.Fprintf(w, "Intensity %2d: %6d (%5.1f%%) %s\n",
			i, s.levelCounts[i], pct, histogramBar(s.levelCounts[i], max))
	}

	if len(s.magnitudes) > 0 {
		fmt.Fprintf(w, "\nMagnitude mean: %.2f", stat.Mean(s.magnitudes, nil))
		if len(s.magnitudes) > 1 {
			fmt.Fprintf(w, "  stddev: %.2f", stat.StdDev(s.magnitudes, nil))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Last magnitude: %.2f  last scaled: %.2f\n", s.lastMagnitude, s.lastScaled)
	}

	fmt.Fprintf(w, "Coalesced deposits: %d\n", coalesced)
}
