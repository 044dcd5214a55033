package main

import "math"

// MapperConfig contains the tunable parameters for movement-to-intensity
// mapping.
//
// The mapping is logarithmic so that slow movements are spread over more
// levels than fast ones: doubling the movement speed (with the default base 2)
// moves the intensity up by a fixed share of the scale rather than a fixed
// multiple.
type MapperConfig struct {
	MinThreshold float64 // magnitudes below this map to level 1
	MaxThreshold float64 // magnitudes above this map to the top level
	LogBase      float64 // base of the scaling logarithm, > 1
}

// intensityResult is one mapped movement as reported to observers.
//
// scaled is only meaningful when scaledKnown is true: movements outside the
// [MinThreshold, MaxThreshold] band short-circuit to the boundary levels
// without ever entering the logarithmic formula.
type intensityResult struct {
	magnitude   float64 // Euclidean norm of the motion vector
	scaled      float64 // log-scaled magnitude (formula path only)
	scaledKnown bool
	level       int // 1..numIntensityLevels
}

// calculateIntensity maps one relative motion vector onto an intensity level.
//
// Pure: reads nothing but its arguments, writes nothing. The threshold
// short-circuits and the formula-plus-clamp are deliberately separate paths;
// their rounding at the exact boundary magnitudes is not interchangeable.
func calculateIntensity(dx, dy int32, cfg MapperConfig) intensityResult {
	res := intensityResult{magnitude: math.Hypot(float64(dx), float64(dy))}

	switch {
	case res.magnitude < cfg.MinThreshold:
		res.level = 1

	case res.magnitude > cfg.MaxThreshold:
		res.level = numIntensityLevels

	default:
		res.scaled = math.Log(res.magnitude) / math.Log(cfg.LogBase)
		res.scaledKnown = true

		maxScaled := math.Log(cfg.MaxThreshold) / math.Log(cfg.LogBase)
		v := 1.0 + (res.scaled/maxScaled)*float64(numIntensityLevels-1)

		// Round half-up; the 5.5 boundary must land on 6, not 5.
		level := int(v + 0.5)
		if level < 1 {
			level = 1
		}
		if level > numIntensityLevels {
			level = numIntensityLevels
		}
		res.level = level
	}

	return res
}
