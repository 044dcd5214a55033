package main

// Linux input event types and codes (from <linux/input.h>)
const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_REL = 0x02

	// Relative axis codes. Only X and Y drive intensity; wheel events
	// arrive on the same event node and are skipped.
	REL_X     = 0x00
	REL_Y     = 0x01
	REL_WHEEL = 0x08
)

// Intensity mapping
const (
	// numIntensityLevels is the number of discrete intensity levels and the
	// number of samples expected in the sound directory (1.wav .. 10.wav).
	numIntensityLevels = 10
)

// Mapping configuration defaults
const (
	defaultMinThreshold = 1.0   // movements below this magnitude map to level 1
	defaultMaxThreshold = 100.0 // movements above this magnitude map to level 10
	defaultLogBase      = 2.0   // base of the scaling logarithm
)

// Sound playback defaults
const (
	defaultSoundDir = "moans"
)

// Input device scanning
const (
	devInputPath = "/dev/input"
	eventPrefix  = "event"
)
