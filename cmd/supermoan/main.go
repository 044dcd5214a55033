package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
)

const version = "1.0.0"

var (
	flagConfig       string
	flagListDevices  bool
	flagDevice       string
	flagSoundDir     string
	flagBackend      string
	flagNoSound      bool
	flagMinThreshold float64
	flagMaxThreshold float64
	flagLogBase      float64
	flagDebug        bool
	flagLogLevel     string
	flagVersion      bool
	flagHelp         bool
)

func init() {
	pflag.StringVarP(&flagConfig, "config", "c", "", "YAML config file")
	pflag.BoolVarP(&flagListDevices, "list-devices", "l", false, "list available input devices and exit")
	pflag.StringVarP(&flagDevice, "input", "i", "", "input device to monitor (e.g. /dev/input/event3)")
	pflag.StringVarP(&flagSoundDir, "sound-dir", "s", defaultSoundDir, "directory containing 1.wav through 10.wav")
	pflag.StringVarP(&flagBackend, "backend", "B", "", "playback backend: aplay, paplay, beep, none")
	pflag.BoolVarP(&flagNoSound, "no-sound", "n", false, "disable sound playback (test mode)")
	pflag.Float64VarP(&flagMinThreshold, "min-threshold", "m", defaultMinThreshold, "movement magnitude mapped to the lowest intensity")
	pflag.Float64VarP(&flagMaxThreshold, "max-threshold", "M", defaultMaxThreshold, "movement magnitude mapped to the highest intensity")
	pflag.Float64VarP(&flagLogBase, "log-base", "b", defaultLogBase, "logarithm base for intensity scaling")
	pflag.BoolVarP(&flagDebug, "debug", "d", false, "collect and print intensity statistics on exit")
	pflag.StringVar(&flagLogLevel, "log-level", "info", "log level: error, warn, info, debug")
	pflag.BoolVarP(&flagVersion, "version", "v", false, "print version and exit")
	pflag.BoolVarP(&flagHelp, "help", "h", false, "print this help message")
}

func printVersion() {
	fmt.Printf("supermoan version %s\n", version)
	fmt.Println("Copyright (C) 2025")
	fmt.Println("A Linux mouse movement to sound converter")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  supermoan [OPTIONS]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Daemon that converts relative mouse movement into intensity levels 1-10")
	fmt.Println("  and plays the matching sample from the sound directory. Faster movement")
	fmt.Println("  selects a more intense sample; playback never overlaps.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -l, --list-devices")
	fmt.Println("        List available input devices and exit")
	fmt.Println()
	fmt.Println("  -i, --input PATH")
	fmt.Println("        Input device to monitor (required, see --list-devices)")
	fmt.Println()
	fmt.Printf("  -s, --sound-dir DIR\n")
	fmt.Printf("        Directory containing 1.wav through %d.wav (default %q)\n", numIntensityLevels, defaultSoundDir)
	fmt.Println()
	fmt.Println("  -B, --backend NAME")
	fmt.Println("        Playback backend: aplay, paplay, beep, none (default: probe PATH)")
	fmt.Println()
	fmt.Println("  -n, --no-sound")
	fmt.Println("        Disable sound playback (test mode)")
	fmt.Println()
	fmt.Printf("  -m, --min-threshold FLOAT\n")
	fmt.Printf("        Movement magnitude mapped to the lowest intensity (default %.1f)\n", defaultMinThreshold)
	fmt.Println()
	fmt.Printf("  -M, --max-threshold FLOAT\n")
	fmt.Printf("        Movement magnitude mapped to the highest intensity (default %.1f)\n", defaultMaxThreshold)
	fmt.Println()
	fmt.Printf("  -b, --log-base FLOAT\n")
	fmt.Printf("        Logarithm base for intensity scaling (default %.1f)\n", defaultLogBase)
	fmt.Println()
	fmt.Println("  -d, --debug")
	fmt.Println("        Collect intensity statistics and print them on exit")
	fmt.Println()
	fmt.Println("  -c, --config PATH")
	fmt.Println("        YAML config file (flags override file values)")
	fmt.Println()
	fmt.Println("  --log-level LEVEL")
	fmt.Println("        Log level: error, warn, info, debug (default \"info\")")
	fmt.Println()
	fmt.Println("  -v, --version")
	fmt.Println("        Print version and exit")
	fmt.Println()
	fmt.Println("  -h, --help")
	fmt.Println("        Print this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Find your mouse")
	fmt.Println("  supermoan --list-devices")
	fmt.Println()
	fmt.Println("  # Run against a device with default thresholds")
	fmt.Println("  supermoan -i /dev/input/event3")
	fmt.Println()
	fmt.Println("  # Wider sensitivity band, custom samples, statistics on exit")
	fmt.Println("  supermoan -i /dev/input/event3 -m 0.5 -M 250 -s ~/sounds -d")
	fmt.Println()
	fmt.Println("  # Exercise the pipeline without audio")
	fmt.Println("  supermoan -i /dev/input/event3 -n -d --log-level debug")
	fmt.Println()
	fmt.Println("NOTES:")
	fmt.Println("  - Requires read access to the input device (run as root or add user to the 'input' group)")
	fmt.Println("  - Rapid movements coalesce: only the most recent intensity plays once the current sample ends")
	fmt.Println()
}

func main() {
	pflag.Usage = printUsage
	pflag.Parse()

	if flagHelp {
		printUsage()
		return
	}
	if flagVersion {
		printVersion()
		return
	}
	if flagListDevices {
		if err := printInputDevices(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// flagOverrides collects the flags the user actually set, so file values
// survive untouched flags.
func flagOverrides() FlagOverrides {
	var o FlagOverrides
	set := pflag.CommandLine.Changed

	if set("input") {
		o.Device = &flagDevice
	}
	if set("sound-dir") {
		o.SoundDir = &flagSoundDir
	}
	if set("backend") {
		o.Backend = &flagBackend
	}
	if set("no-sound") {
		o.NoSound = &flagNoSound
	}
	if set("debug") {
		o.DebugMode = &flagDebug
	}
	if set("min-threshold") {
		o.MinThreshold = &flagMinThreshold
	}
	if set("max-threshold") {
		o.MaxThreshold = &flagMaxThreshold
	}
	if set("log-base") {
		o.LogBase = &flagLogBase
	}
	if set("log-level") {
		o.LogLevel = &flagLogLevel
	}
	return o
}

func run() error {
	cfg := DefaultConfig()
	if flagConfig != "" {
		var err error
		cfg, err = LoadConfigFile(flagConfig)
		if err != nil {
			return err
		}
	}
	flagOverrides().Apply(&cfg)

	logLevel, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := setupLogger(logLevel)

	if err := cfg.Validate(); err != nil {
		return err
	}
	mcfg := cfg.ToMapperConfig()

	// Resolve the playback backend. --no-sound wins over everything else.
	backendName := cfg.Sound.Backend
	if cfg.Sound.Disabled {
		backendName = "none"
	}
	if backendName == "" {
		backendName = defaultPlayerBackend()
	}
	backend := findPlayerBackend(backendName)
	if backend == nil {
		return fmt.Errorf("unknown playback backend %q (have: %s)",
			backendName, strings.Join(playerBackendNames(), ", "))
	}

	soundDir := ExpandPath(cfg.Sound.Dir)
	if backendName != "none" {
		if err := validateSoundDir(soundDir); err != nil {
			return err
		}
	}
	if err := backend.Init(soundDir, logger); err != nil {
		return fmt.Errorf("init %s backend: %w", backendName, err)
	}
	defer backend.Close()

	f, err := os.Open(cfg.Input.Device)
	if err != nil {
		logger.Error("failed to open input device",
			"device", cfg.Input.Device, "error", err,
			"tip", "run as root or add user to 'input' group")
		return fmt.Errorf("open input device: %w", err)
	}

	ch := newIntensityChannel()
	stats := newDebugStats(cfg.Debug.Stats)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("starting supermoan", "version", version)
	logger.Debug("configuration",
		"device", cfg.Input.Device,
		"sound_dir", soundDir,
		"backend", backendName,
		"sound_disabled", cfg.Sound.Disabled,
		"min_threshold", mcfg.MinThreshold,
		"max_threshold", mcfg.MaxThreshold,
		"log_base", mcfg.LogBase,
		"log_level", cfg.Logging.Level,
		"debug_stats", cfg.Debug.Stats)
	logger.Info("listening",
		"device", cfg.Input.Device,
		"backend", backendName,
		"intensity_levels", numIntensityLevels)

	err = runDaemon(ctx, newDeviceReader(f), func() { f.Close() },
		ch, soundDir, backend, mcfg, stats, logger)

	if cfg.Debug.Stats {
		stats.report(os.Stdout, ch.coalescedCount())
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
