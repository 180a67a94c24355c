package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLibrary     = flag.String("library", "", "Path to the rect library file")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file")
	flagSpace       = flag.String("space", "", "Unwrap space: local or global")
	flagOrientation = flag.String("orientation", "", "Unwrap orientation: face, world, object, view or none")
	flagSnap        = flag.String("snap", "", "Unwrap snap: none, corners or bounds")
	flagEpsilon     = flag.Float64("match-epsilon", -1, "Corner match tolerance for pattern entries")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLibrary != "" {
		cfg.Library.Path = *flagLibrary
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagSpace != "" {
		cfg.Unwrap.Space = *flagSpace
	}
	if *flagOrientation != "" {
		cfg.Unwrap.Orientation = *flagOrientation
	}
	if *flagSnap != "" {
		cfg.Unwrap.Snap = *flagSnap
	}
	if *flagEpsilon >= 0 {
		cfg.Library.MatchEpsilon = float32(*flagEpsilon)
	}
}
