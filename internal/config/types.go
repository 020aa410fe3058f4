package config

// Config is the resolved configuration for one cookbook invocation.
// - DataPath: Backing JSON file of the catalog.
// - Verbose: Emit structured logs on stderr.
// - Log: Optional rotating log file.
// - File: Config file that was read, empty if none was found.
type Config struct {
	DataPath string
	Verbose  bool
	Log      LogConfig
	File     string
}

// LogConfig describes the optional log file sink.
type LogConfig struct {
	Level      string // debug, info, warn, error (default: warn)
	File       string // empty disables the file sink
	MaxSize    int    // MB before rotation
	MaxBackups int    // rotated files to keep
}
