package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Ning0612/lumins/internal/core/checksum"
	"github.com/Ning0612/lumins/internal/domain"
	"github.com/Ning0612/lumins/internal/logger"
)

// Config represents the complete configuration for lumins
type Config struct {
	// NoDelete keeps destination-only entries during sync
	NoDelete bool `mapstructure:"nodelete"`

	// Secure compares files with BLAKE2b-512 instead of a 64-bit hash
	Secure bool `mapstructure:"secure"`

	// Verbose logs one line per entry
	Verbose bool `mapstructure:"verbose"`

	// Sequential runs every pass on a single goroutine
	Sequential bool `mapstructure:"sequential"`

	Debug bool `mapstructure:"debug"`

	// Workers bounds parallel passes (0 = one per CPU)
	Workers int `mapstructure:"workers"`

	// Hash names the fast algorithm: xxhash or xxh3
	Hash string `mapstructure:"hash"`

	// Progress draws a progress bar when stderr is a terminal
	Progress bool `mapstructure:"progress"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig configures log output
type LogConfig struct {
	Format     string `mapstructure:"format"` // plain, text or json
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Redact     bool   `mapstructure:"redact"`
}

// Validate checks if the configuration is complete and consistent
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative: %d", domain.ErrConfigInvalid, c.Workers)
	}

	algo, err := checksum.ParseAlgorithm(c.Hash)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfigInvalid, err)
	}
	if algo == checksum.BLAKE2b {
		return fmt.Errorf("%w: hash %q is not a fast algorithm, use --secure", domain.ErrConfigInvalid, c.Hash)
	}

	switch c.Log.Format {
	case "plain", "text", "json":
	default:
		return fmt.Errorf("%w: invalid log format: %s", domain.ErrConfigInvalid, c.Log.Format)
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxAgeDays < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("%w: log rotation limits cannot be negative", domain.ErrConfigInvalid)
	}

	return nil
}

// Flags returns the option bitset passed to the sync service
func (c *Config) Flags() domain.Flag {
	var f domain.Flag
	f = f.With(domain.FlagNoDelete, c.NoDelete)
	f = f.With(domain.FlagSecure, c.Secure)
	f = f.With(domain.FlagVerbose, c.Verbose)
	f = f.With(domain.FlagSequential, c.Sequential)
	return f
}

// EffectiveWorkers returns the worker count after applying defaults
func (c *Config) EffectiveWorkers() int {
	switch {
	case c.Sequential:
		return 1
	case c.Workers > 0:
		return c.Workers
	default:
		return runtime.NumCPU()
	}
}

// ChecksumOptions returns the calculator options for the configured hash
func (c *Config) ChecksumOptions() checksum.Options {
	opts := checksum.DefaultOptions()
	if algo, err := checksum.ParseAlgorithm(c.Hash); err == nil {
		opts.Fast = algo
	}
	return opts
}

// LoggerConfig builds the logger configuration.
// Errors only by default, every entry with Verbose, everything with Debug.
func (c *Config) LoggerConfig() logger.Config {
	level := logger.LevelError
	if c.Verbose {
		level = logger.LevelInfo
	}
	if c.Debug {
		level = logger.LevelDebug
	}

	cfg := logger.Config{
		Level:   level,
		Format:  logger.ParseFormat(c.Log.Format),
		Outputs: []logger.OutputConfig{{Type: logger.OutputStderr}},
		Redact:  c.Log.Redact,
	}

	if c.Log.File != "" {
		cfg.File = logger.FileConfig{
			Enabled:    true,
			Path:       ExpandPath(c.Log.File),
			MaxSizeMB:  c.Log.MaxSizeMB,
			MaxAgeDays: c.Log.MaxAgeDays,
			MaxBackups: c.Log.MaxBackups,
			Compress:   c.Log.Compress,
		}
		cfg.Outputs = append(cfg.Outputs, logger.OutputConfig{Type: logger.OutputFile})
	}

	return cfg
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	// Expand ~ to home directory
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			if len(path) > 1 && (path[1] == '/' || path[1] == filepath.Separator) {
				path = filepath.Join(home, path[2:])
			} else if len(path) == 1 {
				path = home
			}
		}
	}
	// Expand environment variables
	path = os.ExpandEnv(path)
	return filepath.Clean(path)
}
