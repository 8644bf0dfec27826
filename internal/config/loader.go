package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Ning0612/lumins/internal/domain"
)

// EnvPrefix prefixes environment overrides, e.g. LUMINS_SECURE=true
const EnvPrefix = "LUMINS"

// flagKeys maps config keys to the command-line flags that override them
var flagKeys = map[string]string{
	"nodelete":   "nodelete",
	"secure":     "secure",
	"verbose":    "verbose",
	"sequential": "sequential",
	"debug":      "debug",
	"workers":    "workers",
	"hash":       "hash",
	"log.file":   "log-file",
	"log.format": "log-format",
}

// DefaultConfigPaths returns the default paths to search for lumins.yaml
func DefaultConfigPaths() []string {
	paths := []string{"."}

	// Add user config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "lumins"))
	}

	// Add home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "lumins"))
	}

	return paths
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("nodelete", false)
	v.SetDefault("secure", false)
	v.SetDefault("verbose", false)
	v.SetDefault("sequential", false)
	v.SetDefault("debug", false)
	v.SetDefault("workers", 0)
	v.SetDefault("hash", "xxhash")
	v.SetDefault("progress", true)
	v.SetDefault("log.format", "plain")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.compress", false)
	v.SetDefault("log.redact", false)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load merges defaults, the config file, LUMINS_* environment variables and
// flags, in increasing precedence. With an empty path the default locations
// are searched and a missing file is not an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if path != "" {
		// Use specific file
		v.SetConfigFile(path)
	} else {
		// Search default paths
		v.SetConfigName("lumins")
		v.SetConfigType("yaml")
		for _, p := range DefaultConfigPaths() {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	return decode(v)
}

// LoadFromString parses configuration from a YAML string
func LoadFromString(yamlContent string) (*Config, error) {
	v := newViper()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(strings.NewReader(yamlContent)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}

	return decode(v)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("%w: bind flag %s: %v", domain.ErrConfigInvalid, name, err)
		}
	}

	// --no-progress is the inverse of the progress key
	if flag := flags.Lookup("no-progress"); flag != nil && flag.Changed {
		v.Set("progress", flag.Value.String() != "true")
	}
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}

	cfg.Hash = strings.ToLower(cfg.Hash)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
