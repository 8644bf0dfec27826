package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"

	"github.com/Ning0612/lumins/internal/core/checksum"
	"github.com/Ning0612/lumins/internal/domain"
	"github.com/Ning0612/lumins/internal/logger"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lumins.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.BoolP("nodelete", "n", false, "")
	fs.BoolP("secure", "s", false, "")
	fs.BoolP("verbose", "v", false, "")
	fs.BoolP("sequential", "S", false, "")
	fs.Int("workers", 0, "")
	fs.String("hash", "xxhash", "")
	fs.Bool("no-progress", false, "")
	fs.String("log-format", "plain", "")
	return fs
}

func TestLoadFromString_Defaults(t *testing.T) {
	cfg, err := LoadFromString("verbose: false\n")
	if err != nil {
		t.Fatalf("LoadFromString failed: %v", err)
	}

	if cfg.Hash != "xxhash" {
		t.Errorf("Hash = %q, want xxhash", cfg.Hash)
	}
	if !cfg.Progress {
		t.Error("Progress should default to true")
	}
	if cfg.Log.Format != "plain" {
		t.Errorf("Log.Format = %q, want plain", cfg.Log.Format)
	}
	if cfg.Flags() != 0 {
		t.Errorf("Flags = %v, want none", cfg.Flags())
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
secure: true
nodelete: true
workers: 8
hash: XXH3
log:
  format: json
  redact: true
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Secure || !cfg.NoDelete {
		t.Errorf("flags not loaded: %+v", cfg)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Hash != "xxh3" {
		t.Errorf("Hash = %q, want xxh3", cfg.Hash)
	}
	if cfg.ChecksumOptions().Fast != checksum.XXH3 {
		t.Errorf("ChecksumOptions = %+v", cfg.ChecksumOptions())
	}
	if cfg.Log.Format != "json" || !cfg.Log.Redact {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, "workers: 8\nsecure: false\nverbose: true\n")
	t.Setenv("LUMINS_SECURE", "true")
	t.Setenv("LUMINS_WORKERS", "6")

	fs := testFlags()
	if err := fs.Parse([]string{"--workers=3", "--no-progress"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, fs)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want flag value 3", cfg.Workers)
	}
	if !cfg.Secure {
		t.Error("Secure should come from the environment")
	}
	if !cfg.Verbose {
		t.Error("Verbose should come from the file")
	}
	if cfg.Progress {
		t.Error("--no-progress should disable progress")
	}
}

func TestLoad_UnchangedFlagsKeepFileValues(t *testing.T) {
	path := writeConfig(t, "hash: xxh3\n")

	cfg, err := Load(path, testFlags())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Hash != "xxh3" {
		t.Errorf("Hash = %q, flag default must not override the file", cfg.Hash)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if !errors.Is(err, domain.ErrConfigInvalid) {
		t.Errorf("missing explicit file: got %v", err)
	}

	tests := []struct {
		name    string
		content string
	}{
		{"unknown hash", "hash: md5\n"},
		{"secure hash as fast", "hash: blake2b\n"},
		{"negative workers", "workers: -1\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"bad yaml", "workers: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromString(tt.content)
			if !errors.Is(err, domain.ErrConfigInvalid) {
				t.Errorf("expected ErrConfigInvalid, got %v", err)
			}
		})
	}
}

func TestConfig_Flags(t *testing.T) {
	cfg := &Config{NoDelete: true, Sequential: true}
	f := cfg.Flags()

	if !f.Has(domain.FlagNoDelete) || !f.Has(domain.FlagSequential) {
		t.Errorf("Flags = %v", f)
	}
	if f.Has(domain.FlagSecure) || f.Has(domain.FlagVerbose) {
		t.Errorf("Flags = %v", f)
	}
}

func TestConfig_EffectiveWorkers(t *testing.T) {
	if got := (&Config{Workers: 4, Sequential: true}).EffectiveWorkers(); got != 1 {
		t.Errorf("sequential = %d, want 1", got)
	}
	if got := (&Config{Workers: 4}).EffectiveWorkers(); got != 4 {
		t.Errorf("explicit = %d, want 4", got)
	}
	if got := (&Config{}).EffectiveWorkers(); got != runtime.NumCPU() {
		t.Errorf("default = %d, want %d", got, runtime.NumCPU())
	}
}

func TestConfig_LoggerConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		level logger.Level
	}{
		{"quiet", Config{}, logger.LevelError},
		{"verbose", Config{Verbose: true}, logger.LevelInfo},
		{"debug", Config{Verbose: true, Debug: true}, logger.LevelDebug},
	}

	for _, tt := range tests {
		if got := tt.cfg.LoggerConfig().Level; got != tt.level {
			t.Errorf("%s: Level = %v, want %v", tt.name, got, tt.level)
		}
	}

	cfg := Config{Log: LogConfig{Format: "json", File: "/tmp/lumins.log", MaxSizeMB: 5}}
	lc := cfg.LoggerConfig()
	if lc.Format != logger.FormatJSON {
		t.Errorf("Format = %v", lc.Format)
	}
	if !lc.File.Enabled || lc.File.MaxSizeMB != 5 || len(lc.Outputs) != 2 {
		t.Errorf("file logging not configured: %+v", lc)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/logs/lumins.log"); got != filepath.Join(home, "logs", "lumins.log") {
		t.Errorf("ExpandPath(~) = %q", got)
	}

	t.Setenv("LUMINS_TEST_DIR", "/var/tmp")
	if got := ExpandPath("$LUMINS_TEST_DIR/x"); got != filepath.Clean("/var/tmp/x") {
		t.Errorf("ExpandPath($VAR) = %q", got)
	}
}
