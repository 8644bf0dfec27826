package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Ning0612/lumins/internal/config"
	"github.com/Ning0612/lumins/internal/logger"
	"github.com/Ning0612/lumins/internal/progress"
	"github.com/Ning0612/lumins/internal/service"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

// globalOptions holds flags shared by every subcommand
type globalOptions struct {
	configPath string
}

// NewRootCommand builds the lumins command tree
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "lumins",
		Short: "Fast local directory copy, sync and remove",
		Long: `lumins copies, synchronizes and removes local directory trees.

Work is spread over all CPU cores. Files present on both sides are compared
by content hash and only rewritten when they differ.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to configuration file (default: lumins.yaml in . or the user config dir)")
	pf.Int("workers", 0, "Number of parallel workers (0 = one per CPU)")
	pf.String("hash", "xxhash", "Fast hash algorithm: xxhash or xxh3")
	pf.String("log-file", "", "Also write logs to this file (rotated)")
	pf.String("log-format", "plain", "Log format: plain, text or json")
	pf.Bool("no-progress", false, "Disable the progress bar")
	pf.Bool("debug", false, "Enable debug logging")

	root.AddCommand(
		newCopyCommand(opts),
		newSyncCommand(opts),
		newRemoveCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

// session is the per-invocation state shared by the subcommands
type session struct {
	cfg    *config.Config
	sink   progress.Sink
	finish func()
}

// start loads configuration, installs the global logger and picks a
// progress sink. close must be called when the command is done.
func (o *globalOptions) start(cmd *cobra.Command, message string) (*session, error) {
	cfg, err := config.Load(o.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, sink: progress.NullSink{}, finish: func() {}}
	var bar *progress.Bar
	if cfg.Progress && isTerminal(os.Stderr) {
		bar = progress.NewBar(os.Stderr, message)
		s.sink = bar
		s.finish = bar.Finish
	}

	if err := logger.Init(logConfig(cfg, bar)); err != nil {
		s.finish()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return s, nil
}

// logConfig sends stderr log lines through bar so they do not split it
func logConfig(cfg *config.Config, bar *progress.Bar) logger.Config {
	lc := cfg.LoggerConfig()
	if bar == nil {
		return lc
	}
	for i := range lc.Outputs {
		if lc.Outputs[i].Type == logger.OutputStderr {
			lc.Outputs[i].Writer = bar
		}
	}
	return lc
}

func (s *session) service() (*service.SyncService, error) {
	return service.NewSyncService(service.Options{
		Flags:    s.cfg.Flags(),
		Workers:  s.cfg.EffectiveWorkers(),
		Checksum: s.cfg.ChecksumOptions(),
		Progress: s.sink,
	})
}

func (s *session) close() {
	s.finish()
	logger.Shutdown()
}

// report prints a one-line summary in verbose mode
func (s *session) report(w io.Writer, r *service.Result) {
	if !s.cfg.Verbose || r == nil {
		return
	}
	fmt.Fprintf(w, "copied %d, unchanged %d, deleted %d, failed %d (%s in %s, %s)\n",
		r.Stats.Copied, r.Stats.Skipped, r.Stats.Deleted, r.Stats.Failed,
		progress.FormatBytes(r.Stats.BytesCopied),
		r.Elapsed.Round(time.Millisecond),
		progress.FormatSpeed(r.Stats.BytesCopied, r.Elapsed),
	)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
