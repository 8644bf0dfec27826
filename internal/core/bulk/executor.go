// Package bulk applies copy, delete and compare-and-copy to batches of entries.
package bulk

import (
	"runtime"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/Ning0612/lumins/internal/core/checksum"
	"github.com/Ning0612/lumins/internal/domain"
	"github.com/Ning0612/lumins/internal/logger"
	"github.com/Ning0612/lumins/internal/progress"
)

// Options configures an Executor
type Options struct {
	// Workers bounds concurrent entries. Default: runtime.NumCPU()
	Workers int

	// Sequential runs every batch on the calling goroutine
	Sequential bool

	Progress progress.Sink
	Logger   logger.Logger
	Checksum *checksum.Calculator
}

// Stats counts per-entry outcomes
type Stats struct {
	Copied      int64
	Skipped     int64 // compared equal, left in place
	Deleted     int64
	Failed      int64
	BytesCopied int64
}

// Executor runs batches. Each entry is handled independently: a failure is
// logged and counted, never retried, and does not stop the batch.
type Executor struct {
	opts Options

	copied  atomic.Int64
	skipped atomic.Int64
	deleted atomic.Int64
	failed  atomic.Int64
	bytes   atomic.Int64
}

// New creates an executor, filling unset options with defaults
func New(opts Options) *Executor {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Sequential {
		opts.Workers = 1
	}
	if opts.Progress == nil {
		opts.Progress = progress.NullSink{}
	}
	if opts.Logger == nil {
		opts.Logger = &logger.NullLogger{}
	}
	if opts.Checksum == nil {
		opts.Checksum = checksum.NewDefaultCalculator()
	}
	return &Executor{opts: opts}
}

// Workers returns the effective worker count
func (e *Executor) Workers() int {
	return e.opts.Workers
}

// Stats returns a snapshot of the counters
func (e *Executor) Stats() Stats {
	return Stats{
		Copied:      e.copied.Load(),
		Skipped:     e.skipped.Load(),
		Deleted:     e.deleted.Load(),
		Failed:      e.failed.Load(),
		BytesCopied: e.bytes.Load(),
	}
}

// run calls fn for every item, fanned out over the worker pool
func run[T any](e *Executor, items []T, fn func(T)) {
	if e.opts.Workers == 1 {
		for _, item := range items {
			fn(item)
		}
		return
	}

	p := pool.New().WithMaxGoroutines(e.opts.Workers)
	for _, item := range items {
		p.Go(func() { fn(item) })
	}
	p.Wait()
}

// Copy recreates every entry from src under dest. Entries are handled in no
// particular order, so parents of files must already exist.
func (e *Executor) Copy(entries []domain.Entry, src, dest string) {
	run(e, entries, func(entry domain.Entry) {
		e.copyEntry(entry, src, dest)
		e.opts.Progress.Inc(1)
	})
}

// Delete removes every entry under base in no particular order
func (e *Executor) Delete(entries []domain.Entry, base string) {
	run(e, entries, func(entry domain.Entry) {
		e.removeEntry(entry, base)
		e.opts.Progress.Inc(1)
	})
}

// DeleteSequential removes entries one at a time in the given order.
// Pass directories through planner.SortForDeletion first.
func (e *Executor) DeleteSequential(entries []domain.Entry, base string) {
	for _, entry := range entries {
		e.removeEntry(entry, base)
		e.opts.Progress.Inc(1)
	}
}

// CompareAndCopy copies each file only when its digest differs between src
// and dest. A file that cannot be hashed is copied. Each file reports two
// progress steps: one after comparing and one after the copy or skip.
func (e *Executor) CompareAndCopy(files []domain.File, src, dest string, flags domain.Flag) {
	secure := flags.Has(domain.FlagSecure)

	run(e, files, func(f domain.File) {
		srcPath := domain.Resolve(src, f)
		destPath := domain.Resolve(dest, f)

		same, err := e.opts.Checksum.Compare(srcPath, destPath, secure)
		if err != nil {
			e.opts.Logger.Debug("hash failed, copying", "path", f.Path, "error", err)
		}
		e.opts.Progress.Inc(1)

		if same {
			e.skipped.Add(1)
			e.opts.Logger.Info("unchanged", "path", f.Path)
		} else {
			e.copyEntry(f, src, dest)
		}
		e.opts.Progress.Inc(1)
	})
}

func (e *Executor) copyEntry(entry domain.Entry, src, dest string) {
	srcPath := domain.Resolve(src, entry)
	destPath := domain.Resolve(dest, entry)

	if err := entry.Copy(srcPath, destPath); err != nil {
		e.failed.Add(1)
		e.opts.Logger.Error("copy failed", "kind", entry.Kind().String(), "src", srcPath, "dest", destPath, "error", err)
		return
	}

	e.copied.Add(1)
	switch v := entry.(type) {
	case domain.File:
		e.bytes.Add(v.Size)
		e.opts.Logger.Info("copied file", "src", srcPath, "dest", destPath, "size", v.Size)
	case domain.Symlink:
		kind, err := v.TargetKind(destPath)
		if err != nil {
			e.opts.Logger.Info("created symlink", "link", destPath, "target", v.Target, "resolves", "dangling")
			return
		}
		e.opts.Logger.Info("created symlink", "link", destPath, "target", v.Target, "resolves", kind.String())
	default:
		e.opts.Logger.Info("created directory", "dest", destPath)
	}
}

func (e *Executor) removeEntry(entry domain.Entry, base string) {
	path := domain.Resolve(base, entry)

	if err := entry.Remove(path); err != nil {
		e.failed.Add(1)
		e.opts.Logger.Error("remove failed", "kind", entry.Kind().String(), "path", path, "error", err)
		return
	}

	e.deleted.Add(1)
	e.opts.Logger.Info("removed", "kind", entry.Kind().String(), "path", path)
}
