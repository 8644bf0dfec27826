package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/Ning0612/lumins/internal/core/bulk"
	"github.com/Ning0612/lumins/internal/core/checksum"
	"github.com/Ning0612/lumins/internal/core/diff"
	"github.com/Ning0612/lumins/internal/core/planner"
	"github.com/Ning0612/lumins/internal/core/snapshot"
	"github.com/Ning0612/lumins/internal/domain"
	"github.com/Ning0612/lumins/internal/logger"
	"github.com/Ning0612/lumins/internal/progress"
)

// Options configures a SyncService
type Options struct {
	Flags    domain.Flag
	Workers  int // 0 = one per CPU
	Checksum checksum.Options
	Progress progress.Sink
	Logger   logger.Logger
}

// Result reports what an operation did
type Result struct {
	Stats   bulk.Stats
	Plan    *diff.Plan // nil for Remove
	Elapsed time.Duration
}

// SyncService runs copy, sync and remove operations
type SyncService struct {
	opts     Options
	calc     *checksum.Calculator
	log      logger.Logger
	snapshot *snapshot.Builder
}

// NewSyncService creates a new sync service
func NewSyncService(opts Options) (*SyncService, error) {
	calc, err := checksum.NewCalculator(opts.Checksum)
	if err != nil {
		return nil, fmt.Errorf("checksum: %w", err)
	}

	if opts.Progress == nil {
		opts.Progress = progress.NullSink{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.With("component", "sync")
	}

	return &SyncService{
		opts:     opts,
		calc:     calc,
		log:      log,
		snapshot: snapshot.NewBuilder(log),
	}, nil
}

func (s *SyncService) newExecutor() *bulk.Executor {
	return bulk.New(bulk.Options{
		Workers:    s.opts.Workers,
		Sequential: s.opts.Flags.Has(domain.FlagSequential),
		Progress:   s.opts.Progress,
		Logger:     s.log,
		Checksum:   s.calc,
	})
}

// snapshots builds both trees, concurrently unless FlagSequential is set
func (s *SyncService) snapshots(src, dest string) (*domain.FileSets, *domain.FileSets, error) {
	var srcSets, destSets *domain.FileSets
	var srcErr, destErr error

	if s.opts.Flags.Has(domain.FlagSequential) {
		srcSets, srcErr = s.build("source", src)
		destSets, destErr = s.build("destination", dest)
	} else {
		var wg conc.WaitGroup
		wg.Go(func() { srcSets, srcErr = s.build("source", src) })
		wg.Go(func() { destSets, destErr = s.build("destination", dest) })
		wg.Wait()
	}

	if srcErr != nil {
		return nil, nil, fmt.Errorf("source: %w", srcErr)
	}
	if destErr != nil {
		return nil, nil, fmt.Errorf("destination: %w", destErr)
	}
	return srcSets, destSets, nil
}

func (s *SyncService) build(side, root string) (*domain.FileSets, error) {
	s.log.Debug("snapshot started", "side", side, "root", root)
	sets, err := s.snapshot.Build(root)
	if err != nil {
		return nil, err
	}
	s.log.Debug("snapshot done", "side", side, "entries", sets.Len())
	return sets, nil
}

// Copy makes dest contain everything in src. Destination-only entries are kept.
func (s *SyncService) Copy(src, dest string) (*Result, error) {
	return s.run("copy", src, dest, false)
}

// Synchronize makes dest an exact mirror of src. With FlagNoDelete it
// behaves like Copy.
func (s *SyncService) Synchronize(src, dest string) (*Result, error) {
	return s.run("sync", src, dest, !s.opts.Flags.Has(domain.FlagNoDelete))
}

func (s *SyncService) run(op, src, dest string, deletes bool) (*Result, error) {
	start := time.Now()
	s.log.Debug("starting", "op", op, "src", src, "dest", dest, "flags", s.opts.Flags.String())

	srcSets, destSets, err := s.snapshots(src, dest)
	if err != nil {
		s.log.Error("snapshot failed", "op", op, "error", err)
		return nil, err
	}

	plan := diff.Compare(srcSets, destSets)
	s.opts.Progress.SetTotal(plan.ProgressTotal(deletes))
	s.log.Debug("plan ready", "op", op, "plan", plan.String())

	exec := s.newExecutor()

	if deletes {
		s.deletePass(exec, plan, dest)
	}
	s.copyPass(exec, plan, src, dest)

	result := &Result{Stats: exec.Stats(), Plan: plan, Elapsed: time.Since(start)}
	s.logResult(op, result)
	return result, nil
}

// deletePass removes destination-only entries: files and links in parallel,
// then directories deepest first on one goroutine
func (s *SyncService) deletePass(exec *bulk.Executor, plan *diff.Plan, dest string) {
	leaves := append(domain.Entries(plan.FilesToDelete), domain.Entries(plan.SymlinksToDelete)...)
	exec.Delete(leaves, dest)

	dirs := planner.SortForDeletion(plan.DirsToDelete)
	exec.DeleteSequential(domain.Entries(dirs), dest)
}

// copyPass creates directories, then copies new files and links, then
// compares files present on both sides
func (s *SyncService) copyPass(exec *bulk.Executor, plan *diff.Plan, src, dest string) {
	dirs := planner.SortForCreation(plan.DirsToCreate)
	exec.Copy(domain.Entries(dirs), src, dest)

	leaves := append(domain.Entries(plan.FilesToCopy), domain.Entries(plan.SymlinksToCopy)...)
	exec.Copy(leaves, src, dest)

	exec.CompareAndCopy(plan.FilesToCompare, src, dest, s.opts.Flags)
}

// Remove deletes each target directory and everything below it. A target
// that cannot be read is reported and the others still run.
func (s *SyncService) Remove(targets ...string) (*Result, error) {
	start := time.Now()

	type job struct {
		root string
		sets *domain.FileSets
	}

	var jobs []job
	var errs []error
	var total int64
	for _, target := range targets {
		sets, err := s.snapshot.Build(target)
		if err != nil {
			s.log.Error("snapshot failed", "op", "rm", "target", target, "error", err)
			errs = append(errs, err)
			continue
		}
		jobs = append(jobs, job{root: target, sets: sets})
		total += int64(sets.Len()) + 1 // the root itself
	}

	s.opts.Progress.SetTotal(total)
	exec := s.newExecutor()

	for _, j := range jobs {
		leaves := append(domain.Entries(j.sets.Files.Slice()), domain.Entries(j.sets.Symlinks.Slice())...)
		exec.Delete(leaves, j.root)

		dirs := planner.SortForDeletion(j.sets.Dirs.Slice())
		dirs = append(dirs, domain.NewDir(""))
		exec.DeleteSequential(domain.Entries(dirs), j.root)
	}

	result := &Result{Stats: exec.Stats(), Elapsed: time.Since(start)}
	s.logResult("rm", result)
	return result, errors.Join(errs...)
}

func (s *SyncService) logResult(op string, r *Result) {
	s.log.Info("completed",
		"op", op,
		"copied", r.Stats.Copied,
		"skipped", r.Stats.Skipped,
		"deleted", r.Stats.Deleted,
		"failed", r.Stats.Failed,
		"bytes", r.Stats.BytesCopied,
		"elapsed", r.Elapsed.Round(time.Millisecond),
	)
}
