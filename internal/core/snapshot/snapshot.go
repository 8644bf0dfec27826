// Package snapshot builds the FileSets of a directory tree.
package snapshot

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/Ning0612/lumins/internal/domain"
	"github.com/Ning0612/lumins/internal/logger"
)

// Builder walks directory trees. Entries are classified with Lstat, so
// symbolic links are recorded as links and never followed.
type Builder struct {
	log logger.Logger
}

// NewBuilder creates a builder that reports skipped entries to log
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Builder{log: log}
}

// Build snapshots root using the global logger
func Build(root string) (*domain.FileSets, error) {
	return NewBuilder(logger.With("component", "snapshot")).Build(root)
}

// Build returns every file, directory and symlink under root with paths
// relative to it. Only a failure to read root itself is returned; anything
// below it that cannot be read is logged and skipped.
func (b *Builder) Build(root string) (*domain.FileSets, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRootUnreadable, root, mapError(err))
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRootUnreadable, root, domain.ErrNotDirectory)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRootUnreadable, root, mapError(err))
	}

	return b.collect(root, "", entries), nil
}

// walk reads one directory below the root
func (b *Builder) walk(dir, rel string) *domain.FileSets {
	entries, err := os.ReadDir(dir)
	if err != nil {
		b.log.Error("cannot read directory", "path", dir, "error", err)
		return domain.NewFileSets()
	}
	return b.collect(dir, rel, entries)
}

func (b *Builder) collect(dir, rel string, entries []os.DirEntry) *domain.FileSets {
	sets := domain.NewFileSets()

	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())
		entryRel := path.Join(rel, entry.Name())

		info, err := os.Lstat(fullPath)
		if err != nil {
			b.log.Error("cannot stat entry", "path", fullPath, "error", err)
			continue
		}

		switch {
		case info.IsDir():
			// Recorded before descending so an unreadable directory still appears
			sets.Dirs.Add(domain.NewDir(entryRel))
			sets.Merge(b.walk(fullPath, entryRel))
		case info.Mode().IsRegular():
			sets.Files.Add(domain.NewFile(entryRel, info.Size()))
		default:
			target, err := os.Readlink(fullPath)
			if err != nil {
				b.log.Error("skipping unsupported entry", "path", fullPath, "mode", info.Mode().Type().String(), "error", err)
				continue
			}
			sets.Symlinks.Add(domain.NewSymlink(entryRel, target))
		}
	}

	return sets
}

// mapError converts OS errors to domain errors
func mapError(err error) error {
	if os.IsNotExist(err) {
		return domain.ErrNotFound
	}
	return err
}
