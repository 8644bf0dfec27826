// Package diff computes what must change to make a destination tree match a source tree.
package diff

import (
	"fmt"

	"github.com/Ning0612/lumins/internal/domain"
)

// DiffResult classifies a relative file path across the two trees
type DiffResult int

const (
	// FileOnlyInSource indicates the file must be copied
	FileOnlyInSource DiffResult = iota
	// FileInBoth indicates the file must be compared by content
	FileInBoth
	// FileOnlyInTarget indicates the file is a delete candidate
	FileOnlyInTarget
)

// String returns the string representation of the result
func (r DiffResult) String() string {
	switch r {
	case FileOnlyInSource:
		return "only-in-source"
	case FileInBoth:
		return "in-both"
	case FileOnlyInTarget:
		return "only-in-target"
	default:
		return "unknown"
	}
}

// Plan lists the entries each pass of a copy or sync will touch
type Plan struct {
	DirsToCreate []domain.Dir
	DirsToDelete []domain.Dir

	FilesToCopy    []domain.File
	FilesToCompare []domain.File
	FilesToDelete  []domain.File

	SymlinksToCopy   []domain.Symlink
	SymlinksToDelete []domain.Symlink
}

// Compare builds the plan that turns dest into src.
//
// Directories and symlinks are matched structurally, so a retargeted link is
// deleted and recreated. Files are matched by path only: a path present on
// both sides goes to the content comparison whatever its size.
func Compare(src, dest *domain.FileSets) *Plan {
	plan := &Plan{
		DirsToCreate:     src.Dirs.Difference(dest.Dirs).Slice(),
		DirsToDelete:     dest.Dirs.Difference(src.Dirs).Slice(),
		SymlinksToCopy:   src.Symlinks.Difference(dest.Symlinks).Slice(),
		SymlinksToDelete: dest.Symlinks.Difference(src.Symlinks).Slice(),
	}

	destFiles := indexFiles(dest.Files)
	srcFiles := indexFiles(src.Files)

	for path, f := range srcFiles {
		if Classify(path, srcFiles, destFiles) == FileInBoth {
			plan.FilesToCompare = append(plan.FilesToCompare, f)
		} else {
			plan.FilesToCopy = append(plan.FilesToCopy, f)
		}
	}
	for path, f := range destFiles {
		if Classify(path, srcFiles, destFiles) == FileOnlyInTarget {
			plan.FilesToDelete = append(plan.FilesToDelete, f)
		}
	}

	return plan
}

// Classify reports where path exists among the indexed files
func Classify(path string, src, dest map[string]domain.File) DiffResult {
	_, inSrc := src[path]
	_, inDest := dest[path]

	switch {
	case inSrc && inDest:
		return FileInBoth
	case inSrc:
		return FileOnlyInSource
	default:
		return FileOnlyInTarget
	}
}

func indexFiles(files domain.Set[domain.File]) map[string]domain.File {
	index := make(map[string]domain.File, files.Len())
	for f := range files {
		index[f.Path] = f
	}
	return index
}

// Creates returns the number of entries created or copied outright
func (p *Plan) Creates() int {
	return len(p.DirsToCreate) + len(p.FilesToCopy) + len(p.SymlinksToCopy)
}

// Deletes returns the number of destination entries to remove
func (p *Plan) Deletes() int {
	return len(p.DirsToDelete) + len(p.FilesToDelete) + len(p.SymlinksToDelete)
}

// ProgressTotal is the number of progress steps the passes will report:
// one per create or copy, two per compared file, and one per delete when
// deletes is set.
func (p *Plan) ProgressTotal(deletes bool) int64 {
	total := int64(p.Creates()) + 2*int64(len(p.FilesToCompare))
	if deletes {
		total += int64(p.Deletes())
	}
	return total
}

// String summarizes the plan for log lines
func (p *Plan) String() string {
	return fmt.Sprintf("create=%d compare=%d delete=%d", p.Creates(), len(p.FilesToCompare), p.Deletes())
}
