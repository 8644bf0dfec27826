package domain

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the variant of an Entry
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Entry is one file, directory or symlink inside a snapshot.
// The set of implementations is closed: File, Dir and Symlink.
type Entry interface {
	// RelPath is the slash-separated path relative to the snapshot root
	RelPath() string

	// Kind reports which variant this entry is
	Kind() Kind

	// Remove deletes the object at path (file, empty directory or link)
	Remove(path string) error

	// Copy recreates the object from src at dest, overwriting files
	Copy(src, dest string) error

	isEntry()
}

// File is a regular file
type File struct {
	// Path is the relative path from the snapshot root
	Path string

	// Size in bytes, captured at snapshot time
	Size int64
}

// NewFile creates a File entry
func NewFile(path string, size int64) File {
	return File{Path: filepath.ToSlash(path), Size: size}
}

func (f File) RelPath() string { return f.Path }
func (f File) Kind() Kind      { return KindFile }
func (File) isEntry()          {}

// Remove deletes the file at path
func (f File) Remove(path string) error {
	return os.Remove(path)
}

// Copy copies the bytes of src over dest.
// Content is written to a uniquely named temp file next to dest and renamed
// into place, so no existing file other than dest is touched.
func (f File) Copy(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}
	tempPath := out.Name()

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()

	if copyErr != nil {
		os.Remove(tempPath)
		return copyErr
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return closeErr
	}
	if err := os.Chmod(tempPath, info.Mode().Perm()); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, dest); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// Dir is a directory
type Dir struct {
	// Path is the relative path from the snapshot root
	Path string
}

// NewDir creates a Dir entry
func NewDir(path string) Dir {
	return Dir{Path: filepath.ToSlash(path)}
}

func (d Dir) RelPath() string { return d.Path }
func (d Dir) Kind() Kind      { return KindDir }
func (Dir) isEntry()          {}

// Remove deletes the directory at path; it must be empty
func (d Dir) Remove(path string) error {
	return os.Remove(path)
}

// Copy creates dest and any missing parents. src is unused.
func (d Dir) Copy(_, dest string) error {
	return os.MkdirAll(dest, 0755)
}

// Symlink is a symbolic link. Target is stored as read from the link, unresolved.
type Symlink struct {
	Path   string
	Target string
}

// NewSymlink creates a Symlink entry
func NewSymlink(path, target string) Symlink {
	return Symlink{Path: filepath.ToSlash(path), Target: target}
}

func (s Symlink) RelPath() string { return s.Path }
func (s Symlink) Kind() Kind      { return KindSymlink }
func (Symlink) isEntry()          {}

// Remove deletes the link itself, never its target
func (s Symlink) Remove(path string) error {
	return os.Remove(path)
}

// Copy creates a link at dest pointing at the stored target. src is unused.
// On Windows os.Symlink inspects the target to pick a file or directory link.
func (s Symlink) Copy(_, dest string) error {
	return os.Symlink(s.Target, dest)
}

// TargetKind reports what the stored target currently resolves to when the link
// lives at linkPath: KindDir, KindFile, or an error for a dangling link.
func (s Symlink) TargetKind(linkPath string) (Kind, error) {
	target := s.Target
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(linkPath), target)
	}
	info, err := os.Stat(target)
	if err != nil {
		return KindFile, err
	}
	if info.IsDir() {
		return KindDir, nil
	}
	return KindFile, nil
}

// String returns a readable form used in log lines
func (s Symlink) String() string {
	return fmt.Sprintf("%s -> %s", s.Path, s.Target)
}

// Resolve joins a base directory with an entry's relative path
func Resolve(base string, e Entry) string {
	return filepath.Join(base, filepath.FromSlash(e.RelPath()))
}

// Depth returns the number of path components of a relative path
func Depth(rel string) int {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" || rel == "." {
		return 0
	}
	return strings.Count(rel, "/") + 1
}
