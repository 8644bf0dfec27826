package domain

// Set is an unordered collection of unique comparable values
type Set[T comparable] map[T]struct{}

// NewSet creates a set holding items
func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Add inserts item
func (s Set[T]) Add(item T) {
	s[item] = struct{}{}
}

// Has reports whether item is present
func (s Set[T]) Has(item T) bool {
	_, ok := s[item]
	return ok
}

// Len returns the number of items
func (s Set[T]) Len() int {
	return len(s)
}

// Slice returns the items in no particular order
func (s Set[T]) Slice() []T {
	out := make([]T, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	return out
}

// Difference returns the items of s that are not in other
func (s Set[T]) Difference(other Set[T]) Set[T] {
	out := make(Set[T])
	for item := range s {
		if !other.Has(item) {
			out.Add(item)
		}
	}
	return out
}

// Equal reports whether both sets hold the same items
func (s Set[T]) Equal(other Set[T]) bool {
	if len(s) != len(other) {
		return false
	}
	for item := range s {
		if !other.Has(item) {
			return false
		}
	}
	return true
}

// Entries converts a slice of one variant into a slice of Entry
func Entries[E Entry](items []E) []Entry {
	out := make([]Entry, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// FileSets is the snapshot of one directory tree. Files, Dirs and Symlinks
// partition every object found under the root; paths are relative to it.
type FileSets struct {
	Files    Set[File]
	Dirs     Set[Dir]
	Symlinks Set[Symlink]
}

// NewFileSets creates an empty snapshot
func NewFileSets() *FileSets {
	return &FileSets{
		Files:    make(Set[File]),
		Dirs:     make(Set[Dir]),
		Symlinks: make(Set[Symlink]),
	}
}

// Merge adds every entry of other into fs
func (fs *FileSets) Merge(other *FileSets) {
	for f := range other.Files {
		fs.Files.Add(f)
	}
	for d := range other.Dirs {
		fs.Dirs.Add(d)
	}
	for s := range other.Symlinks {
		fs.Symlinks.Add(s)
	}
}

// Len returns the total number of entries
func (fs *FileSets) Len() int {
	return fs.Files.Len() + fs.Dirs.Len() + fs.Symlinks.Len()
}

// Equal reports structural equality of two snapshots
func (fs *FileSets) Equal(other *FileSets) bool {
	return fs.Files.Equal(other.Files) &&
		fs.Dirs.Equal(other.Dirs) &&
		fs.Symlinks.Equal(other.Symlinks)
}
