package testutil

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Tree describes a directory layout relative to a root.
// A key ending in "/" is a directory, a key ending in "@" is a symlink whose
// target is the value, any other key is a file whose content is the value.
type Tree map[string]string

// BuildTree creates tree under root. Parents are created as needed.
func BuildTree(t *testing.T, root string, tree Tree) {
	t.Helper()

	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := tree[key]
		switch {
		case strings.HasSuffix(key, "/"):
			path := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(key, "/")))
			if err := os.MkdirAll(path, 0755); err != nil {
				t.Fatalf("failed to create dir: %v", err)
			}
		case strings.HasSuffix(key, "@"):
			path := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(key, "@")))
			mkParent(t, path)
			if err := os.Symlink(value, path); err != nil {
				t.Fatalf("failed to create symlink: %v", err)
			}
		default:
			path := filepath.Join(root, filepath.FromSlash(key))
			mkParent(t, path)
			CreateTestFile(t, filepath.Dir(path), filepath.Base(path), []byte(value))
		}
	}
}

// ReadTree returns the layout under root in the same notation as Tree
func ReadTree(t *testing.T, root string) Tree {
	t.Helper()

	tree := make(Tree)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case d.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			tree[rel+"@"] = target
		case d.IsDir():
			tree[rel+"/"] = ""
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			tree[rel] = string(data)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read tree: %v", err)
	}
	return tree
}

func mkParent(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent: %v", err)
	}
}

// CreateTestFile creates a test file with the given content
func CreateTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	return path
}

// CreateTestFileWithSize creates a test file with random content of the given size
func CreateTestFileWithSize(t *testing.T, dir, name string, size int64) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	defer file.Close()

	// Write random data in chunks
	const chunkSize = 1024 * 1024
	buf := make([]byte, chunkSize)
	remaining := size

	for remaining > 0 {
		writeSize := chunkSize
		if remaining < int64(chunkSize) {
			writeSize = int(remaining)
		}

		rand.Read(buf[:writeSize])
		if _, err := file.Write(buf[:writeSize]); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		remaining -= int64(writeSize)
	}

	return path
}
