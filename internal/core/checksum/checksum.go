package checksum

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"

	"github.com/Ning0612/lumins/internal/domain"
)

// Algorithm represents the hashing algorithm to use
type Algorithm string

const (
	// XXHash is xxHash64, the default fast algorithm
	XXHash Algorithm = "xxhash"
	// XXH3 is XXH3-64, an alternative fast algorithm
	XXH3 Algorithm = "xxh3"
	// BLAKE2b is BLAKE2b-512, the secure algorithm
	BLAKE2b Algorithm = "blake2b-512"
)

// Options configures the checksum calculator
type Options struct {
	// Fast selects the 64-bit algorithm used when secure mode is off.
	// Default: XXHash
	Fast Algorithm

	// BufferSize: size of buffer for streaming reads
	// Default: 64KB
	BufferSize int
}

// DefaultOptions returns the recommended default options
func DefaultOptions() Options {
	return Options{
		Fast:       XXHash,
		BufferSize: 64 * 1024,
	}
}

// Digest is a file fingerprint: 8 big-endian bytes for the fast algorithms,
// 64 bytes for BLAKE2b-512
type Digest []byte

// String returns the hex encoding
func (d Digest) String() string {
	return hex.EncodeToString(d)
}

// Calculator computes file digests. It holds no mutable state and is safe
// for concurrent use.
type Calculator struct {
	opts Options
}

// NewCalculator creates a calculator, filling zero options with defaults
func NewCalculator(opts Options) (*Calculator, error) {
	defaults := DefaultOptions()
	if opts.Fast == "" {
		opts.Fast = defaults.Fast
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaults.BufferSize
	}
	if opts.Fast != XXHash && opts.Fast != XXH3 {
		return nil, fmt.Errorf("%w: %q is not a fast algorithm", domain.ErrUnsupportedAlgorithm, opts.Fast)
	}
	return &Calculator{opts: opts}, nil
}

// NewDefaultCalculator creates a calculator with default options
func NewDefaultCalculator() *Calculator {
	return &Calculator{opts: DefaultOptions()}
}

// FastFile reads the whole file and returns its 64-bit digest
func (c *Calculator) FastFile(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	if c.opts.Fast == XXH3 {
		return xxh3.Hash(data), nil
	}
	return xxhash.Sum64(data), nil
}

// SecureFile streams the file through BLAKE2b-512
func (c *Calculator) SecureFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, c.opts.BufferSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return h.Sum(nil), nil
}

// Sum returns the digest of path using the secure or the fast strategy
func (c *Calculator) Sum(path string, secure bool) (Digest, error) {
	if secure {
		return c.SecureFile(path)
	}

	sum, err := c.FastFile(path)
	if err != nil {
		return nil, err
	}
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), sum), nil
}

// Compare reports whether src and dest have equal digests. The destination is
// not hashed when the source fails.
func (c *Calculator) Compare(src, dest string, secure bool) (bool, error) {
	srcSum, err := c.Sum(src, secure)
	if err != nil {
		return false, fmt.Errorf("hash source %s: %w", src, err)
	}
	destSum, err := c.Sum(dest, secure)
	if err != nil {
		return false, fmt.Errorf("hash destination %s: %w", dest, err)
	}
	return bytes.Equal(srcSum, destSum), nil
}

// IsSupported checks if the given algorithm is supported
func IsSupported(algo Algorithm) bool {
	switch algo {
	case XXHash, XXH3, BLAKE2b:
		return true
	default:
		return false
	}
}

// ParseAlgorithm parses a name (case-insensitive). "blake2b" is accepted for BLAKE2b.
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "blake2b" {
		return BLAKE2b, nil
	}
	algo := Algorithm(name)
	if !IsSupported(algo) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedAlgorithm, s)
	}
	return algo, nil
}
