package domain

import "strings"

// Flag is the set of options a command runs with
type Flag uint32

const (
	// FlagNoDelete skips the destination-only deletion pass of sync
	FlagNoDelete Flag = 1 << iota
	// FlagSecure compares files with the cryptographic digest
	FlagSecure
	// FlagVerbose raises the log level to info
	FlagVerbose
	// FlagSequential runs every bulk operation on a single worker
	FlagSequential
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{FlagNoDelete, "nodelete"},
	{FlagSecure, "secure"},
	{FlagVerbose, "verbose"},
	{FlagSequential, "sequential"},
}

// Has reports whether every bit of other is set
func (f Flag) Has(other Flag) bool {
	return f&other == other
}

// With returns f with other set when on is true
func (f Flag) With(other Flag, on bool) Flag {
	if on {
		return f | other
	}
	return f &^ other
}

// String returns the set flag names joined by "|"
func (f Flag) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
