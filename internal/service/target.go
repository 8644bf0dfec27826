package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ning0612/lumins/internal/domain"
	"github.com/Ning0612/lumins/internal/logger"
)

// ResolveCopyTarget validates src and returns the directory cp writes into.
// When dest already exists the copy lands in dest/<name of src>. The
// returned directory is created if missing.
func ResolveCopyTarget(src, dest string) (string, error) {
	if err := validateSource(src); err != nil {
		return "", err
	}

	if _, err := os.Stat(dest); err == nil {
		if name := sourceName(src); name != "" {
			dest = filepath.Join(dest, name)
		}
	}

	if err := ensureDir(dest); err != nil {
		return "", err
	}
	return dest, nil
}

// ResolveSyncTarget validates src and creates dest if missing. Unlike cp,
// sync always mirrors into dest itself.
func ResolveSyncTarget(src, dest string) (string, error) {
	if err := validateSource(src); err != nil {
		return "", err
	}
	if err := ensureDir(dest); err != nil {
		return "", err
	}
	return dest, nil
}

// ValidateRemoveTargets keeps the targets that exist and are directories.
// Rejected targets are logged; ErrNoTargets is returned when none remain.
func ValidateRemoveTargets(targets []string) ([]string, error) {
	log := logger.Get()

	valid := make([]string, 0, len(targets))
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			log.Error("invalid target", "target", target, "error", err)
			continue
		}
		if !info.IsDir() {
			log.Error("invalid target", "target", target, "error", domain.ErrNotDirectory)
			continue
		}
		valid = append(valid, target)
	}

	if len(valid) == 0 {
		return nil, domain.ErrNoTargets
	}
	return valid, nil
}

func validateSource(src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSourceInvalid, src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", domain.ErrSourceInvalid, src)
	}
	return nil
}

func ensureDir(dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrDestinationInvalid, dest, err)
	}
	logger.Get().Info("created destination", "path", dest)
	return nil
}

// sourceName is the last element of src, or "" when src has none ("/", ".", "..")
func sourceName(src string) string {
	name := filepath.Base(filepath.Clean(src))
	switch name {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	if vol := filepath.VolumeName(src); vol != "" && name == vol {
		return ""
	}
	return name
}
