package logger

import (
	"fmt"
	"regexp"
	"sync"
)

// Sanitizer masks user home directories in log output so that logs can be
// shared without leaking account names. Values are rewritten only when they
// are strings or errors; other types pass through unchanged.
type Sanitizer struct {
	mu       sync.RWMutex
	patterns []SanitizeRule
}

// SanitizeRule is one replacement
type SanitizeRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// NewSanitizer creates a sanitizer with the default rules
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		patterns: defaultSanitizeRules(),
	}
}

// newSanitizerFor returns nil (pass-through) unless redaction is enabled
func newSanitizerFor(config Config) *Sanitizer {
	if !config.Redact {
		return nil
	}
	return NewSanitizer()
}

func defaultSanitizeRules() []SanitizeRule {
	return []SanitizeRule{
		// Windows profiles, any drive letter and UNC
		{regexp.MustCompile(`(?i)[A-Z]:\\Users\\[^\\]+`), "***:\\Users\\***"},
		{regexp.MustCompile(`(?i)\\\\[^\\]+\\[^\\]+\\Users\\[^\\]+`), "\\\\***\\***\\Users\\***"},

		// Unix home directories
		{regexp.MustCompile(`/home/[^/\s]+`), "/home/***"},
		{regexp.MustCompile(`/Users/[^/\s]+`), "/Users/***"},
		{regexp.MustCompile(`^/root(/|$)`), "/***$1"},
	}
}

// Sanitize applies every rule to input. A nil Sanitizer returns input.
func (s *Sanitizer) Sanitize(input string) string {
	if s == nil {
		return input
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := input
	for _, rule := range s.patterns {
		result = rule.Pattern.ReplaceAllString(result, rule.Replacement)
	}
	return result
}

// SanitizeArgs sanitizes the values of key/value pairs
func (s *Sanitizer) SanitizeArgs(args []any) []any {
	if s == nil || len(args) == 0 {
		return args
	}

	result := make([]any, len(args))
	copy(result, args)

	for i := 1; i < len(result); i += 2 {
		switch v := result[i].(type) {
		case string:
			result[i] = s.Sanitize(v)
		case error:
			result[i] = s.Sanitize(v.Error())
		}
	}

	return result
}

// AddRule adds a custom replacement
func (s *Sanitizer) AddRule(pattern string, replacement string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}

	s.patterns = append(s.patterns, SanitizeRule{
		Pattern:     re,
		Replacement: replacement,
	})
	return nil
}
