// Package slug derives URL-safe identifiers from human-readable names.
package slug

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxAttempts bounds suffix retries when a slug is already taken.
const MaxAttempts = 20

var (
	// ErrConflict is returned when every candidate slug is already taken.
	ErrConflict = errors.New("slug already exists")
	// ErrEmpty is returned when a name produces no usable slug characters.
	ErrEmpty = errors.New("slug is empty")
)

var (
	disallowedChars = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	hyphenRuns      = regexp.MustCompile(`-+`)
	underscoreRuns  = regexp.MustCompile(`_{2,}`)
)

// Generate lowercases text, drops everything but word characters, spaces and
// hyphens, and joins the remaining words with underscores. Generate(Generate(s))
// == Generate(s).
func Generate(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = disallowedChars.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, "_")
	s = hyphenRuns.ReplaceAllString(s, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// WithSuffix returns the candidate slug for the given attempt: the base on the
// first attempt, base_N afterwards.
func WithSuffix(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, attempt)
}

// Claim runs insert with successive candidates until it succeeds, fails with an
// error that isConflict does not recognise, or MaxAttempts is reached. With
// retry false only the base slug is tried.
func Claim(base string, retry bool, insert func(candidate string) error, isConflict func(error) bool) (string, error) {
	if base == "" {
		return "", ErrEmpty
	}
	attempts := 1
	if retry {
		attempts = MaxAttempts
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		candidate := WithSuffix(base, attempt)
		err := insert(candidate)
		if err == nil {
			return candidate, nil
		}
		if !isConflict(err) {
			return "", err
		}
	}
	return "", ErrConflict
}
