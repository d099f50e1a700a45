package formconfig

import "strings"

// ParseOptions splits a comma-separated options string into trimmed,
// non-empty entries, preserving order.
func ParseOptions(raw string) []string {
	return cleanOptions(strings.Split(raw, ","))
}

// FormatOptions is the inverse of ParseOptions for display in the builder.
func FormatOptions(options []string) string {
	return strings.Join(options, ", ")
}

func cleanOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		out = append(out, option)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
