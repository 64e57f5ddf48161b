// Package urls turns free-form user input into a list of absolute URLs.
package urls

import (
	"net/url"
	"strings"
)

// Parse splits text on newlines and commas, trims each entry and keeps only
// the entries that parse as absolute URLs with a host. Order and duplicates
// are preserved. Malformed entries are dropped silently.
func Parse(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if IsAbsolute(f) {
			out = append(out, f)
		}
	}
	return out
}

// ParseList applies the same filtering as Parse to an already split list.
func ParseList(entries []string) []string {
	return Parse(strings.Join(entries, "\n"))
}

// IsAbsolute reports whether s is a well-formed absolute URL.
func IsAbsolute(s string) bool {
	if strings.ContainsAny(s, " \t") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
