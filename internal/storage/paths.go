package storage

import "strings"

// segments splits p into its non-empty segments. A leading slash, trailing
// slashes and doubled slashes carry no meaning.
func segments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// normalizePath returns p relative to the storage root. The empty string is
// the root.
func normalizePath(p string) string {
	return strings.Join(segments(p), "/")
}
