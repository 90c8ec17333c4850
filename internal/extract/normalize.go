package extract

import "strings"

// continuationSentinel marks where the backend starts speaking for the user
// again; everything from the first occurrence on is discarded.
const continuationSentinel = "User: "

// Command normalizes a raw completion into a single executable command line.
//
// The transformation is a fixed sequence: drop one leading newline, one
// trailing newline, one leading backtick, one trailing backtick, trim
// surrounding whitespace, then cut at the continuation sentinel. Exactly one
// character is removed per side per step; doubled fences or newlines survive.
// Downstream compatibility depends on this single-pass behaviour, so it must
// not be replaced with a trim loop.
func Command(raw string) string {
	s := raw
	if strings.HasPrefix(s, "\n") {
		s = s[1:]
	}
	if strings.HasSuffix(s, "\n") {
		s = s[:len(s)-1]
	}
	if strings.HasPrefix(s, "`") {
		s = s[1:]
	}
	if strings.HasSuffix(s, "`") {
		s = s[:len(s)-1]
	}
	s = strings.TrimSpace(s)
	s, _, _ = strings.Cut(s, continuationSentinel)
	// The cut can expose whitespace that sat just before the sentinel.
	return strings.TrimSpace(s)
}
