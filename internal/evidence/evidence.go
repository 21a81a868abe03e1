// Package evidence locates short, sentence-bounded excerpts of essay text for quoting in feedback.
package evidence

import "strings"

// windowPadding is the number of characters kept on each side of a match before snapping.
const windowPadding = 30

// Locate returns the sentence-bounded context around the first case-insensitive occurrence
// of marker in text.
//
// The raw window extends windowPadding characters on each side of the match. Any boundary
// (. ! ? or newline) between the match and a window edge pulls that edge in, then each edge
// walks outward to the nearest boundary. The boundary on the left is excluded; the boundary
// on the right is kept, so a full sentence is returned with its closing punctuation.
func Locate(text, marker string) (string, bool) {
	if marker == "" {
		return "", false
	}
	i := indexFold(text, marker)
	if i < 0 {
		return "", false
	}
	matchEnd := i + len(marker)

	start := max(0, i-windowPadding)
	end := min(len(text), matchEnd+windowPadding)

	if b := strings.LastIndexAny(text[start:i], boundaries); b >= 0 {
		start += b
	}
	if b := strings.IndexAny(text[matchEnd:end], boundaries); b >= 0 {
		end = matchEnd + b
	}

	for start > 0 && !isBoundary(text[start]) {
		start--
	}
	if isBoundary(text[start]) && start < i {
		start++
	}

	for end < len(text) && !isBoundary(text[end]) {
		end++
	}
	if end < len(text) {
		end++
	}

	excerpt := strings.TrimSpace(text[start:end])
	if excerpt == "" {
		return "", false
	}
	return excerpt, true
}

// Quote returns the located excerpt wrapped in double quotes.
func Quote(text, marker string) (string, bool) {
	excerpt, ok := Locate(text, marker)
	if !ok {
		return "", false
	}
	return `"` + excerpt + `"`, true
}

// Contains reports whether marker occurs in text, ignoring case.
func Contains(text, marker string) bool {
	return marker != "" && indexFold(text, marker) >= 0
}

const boundaries = ".!?\n"

func isBoundary(c byte) bool {
	return strings.IndexByte(boundaries, c) >= 0
}

// indexFold is a case-insensitive strings.Index that reports byte offsets into s.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}
