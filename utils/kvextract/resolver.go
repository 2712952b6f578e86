package kvextract

import "strings"

// ResolveValue returns the first content line after keyIndex, trimmed.
// Empty lines and page markers are skipped but still count as positions.
func ResolveValue(lines Lines, keyIndex int) (string, bool) {
	if keyIndex < -1 {
		keyIndex = -1
	}
	for i := keyIndex + 1; i < len(lines); i++ {
		if IsContent(lines[i]) {
			return strings.TrimSpace(lines[i]), true
		}
	}
	return "", false
}
