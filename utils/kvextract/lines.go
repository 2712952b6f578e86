// Package kvextract turns OCR text into key/value pairs.
//
// The package is pure: every function works on already-recognized text and
// keeps no state between calls, so extractions for different documents can
// run concurrently.
package kvextract

import (
	"fmt"
	"regexp"
	"strings"
)

// Lines is the ordered line sequence of one document. Lines are kept
// verbatim so that positions match the literal OCR output.
type Lines []string

var pageMarkerRegex = regexp.MustCompile(`^--- Page \d+ ---$`)

// SplitLines splits raw OCR text on line breaks. \r\n and lone \r are
// treated as breaks too.
func SplitLines(raw string) Lines {
	if raw == "" {
		return Lines{}
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return Lines(strings.Split(raw, "\n"))
}

// PageMarker returns the separator line written before page n.
func PageMarker(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}

// IsPageMarker reports whether line is a page separator.
func IsPageMarker(line string) bool {
	return pageMarkerRegex.MatchString(strings.TrimSpace(line))
}

// IsEmpty reports whether line has no content after trimming.
func IsEmpty(line string) bool {
	return strings.TrimSpace(line) == ""
}

// IsContent reports whether line carries document text, i.e. it is neither
// empty nor a page marker.
func IsContent(line string) bool {
	return !IsEmpty(line) && !IsPageMarker(line)
}

// Compact returns the trimmed content lines, dropping empty lines and page
// markers.
func (l Lines) Compact() []string {
	out := make([]string, 0, len(l))
	for _, line := range l {
		if !IsContent(line) {
			continue
		}
		out = append(out, strings.TrimSpace(line))
	}
	return out
}

// ContentCount returns the number of content lines.
func (l Lines) ContentCount() int {
	n := 0
	for _, line := range l {
		if IsContent(line) {
			n++
		}
	}
	return n
}
