package kvextract

import "strings"

func validEntry(key, value string) bool {
	return strings.TrimSpace(key) != "" && strings.TrimSpace(value) != ""
}

// Finalize returns a copy of raw without entries whose key or value is empty
// after trimming. Surviving entries are not modified.
func Finalize(raw Result) Result {
	out := make(Result, len(raw))
	for k, v := range raw {
		if validEntry(k, v) {
			out[k] = v
		}
	}
	return out
}

// FinalizeFields applies the Finalize rule to ordered fields.
func FinalizeFields(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if validEntry(f.Key, f.Value) {
			out = append(out, f)
		}
	}
	return out
}
