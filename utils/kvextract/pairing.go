package kvextract

import "strings"

// ExtractAll pairs consecutive content lines as (key, value) without any
// prior knowledge of the keys. See ExtractAllFields.
func ExtractAll(lines Lines) Result {
	return ToResult(ExtractAllFields(lines))
}

// ExtractAllFields drops empty lines and page markers, then reads the rest
// two at a time. An odd trailing line has no partner and is dropped. When a
// key repeats, the later pair replaces the earlier one.
//
// This only works when the OCR line order alternates label/value.
func ExtractAllFields(lines Lines) []Field {
	type indexed struct {
		text string
		line int
	}
	compact := make([]indexed, 0, len(lines))
	for i, line := range lines {
		if IsContent(line) {
			compact = append(compact, indexed{text: strings.TrimSpace(line), line: i})
		}
	}

	fields := make([]Field, 0, len(compact)/2)
	pos := make(map[string]int, len(compact)/2)
	for i := 0; i+1 < len(compact); i += 2 {
		f := Field{Key: compact[i].text, Value: compact[i+1].text, Line: compact[i].line}
		if prev, ok := pos[f.Key]; ok {
			fields = append(fields[:prev], fields[prev+1:]...)
			for k, p := range pos {
				if p > prev {
					pos[k] = p - 1
				}
			}
		}
		pos[f.Key] = len(fields)
		fields = append(fields, f)
	}
	return fields
}
