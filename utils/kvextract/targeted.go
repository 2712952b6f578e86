package kvextract

// keySlot is one logical key: every caller label that normalizes to norm
// shares it, and label is the first of them.
type keySlot struct {
	label string
	norm  string
}

func buildSlots(keys []string) []keySlot {
	slots := make([]keySlot, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		norm := NormalizeKey(k)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		slots = append(slots, keySlot{label: k, norm: norm})
	}
	return slots
}

// Extract finds the value of each requested key. See ExtractFields.
func Extract(lines Lines, keys []string) Result {
	return ToResult(ExtractFields(lines, keys))
}

// ExtractFields walks lines in order and, for every content line that equals
// a not yet found key, takes the next content line as its value. The first
// occurrence of a key wins and a line fulfils at most one key. Fields are
// returned in document order.
func ExtractFields(lines Lines, keys []string) []Field {
	slots := buildSlots(keys)
	if len(slots) == 0 {
		return []Field{}
	}

	found := make(map[string]bool, len(slots))
	fields := make([]Field, 0, len(slots))

	for i, line := range lines {
		if len(found) == len(slots) {
			break
		}
		for _, slot := range slots {
			if found[slot.norm] || !matchesNormalized(line, slot.norm) {
				continue
			}
			if value, ok := ResolveValue(lines, i); ok {
				fields = append(fields, Field{Key: slot.label, Value: value, Line: i})
				found[slot.norm] = true
			}
			break
		}
	}
	return fields
}

// MissingKeys returns the requested keys, deduplicated the same way Extract
// does, that have no entry in res.
func MissingKeys(keys []string, res Result) []string {
	missing := []string{}
	for _, slot := range buildSlots(keys) {
		if _, ok := res[slot.label]; !ok {
			missing = append(missing, slot.label)
		}
	}
	return missing
}
