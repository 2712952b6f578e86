package kvextract

// Result maps a field name to its value. A key appears once, and neither
// keys nor values are empty once the result has been through Finalize.
type Result map[string]string

// Field is one extracted pair together with the index of the line the key
// was read from.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Line  int    `json:"line"`
}

// ToResult converts ordered fields into a Result. Later duplicates overwrite
// earlier ones.
func ToResult(fields []Field) Result {
	res := make(Result, len(fields))
	for _, f := range fields {
		res[f.Key] = f.Value
	}
	return res
}
