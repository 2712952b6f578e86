package kvextract

import "strings"

// defaultKeys are the field names searched in "common keys" mode when no key
// file is configured.
var defaultKeys = []string{
	"Name",
	"Policy Number",
	"Claim Number",
	"Date",
	"Date of Birth",
	"Date of Loss",
	"Address",
	"Phone",
	"Email",
	"Amount",
	"Total Amount",
	"Account Number",
	"Insured",
	"Policy Holder",
	"Reference Number",
}

// DefaultKeys returns a copy of the built-in key list.
func DefaultKeys() []string {
	out := make([]string, len(defaultKeys))
	copy(out, defaultKeys)
	return out
}

// ParseKeyList splits a comma-separated key string, trimming every entry and
// dropping blank ones.
func ParseKeyList(raw string) []string {
	return CleanKeys(strings.Split(raw, ","))
}

// CleanKeys trims keys and drops the blank ones, keeping order.
func CleanKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}
