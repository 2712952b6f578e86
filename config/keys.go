package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Aashish23092/ocr-form-extractor/utils/kvextract"
)

type keysFile struct {
	Keys []string `yaml:"keys"`
}

// LoadKeysFile reads a YAML document of the form
//
//	keys:
//	  - Policy Number
//	  - Claim Number
//
// and returns the cleaned key list.
func LoadKeysFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keys file: %w", err)
	}
	var kf keysFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("failed to parse keys file %s: %w", path, err)
	}
	keys := kvextract.CleanKeys(kf.Keys)
	if len(keys) == 0 {
		return nil, fmt.Errorf("keys file %s contains no keys", path)
	}
	return keys, nil
}

// DefaultKeys returns the "common keys" list: the key file when configured,
// otherwise the built-in list. It is called once at startup.
func (c *Config) DefaultKeys() ([]string, error) {
	if c.KeysFile == "" {
		return kvextract.DefaultKeys(), nil
	}
	return LoadKeysFile(c.KeysFile)
}
