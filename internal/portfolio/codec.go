package portfolio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from the file extension. Unknown extensions are JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a document and checks its id invariants.
func Decode(data []byte, format Format) (Portfolio, error) {
	var p Portfolio
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Portfolio{}, fmt.Errorf("failed to parse YAML document: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return Portfolio{}, fmt.Errorf("failed to parse JSON document: %w", err)
		}
	}
	if err := p.Validate(); err != nil {
		return Portfolio{}, fmt.Errorf("invalid document: %w", err)
	}
	return p, nil
}

// Encode serializes a document.
func Encode(p Portfolio, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML document: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON document: %w", err)
		}
		return append(data, '\n'), nil
	}
}

// Import reads a document file.
func Import(path string) (Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Portfolio{}, fmt.Errorf("failed to read document: %w", err)
	}
	return Decode(data, FormatForPath(path))
}

// Export writes a document file, replacing it atomically via a temp file in the same directory.
func Export(path string, p Portfolio) error {
	data, err := Encode(p, FormatForPath(path))
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".archfolio-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}
