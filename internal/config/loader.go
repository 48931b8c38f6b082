// Package config loads report definitions from YAML files. It handles
// file I/O and decoding; structural validation lives on the definition
// itself.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/bandkit/bandkit/internal/domain/report"
	"github.com/bandkit/bandkit/internal/version"
)

// DefinitionLoader loads report definitions from YAML files.
type DefinitionLoader struct{}

// NewDefinitionLoader creates a new definition loader.
func NewDefinitionLoader() *DefinitionLoader {
	return &DefinitionLoader{}
}

// Load reads, decodes and validates a report definition from a YAML file.
func (l *DefinitionLoader) Load(path string) (*report.Report, error) {
	// Security: os.OpenRoot confines reads to the definition's directory.
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open definition directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(base)
	if err != nil {
		return nil, fmt.Errorf("failed to open definition: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return l.LoadFromReader(file)
}

// LoadFromReader decodes and validates a report definition.
func (l *DefinitionLoader) LoadFromReader(r io.Reader) (*report.Report, error) {
	var def report.Report

	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to decode definition YAML: %w", err)
	}

	def.ApplyDefaults()

	if err := def.Validate(); err != nil {
		return nil, err
	}

	if err := version.CheckConstraint(def.Metadata.Engine); err != nil {
		return nil, err
	}

	return &def, nil
}
