// Package catalog loads slot declarations from YAML or TOML files and
// provides the built-in site catalog.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

// BuiltinSource names the built-in catalog in log output and reports.
const BuiltinSource = "built-in"

// ErrUnsupportedFormat indicates a catalog file with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

type fileSlot struct {
	ID        string   `yaml:"id" toml:"id"`
	Kind      string   `yaml:"kind" toml:"kind"`
	Query     string   `yaml:"query" toml:"query"`
	Target    string   `yaml:"target" toml:"target"`
	Width     int      `yaml:"width" toml:"width"`
	Height    int      `yaml:"height" toml:"height"`
	Label     string   `yaml:"label" toml:"label"`
	Fallbacks []string `yaml:"fallbacks" toml:"fallbacks"`
}

type document struct {
	Slots []fileSlot `yaml:"slots" toml:"slots"`
}

// Load reads a catalog file. The format is chosen by extension:
// .yaml and .yml for YAML, .toml for TOML.
func Load(path string) ([]domain.AssetSlot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	doc, err := decode(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	slots, err := doc.slots()
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return slots, nil
}

// LoadOrDefault loads path when it exists and falls back to the built-in
// catalog otherwise. It returns the slots and a description of their source.
func LoadOrDefault(path string) ([]domain.AssetSlot, string, error) {
	if path == "" {
		return Default(), BuiltinSource, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), BuiltinSource, nil
	}
	slots, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return slots, path, nil
}

func decode(ext string, data []byte) (*document, error) {
	var doc document
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", domain.ErrConfig, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w %q (want .yaml, .yml or .toml)", ErrUnsupportedFormat, ext)
	}
	return &doc, nil
}

func (d *document) slots() ([]domain.AssetSlot, error) {
	var problems []error
	slots := make([]domain.AssetSlot, 0, len(d.Slots))

	for i, fs := range d.Slots {
		kind := domain.KindImage
		if fs.Kind != "" {
			k, err := domain.ParseKind(fs.Kind)
			if err != nil {
				problems = append(problems, fmt.Errorf("slots[%d] %s: %w", i, fs.ID, err))
				continue
			}
			kind = k
		}

		slot := domain.AssetSlot{
			ID:          strings.TrimSpace(fs.ID),
			Kind:        kind,
			SearchQuery: strings.TrimSpace(fs.Query),
			TargetPath:  fs.Target,
			Label:       fs.Label,
			Fallbacks:   fs.Fallbacks,
		}
		if fs.Width != 0 || fs.Height != 0 {
			slot.Dimensions = &domain.Dimensions{Width: fs.Width, Height: fs.Height}
		}
		slots = append(slots, slot)
	}

	if len(problems) > 0 {
		return nil, &domain.ConfigError{Problems: problems}
	}
	return slots, nil
}
