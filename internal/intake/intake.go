// Package intake reads the item files fed to prefill and status.
//
// An item file is JSON or YAML holding either a bare list of items or an
// object with an "items" list and an optional "week". Files are validated
// against an embedded JSON Schema before decoding.
package intake

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/smokeplan/internal/grid"
)

//go:embed items.schema.json
var schemaJSON string

const schemaURL = "https://smokeplan.local/schemas/items.schema.json"

// Format is an item file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// File is a decoded item file.
type File struct {
	// Week is the plan week named in the file, if any.
	Week  string      `json:"week,omitempty"`
	Items []grid.Item `json:"items"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func itemSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("intake: add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("intake: compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// FormatFor picks the format from a file extension. Unknown extensions are JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and validates the item file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("intake: read %s: %w", path, err)
	}
	f, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return f, nil
}

// Parse validates and decodes an item document.
func Parse(data []byte, format Format) (*File, error) {
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("intake: parse yaml: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("intake: convert yaml: %w", err)
		}
		data = converted
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("intake: parse json: %w", err)
	}
	s, err := itemSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("intake: invalid item file: %w", err)
	}

	f := &File{}
	if _, isList := doc.([]any); isList {
		if err := json.Unmarshal(data, &f.Items); err != nil {
			return nil, fmt.Errorf("intake: decode items: %w", err)
		}
	} else if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("intake: decode items: %w", err)
	}
	if f.Items == nil {
		f.Items = []grid.Item{}
	}
	return f, nil
}
