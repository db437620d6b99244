package flock

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchema string

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("flock-config.schema.json", configSchema)
})

// LoadConfig reads a JSON or YAML file (by extension), validates it against the embedded
// schema and overlays it on base. Fields absent from the file keep their base value.
func LoadConfig(path string, base Config) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := base
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		var doc any
		if err := json.Unmarshal(b, &doc); err != nil {
			return Config{}, fmt.Errorf("failed to decode config json: %w", err)
		}
		if err := validateDocument(doc); err != nil {
			return Config{}, err
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to decode config yaml: %w", err)
		}
		if err := ValidateSchema(cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (want .json, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateSchema checks a config value against the embedded JSON schema.
func ValidateSchema(cfg Config) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		// NaN and Inf have no JSON form
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("failed to decode config json: %w", err)
	}
	return validateDocument(doc)
}

func validateDocument(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%w: schema validation failed: %w", ErrInvalidConfig, err)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
