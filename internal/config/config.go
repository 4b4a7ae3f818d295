// Package config loads and validates the tokenizer's JSON configuration
// file. Validation follows the teacher's core/types/validation.go
// pattern: a jsonschema/v5 compiler with Draft2020, the schema
// registered via AddResource under a synthetic URL, then Compile once
// and Validate per document.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Config is the tokenizer's user-facing configuration file shape.
type Config struct {
	SurpriseThreshold float32  `json:"surprise_threshold"`
	ExtraLockedWords  []string `json:"extra_locked_words"`
	RegistryPath      string   `json:"registry_path"`
}

// Default returns the configuration used when no --config flag is
// given.
func Default() Config {
	return Config{
		SurpriseThreshold: 5.0,
		RegistryPath:      "nset_vocab.bin",
	}
}

// schemaJSON is the JSON Schema the config file must satisfy.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "surprise_threshold": {"type": "number", "exclusiveMinimum": 0},
    "extra_locked_words": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "registry_path": {"type": "string", "minLength": 1}
  },
  "additionalProperties": false
}`

const schemaURL = "schema://nset-config.json"

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader([]byte(schemaJSON))); err != nil {
		return nil, fmt.Errorf("register config schema: %w", err)
	}
	return compiler.Compile(schemaURL)
}

// Load reads, schema-validates, and parses the JSON config file at
// path, overlaying it onto Default().
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	schema, err := compileSchema()
	if err != nil {
		return cfg, fmt.Errorf("compile config schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return cfg, fmt.Errorf("config %s failed validation: %w", path, err)
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}
