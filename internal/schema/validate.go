// Package schema provides JSON schema validation for specrun documents.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "specrun/schema"
)

var (
	configSchema  *jsonschema.Schema
	specSchema    *jsonschema.Schema
	projectSchema *jsonschema.Schema
	compileOnce   sync.Once
	compileErr    error
)

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		for _, name := range []string{"config.schema.json", "spec.schema.json", "project.schema.json"} {
			data, err := schemafs.FS.ReadFile(name)
			if err != nil {
				compileErr = fmt.Errorf("read %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compileErr = fmt.Errorf("unmarshal %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("add %s resource: %w", name, err)
				return
			}
		}

		var err error
		if configSchema, err = compiler.Compile("config.schema.json"); err != nil {
			compileErr = fmt.Errorf("compile config schema: %w", err)
			return
		}
		if specSchema, err = compiler.Compile("spec.schema.json"); err != nil {
			compileErr = fmt.Errorf("compile spec schema: %w", err)
			return
		}
		if projectSchema, err = compiler.Compile("project.schema.json"); err != nil {
			compileErr = fmt.Errorf("compile project schema: %w", err)
		}
	})

	return compileErr
}

// ValidateConfig validates JSON data against the config schema.
func ValidateConfig(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := configSchema.Validate(v); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// ValidateSpecDoc validates a decoded spec document against the spec schema.
// The document is round-tripped through JSON so integer and boolean values
// take the shapes the validator expects.
func ValidateSpecDoc(doc any) error {
	if err := compileSchemas(); err != nil {
		return err
	}
	v, err := normalize(doc)
	if err != nil {
		return err
	}
	if err := specSchema.Validate(v); err != nil {
		return fmt.Errorf("spec validation failed: %w", err)
	}
	return nil
}

// ValidateProjectDoc validates a decoded project document against the
// project schema.
func ValidateProjectDoc(doc any) error {
	if err := compileSchemas(); err != nil {
		return err
	}
	v, err := normalize(doc)
	if err != nil {
		return err
	}
	if err := projectSchema.Validate(v); err != nil {
		return fmt.Errorf("project validation failed: %w", err)
	}
	return nil
}

func normalize(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return v, nil
}
