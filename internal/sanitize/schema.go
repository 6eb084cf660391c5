package sanitize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Structural schemas for each content kind. Required keys and types are
// enforced here; enumerations and cardinality are checked afterwards so
// the failure can name the exact field.

var insightSchemaDef = map[string]any{
	"type": "object",
	"required": []string{
		"salaryRanges", "growthRate", "demandLevel", "topSkills",
		"marketOutlook", "keyTrends", "recommendedSkills",
	},
	"properties": map[string]any{
		"salaryRanges": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"role", "min", "max", "median", "location"},
				"properties": map[string]any{
					"role":     map[string]any{"type": "string"},
					"min":      map[string]any{"type": "number"},
					"max":      map[string]any{"type": "number"},
					"median":   map[string]any{"type": "number"},
					"location": map[string]any{"type": "string"},
				},
			},
		},
		"growthRate":    map[string]any{"type": "number"},
		"demandLevel":   map[string]any{"type": "string"},
		"topSkills":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"marketOutlook": map[string]any{"type": "string"},
		"keyTrends":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"recommendedSkills": map[string]any{
			"type": "array", "items": map[string]any{"type": "string"},
		},
	},
}

var quizSchemaDef = map[string]any{
	"type":     "object",
	"required": []string{"questions"},
	"properties": map[string]any{
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"question", "options", "correctAnswer", "explanation"},
				"properties": map[string]any{
					"question":      map[string]any{"type": "string"},
					"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"correctAnswer": map[string]any{"type": "string"},
					"explanation":   map[string]any{"type": "string"},
				},
			},
		},
	},
}

// Top-level keys in contract order, used to name a missing field before
// the schema pass runs.
var (
	insightRequiredKeys = []string{
		"salaryRanges", "growthRate", "demandLevel", "topSkills",
		"marketOutlook", "keyTrends", "recommendedSkills",
	}
	quizRequiredKeys = []string{"questions"}
)

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func compiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler expects a parsed JSON value, not a Go map with typed
	// slices. Round-trip through JSON to normalize.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", name, err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add schema resource %q: %w", name, err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

// validateStructure runs the ordered required-key check, then the compiled
// schema. Violations come back as *SchemaError naming the offending field.
func validateStructure(name string, def map[string]any, requiredKeys []string, doc any) error {
	obj, ok := doc.(map[string]any)
	if !ok {
		return &SchemaError{Field: name, Reason: "expected a JSON object"}
	}
	for _, key := range requiredKeys {
		if _, present := obj[key]; !present {
			return &SchemaError{Field: key, Reason: "required field is missing"}
		}
	}

	compiled, err := compiledSchema(name, def)
	if err != nil {
		return err
	}
	if err := compiled.Validate(doc); err != nil {
		field := fieldFromValidationError(err)
		if field == "" {
			field = name
		}
		return &SchemaError{Field: field, Reason: err.Error()}
	}
	return nil
}

// fieldFromValidationError walks to the innermost cause and joins its
// instance location into a dotted field path.
func fieldFromValidationError(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return ""
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return strings.Join(leaf.InstanceLocation, ".")
}
