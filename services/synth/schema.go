package synth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// PropertyType is the primitive type of an output property.
type PropertyType string

const (
	TypeString  PropertyType = "string"
	TypeInteger PropertyType = "integer"
	TypeNumber  PropertyType = "number"
)

// Property is one field of the object a backend must return.
type Property struct {
	Name        string
	Type        PropertyType
	Description string
	// Min and Max are the advertised inclusive bounds of numeric properties.
	Min, Max *float64
}

// OutputSchema declares the JSON object a backend must produce. Every
// property is required and no other property is allowed.
type OutputSchema struct {
	Name        string
	Description string
	Properties  []Property
}

func bounded(name string, typ PropertyType, desc string, lo, hi float64) Property {
	return Property{Name: name, Type: typ, Description: desc, Min: &lo, Max: &hi}
}

// FlowerSchema is the schema advertised for Flower synthesis. Its bounds are
// the ones a generated flower must respect, which for petalCount, petalWidth,
// glowIntensity and scale are tighter than the Flower record's ranges.
func FlowerSchema() OutputSchema {
	return OutputSchema{
		Name:        "flower_dna",
		Description: "Botanical DNA of a procedural 3D flower.",
		Properties: []Property{
			{Name: "name", Type: TypeString, Description: "A creative name for the flower."},
			{Name: "description", Type: TypeString, Description: "A short, poetic description."},
			bounded("petalCount", TypeInteger, "Number of petals in a row, 3 to 24.", 3, 24),
			bounded("petalRows", TypeInteger, "Number of rows of petals, 1 to 5.", 1, 5),
			bounded("petalLength", TypeNumber, "Length of petals, 0.5 to 5.0.", 0.5, 5),
			bounded("petalWidth", TypeNumber, "Width of petals, 0.2 to 3.0.", 0.2, 3),
			bounded("petalCurvature", TypeNumber, "Curvature of petals, 0 to 1.", 0, 1),
			{Name: "petalColor", Type: TypeString, Description: "Hex code for petals."},
			{Name: "centerColor", Type: TypeString, Description: "Hex code for the center pistil."},
			{Name: "stemColor", Type: TypeString, Description: "Hex code for the stem."},
			bounded("glowIntensity", TypeNumber, "Glow factor, 0.1 to 3.0.", 0.1, 3),
			bounded("wobbleSpeed", TypeNumber, "Animation speed, 0.1 to 2.0.", 0.1, 2),
			bounded("scale", TypeNumber, "Base scale, 0.5 to 1.5.", 0.5, 1.5),
		},
	}
}

// Required returns every property name in declaration order.
func (s OutputSchema) Required() []string {
	out := make([]string, len(s.Properties))
	for i, p := range s.Properties {
		out[i] = p.Name
	}
	return out
}

// JSONSchema renders the schema as a standard JSON Schema document.
func (s OutputSchema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		prop := map[string]any{"type": string(p.Type), "description": p.Description}
		if p.Min != nil {
			prop["minimum"] = *p.Min
		}
		if p.Max != nil {
			prop["maximum"] = *p.Max
		}
		if p.Type == TypeString && strings.HasSuffix(p.Name, "Color") {
			prop["pattern"] = "^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"
		}
		props[p.Name] = prop
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             s.Required(),
		"additionalProperties": false,
	}
}

// openAIDefinition renders the schema for OpenAI strict structured output.
// Strict mode does not accept numeric bounds, so they stay in the
// descriptions and are enforced on decode.
func (s OutputSchema) openAIDefinition() *jsonschema.Definition {
	props := make(map[string]jsonschema.Definition, len(s.Properties))
	for _, p := range s.Properties {
		var t jsonschema.DataType
		switch p.Type {
		case TypeInteger:
			t = jsonschema.Integer
		case TypeNumber:
			t = jsonschema.Number
		default:
			t = jsonschema.String
		}
		props[p.Name] = jsonschema.Definition{Type: t, Description: p.Description}
	}
	return &jsonschema.Definition{
		Type:                 jsonschema.Object,
		Description:          s.Description,
		Properties:           props,
		Required:             s.Required(),
		AdditionalProperties: false,
	}
}

// promptSchema is the JSON Schema embedded in prompts for backends without a
// native structured-output parameter.
func (s OutputSchema) promptSchema() (string, error) {
	b, err := json.MarshalIndent(s.JSONSchema(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal output schema: %w", err)
	}
	return string(b), nil
}

// appendTo adds the schema to prompt as an instruction.
func (s OutputSchema) appendTo(prompt string) (string, error) {
	doc, err := s.promptSchema()
	if err != nil {
		return "", err
	}
	return prompt + "\n\nRespond with a single JSON object that matches this JSON Schema exactly:\n" + doc, nil
}
