package synth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/LorneSvarc/FlowerGenTool/pkg/validation"
	"github.com/LorneSvarc/FlowerGenTool/services/dna"
)

// flowerWire is the exact object a backend returns. Pointer fields let the
// validator tell a missing field from a zero value; the tags carry the
// advertised bounds from FlowerSchema.
type flowerWire struct {
	Name           *string  `json:"name" validate:"required"`
	Description    *string  `json:"description" validate:"required"`
	PetalCount     *int     `json:"petalCount" validate:"required,gte=3,lte=24"`
	PetalRows      *int     `json:"petalRows" validate:"required,gte=1,lte=5"`
	PetalLength    *float64 `json:"petalLength" validate:"required,gte=0.5,lte=5"`
	PetalWidth     *float64 `json:"petalWidth" validate:"required,gte=0.2,lte=3"`
	PetalCurvature *float64 `json:"petalCurvature" validate:"required,gte=0,lte=1"`
	PetalColor     *string  `json:"petalColor" validate:"required,dnacolor"`
	CenterColor    *string  `json:"centerColor" validate:"required,dnacolor"`
	StemColor      *string  `json:"stemColor" validate:"required,dnacolor"`
	GlowIntensity  *float64 `json:"glowIntensity" validate:"required,gte=0.1,lte=3"`
	WobbleSpeed    *float64 `json:"wobbleSpeed" validate:"required,gte=0.1,lte=2"`
	Scale          *float64 `json:"scale" validate:"required,gte=0.5,lte=1.5"`
}

// DecodeFlower parses a backend payload into a Flower patch.
//
// # Description
//
// Decoding is strict: unknown fields, wrong primitive types (a string or a
// fraction for an integer), missing fields, values outside the advertised
// bounds, invalid hex colours and trailing data all fail. A single Markdown
// code fence around the object is tolerated since some models add one even
// in JSON mode.
//
// The adapter maps the singular petalColor and stemColor onto one-element
// petalColors and stemColors lists. The patch carries only synthesized
// fields; stemBend and the leaf parameters are never set.
func DecodeFlower(raw string) (dna.FlowerPatch, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return dna.FlowerPatch{}, errors.New("empty response")
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var w flowerWire
	if err := dec.Decode(&w); err != nil {
		return dna.FlowerPatch{}, fmt.Errorf("decode flower json: %w", err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return dna.FlowerPatch{}, errors.New("decode flower json: trailing data after object")
	}

	if err := dna.Validator().Struct(w); err != nil {
		return dna.FlowerPatch{}, describeWireError(err)
	}
	return w.toPatch()
}

// toPatch is the explicit singular-to-list colour adapter.
func (w flowerWire) toPatch() (dna.FlowerPatch, error) {
	colors := make([]string, 3)
	for i, c := range []string{*w.PetalColor, *w.CenterColor, *w.StemColor} {
		n, err := validation.NormalizeHexColor(c)
		if err != nil {
			return dna.FlowerPatch{}, err
		}
		colors[i] = n
	}
	return dna.FlowerPatch{
		Name:           w.Name,
		Description:    w.Description,
		PetalCount:     w.PetalCount,
		PetalRows:      w.PetalRows,
		PetalLength:    w.PetalLength,
		PetalWidth:     w.PetalWidth,
		PetalCurvature: w.PetalCurvature,
		PetalColors:    []string{colors[0]},
		CenterColor:    &colors[1],
		StemColors:     []string{colors[2]},
		GlowIntensity:  w.GlowIntensity,
		WobbleSpeed:    w.WobbleSpeed,
		Scale:          w.Scale,
	}, nil
}

func describeWireError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate flower json: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+": missing")
		case "dnacolor":
			msgs = append(msgs, fmt.Sprintf("%s: %v is not a hex colour", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: %v violates %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("validate flower json: %s", strings.Join(msgs, "; "))
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
