package dna

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/LorneSvarc/FlowerGenTool/pkg/validation"
)

// DecodePatch decodes a JSON object into the sparse patch type of variant.
//
// Unknown field names are rejected, and so are internal fields (Sprout
// budPointiness, stemHeight, stemThickness) because no patch type declares
// them. A type mismatch (a string for petalCount, a float for an integer
// field) fails the whole decode; nothing is partially applied.
func DecodePatch(v Variant, data []byte) (Patch, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var (
		p   Patch
		err error
	)
	switch v {
	case VariantFlower:
		var fp FlowerPatch
		err = dec.Decode(&fp)
		p = fp
	case VariantDecay:
		var dp DecayPatch
		err = dec.Decode(&dp)
		p = dp
	case VariantSprout:
		var sp SproutPatch
		err = dec.Decode(&sp)
		p = sp
	default:
		return nil, fmt.Errorf("decode patch: unknown variant %s", v)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s patch: %w", v, err)
	}
	return p, nil
}

// DecodeRecord decodes a complete record of variant v and validates it.
// Unknown fields are rejected. A record that decodes but violates its
// schema is returned with an error matching ErrValidation.
func DecodeRecord(v Variant, data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var (
		rec Record
		err error
	)
	switch v {
	case VariantFlower:
		var d FlowerDNA
		err = dec.Decode(&d)
		rec = d
	case VariantDecay:
		var d DecayDNA
		err = dec.Decode(&d)
		rec = d
	case VariantSprout:
		var d SproutDNA
		err = dec.Decode(&d)
		rec = d
	default:
		return nil, fmt.Errorf("decode record: unknown variant %s", v)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s record: %w", v, err)
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

// =============================================================================
// Field application helpers
// =============================================================================

// patchApplier accumulates rejections while a patch is applied.
type patchApplier struct {
	variant Variant
	lookup  func(string) (FieldSpec, bool)
	errs    []ValidationError
}

func (a *patchApplier) spec(name string) FieldSpec {
	f, ok := a.lookup(name)
	if !ok {
		panic(fmt.Sprintf("dna: patch references undeclared field %s.%s", a.variant, name))
	}
	return f
}

func (a *patchApplier) reject(field string, value any, reason string) {
	a.errs = append(a.errs, ValidationError{Variant: a.variant, Field: field, Value: value, Reason: reason})
}

func (a *patchApplier) setText(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (a *patchApplier) setInt(name string, dst *int, v *int) {
	if v == nil {
		return
	}
	f := a.spec(name)
	clamped := int(f.Clamp(float64(*v)))
	if clamped != *v {
		slog.Debug("dna: clamped edit", "variant", a.variant, "field", name, "value", *v, "clamped", clamped)
	}
	*dst = clamped
}

func (a *patchApplier) setFloat(name string, dst *float64, v *float64) {
	if v == nil {
		return
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		a.reject(name, *v, "not a finite number")
		return
	}
	f := a.spec(name)
	clamped := f.Clamp(*v)
	if clamped != *v {
		slog.Debug("dna: clamped edit", "variant", a.variant, "field", name, "value", *v, "clamped", clamped)
	}
	*dst = clamped
}

func (a *patchApplier) setColor(name string, dst *string, v *string) {
	if v == nil {
		return
	}
	c, err := validation.NormalizeHexColor(*v)
	if err != nil {
		a.reject(name, *v, err.Error())
		return
	}
	*dst = c
}

// setColorList replaces a whole list. A list outside the cardinality bounds or
// holding any invalid colour is rejected as a unit.
func (a *patchApplier) setColorList(name string, dst *[]string, v []string) {
	if v == nil {
		return
	}
	f := a.spec(name)
	if len(v) < f.MinLen || len(v) > f.MaxLen {
		a.reject(name, v, fmt.Sprintf("must contain %d to %d colours", f.MinLen, f.MaxLen))
		return
	}
	out := make([]string, len(v))
	for i, c := range v {
		n, err := validation.NormalizeHexColor(c)
		if err != nil {
			a.reject(name, v, fmt.Sprintf("colour %d: %v", i, err))
			return
		}
		out[i] = n
	}
	*dst = out
}

// fieldNames collects the names of set fields in declaration order.
type fieldNames []string

func (n *fieldNames) add(set bool, name string) {
	if set {
		*n = append(*n, name)
	}
}

// Accepted returns the fields of p that were not rejected, i.e. the fields
// whose value was actually written by ApplyTo.
func Accepted(p Patch, rejected []ValidationError) []string {
	if len(rejected) == 0 {
		return p.Fields()
	}
	skip := make(map[string]struct{}, len(rejected))
	for _, e := range rejected {
		skip[e.Field] = struct{}{}
	}
	var out []string
	for _, name := range p.Fields() {
		if _, ok := skip[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Ptr returns a pointer to v. Convenience for building patches:
//
//	dna.FlowerPatch{Scale: dna.Ptr(1.5)}
func Ptr[T any](v T) *T {
	return &v
}
