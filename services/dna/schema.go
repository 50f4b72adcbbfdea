// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dna

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/LorneSvarc/FlowerGenTool/pkg/validation"
)

// =============================================================================
// Field Kinds
// =============================================================================

// Kind is the value type of a DNA field.
type Kind int

const (
	// KindText is free text (name, description).
	KindText Kind = iota
	// KindInt is an integer-valued numeric field.
	KindInt
	// KindFloat is a real-valued numeric field.
	KindFloat
	// KindColor is a single hex colour.
	KindColor
	// KindColorList is a bounded list of hex colours.
	KindColorList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindColor:
		return "color"
	case KindColorList:
		return "color[]"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the kind is KindInt or KindFloat.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// =============================================================================
// Field Specs
// =============================================================================

// FieldSpec declares one field of a variant schema.
//
// # Fields
//
//   - Name: JSON name, e.g. "petalCount".
//   - Kind: value type.
//   - Min, Max: inclusive range for numeric fields when Bounded.
//   - ControlMin, ControlMax: narrower range offered by slider controls
//     (equal to Min/Max unless the UI restricts further, as with Flower scale).
//   - MinLen, MaxLen: cardinality for KindColorList.
//   - Editable: false for internal or fixed fields that no control may set.
type FieldSpec struct {
	Name       string
	Kind       Kind
	Min        float64
	Max        float64
	Bounded    bool
	ControlMin float64
	ControlMax float64
	MinLen     int
	MaxLen     int
	Editable   bool
}

// Clamp forces v into the field's declared range. Integer fields are rounded
// first. Unbounded fields return v unchanged.
func (f FieldSpec) Clamp(v float64) float64 {
	if f.Kind == KindInt {
		v = math.Round(v)
	}
	if !f.Bounded {
		return v
	}
	return math.Min(math.Max(v, f.Min), f.Max)
}

// Contains reports whether v lies inside the declared range.
func (f FieldSpec) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if !f.Bounded {
		return true
	}
	return v >= f.Min && v <= f.Max
}

func textSpec(name string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindText, Editable: true}
}

func intSpec(name string, min, max float64) FieldSpec {
	return FieldSpec{Name: name, Kind: KindInt, Min: min, Max: max, Bounded: true,
		ControlMin: min, ControlMax: max, Editable: true}
}

func floatSpec(name string, min, max float64) FieldSpec {
	return FieldSpec{Name: name, Kind: KindFloat, Min: min, Max: max, Bounded: true,
		ControlMin: min, ControlMax: max, Editable: true}
}

func unboundedFloatSpec(name string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindFloat, Editable: true}
}

func colorSpec(name string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindColor, Editable: true}
}

func colorListSpec(name string, minLen, maxLen int) FieldSpec {
	return FieldSpec{Name: name, Kind: KindColorList, MinLen: minLen, MaxLen: maxLen, Editable: true}
}

// withControl narrows the slider range.
func (f FieldSpec) withControl(min, max float64) FieldSpec {
	f.ControlMin, f.ControlMax = min, max
	return f
}

// internal marks a field as not externally editable.
func (f FieldSpec) internal() FieldSpec {
	f.Editable = false
	return f
}

// =============================================================================
// Numeric accessors
// =============================================================================

// NumericField reads and writes one numeric field of a record by name.
// Used by nudge and pulse, which address fields by name at runtime.
type NumericField[T any] struct {
	Spec FieldSpec
	get  func(T) float64
	set  func(*T, float64)
}

// Get returns the field value as float64.
func (f NumericField[T]) Get(rec T) float64 {
	return f.get(rec)
}

// With returns a copy of rec with the field set to f.Spec.Clamp(v).
// The caller must reject non-finite v.
func (f NumericField[T]) With(rec T, v float64) T {
	f.set(&rec, f.Spec.Clamp(v))
	return rec
}

func numeric[T any](spec FieldSpec, get func(T) float64, set func(*T, float64)) NumericField[T] {
	return NumericField[T]{Spec: spec, get: get, set: set}
}

// =============================================================================
// Schema
// =============================================================================

// Schema is the static contract of one variant.
//
// # Description
//
// Lists the variant's fields in display order, produces the default record,
// validates records and exposes numeric accessors by field name. Schemas are
// immutable package-level values: Flower, Decay and Sprout.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
type Schema[T Value[T]] struct {
	variant   Variant
	fields    []FieldSpec
	index     map[string]int
	numeric   map[string]NumericField[T]
	defaults  func() T
	normalize func(T) T
}

func newSchema[T Value[T]](v Variant, fields []FieldSpec, defaults func() T,
	accessors []NumericField[T], normalize func(T) T) *Schema[T] {

	s := &Schema[T]{
		variant:   v,
		fields:    fields,
		index:     make(map[string]int, len(fields)),
		numeric:   make(map[string]NumericField[T], len(accessors)),
		defaults:  defaults,
		normalize: normalize,
	}
	for i, f := range fields {
		s.index[f.Name] = i
	}
	for _, a := range accessors {
		i, ok := s.index[a.Spec.Name]
		if !ok || !fields[i].Kind.IsNumeric() {
			panic(fmt.Sprintf("dna: accessor for undeclared numeric field %s.%s", v, a.Spec.Name))
		}
		a.Spec = fields[i]
		s.numeric[a.Spec.Name] = a
	}
	return s
}

// Variant returns the schema's variant.
func (s *Schema[T]) Variant() Variant {
	return s.variant
}

// Fields returns a copy of the field specs in display order.
func (s *Schema[T]) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field spec by JSON name.
func (s *Schema[T]) Field(name string) (FieldSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return s.fields[i], true
}

// Numeric returns the accessor for a numeric field.
func (s *Schema[T]) Numeric(name string) (NumericField[T], bool) {
	f, ok := s.numeric[name]
	return f, ok
}

// Default returns a fresh, fully valid default record.
func (s *Schema[T]) Default() T {
	return s.defaults()
}

// Normalize returns a copy of rec with every numeric field clamped into
// range (non-finite values replaced by the default), fixed fields reset and
// colours canonicalised. Invalid colours and list cardinality cannot be
// repaired here; Validate reports them.
func (s *Schema[T]) Normalize(rec T) T {
	out := rec.Clone()
	def := s.defaults()
	for _, f := range s.numeric {
		v := f.Get(out)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = f.Get(def)
		}
		out = f.With(out, v)
	}
	if s.normalize != nil {
		out = s.normalize(out)
	}
	return out
}

// Validate checks rec against the schema's struct tags and rejects
// non-finite numbers in unbounded fields.
func (s *Schema[T]) Validate(rec T) error {
	var errs []ValidationError
	for _, f := range s.fields {
		nf, ok := s.numeric[f.Name]
		if !ok {
			continue
		}
		if v := nf.Get(rec); math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, ValidationError{Variant: s.variant, Field: f.Name, Value: v, Reason: "not a finite number"})
		}
	}
	if err := recordValidate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate %s: %w", s.variant, err)
		}
		for _, fe := range verrs {
			errs = append(errs, ValidationError{
				Variant: s.variant,
				Field:   fieldPath(fe),
				Value:   fe.Value(),
				Reason:  describeTag(fe),
			})
		}
	}
	return JoinValidation(errs)
}

// =============================================================================
// Shared Validator Instance
// =============================================================================

// recordValidate validates DNA record struct tags. Field names in errors are
// the JSON names so they match FieldSpec.Name.
var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New(validator.WithRequiredStructEnabled())
	recordValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = recordValidate.RegisterValidation("dnacolor", validateColor)
}

// validateColor accepts "#rgb" and "#rrggbb" hex colours.
func validateColor(fl validator.FieldLevel) bool {
	return validation.IsHexColor(fl.Field().String())
}

// Validator exposes the shared validator for packages that validate wire
// types carrying DNA colours (the "dnacolor" tag).
func Validator() *validator.Validate {
	return recordValidate
}

// fieldPath strips the struct name from a namespace like
// "FlowerDNA.petalColors[2]" and drops the index.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.IndexByte(ns, '['); i >= 0 {
		ns = ns[:i]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	if fe.Kind() == reflect.Slice {
		switch fe.Tag() {
		case "min":
			return "must contain at least " + fe.Param() + " colours"
		case "max":
			return "must contain at most " + fe.Param() + " colours"
		}
	}
	switch fe.Tag() {
	case "gte", "min":
		return "must be >= " + fe.Param()
	case "lte", "max":
		return "must be <= " + fe.Param()
	case "eq":
		return "must equal " + fe.Param()
	case "dnacolor":
		return "must be a #rgb or #rrggbb colour"
	case "required":
		return "is required"
	default:
		return "failed " + fe.Tag()
	}
}

// normColor canonicalises a colour, leaving invalid input for Validate to report.
func normColor(c string) string {
	if n, err := validation.NormalizeHexColor(c); err == nil {
		return n
	}
	return c
}

func normColors(cs []string) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = normColor(c)
	}
	return out
}
