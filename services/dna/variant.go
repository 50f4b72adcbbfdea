// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dna defines the parameter records ("DNA") that fully determine how
// a generative organism looks, together with their schemas, defaults and
// sparse update types.
//
// # Description
//
// Three organism variants exist: Flower, Decay and Sprout. Each variant has
// its own record type, a Schema describing every field (kind, inclusive
// range, list cardinality, editability), a default constructor, and a
// sparse Patch type used by every control that edits a record.
//
// Records are values. A record handed to a renderer is never modified;
// every operation that changes a field returns a new record whose slices
// are not shared with the original.
//
// # Variants as a tagged union
//
// Record and Patch are sealed interfaces implemented only by the types in
// this package. Dispatchers switch on the concrete type:
//
//	switch p := patch.(type) {
//	case dna.FlowerPatch:
//	    flowerStore.Merge(p)
//	case dna.DecayPatch:
//	    decayStore.Merge(p)
//	}
package dna

import (
	"fmt"
	"strings"
)

// =============================================================================
// Variant
// =============================================================================

// Variant identifies an organism kind.
type Variant int

const (
	// VariantFlower is the petal-and-stem organism. Only Flower DNA can be
	// synthesized from a prompt.
	VariantFlower Variant = iota

	// VariantDecay is the cracked-earth organism.
	VariantDecay

	// VariantSprout is the seedling organism.
	VariantSprout
)

// Variants lists every variant in display order.
var Variants = []Variant{VariantFlower, VariantDecay, VariantSprout}

// String returns the lowercase variant name used in config, CLI flags and logs.
func (v Variant) String() string {
	switch v {
	case VariantFlower:
		return "flower"
	case VariantDecay:
		return "decay"
	case VariantSprout:
		return "sprout"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// IsValid reports whether v is one of the declared variants.
func (v Variant) IsValid() bool {
	return v >= VariantFlower && v <= VariantSprout
}

// Next returns the following variant, wrapping after Sprout.
func (v Variant) Next() Variant {
	return Variant((int(v) + 1) % len(Variants))
}

// ParseVariant converts a case-insensitive name into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flower":
		return VariantFlower, nil
	case "decay":
		return VariantDecay, nil
	case "sprout":
		return VariantSprout, nil
	default:
		return VariantFlower, fmt.Errorf("unknown variant %q (want flower, decay or sprout)", s)
	}
}

// =============================================================================
// Tagged union
// =============================================================================

// Record is a complete DNA record of one variant.
//
// Implemented only by FlowerDNA, DecayDNA and SproutDNA.
type Record interface {
	// Variant returns the record's tag.
	Variant() Variant

	// Validate checks every field against its declared range and cardinality.
	Validate() error

	isRecord()
}

// Value is the constraint used by generic holders of a concrete record type.
type Value[T any] interface {
	Record

	// Clone returns a deep copy that shares no slices with the receiver.
	Clone() T
}

// Patch is a sparse update for one variant: every field is optional and only
// the fields that are set are applied.
//
// Implemented only by FlowerPatch, DecayPatch and SproutPatch.
type Patch interface {
	// PatchVariant returns the variant this patch applies to.
	PatchVariant() Variant

	// Fields lists the JSON names of the fields set in this patch.
	Fields() []string

	isPatch()
}

// PatchFor is a Patch that can be applied to a record of type T.
type PatchFor[T any] interface {
	Patch

	// ApplyTo returns a new record with every set field replaced. Numeric
	// values are clamped into range; values that cannot be clamped (bad
	// colours, non-finite numbers, out-of-cardinality lists) leave the
	// field unchanged and are reported as ValidationErrors.
	ApplyTo(rec T) (T, []ValidationError)
}
