// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dna

import (
	"fmt"

	"github.com/LorneSvarc/FlowerGenTool/pkg/validation"
)

// =============================================================================
// Flower Record
// =============================================================================

// FlowerDNA is the parameter record of the Flower variant.
//
// # Description
//
// Flower is the only variant with list-valued fields: PetalColors and
// StemColors each hold one to three colours, blended along the petal and
// stem by the renderer. Flower is also the only variant that can be
// synthesized from a text prompt.
//
// # Validation
//
// Struct tags carry the declared ranges and are checked by Validate. They
// must agree with flowerFields; TestFlowerSchema_TagsMatchSpecs enforces it.
type FlowerDNA struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	PetalCount      int      `json:"petalCount" validate:"gte=3,lte=32"`
	PetalRows       int      `json:"petalRows" validate:"gte=1,lte=5"`
	PetalLength     float64  `json:"petalLength" validate:"gte=0.5,lte=5"`
	PetalWidth      float64  `json:"petalWidth" validate:"gte=0.1,lte=3"`
	PetalCurvature  float64  `json:"petalCurvature" validate:"gte=0,lte=1"`
	PetalColors     []string `json:"petalColors" validate:"min=1,max=3,dive,dnacolor"`
	CenterColor     string   `json:"centerColor" validate:"dnacolor"`
	StemColors      []string `json:"stemColors" validate:"min=1,max=3,dive,dnacolor"`
	GlowIntensity   float64  `json:"glowIntensity" validate:"gte=0,lte=3"`
	WobbleSpeed     float64  `json:"wobbleSpeed" validate:"gte=0.1,lte=2"`
	Scale           float64  `json:"scale" validate:"gte=0.2,lte=2"`
	StemBend        float64  `json:"stemBend" validate:"gte=-1,lte=1"`
	LeafCount       int      `json:"leafCount" validate:"gte=0,lte=3"`
	LeafSize        float64  `json:"leafSize" validate:"gte=0.5,lte=2"`
	LeafOrientation float64  `json:"leafOrientation"`
	LeafAngle       float64  `json:"leafAngle" validate:"gte=0,lte=1"`
}

// DefaultFlower returns the Flower shown at startup.
func DefaultFlower() FlowerDNA {
	return FlowerDNA{
		Name:            "Neon Primrose",
		Description:     "A digital bloom that pulses with the rhythm of the cybernetic garden.",
		PetalCount:      8,
		PetalRows:       2,
		PetalLength:     2.5,
		PetalWidth:      1.2,
		PetalCurvature:  0.5,
		PetalColors:     []string{"#ff0088"},
		CenterColor:     "#ffd700",
		StemColors:      []string{"#228b22"},
		GlowIntensity:   1.5,
		WobbleSpeed:     0.8,
		Scale:           1.0,
		StemBend:        0.2,
		LeafCount:       2,
		LeafSize:        1.0,
		LeafOrientation: 0,
		LeafAngle:       0.5,
	}
}

// Variant implements Record.
func (FlowerDNA) Variant() Variant { return VariantFlower }

// Validate implements Record.
func (d FlowerDNA) Validate() error { return Flower.Validate(d) }

func (FlowerDNA) isRecord() {}

// Clone implements Value.
func (d FlowerDNA) Clone() FlowerDNA {
	d.PetalColors = cloneStrings(d.PetalColors)
	d.StemColors = cloneStrings(d.StemColors)
	return d
}

// =============================================================================
// Flower Schema
// =============================================================================

var flowerFields = []FieldSpec{
	textSpec("name"),
	textSpec("description"),
	intSpec("petalCount", 3, 32),
	intSpec("petalRows", 1, 5),
	floatSpec("petalLength", 0.5, 5),
	floatSpec("petalWidth", 0.1, 3),
	floatSpec("petalCurvature", 0, 1),
	colorListSpec("petalColors", 1, 3),
	colorSpec("centerColor"),
	colorListSpec("stemColors", 1, 3),
	floatSpec("glowIntensity", 0, 3),
	floatSpec("wobbleSpeed", 0.1, 2),
	floatSpec("scale", 0.2, 2).withControl(0.5, 2),
	floatSpec("stemBend", -1, 1),
	intSpec("leafCount", 0, 3),
	floatSpec("leafSize", 0.5, 2),
	unboundedFloatSpec("leafOrientation"),
	floatSpec("leafAngle", 0, 1),
}

// Flower is the Flower variant schema.
var Flower = newSchema(VariantFlower, flowerFields, DefaultFlower,
	[]NumericField[FlowerDNA]{
		numeric(FieldSpec{Name: "petalCount"},
			func(d FlowerDNA) float64 { return float64(d.PetalCount) },
			func(d *FlowerDNA, v float64) { d.PetalCount = int(v) }),
		numeric(FieldSpec{Name: "petalRows"},
			func(d FlowerDNA) float64 { return float64(d.PetalRows) },
			func(d *FlowerDNA, v float64) { d.PetalRows = int(v) }),
		numeric(FieldSpec{Name: "petalLength"},
			func(d FlowerDNA) float64 { return d.PetalLength },
			func(d *FlowerDNA, v float64) { d.PetalLength = v }),
		numeric(FieldSpec{Name: "petalWidth"},
			func(d FlowerDNA) float64 { return d.PetalWidth },
			func(d *FlowerDNA, v float64) { d.PetalWidth = v }),
		numeric(FieldSpec{Name: "petalCurvature"},
			func(d FlowerDNA) float64 { return d.PetalCurvature },
			func(d *FlowerDNA, v float64) { d.PetalCurvature = v }),
		numeric(FieldSpec{Name: "glowIntensity"},
			func(d FlowerDNA) float64 { return d.GlowIntensity },
			func(d *FlowerDNA, v float64) { d.GlowIntensity = v }),
		numeric(FieldSpec{Name: "wobbleSpeed"},
			func(d FlowerDNA) float64 { return d.WobbleSpeed },
			func(d *FlowerDNA, v float64) { d.WobbleSpeed = v }),
		numeric(FieldSpec{Name: "scale"},
			func(d FlowerDNA) float64 { return d.Scale },
			func(d *FlowerDNA, v float64) { d.Scale = v }),
		numeric(FieldSpec{Name: "stemBend"},
			func(d FlowerDNA) float64 { return d.StemBend },
			func(d *FlowerDNA, v float64) { d.StemBend = v }),
		numeric(FieldSpec{Name: "leafCount"},
			func(d FlowerDNA) float64 { return float64(d.LeafCount) },
			func(d *FlowerDNA, v float64) { d.LeafCount = int(v) }),
		numeric(FieldSpec{Name: "leafSize"},
			func(d FlowerDNA) float64 { return d.LeafSize },
			func(d *FlowerDNA, v float64) { d.LeafSize = v }),
		numeric(FieldSpec{Name: "leafOrientation"},
			func(d FlowerDNA) float64 { return d.LeafOrientation },
			func(d *FlowerDNA, v float64) { d.LeafOrientation = v }),
		numeric(FieldSpec{Name: "leafAngle"},
			func(d FlowerDNA) float64 { return d.LeafAngle },
			func(d *FlowerDNA, v float64) { d.LeafAngle = v }),
	},
	func(d FlowerDNA) FlowerDNA {
		d.PetalColors = normColors(d.PetalColors)
		d.StemColors = normColors(d.StemColors)
		d.CenterColor = normColor(d.CenterColor)
		return d
	},
)

// =============================================================================
// Flower Patch
// =============================================================================

// FlowerPatch is a sparse update of FlowerDNA. Nil fields are left alone.
//
// PetalColors and StemColors replace the whole list; a replacement outside
// one to three colours is rejected. Use the colour-list operations on
// FlowerDNA for add/remove/set-at-index edits.
type FlowerPatch struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	PetalCount      *int     `json:"petalCount,omitempty"`
	PetalRows       *int     `json:"petalRows,omitempty"`
	PetalLength     *float64 `json:"petalLength,omitempty"`
	PetalWidth      *float64 `json:"petalWidth,omitempty"`
	PetalCurvature  *float64 `json:"petalCurvature,omitempty"`
	PetalColors     []string `json:"petalColors,omitempty"`
	CenterColor     *string  `json:"centerColor,omitempty"`
	StemColors      []string `json:"stemColors,omitempty"`
	GlowIntensity   *float64 `json:"glowIntensity,omitempty"`
	WobbleSpeed     *float64 `json:"wobbleSpeed,omitempty"`
	Scale           *float64 `json:"scale,omitempty"`
	StemBend        *float64 `json:"stemBend,omitempty"`
	LeafCount       *int     `json:"leafCount,omitempty"`
	LeafSize        *float64 `json:"leafSize,omitempty"`
	LeafOrientation *float64 `json:"leafOrientation,omitempty"`
	LeafAngle       *float64 `json:"leafAngle,omitempty"`
}

// PatchVariant implements Patch.
func (FlowerPatch) PatchVariant() Variant { return VariantFlower }

func (FlowerPatch) isPatch() {}

// Fields implements Patch.
func (p FlowerPatch) Fields() []string {
	var n fieldNames
	n.add(p.Name != nil, "name")
	n.add(p.Description != nil, "description")
	n.add(p.PetalCount != nil, "petalCount")
	n.add(p.PetalRows != nil, "petalRows")
	n.add(p.PetalLength != nil, "petalLength")
	n.add(p.PetalWidth != nil, "petalWidth")
	n.add(p.PetalCurvature != nil, "petalCurvature")
	n.add(p.PetalColors != nil, "petalColors")
	n.add(p.CenterColor != nil, "centerColor")
	n.add(p.StemColors != nil, "stemColors")
	n.add(p.GlowIntensity != nil, "glowIntensity")
	n.add(p.WobbleSpeed != nil, "wobbleSpeed")
	n.add(p.Scale != nil, "scale")
	n.add(p.StemBend != nil, "stemBend")
	n.add(p.LeafCount != nil, "leafCount")
	n.add(p.LeafSize != nil, "leafSize")
	n.add(p.LeafOrientation != nil, "leafOrientation")
	n.add(p.LeafAngle != nil, "leafAngle")
	return n
}

// ApplyTo implements PatchFor[FlowerDNA].
func (p FlowerPatch) ApplyTo(rec FlowerDNA) (FlowerDNA, []ValidationError) {
	out := rec.Clone()
	a := patchApplier{variant: VariantFlower, lookup: Flower.Field}

	a.setText(&out.Name, p.Name)
	a.setText(&out.Description, p.Description)
	a.setInt("petalCount", &out.PetalCount, p.PetalCount)
	a.setInt("petalRows", &out.PetalRows, p.PetalRows)
	a.setFloat("petalLength", &out.PetalLength, p.PetalLength)
	a.setFloat("petalWidth", &out.PetalWidth, p.PetalWidth)
	a.setFloat("petalCurvature", &out.PetalCurvature, p.PetalCurvature)
	a.setColorList("petalColors", &out.PetalColors, p.PetalColors)
	a.setColor("centerColor", &out.CenterColor, p.CenterColor)
	a.setColorList("stemColors", &out.StemColors, p.StemColors)
	a.setFloat("glowIntensity", &out.GlowIntensity, p.GlowIntensity)
	a.setFloat("wobbleSpeed", &out.WobbleSpeed, p.WobbleSpeed)
	a.setFloat("scale", &out.Scale, p.Scale)
	a.setFloat("stemBend", &out.StemBend, p.StemBend)
	a.setInt("leafCount", &out.LeafCount, p.LeafCount)
	a.setFloat("leafSize", &out.LeafSize, p.LeafSize)
	a.setFloat("leafOrientation", &out.LeafOrientation, p.LeafOrientation)
	a.setFloat("leafAngle", &out.LeafAngle, p.LeafAngle)

	return out, a.errs
}

// =============================================================================
// Colour lists
// =============================================================================

// ColorList names one of the Flower's list-valued colour fields.
type ColorList int

const (
	// PetalColors is FlowerDNA.PetalColors.
	PetalColors ColorList = iota
	// StemColors is FlowerDNA.StemColors.
	StemColors
)

// String returns the JSON field name.
func (l ColorList) String() string {
	if l == StemColors {
		return "stemColors"
	}
	return "petalColors"
}

// DefaultAddColor is the colour appended by an "add colour" control when
// the caller does not pick one: white for petals, leaf green for stems.
func (l ColorList) DefaultAddColor() string {
	if l == StemColors {
		return "#228b22"
	}
	return "#ffffff"
}

// Colors returns a copy of the list.
func (d FlowerDNA) Colors(l ColorList) []string {
	if l == StemColors {
		return cloneStrings(d.StemColors)
	}
	return cloneStrings(d.PetalColors)
}

func (d FlowerDNA) withColors(l ColorList, colors []string) FlowerDNA {
	out := d.Clone()
	if l == StemColors {
		out.StemColors = colors
	} else {
		out.PetalColors = colors
	}
	return out
}

func (d FlowerDNA) colorBounds(l ColorList) FieldSpec {
	f, _ := Flower.Field(l.String())
	return f
}

// WithColorAdded appends a colour. A list already at its maximum length is
// left unchanged and a ValidationError is returned.
func (d FlowerDNA) WithColorAdded(l ColorList, color string) (FlowerDNA, error) {
	spec := d.colorBounds(l)
	current := d.Colors(l)
	if len(current) >= spec.MaxLen {
		return d, ValidationError{Variant: VariantFlower, Field: l.String(), Value: color,
			Reason: fmt.Sprintf("already holds the maximum of %d colours", spec.MaxLen)}
	}
	c, err := validation.NormalizeHexColor(color)
	if err != nil {
		return d, ValidationError{Variant: VariantFlower, Field: l.String(), Value: color, Reason: err.Error()}
	}
	return d.withColors(l, append(current, c)), nil
}

// WithColorRemoved removes the colour at index. A list at its minimum
// length, or an index out of range, leaves the record unchanged.
func (d FlowerDNA) WithColorRemoved(l ColorList, index int) (FlowerDNA, error) {
	spec := d.colorBounds(l)
	current := d.Colors(l)
	if len(current) <= spec.MinLen {
		return d, ValidationError{Variant: VariantFlower, Field: l.String(), Value: index,
			Reason: fmt.Sprintf("must keep at least %d colour", spec.MinLen)}
	}
	if index < 0 || index >= len(current) {
		return d, ValidationError{Variant: VariantFlower, Field: l.String(), Value: index, Reason: "index out of range"}
	}
	return d.withColors(l, append(current[:index], current[index+1:]...)), nil
}

// WithColorSet replaces the colour at index. The list length never changes.
func (d FlowerDNA) WithColorSet(l ColorList, index int, color string) (FlowerDNA, error) {
	current := d.Colors(l)
	if index < 0 || index >= len(current) {
		return d, ValidationError{Variant: VariantFlower, Field: l.String(), Value: index, Reason: "index out of range"}
	}
	c, err := validation.NormalizeHexColor(color)
	if err != nil {
		return d, ValidationError{Variant: VariantFlower, Field: l.String(), Value: color, Reason: err.Error()}
	}
	current[index] = c
	return d.withColors(l, current), nil
}
