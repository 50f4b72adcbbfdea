// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package render defines the contract between DNA records and whatever draws
// them, plus a terminal renderer for the CLI.
//
// # Description
//
// A Renderer turns a record into a Scene. It treats the record as read-only
// and reports user interactions with the scene through the onInteract
// callback it was given; it never mutates DNA itself. The caller decides
// what an interaction means (a petal click becomes a glow pulse in the
// garden).
package render

import (
	"slices"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
)

// Part names an interactive region of a scene.
type Part string

const (
	PartPetals     Part = "petals"
	PartCenter     Part = "center"
	PartStem       Part = "stem"
	PartCrater     Part = "crater"
	PartBud        Part = "bud"
	PartCotyledons Part = "cotyledons"
)

// InteractionKind is the gesture a user made on a part.
type InteractionKind int

const (
	InteractClick InteractionKind = iota
	InteractHover
)

// String returns the gesture name.
func (k InteractionKind) String() string {
	if k == InteractHover {
		return "hover"
	}
	return "click"
}

// Interaction is a user gesture on a rendered scene.
type Interaction struct {
	Variant dna.Variant
	Kind    InteractionKind
	Part    Part
}

// Swatch is a labelled group of colours shown by a scene.
type Swatch struct {
	Label  string
	Colors []string
}

// Scene is the output of a Renderer.
type Scene struct {
	Variant     dna.Variant
	Name        string
	Description string
	Swatches    []Swatch
	View        string

	parts      []Part
	onInteract func(Interaction)
}

// Parts returns the interactive parts of the scene.
func (s Scene) Parts() []Part {
	return slices.Clone(s.parts)
}

// Trigger delivers a gesture on part to the scene's interaction callback.
// It returns false, and calls nothing, when part is not interactive in this
// scene or no callback was supplied.
func (s Scene) Trigger(kind InteractionKind, part Part) bool {
	if s.onInteract == nil || !slices.Contains(s.parts, part) {
		return false
	}
	s.onInteract(Interaction{Variant: s.Variant, Kind: kind, Part: part})
	return true
}

// Renderer draws a DNA record. Implementations must not modify rec.
type Renderer interface {
	Render(rec dna.Record, onInteract func(Interaction)) Scene
}

// Func adapts an ordinary function to the Renderer interface.
type Func func(rec dna.Record, onInteract func(Interaction)) Scene

// Render calls f(rec, onInteract).
func (f Func) Render(rec dna.Record, onInteract func(Interaction)) Scene {
	return f(rec, onInteract)
}
