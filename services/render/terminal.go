// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package render

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LorneSvarc/FlowerGenTool/pkg/ux"
	"github.com/LorneSvarc/FlowerGenTool/services/dna"
)

const (
	defaultWidth = 48
	meterWidth   = 16
)

// Terminal renders records as coloured glyph sketches with swatches and
// parameter meters. Geometry is approximate: petal count, rows, stem length
// and crack count are drawn to scale within Width columns.
type Terminal struct {
	// Width caps the sketch width in columns. Zero means 48.
	Width int
}

// NewTerminal returns a Terminal renderer of the default width.
func NewTerminal() *Terminal {
	return &Terminal{Width: defaultWidth}
}

var _ Renderer = (*Terminal)(nil)

// Render implements Renderer.
func (t *Terminal) Render(rec dna.Record, onInteract func(Interaction)) Scene {
	switch r := rec.(type) {
	case dna.FlowerDNA:
		return t.flower(r, onInteract)
	case dna.DecayDNA:
		return t.decay(r, onInteract)
	case dna.SproutDNA:
		return t.sprout(r, onInteract)
	default:
		return Scene{View: ux.Styles.Error.Render(fmt.Sprintf("cannot render %T", rec))}
	}
}

func (t *Terminal) width() int {
	if t.Width <= 0 {
		return defaultWidth
	}
	return t.Width
}

func (t *Terminal) flower(d dna.FlowerDNA, onInteract func(Interaction)) Scene {
	s := Scene{
		Variant:     dna.VariantFlower,
		Name:        d.Name,
		Description: d.Description,
		Swatches: []Swatch{
			{Label: "petals", Colors: slices.Clone(d.PetalColors)},
			{Label: "center", Colors: []string{d.CenterColor}},
			{Label: "stem", Colors: slices.Clone(d.StemColors)},
		},
		parts:      []Part{PartPetals, PartCenter, PartStem},
		onInteract: onInteract,
	}

	var sketch []string
	petals := min(d.PetalCount, t.width()/2)
	mid := d.PetalRows / 2
	for row := 0; row < d.PetalRows; row++ {
		var b strings.Builder
		for i := 0; i < petals; i++ {
			if row == mid && i == petals/2 {
				b.WriteString(paint(d.CenterColor, "◉"))
				continue
			}
			b.WriteString(paint(colorAt(d.PetalColors, i+row), "✿"))
		}
		sketch = append(sketch, center(b.String(), petals))
	}

	stemLen := int(math.Round(2 + d.Scale*2))
	leafEvery := 0
	if d.LeafCount > 0 {
		leafEvery = max(stemLen/(d.LeafCount+1), 1)
	}
	leaves := 0
	for i := 0; i < stemLen; i++ {
		line := paint(colorAt(d.StemColors, i*len(d.StemColors)/stemLen), "│")
		if leafEvery > 0 && leaves < d.LeafCount && (i+1)%leafEvery == 0 {
			if leaves%2 == 0 {
				line = paint(colorAt(d.StemColors, 0), "❧") + line
			} else {
				line += paint(colorAt(d.StemColors, 0), "☙")
			}
			leaves++
		}
		sketch = append(sketch, center(line, petals))
	}

	s.View = t.compose(s, sketch, []meter{
		{"glow", d.GlowIntensity, 0, 3},
		{"wobble", d.WobbleSpeed, 0.1, 2},
		{"scale", d.Scale, 0.2, 2},
		{"curvature", d.PetalCurvature, 0, 1},
		{"stem bend", d.StemBend, -1, 1},
	})
	return s
}

func (t *Terminal) decay(d dna.DecayDNA, onInteract func(Interaction)) Scene {
	s := Scene{
		Variant:     dna.VariantDecay,
		Name:        d.Name,
		Description: d.Description,
		Swatches: []Swatch{
			{Label: "layers", Colors: []string{d.Layer1Color, d.Layer2Color, d.Layer3Color}},
			{Label: "cracks", Colors: []string{d.Crack1Color, d.Crack2Color, d.Crack3Color}},
		},
		parts:      []Part{PartCrater},
		onInteract: onInteract,
	}

	w := min(int(math.Round(d.Size*6)), t.width())
	h := max(int(math.Round(float64(w)/(2*d.AspectRatio))), 3)
	cracks := []string{d.Crack1Color, d.Crack2Color, d.Crack3Color}
	var sketch []string
	for row := 0; row < h; row++ {
		var b strings.Builder
		for col := 0; col < w; col++ {
			// distance from the crater rim, 0 at the edge and 1 at the middle
			depth := 1 - math.Max(math.Abs(2*float64(row)/float64(h-1)-1), math.Abs(2*float64(col)/float64(max(w-1, 1))-1))
			switch {
			case (col*d.CrackCount+row*3)%w == 0:
				b.WriteString(paint(cracks[col%3], "╱"))
			case depth > 0.66:
				b.WriteString(paint(d.Layer3Color, "░"))
			case depth > 0.33:
				b.WriteString(paint(d.Layer2Color, "▒"))
			default:
				b.WriteString(paint(d.Layer1Color, "▓"))
			}
		}
		sketch = append(sketch, b.String())
	}

	s.View = t.compose(s, sketch, []meter{
		{"size", d.Size, 0.5, 4},
		{"aspect", d.AspectRatio, 0.7, 2},
		{"edge wobble", d.EdgeWobble, 0, 1},
		{"cracks", float64(d.CrackCount), 4, 12},
		{"crack wobble", d.CrackWobble, 0, 1},
	})
	return s
}

func (t *Terminal) sprout(d dna.SproutDNA, onInteract func(Interaction)) Scene {
	s := Scene{
		Variant:     dna.VariantSprout,
		Name:        d.Name,
		Description: d.Description,
		Swatches: []Swatch{
			{Label: "bud", Colors: []string{d.BudColor, d.BudStripe2Color, d.BudStripe3Color}},
			{Label: "stem", Colors: []string{d.StemColor}},
			{Label: "cotyledons", Colors: []string{d.Cotyledon1Color, d.Cotyledon2Color}},
		},
		parts:      []Part{PartBud, PartCotyledons},
		onInteract: onInteract,
	}

	bud := paint(d.BudColor, "▲") + paint(d.BudStripe2Color, "▲") + paint(d.BudStripe3Color, "▲")
	lean := strings.Repeat(" ", int(math.Round((d.StemCurve+0.5)*4)))
	sketch := []string{
		lean + bud,
		lean + " " + paint(d.StemColor, "│"),
		"  " + paint(d.StemColor, "│"),
		paint(d.Cotyledon1Color, "◖") + " " + paint(d.StemColor, "│") + " " + paint(d.Cotyledon2Color, "◗"),
	}

	s.View = t.compose(s, sketch, []meter{
		{"bud size", d.BudSize, 0.7, 1.3},
		{"stem curve", d.StemCurve, -0.5, 0.5},
		{"cotyledons", d.CotyledonSize, 0.7, 1.3},
		{"sway speed", d.SwaySpeed, 0.2, 1.5},
		{"sway amount", d.SwayAmount, 0.05, 0.5},
		{"scale", d.Scale, 0.4, 0.7},
	})
	return s
}

type meter struct {
	label     string
	value     float64
	low, high float64
}

func (t *Terminal) compose(s Scene, sketch []string, meters []meter) string {
	var out []string
	out = append(out, ux.Styles.Title.Render(s.Name))
	if s.Description != "" {
		out = append(out, ux.Styles.Muted.Width(t.width()).Render(s.Description))
	}
	out = append(out, "", strings.Join(sketch, "\n"), "")

	for _, sw := range s.Swatches {
		chips := make([]string, len(sw.Colors))
		for i, c := range sw.Colors {
			chips[i] = paint(c, "██") + " " + ux.Styles.Muted.Render(c)
		}
		out = append(out, ux.Styles.Key.Render(sw.Label)+strings.Join(chips, "  "))
	}
	for _, m := range meters {
		line := ux.Styles.Key.Render(m.label) + ux.Bar(m.value, m.low, m.high, meterWidth)
		if ux.ShouldShowColors() {
			line += fmt.Sprintf(" %.2f", m.value)
		}
		out = append(out, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// colorAt returns list[i mod len], or grey for an empty list.
func colorAt(list []string, i int) string {
	if len(list) == 0 {
		return "#808080"
	}
	return list[i%len(list)]
}

func paint(hex, glyph string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(glyph)
}

// center pads a line drawn for a bloom of the given width so the stem sits
// under the middle petal.
func center(line string, bloom int) string {
	pad := (bloom - lipgloss.Width(line)) / 2
	if pad <= 0 {
		return line
	}
	return strings.Repeat(" ", pad) + line
}
