package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
)

func TestTerminal_Flower(t *testing.T) {
	rec := dna.DefaultFlower()
	rec.PetalColors = []string{"#ff0088", "#00ffff"}

	scene := NewTerminal().Render(rec, nil)

	assert.Equal(t, dna.VariantFlower, scene.Variant)
	assert.Equal(t, rec.Name, scene.Name)
	require.Len(t, scene.Swatches, 3)
	assert.Equal(t, []string{"#ff0088", "#00ffff"}, scene.Swatches[0].Colors)
	assert.Equal(t, []string{"#ffd700"}, scene.Swatches[1].Colors)

	assert.Contains(t, scene.View, rec.Name)
	assert.Equal(t, rec.PetalCount*rec.PetalRows-1, strings.Count(scene.View, "✿"), "one glyph per petal, centre excluded")
	assert.Equal(t, 1, strings.Count(scene.View, "◉"))
	assert.Equal(t, rec.LeafCount, strings.Count(scene.View, "❧")+strings.Count(scene.View, "☙"), "one glyph per leaf")
	assert.Contains(t, scene.View, "glow")
}

func TestTerminal_DoesNotModifyRecord(t *testing.T) {
	rec := dna.DefaultFlower()
	before := rec.Clone()

	scene := NewTerminal().Render(rec, nil)
	scene.Swatches[0].Colors[0] = "#000000"

	assert.Equal(t, before, rec)
}

func TestTerminal_PetalCountCappedByWidth(t *testing.T) {
	rec := dna.DefaultFlower()
	rec.PetalCount = 32
	rec.PetalRows = 1

	scene := (&Terminal{Width: 20}).Render(rec, nil)
	assert.Equal(t, 9, strings.Count(scene.View, "✿"))
}

func TestTerminal_Decay(t *testing.T) {
	rec := dna.DefaultDecay()
	scene := NewTerminal().Render(rec, nil)

	assert.Equal(t, dna.VariantDecay, scene.Variant)
	require.Len(t, scene.Swatches, 2)
	assert.Equal(t, []string{rec.Crack1Color, rec.Crack2Color, rec.Crack3Color}, scene.Swatches[1].Colors)
	assert.Contains(t, scene.View, "╱")
	assert.Contains(t, scene.View, "crack wobble")
	assert.Equal(t, []Part{PartCrater}, scene.Parts())
}

func TestTerminal_Sprout(t *testing.T) {
	scene := NewTerminal().Render(dna.DefaultSprout(), nil)

	assert.Equal(t, dna.VariantSprout, scene.Variant)
	assert.Contains(t, scene.View, "▲▲▲")
	assert.Contains(t, scene.View, "◖")
	assert.Contains(t, scene.View, "◗")
	assert.NotContains(t, scene.View, "stemHeight", "internal parameters are not shown")
}

func TestTerminal_UnknownRecord(t *testing.T) {
	scene := NewTerminal().Render(nil, nil)
	assert.Contains(t, scene.View, "cannot render")
	assert.Empty(t, scene.Parts())
}

func TestScene_Trigger(t *testing.T) {
	var got []Interaction
	scene := NewTerminal().Render(dna.DefaultFlower(), func(i Interaction) {
		got = append(got, i)
	})

	assert.True(t, scene.Trigger(InteractClick, PartPetals))
	assert.False(t, scene.Trigger(InteractClick, PartCrater), "crater is not part of a flower")

	require.Len(t, got, 1)
	assert.Equal(t, Interaction{Variant: dna.VariantFlower, Kind: InteractClick, Part: PartPetals}, got[0])
	assert.Equal(t, "click", got[0].Kind.String())
}

func TestScene_TriggerWithoutCallback(t *testing.T) {
	scene := NewTerminal().Render(dna.DefaultFlower(), nil)
	assert.False(t, scene.Trigger(InteractHover, PartPetals))
}

func TestFunc_AdaptsRenderer(t *testing.T) {
	var r Renderer = Func(func(rec dna.Record, _ func(Interaction)) Scene {
		return Scene{Variant: rec.Variant(), Name: "stub"}
	})
	scene := r.Render(dna.DefaultSprout(), nil)
	assert.Equal(t, dna.VariantSprout, scene.Variant)
	assert.Equal(t, "stub", scene.Name)
}
