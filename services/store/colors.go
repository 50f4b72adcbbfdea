package store

import (
	"github.com/LorneSvarc/FlowerGenTool/services/dna"
)

// AddColor appends a colour to one of the Flower's colour lists. An empty
// color uses the list's default ("#ffffff" for petals, "#228b22" for stems).
// A full list is left unchanged and a dna.ValidationError is returned.
func AddColor(s *Store[dna.FlowerDNA], l dna.ColorList, color string) (dna.FlowerDNA, error) {
	if color == "" {
		color = l.DefaultAddColor()
	}
	return s.update(opColor, []string{l.String()}, func(d dna.FlowerDNA) (dna.FlowerDNA, error) {
		return d.WithColorAdded(l, color)
	})
}

// RemoveColor removes the colour at index. The last remaining colour cannot
// be removed.
func RemoveColor(s *Store[dna.FlowerDNA], l dna.ColorList, index int) (dna.FlowerDNA, error) {
	return s.update(opColor, []string{l.String()}, func(d dna.FlowerDNA) (dna.FlowerDNA, error) {
		return d.WithColorRemoved(l, index)
	})
}

// SetColor replaces the colour at index.
func SetColor(s *Store[dna.FlowerDNA], l dna.ColorList, index int, color string) (dna.FlowerDNA, error) {
	return s.update(opColor, []string{l.String()}, func(d dna.FlowerDNA) (dna.FlowerDNA, error) {
		return d.WithColorSet(l, index, color)
	})
}
