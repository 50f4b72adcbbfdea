// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/LorneSvarc/FlowerGenTool/pkg/ux"
	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/gallery"
	"github.com/LorneSvarc/FlowerGenTool/services/render"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// drawRecord prints the terminal rendering of rec.
func drawRecord(w io.Writer, rec dna.Record) {
	scene := render.NewTerminal().Render(rec, nil)
	fmt.Fprintln(w, scene.View)
}

// specimenJSON is the --json form of a gallery entry.
type specimenJSON struct {
	ID      string     `json:"id"`
	Variant string     `json:"variant"`
	Name    string     `json:"name"`
	SavedAt time.Time  `json:"savedAt"`
	DNA     dna.Record `json:"dna"`
}

func toSpecimenJSON(sp gallery.Specimen) specimenJSON {
	return specimenJSON{
		ID:      sp.ID.String(),
		Variant: sp.Variant.String(),
		Name:    sp.Name,
		SavedAt: sp.SavedAt,
		DNA:     sp.Record,
	}
}

// writeSpecimenTable prints one row per specimen. Machine personality drops
// the header so the output can be piped into cut or awk.
func writeSpecimenTable(w io.Writer, specimens []gallery.Specimen) {
	if ux.GetPersonality().Level == ux.PersonalityMachine {
		for _, sp := range specimens {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sp.ID, sp.Variant, sp.Name, sp.SavedAt.UTC().Format(time.RFC3339))
		}
		return
	}
	fmt.Fprintln(w, ux.Styles.Bold.Render(fmt.Sprintf("%-36s  %-7s  %-19s  %s", "ID", "VARIANT", "SAVED", "NAME")))
	for _, sp := range specimens {
		fmt.Fprintf(w, "%-36s  %-7s  %-19s  %s\n", sp.ID, sp.Variant, sp.SavedAt.Local().Format(time.DateTime), sp.Name)
	}
}
