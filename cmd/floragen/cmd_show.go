// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/LorneSvarc/FlowerGenTool/pkg/ux"
	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/synth"
)

func runShow(_ *cobra.Command, _ []string) error {
	v, err := dna.ParseVariant(showVariant)
	if err != nil {
		return err
	}
	g := current.newGarden(nil)
	defer g.Close()

	rec := g.Record(v)
	if jsonOutput {
		return writeJSON(os.Stdout, rec)
	}
	drawRecord(os.Stdout, rec)
	return nil
}

func runMoods(_ *cobra.Command, _ []string) error {
	ux.Title("Moods")
	for _, m := range synth.Moods {
		ux.KeyValue(m.Slug(), string(m))
	}
	return nil
}
