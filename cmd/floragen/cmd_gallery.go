// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LorneSvarc/FlowerGenTool/pkg/ux"
	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/gallery"
)

func runGalleryList(cmd *cobra.Command, _ []string) error {
	var variants []dna.Variant
	if galleryVariant != "" {
		v, err := dna.ParseVariant(galleryVariant)
		if err != nil {
			return err
		}
		variants = append(variants, v)
	}

	gal, err := current.openGallery()
	if err != nil {
		return err
	}
	defer gal.Close()

	specimens, err := gal.List(cmd.Context(), variants...)
	if err != nil {
		return err
	}
	if len(specimens) == 0 {
		ux.Muted("The gallery is empty. Save a specimen with 'floragen synthesize --save'.")
		return nil
	}
	writeSpecimenTable(os.Stdout, specimens)
	return nil
}

func runGalleryShow(cmd *cobra.Command, args []string) error {
	sp, err := loadSpecimen(cmd, args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(os.Stdout, toSpecimenJSON(sp))
	}
	ux.KeyValue("id", sp.ID.String())
	ux.KeyValue("saved", sp.SavedAt.Local().Format("2006-01-02 15:04:05"))
	drawRecord(os.Stdout, sp.Record)
	return nil
}

func runGalleryDelete(cmd *cobra.Command, args []string) error {
	id, err := gallery.ParseID(args[0])
	if err != nil {
		return err
	}
	gal, err := current.openGallery()
	if err != nil {
		return err
	}
	defer gal.Close()

	if err := gal.Delete(cmd.Context(), id); err != nil {
		return err
	}
	ux.Success(fmt.Sprintf("Deleted %s", id))
	return nil
}

func runGalleryCompact(cmd *cobra.Command, _ []string) error {
	gal, err := current.openGallery()
	if err != nil {
		return err
	}
	defer gal.Close()

	n, err := gal.Compact(cmd.Context())
	if err != nil {
		return err
	}
	if n == 0 {
		ux.Muted("Nothing to reclaim.")
		return nil
	}
	ux.Success(fmt.Sprintf("Rewrote %d value log file(s)", n))
	return nil
}

// loadSpecimen opens the gallery just long enough to read one specimen.
func loadSpecimen(cmd *cobra.Command, rawID string) (gallery.Specimen, error) {
	gal, err := current.openGallery()
	if err != nil {
		return gallery.Specimen{}, err
	}
	defer gal.Close()
	return getSpecimen(cmd.Context(), gal, rawID)
}

func getSpecimen(ctx context.Context, gal *gallery.Gallery, rawID string) (gallery.Specimen, error) {
	id, err := gallery.ParseID(rawID)
	if err != nil {
		return gallery.Specimen{}, err
	}
	return gal.Get(ctx, id)
}
