// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/LorneSvarc/FlowerGenTool/pkg/ux"
	"github.com/LorneSvarc/FlowerGenTool/services/garden"
	"github.com/LorneSvarc/FlowerGenTool/services/garden/tui"
)

var errNoTerminal = errors.New("the garden needs an interactive terminal")

func runGarden(cmd *cobra.Command, _ []string) error {
	if !ux.IsInteractive() {
		return errNoTerminal
	}

	// The garden still opens without a backend; regeneration then reports
	// the missing key instead of the whole view failing.
	var (
		s  garden.Synthesizer
		ts tui.Synthesizer
	)
	client, err := current.synthesizer(cmd.Context())
	if err != nil {
		slog.Warn("garden: synthesis unavailable", "error", err)
	} else {
		s, ts = client, client
	}
	g := current.newGarden(s)
	defer g.Close()

	gal, err := current.openGallery()
	if err != nil {
		return err
	}
	defer gal.Close()

	if gardenLoad != "" {
		sp, err := getSpecimen(cmd.Context(), gal, gardenLoad)
		if err != nil {
			return err
		}
		if _, err := g.Replace(sp.Record); err != nil {
			return fmt.Errorf("load specimen: %w", err)
		}
		if err := g.Select(sp.Variant); err != nil {
			return err
		}
	}

	model := tui.New(g, tui.Config{
		Synth:         ts,
		Gallery:       gal,
		PulseDuration: current.cfg.GardenSettings().PulseDuration,
		Context:       cmd.Context(),
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("garden: %w", err)
	}
	return nil
}
