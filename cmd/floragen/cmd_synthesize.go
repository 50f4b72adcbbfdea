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
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/LorneSvarc/FlowerGenTool/pkg/ux"
	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/synth"
)

// errNotInteractive is returned by --interactive without a terminal.
var errNotInteractive = errors.New("--interactive needs a terminal; pass --prompt and --mood instead")

func runSynthesize(cmd *cobra.Command, args []string) error {
	prompt := synthPrompt
	if prompt == "" {
		prompt = strings.Join(args, " ")
	}
	mood, err := synth.ParseMood(synthMood)
	if err != nil {
		return fmt.Errorf("%w (see 'floragen moods')", err)
	}

	if synthInteractive {
		if !ux.IsInteractive() {
			return errNotInteractive
		}
		if prompt, mood, err = askInspiration(prompt, mood); err != nil {
			return err
		}
	}

	client, err := current.synthesizer(cmd.Context())
	if err != nil {
		return err
	}
	g := current.newGarden(client)
	defer g.Close()

	var flower dna.FlowerDNA
	err = ux.WithSpinner("Growing a flower with "+client.Backend(), func() error {
		var err error
		flower, err = g.Generate(cmd.Context(), prompt, mood)
		return err
	})
	if err != nil {
		return err
	}

	if synthSave {
		gal, err := current.openGallery()
		if err != nil {
			return err
		}
		defer gal.Close()
		sp, err := gal.Save(cmd.Context(), flower)
		if err != nil {
			return err
		}
		if !jsonOutput {
			ux.Success(fmt.Sprintf("Saved %q as %s", sp.Name, sp.ID))
		}
	}

	if jsonOutput {
		return writeJSON(os.Stdout, flower)
	}
	drawRecord(os.Stdout, flower)
	return nil
}

// askInspiration shows a form prefilled with the flag values.
func askInspiration(prompt string, mood synth.Mood) (string, synth.Mood, error) {
	options := []huh.Option[synth.Mood]{huh.NewOption("No mood", synth.Mood(""))}
	for _, m := range synth.Moods {
		options = append(options, huh.NewOption(string(m), m))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Inspiration").
				Description("A few words, a scene, a feeling. Leave empty to be surprised.").
				CharLimit(280).
				Value(&prompt),
			huh.NewSelect[synth.Mood]().
				Title("Mood").
				Options(options...).
				Value(&mood),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", "", errors.New("cancelled")
		}
		return "", "", fmt.Errorf("inspiration form: %w", err)
	}
	return strings.TrimSpace(prompt), mood, nil
}
