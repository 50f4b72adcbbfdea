// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LorneSvarc/FlowerGenTool/cmd/floragen/config"
	"github.com/LorneSvarc/FlowerGenTool/pkg/ux"
)

// --- Global Command Variables ---
var (
	personalityLevel string // UX personality level (full/standard/minimal/machine)
	logLevel         string

	synthPrompt      string
	synthMood        string
	synthInteractive bool
	synthSave        bool
	jsonOutput       bool

	showVariant    string
	galleryVariant string
	gardenLoad     string

	// current is the app built for this invocation, nil until a command runs.
	current *app

	rootCmd = &cobra.Command{
		Use:   "floragen",
		Short: "Grow generative flowers, decay craters and sprouts from a prompt",
		Long: `floragen turns a short piece of inspiration into the DNA of a
generative organism using an LLM, draws it in the terminal, and keeps
the ones you like in a local gallery.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	synthesizeCmd = &cobra.Command{
		Use:     "synthesize [inspiration...]",
		Aliases: []string{"grow"},
		Short:   "Generate Flower DNA from a prompt and an optional mood",
		RunE:    runSynthesize, // Defined in cmd_synthesize.go
	}

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Draw the default DNA of a variant",
		RunE:  runShow, // Defined in cmd_show.go
	}

	moodsCmd = &cobra.Command{
		Use:   "moods",
		Short: "List the moods accepted by synthesize",
		RunE:  runMoods, // Defined in cmd_show.go
	}

	// --- Gallery ---
	galleryCmd = &cobra.Command{
		Use:   "gallery",
		Short: "Manage saved specimens",
	}
	galleryListCmd = &cobra.Command{
		Use:   "list",
		Short: "List saved specimens, newest first",
		RunE:  runGalleryList, // Defined in cmd_gallery.go
	}
	galleryShowCmd = &cobra.Command{
		Use:   "show [specimen_id]",
		Short: "Draw a saved specimen",
		Args:  cobra.ExactArgs(1),
		RunE:  runGalleryShow, // Defined in cmd_gallery.go
	}
	galleryDeleteCmd = &cobra.Command{
		Use:   "delete [specimen_id]",
		Short: "Delete a saved specimen",
		Args:  cobra.ExactArgs(1),
		RunE:  runGalleryDelete, // Defined in cmd_gallery.go
	}
	galleryCompactCmd = &cobra.Command{
		Use:   "compact",
		Short: "Reclaim disk space left by deleted specimens",
		RunE:  runGalleryCompact, // Defined in cmd_gallery.go
	}

	// --- Interactive ---
	gardenCmd = &cobra.Command{
		Use:   "garden",
		Short: "Open the interactive garden",
		RunE:  runGarden, // Defined in cmd_garden.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full (default), standard, minimal, or machine (scripting)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(synthesizeCmd)
	synthesizeCmd.Flags().StringVarP(&synthPrompt, "prompt", "p", "", "Inspiration text (default: the positional arguments)")
	synthesizeCmd.Flags().StringVarP(&synthMood, "mood", "m", "", "Mood label or slug; see 'floragen moods'")
	synthesizeCmd.Flags().BoolVarP(&synthInteractive, "interactive", "i", false, "Ask for the prompt and mood in a form")
	synthesizeCmd.Flags().BoolVar(&synthSave, "save", false, "Save the result to the gallery")
	synthesizeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the DNA as JSON")

	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showVariant, "variant", "v", "flower", "Variant to draw (flower, decay, sprout)")
	showCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the DNA as JSON")

	rootCmd.AddCommand(moodsCmd)

	rootCmd.AddCommand(galleryCmd)
	galleryCmd.AddCommand(galleryListCmd)
	galleryCmd.AddCommand(galleryShowCmd)
	galleryCmd.AddCommand(galleryDeleteCmd)
	galleryCmd.AddCommand(galleryCompactCmd)
	galleryListCmd.Flags().StringVarP(&galleryVariant, "variant", "v", "", "Only list this variant")
	galleryShowCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the DNA as JSON")

	rootCmd.AddCommand(gardenCmd)
	gardenCmd.Flags().StringVar(&gardenLoad, "load", "", "Start from a saved specimen ID")
}

// setup runs before every command: personality, config, logging, metrics.
func setup(cmd *cobra.Command, _ []string) error {
	if personalityLevel != "" {
		ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
	} else {
		ux.InitPersonality()
	}

	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := config.Global
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	a, err := newApp(cfg, cmd.Name() == "garden")
	if err != nil {
		return err
	}
	current = a
	return nil
}
