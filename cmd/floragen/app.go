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
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/LorneSvarc/FlowerGenTool/cmd/floragen/config"
	"github.com/LorneSvarc/FlowerGenTool/pkg/logging"
	"github.com/LorneSvarc/FlowerGenTool/pkg/ux"
	"github.com/LorneSvarc/FlowerGenTool/services/gallery"
	"github.com/LorneSvarc/FlowerGenTool/services/garden"
	"github.com/LorneSvarc/FlowerGenTool/services/observability"
	"github.com/LorneSvarc/FlowerGenTool/services/policy_engine"
	"github.com/LorneSvarc/FlowerGenTool/services/store"
	"github.com/LorneSvarc/FlowerGenTool/services/synth"
)

// app holds the services shared by every command of one invocation.
type app struct {
	cfg     config.FloragenConfig
	log     *logging.Logger
	reg     *prometheus.Registry
	metrics *observability.Metrics
}

// newApp installs the process logger and the metrics registry. quiet keeps
// log lines off the terminal (the garden TUI owns the screen); they still
// reach the log file when one is configured.
func newApp(cfg config.FloragenConfig, quiet bool) (*app, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	lc := logging.Config{
		Level:   level,
		Service: "floragen",
		LogDir:  cfg.Logging.Dir,
		Quiet:   quiet,
	}
	if quiet && cfg.Logging.Dir == "" {
		lc.Quiet = false
		lc.Output = io.Discard
	}
	log := logging.New(lc)
	log.Install()

	reg := prometheus.NewRegistry()
	return &app{
		cfg:     cfg,
		log:     log,
		reg:     reg,
		metrics: observability.NewMetrics(reg),
	}, nil
}

// synthesizer builds the configured synthesis client.
func (a *app) synthesizer(ctx context.Context) (*synth.Client, error) {
	gen, err := synth.NewGenerator(ctx, a.cfg.BackendConfig())
	if err != nil {
		return nil, err
	}
	slog.Debug("synthesis backend ready", "backend", gen.Name(), "model", gen.Model())

	opts := []synth.Option{
		synth.WithMetrics(a.metrics),
		synth.WithTimeout(a.cfg.Synthesis.Timeout),
	}
	if a.cfg.Synthesis.ScreenPrompts && gen.Name() != synth.BackendOllama {
		policy, err := policy_engine.NewPolicyEngine()
		if err != nil {
			return nil, fmt.Errorf("load prompt policy: %w", err)
		}
		opts = append(opts, synth.WithPromptPolicy(policy))
	}
	return synth.NewClient(gen, opts...), nil
}

// newGarden creates a garden whose stores report to the shared metrics.
// s may be nil when no synthesis backend is needed.
func (a *app) newGarden(s garden.Synthesizer) *garden.Garden {
	return garden.New(s,
		garden.WithConfig(a.cfg.GardenSettings()),
		garden.WithStoreOptions(store.WithMetrics(a.metrics)),
	)
}

func (a *app) openGallery() (*gallery.Gallery, error) {
	cfg := gallery.DefaultConfig(config.ExpandHome(a.cfg.Gallery.Dir))
	cfg.Logger = a.log.Slog().With("component", "badger")
	g, err := gallery.Open(cfg, gallery.WithMetrics(a.metrics))
	if err != nil {
		return nil, fmt.Errorf("open gallery: %w", err)
	}
	return g, nil
}

// close writes the metrics text file, when enabled, and closes the log.
func (a *app) close() {
	if a.cfg.Metrics.Enabled {
		path := config.ExpandHome(a.cfg.Metrics.TextFile)
		if err := prometheus.WriteToTextfile(path, a.reg); err != nil {
			slog.Warn("failed to write metrics text file", "path", path, "error", err)
		}
	}
	if err := a.log.Close(); err != nil {
		ux.Warning(err.Error())
	}
}
