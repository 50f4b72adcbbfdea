// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tui provides the interactive garden view.
//
// # Description
//
// The model draws the active organism with a render.Renderer and routes
// keys to the garden: space/r regenerates the Flower, up/down nudge its
// scale, tab switches variant, p clicks the petals and / edits the
// inspiration prompt. Synthesis runs as a tea.Cmd so the view stays live
// while the backend answers; the result comes back as a message and is
// routed through the garden's request tag, so anything abandoned in the
// meantime is dropped.
//
// # Thread Safety
//
// The model is designed for single-threaded use within the bubbletea event
// loop. The garden it drives is safe for concurrent use.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LorneSvarc/FlowerGenTool/pkg/ux"
	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/gallery"
	"github.com/LorneSvarc/FlowerGenTool/services/garden"
	"github.com/LorneSvarc/FlowerGenTool/services/render"
	"github.com/LorneSvarc/FlowerGenTool/services/synth"
)

// =============================================================================
// Dependencies
// =============================================================================

// Synthesizer is the part of synth.Client the view needs.
type Synthesizer interface {
	Busy() bool
	Synthesize(ctx context.Context, req synth.Request) (*synth.Result, error)
}

// Saver stores a record in the gallery.
type Saver interface {
	Save(ctx context.Context, rec dna.Record) (gallery.Specimen, error)
}

// =============================================================================
// Messages
// =============================================================================

// synthDoneMsg carries a settled synthesis call back into the event loop.
type synthDoneMsg struct {
	req synth.Request
	res *synth.Result
	err error
}

// pulseDoneMsg asks for a redraw once a glow pulse has lapsed.
type pulseDoneMsg struct{}

type savedMsg struct {
	specimen gallery.Specimen
	err      error
}

// =============================================================================
// Config
// =============================================================================

// Config configures the garden view.
type Config struct {
	// Renderer draws the active record. Default: render.NewTerminal().
	Renderer render.Renderer

	// Synth runs regeneration. Nil disables it.
	Synth Synthesizer

	// Gallery saves specimens. Nil disables saving.
	Gallery Saver

	// PulseDuration matches the garden's pulse so the view redraws when the
	// glow restores. Default 200ms.
	PulseDuration time.Duration

	// Context bounds synthesis and gallery calls. Default: Background.
	Context context.Context
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model for the interactive garden.
type Model struct {
	cfg    Config
	garden *garden.Garden
	input  textinput.Model

	editing  bool
	growing  bool
	quitting bool
	status   string
	failed   bool
	width    int
}

// New creates a garden view over g.
//
// # Inputs
//
//   - g: the garden to drive. Its inspiration seeds the prompt editor.
//   - cfg: renderer, synthesis and gallery wiring.
//
// # Outputs
//
//   - Model: ready for tea.NewProgram.
func New(g *garden.Garden, cfg Config) Model {
	if cfg.Renderer == nil {
		cfg.Renderer = render.NewTerminal()
	}
	if cfg.PulseDuration <= 0 {
		cfg.PulseDuration = garden.DefaultConfig().PulseDuration
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}

	ti := textinput.New()
	ti.Placeholder = "moonlit tide pools, a quiet reef..."
	ti.Prompt = string(ux.IconArrow) + " "
	ti.CharLimit = 280
	ti.Width = 60

	return Model{cfg: cfg, garden: g, input: ti}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditor(msg)
		}
		return m.handleKey(msg)

	case synthDoneMsg:
		m.growing = false
		return m.finishSynthesis(msg), nil

	case pulseDoneMsg:
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus(fmt.Sprintf("saved %q as %s", msg.specimen.Name, msg.specimen.ID))
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		m.garden.Abandon()
		m.quitting = true
		return m, tea.Quit

	case "/":
		prompt, _ := m.garden.Inspiration()
		m.input.SetValue(prompt)
		m.input.CursorEnd()
		m.editing = true
		return m, m.input.Focus()

	case "tab":
		v := m.garden.Cycle()
		m.setStatus("showing " + v.String())
		return m, nil

	case "m":
		prompt, mood := m.garden.Inspiration()
		next := nextMood(mood)
		m.garden.SetInspiration(prompt, next)
		if next == "" {
			m.setStatus("mood cleared")
		} else {
			m.setStatus("mood: " + string(next))
		}
		return m, nil

	case "p":
		return m.clickPetals()

	case "esc":
		if m.garden.Pending() != "" {
			m.garden.Abandon()
			m.setStatus("stopped waiting for the current bloom")
		}
		return m, nil

	case "s":
		return m.save()
	}

	switch garden.ParseKey(key) {
	case garden.CmdRegenerate:
		return m.regenerate()
	case garden.CmdScaleUp, garden.CmdScaleDown:
		rec, _, err := m.garden.HandleKey(m.cfg.Context, key)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if f, ok := rec.(dna.FlowerDNA); ok {
			m.setStatus(fmt.Sprintf("scale %.2f", f.Scale))
		}
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		_, mood := m.garden.Inspiration()
		prompt := strings.TrimSpace(m.input.Value())
		m.garden.SetInspiration(prompt, mood)
		m.editing = false
		m.input.Blur()
		m.setStatus("inspiration set; press space to grow it")
		return m, nil
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// regenerate starts a synthesis call for the stored inspiration.
func (m Model) regenerate() (tea.Model, tea.Cmd) {
	if m.cfg.Synth == nil {
		m.setError(garden.ErrNoSynthesizer)
		return m, nil
	}
	if m.growing || m.cfg.Synth.Busy() {
		m.setStatus("still growing the last one")
		return m, nil
	}

	prompt, mood := m.garden.Inspiration()
	req, err := m.garden.Begin(prompt, mood)
	if errors.Is(err, synth.ErrBusy) {
		m.setStatus("still growing the last one")
		return m, nil
	}
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.growing = true
	m.setStatus("growing...")

	s, ctx := m.cfg.Synth, m.cfg.Context
	return m, func() tea.Msg {
		res, err := s.Synthesize(ctx, req)
		return synthDoneMsg{req: req, res: res, err: err}
	}
}

func (m Model) finishSynthesis(msg synthDoneMsg) Model {
	f, err := m.garden.Finish(msg.req, msg.res, msg.err)
	if errors.Is(err, garden.ErrStale) {
		m.setStatus("discarded a bloom nobody was waiting for")
		return m
	}
	if err != nil {
		m.setError(err)
		return m
	}
	m.setStatus(fmt.Sprintf("%s %s grew in %s", string(ux.IconBloom), f.Name, msg.res.Duration.Round(time.Millisecond)))
	return m
}

func (m Model) clickPetals() (tea.Model, tea.Cmd) {
	var pulseErr error
	scene := m.scene(func(in render.Interaction) {
		if in.Part == render.PartPetals && in.Kind == render.InteractClick {
			_, pulseErr = m.garden.PetalClick()
		}
	})
	if !scene.Trigger(render.InteractClick, render.PartPetals) {
		m.setStatus("no petals to click here")
		return m, nil
	}
	if pulseErr != nil {
		m.setError(pulseErr)
		return m, nil
	}
	return m, tea.Tick(m.cfg.PulseDuration+20*time.Millisecond, func(time.Time) tea.Msg {
		return pulseDoneMsg{}
	})
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if m.cfg.Gallery == nil {
		m.setStatus("no gallery configured")
		return m, nil
	}
	rec := m.garden.Current()
	saver, ctx := m.cfg.Gallery, m.cfg.Context
	return m, func() tea.Msg {
		sp, err := saver.Save(ctx, rec)
		return savedMsg{specimen: sp, err: err}
	}
}

func (m *Model) setStatus(s string) {
	m.status, m.failed = s, false
}

func (m *Model) setError(err error) {
	slog.Warn("garden view: action failed", "error", err)
	m.status, m.failed = err.Error(), true
}

func (m Model) scene(onInteract func(render.Interaction)) render.Scene {
	return m.cfg.Renderer.Render(m.garden.Current(), onInteract)
}

// nextMood cycles through no mood followed by every mood in order.
func nextMood(cur synth.Mood) synth.Mood {
	if cur == "" {
		return synth.Moods[0]
	}
	for i, mood := range synth.Moods {
		if mood == cur && i+1 < len(synth.Moods) {
			return synth.Moods[i+1]
		}
	}
	return ""
}

// =============================================================================
// View
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.scene(nil).View)
	b.WriteString("\n\n")
	b.WriteString(m.renderInspiration())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(ux.Styles.Muted.Render(helpLine))
	return b.String()
}

const helpLine = "space regenerate · ↑/↓ scale · tab variant · p petals · / prompt · m mood · s save · esc cancel · q quit"

func (m Model) renderTabs() string {
	active := m.garden.Active()
	tabs := make([]string, 0, len(dna.Variants))
	for _, v := range dna.Variants {
		label := " " + v.String() + " "
		if v == active {
			tabs = append(tabs, ux.Styles.Highlight.Render(label))
		} else {
			tabs = append(tabs, ux.Styles.Muted.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderInspiration() string {
	if m.editing {
		return m.input.View()
	}
	prompt, mood := m.garden.Inspiration()
	if prompt == "" {
		prompt = "(surprise me)"
	}
	line := ux.Styles.Key.Render("inspiration") + prompt
	if mood != "" {
		line += ux.Styles.Muted.Render("  · " + string(mood))
	}
	return line
}

func (m Model) renderStatus() string {
	switch {
	case m.status == "":
		return ""
	case m.failed:
		return ux.Styles.Error.Render(string(ux.IconError) + " " + m.status)
	case m.growing:
		return ux.Styles.Warning.Render(string(ux.IconPending) + " " + m.status)
	default:
		return ux.Styles.Success.Render(m.status)
	}
}
