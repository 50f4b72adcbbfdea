// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// Helper to capture stdout
func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// Helper to capture stderr
func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func withLevel(t *testing.T, level PersonalityLevel) {
	t.Helper()
	orig := GetPersonality()
	t.Cleanup(func() { SetPersonality(orig) })
	SetPersonalityLevel(level)
}

// =============================================================================
// Icon.Render Tests
// =============================================================================

func TestIcon_Render(t *testing.T) {
	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconPending, IconBloom, IconArrow} {
		if got := icon.Render(); !strings.Contains(got, string(icon)) {
			t.Errorf("Render(%q) = %q, glyph missing", icon, got)
		}
	}
}

// =============================================================================
// Print helper Tests
// =============================================================================

func TestTitle_MachineMode(t *testing.T) {
	withLevel(t, PersonalityMachine)

	output := captureStdout(func() { Title("Moonlit Orchid") })
	if output != "" {
		t.Errorf("expected no output in machine mode, got %q", output)
	}
}

func TestTitle_FullMode(t *testing.T) {
	withLevel(t, PersonalityFull)

	output := captureStdout(func() { Title("Moonlit Orchid") })
	if !strings.Contains(output, "Moonlit Orchid") {
		t.Errorf("expected title text, got %q", output)
	}
}

func TestSuccess_MachineMode(t *testing.T) {
	withLevel(t, PersonalityMachine)

	output := captureStdout(func() { Success("saved") })
	if output != "OK: saved\n" {
		t.Errorf("expected 'OK: saved', got %q", output)
	}
}

func TestSuccess_MinimalMode(t *testing.T) {
	withLevel(t, PersonalityMinimal)

	output := captureStdout(func() { Success("saved") })
	if !strings.Contains(output, "saved") || !strings.Contains(output, string(IconSuccess)) {
		t.Errorf("expected icon and text, got %q", output)
	}
}

func TestWarning_MachineMode_GoesToStderr(t *testing.T) {
	withLevel(t, PersonalityMachine)

	var stdout string
	stderr := captureStderr(func() {
		stdout = captureStdout(func() { Warning("backend slow") })
	})
	if stdout != "" {
		t.Errorf("expected nothing on stdout, got %q", stdout)
	}
	if stderr != "WARN: backend slow\n" {
		t.Errorf("expected 'WARN: backend slow', got %q", stderr)
	}
}

func TestError_MachineMode_GoesToStderr(t *testing.T) {
	withLevel(t, PersonalityMachine)

	stderr := captureStderr(func() { Error("no key") })
	if stderr != "ERROR: no key\n" {
		t.Errorf("expected 'ERROR: no key', got %q", stderr)
	}
}

func TestInfo(t *testing.T) {
	withLevel(t, PersonalityMachine)
	if got := captureStdout(func() { Info("hello") }); got != "hello\n" {
		t.Errorf("machine Info = %q", got)
	}

	SetPersonalityLevel(PersonalityFull)
	if got := captureStdout(func() { Info("hello") }); !strings.Contains(got, "│") {
		t.Errorf("full Info missing gutter: %q", got)
	}
}

func TestMuted_MachineMode(t *testing.T) {
	withLevel(t, PersonalityMachine)

	if got := captureStdout(func() { Muted("hint") }); got != "" {
		t.Errorf("expected no output, got %q", got)
	}
}

func TestKeyValue(t *testing.T) {
	withLevel(t, PersonalityMachine)
	if got := captureStdout(func() { KeyValue("petalCount", "8") }); got != "petalCount\t8\n" {
		t.Errorf("machine KeyValue = %q", got)
	}

	SetPersonalityLevel(PersonalityFull)
	got := captureStdout(func() { KeyValue("petalCount", "8") })
	if !strings.Contains(got, "petalCount") || !strings.HasSuffix(got, "8\n") {
		t.Errorf("full KeyValue = %q", got)
	}
}

func TestBox(t *testing.T) {
	withLevel(t, PersonalityMachine)
	if got := captureStdout(func() { Box("Flower", "Moonlit") }); got != "Flower: Moonlit\n" {
		t.Errorf("machine Box = %q", got)
	}

	SetPersonalityLevel(PersonalityFull)
	got := captureStdout(func() { Box("Flower", "Moonlit") })
	if !strings.Contains(got, "Flower") || !strings.Contains(got, "Moonlit") {
		t.Errorf("full Box = %q", got)
	}
}

func TestWarningBox_MachineMode(t *testing.T) {
	withLevel(t, PersonalityMachine)

	got := captureStderr(func() { WarningBox("Stale", "result dropped") })
	if got != "WARN Stale: result dropped\n" {
		t.Errorf("machine WarningBox = %q", got)
	}
}

// =============================================================================
// Bar Tests
// =============================================================================

func TestBar_MachineMode(t *testing.T) {
	withLevel(t, PersonalityMachine)

	if got := Bar(1.25, 0, 3, 10); got != "1.25" {
		t.Errorf("expected '1.25', got %q", got)
	}
}

func TestBar_FullMode(t *testing.T) {
	withLevel(t, PersonalityFull)

	tests := []struct {
		name         string
		value        float64
		filled, free int
	}{
		{"empty", 0, 0, 10},
		{"half", 1.5, 5, 5},
		{"full", 3, 10, 0},
		{"clamped above", 9, 10, 0},
		{"clamped below", -2, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bar(tt.value, 0, 3, 10)
			if n := strings.Count(got, "█"); n != tt.filled {
				t.Errorf("filled = %d, want %d (%q)", n, tt.filled, got)
			}
			if n := strings.Count(got, "░"); n != tt.free {
				t.Errorf("free = %d, want %d (%q)", n, tt.free, got)
			}
		})
	}
}

func TestRepeatChar(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{-1, ""},
		{0, ""},
		{1, "✿"},
		{3, "✿✿✿"},
	}
	for _, tt := range tests {
		if got := repeatChar('✿', tt.n); got != tt.want {
			t.Errorf("repeatChar(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
