// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"os"
	"sync"
	"testing"
)

func TestSetPersonality_AndGet(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonality(Personality{Level: PersonalityMinimal})
	if got := GetPersonality().Level; got != PersonalityMinimal {
		t.Errorf("expected level %v, got %v", PersonalityMinimal, got)
	}
}

func TestParsePersonalityLevel(t *testing.T) {
	tests := []struct {
		in   string
		want PersonalityLevel
	}{
		{"full", PersonalityFull},
		{"F", PersonalityFull},
		{"standard", PersonalityStandard},
		{"std", PersonalityStandard},
		{"minimal", PersonalityMinimal},
		{" min ", PersonalityMinimal},
		{"machine", PersonalityMachine},
		{"plain", PersonalityMachine},
		{"q", PersonalityMachine},
		{"nonsense", PersonalityStandard},
		{"", PersonalityStandard},
	}
	for _, tt := range tests {
		if got := ParsePersonalityLevel(tt.in); got != tt.want {
			t.Errorf("ParsePersonalityLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitPersonality_WithEnvVar(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	t.Setenv(PersonalityEnv, "minimal")
	InitPersonality()
	if got := GetPersonality().Level; got != PersonalityMinimal {
		t.Errorf("expected minimal, got %v", got)
	}
}

func TestInitPersonality_NoEnvVar(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	t.Setenv(PersonalityEnv, "")
	InitPersonality()

	want := PersonalityMachine
	if isTerminal(os.Stdout) {
		want = PersonalityFull
	}
	if got := GetPersonality().Level; got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestIsInteractive_MachineMode(t *testing.T) {
	withLevel(t, PersonalityMachine)

	if IsInteractive() {
		t.Error("machine mode must never be interactive")
	}
}

func TestShouldShowProgressAndColors(t *testing.T) {
	tests := []struct {
		level PersonalityLevel
		want  bool
	}{
		{PersonalityFull, true},
		{PersonalityStandard, true},
		{PersonalityMinimal, true},
		{PersonalityMachine, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			withLevel(t, tt.level)
			if got := ShouldShowProgress(); got != tt.want {
				t.Errorf("ShouldShowProgress() = %v, want %v", got, tt.want)
			}
			if got := ShouldShowColors(); got != tt.want {
				t.Errorf("ShouldShowColors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultPersonality(t *testing.T) {
	if got := DefaultPersonality().Level; got != PersonalityFull {
		t.Errorf("expected full, got %v", got)
	}
}

func TestPersonality_ConcurrentAccess(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetPersonalityLevel(PersonalityMinimal)
		}()
		go func() {
			defer wg.Done()
			_ = GetPersonality()
		}()
	}
	wg.Wait()
}
