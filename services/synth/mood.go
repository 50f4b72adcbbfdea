package synth

import (
	"fmt"
	"strings"
)

// Mood is an optional stylistic label added to the synthesis prompt.
type Mood string

// The fixed mood set. The empty Mood means "no mood".
const (
	MoodEthereal  Mood = "Ethereal & Dreamy"
	MoodCyberpunk Mood = "Cyberpunk Neon"
	MoodFossil    Mood = "Ancient Fossilized"
	MoodNebula    Mood = "Cosmic Nebula"
	MoodZen       Mood = "Zen Minimalist"
	MoodLava      Mood = "Lava & Magma"
)

// Moods lists every mood in display order.
var Moods = []Mood{MoodEthereal, MoodCyberpunk, MoodFossil, MoodNebula, MoodZen, MoodLava}

// IsValid reports whether m is empty or one of Moods.
func (m Mood) IsValid() bool {
	if m == "" {
		return true
	}
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// Slug returns a flag-friendly form, e.g. "lava-magma".
func (m Mood) Slug() string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(string(m)) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ParseMood accepts a mood label or its slug, case-insensitively. The empty
// string parses to the empty Mood.
func ParseMood(s string) (Mood, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, m := range Moods {
		if strings.EqualFold(s, string(m)) || strings.EqualFold(s, m.Slug()) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}
