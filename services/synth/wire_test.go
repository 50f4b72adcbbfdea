package synth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
)

const validFlowerJSON = `{
  "name": "Ember Lily",
  "description": "Petals that smoulder at dusk.",
  "petalCount": 7,
  "petalRows": 3,
  "petalLength": 2.2,
  "petalWidth": 0.9,
  "petalCurvature": 0.35,
  "petalColor": "#FF4500",
  "centerColor": "#fd0",
  "stemColor": "#2e8b57",
  "glowIntensity": 2.1,
  "wobbleSpeed": 0.6,
  "scale": 1.2
}`

func TestDecodeFlower_Valid(t *testing.T) {
	p, err := DecodeFlower(validFlowerJSON)
	require.NoError(t, err)

	assert.Equal(t, "Ember Lily", *p.Name)
	assert.Equal(t, 7, *p.PetalCount)
	assert.Equal(t, []string{"#ff4500"}, p.PetalColors)
	assert.Equal(t, "#ffdd00", *p.CenterColor)
	assert.Equal(t, []string{"#2e8b57"}, p.StemColors)
	assert.Equal(t, 1.2, *p.Scale)

	assert.Nil(t, p.StemBend)
	assert.Nil(t, p.LeafCount)
	assert.Nil(t, p.LeafSize)
	assert.Nil(t, p.LeafOrientation)
	assert.Nil(t, p.LeafAngle)
	assert.Len(t, p.Fields(), 13)
}

func TestDecodeFlower_CodeFence(t *testing.T) {
	p, err := DecodeFlower("```json\n" + validFlowerJSON + "\n```\n")
	require.NoError(t, err)
	assert.Equal(t, "Ember Lily", *p.Name)
}

func TestDecodeFlower_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", "   "},
		{"not json", "a pretty flower"},
		{"truncated", validFlowerJSON[:40]},
		{"missing field", strings.Replace(validFlowerJSON, ",\n  \"scale\": 1.2", "", 1)},
		{"unknown field", strings.Replace(validFlowerJSON, `"scale": 1.2`, `"scale": 1.2, "leafCount": 2`, 1)},
		{"string for integer", strings.Replace(validFlowerJSON, `"petalCount": 7`, `"petalCount": "7"`, 1)},
		{"fraction for integer", strings.Replace(validFlowerJSON, `"petalCount": 7`, `"petalCount": 7.5`, 1)},
		{"petalCount above advertised", strings.Replace(validFlowerJSON, `"petalCount": 7`, `"petalCount": 30`, 1)},
		{"scale above advertised", strings.Replace(validFlowerJSON, `"scale": 1.2`, `"scale": 1.8`, 1)},
		{"glow below advertised", strings.Replace(validFlowerJSON, `"glowIntensity": 2.1`, `"glowIntensity": 0`, 1)},
		{"bad hex", strings.Replace(validFlowerJSON, `"#2e8b57"`, `"forest green"`, 1)},
		{"list instead of colour", strings.Replace(validFlowerJSON, `"#FF4500"`, `["#FF4500"]`, 1)},
		{"trailing data", validFlowerJSON + `{"x":1}`},
		{"null field", strings.Replace(validFlowerJSON, `"petalRows": 3`, `"petalRows": null`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFlower(tt.body)
			assert.Error(t, err)
		})
	}
}

func TestDecodeFlower_ResultIsValidFlower(t *testing.T) {
	p, err := DecodeFlower(validFlowerJSON)
	require.NoError(t, err)
	rec, rejected := p.ApplyTo(dna.DefaultFlower())
	require.Empty(t, rejected)
	require.NoError(t, rec.Validate())
	assert.Equal(t, dna.DefaultFlower().StemBend, rec.StemBend)
	assert.Equal(t, dna.DefaultFlower().LeafAngle, rec.LeafAngle)
}

func TestFlowerSchema(t *testing.T) {
	s := FlowerSchema()
	assert.Equal(t, []string{
		"name", "description", "petalCount", "petalRows", "petalLength",
		"petalWidth", "petalCurvature", "petalColor", "centerColor",
		"stemColor", "glowIntensity", "wobbleSpeed", "scale",
	}, s.Required())

	doc := s.JSONSchema()
	assert.Equal(t, false, doc["additionalProperties"])
	props := doc["properties"].(map[string]any)
	pc := props["petalCount"].(map[string]any)
	assert.Equal(t, "integer", pc["type"])
	assert.Equal(t, 3.0, pc["minimum"])
	assert.Equal(t, 24.0, pc["maximum"])

	full, err := s.appendTo("Design a flower")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, "Design a flower\n\n"))
	assert.Contains(t, full, `"petalCount"`)

	def := s.openAIDefinition()
	assert.Len(t, def.Properties, 13)
	assert.Equal(t, false, def.AdditionalProperties)
}

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		mood   Mood
		want   string
	}{
		{
			name:   "prompt and mood",
			prompt: "a jellyfish",
			mood:   MoodNebula,
			want:   "Design a unique 3D procedural flower with a 'Cosmic Nebula' mood. User inspiration: a jellyfish Return the botanical DNA as JSON.",
		},
		{
			name: "fallback",
			want: "Design a unique 3D procedural flower. Surprise me with something artistic and biological. Return the botanical DNA as JSON.",
		},
		{
			name: "mood only",
			mood: MoodZen,
			want: "Design a unique 3D procedural flower with a 'Zen Minimalist' mood. Surprise me with something artistic and biological. Return the botanical DNA as JSON.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildPrompt(tt.prompt, tt.mood))
		})
	}
}

func TestParseMood(t *testing.T) {
	tests := []struct {
		in      string
		want    Mood
		wantErr bool
	}{
		{"", "", false},
		{"Lava & Magma", MoodLava, false},
		{"lava-magma", MoodLava, false},
		{"CYBERPUNK NEON", MoodCyberpunk, false},
		{"ethereal-dreamy", MoodEthereal, false},
		{"gothic", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMood(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Len(t, Moods, 6)
	assert.False(t, Mood("Baroque").IsValid())
}
