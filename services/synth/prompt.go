package synth

import "fmt"

const fallbackInspiration = "Surprise me with something artistic and biological."

// BuildPrompt renders the instruction sent to the backend.
//
//	Design a unique 3D procedural flower with a 'Cosmic Nebula' mood. User inspiration: a jellyfish Return the botanical DNA as JSON.
//
// Without a mood the mood clause is dropped; without a prompt the
// inspiration sentence is replaced by a fixed invitation to improvise.
func BuildPrompt(prompt string, mood Mood) string {
	moodClause := ""
	if mood != "" {
		moodClause = fmt.Sprintf(" with a '%s' mood", mood)
	}
	inspiration := fallbackInspiration
	if prompt != "" {
		inspiration = "User inspiration: " + prompt
	}
	return fmt.Sprintf("Design a unique 3D procedural flower%s. %s Return the botanical DNA as JSON.", moodClause, inspiration)
}
