package story

import "strings"

// Turn is one request's extension of the story: the prior text, the prompt
// word, the generated sentence, and the combined story. A Turn is built per
// request and never persisted; the caller carries FullStory into the next
// turn.
type Turn struct {
	OldStory  string
	Word      string
	Sentence  string
	FullStory string
}

// Join appends a sentence to the story so far, separated by a single space.
// An empty prior story yields the sentence alone, with no leading separator.
func Join(oldStory, sentence string) string {
	if strings.TrimSpace(oldStory) == "" {
		return sentence
	}
	return oldStory + " " + sentence
}
