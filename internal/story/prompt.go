package story

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const continuationSystemPrompt = "You are a playful storyteller for a collaborative word game. " +
	"You write exactly one sentence at a time. " +
	"Keep the tone whimsical, vivid, and kind. " +
	"Never include headings, quotes, or commentary, only the sentence itself."

// bannedOpeners are clichéd story openings the model is told to avoid and
// that StripBannedOpener removes if the model ignores the instruction.
var bannedOpeners = []string{
	"once upon a time",
	"in a land far, far away",
	"long, long ago",
	"once there was",
}

// BuildContinuationPrompts returns the system and user prompts for the next
// sentence. An empty story asks for an opening sentence instead of a
// continuation.
func BuildContinuationPrompts(storyText, word string) (string, string) {
	word = strings.TrimSpace(word)
	var b strings.Builder
	if strings.TrimSpace(storyText) == "" {
		b.WriteString("Write the opening sentence of a brand-new story. ")
		fmt.Fprintf(&b, "The sentence must relate to the word %q. ", word)
		b.WriteString("Do not begin with any of these clichés: ")
		b.WriteString(strings.Join(bannedOpeners, "; "))
		b.WriteString(". ")
	} else {
		fmt.Fprintf(&b, "Given the following story snippet as context: %s ", storyText)
		fmt.Fprintf(&b, "Continue the story with exactly one sentence following the story and relating to the word: %s. ", word)
	}
	b.WriteString("Reply with the single sentence only.")
	return continuationSystemPrompt, b.String()
}

// FallbackSentence is the deterministic apology used when the text provider
// cannot produce a continuation. The story must always progress, so the
// apology is itself a sentence themed on the word.
func FallbackSentence(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return "The storyteller paused mid-breath and promised the tale would go on in just a moment."
	}
	return fmt.Sprintf("The storyteller paused mid-breath, whispered something about the %s, and promised the tale would go on in just a moment.", word)
}

// SanitizeSentence normalizes raw model output to a single clean sentence:
// surrounding whitespace and quotes are stripped and only the first line is
// kept.
func SanitizeSentence(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimPrefix(trimmed, `"`)
	trimmed = strings.TrimSuffix(trimmed, `"`)
	trimmed = strings.TrimPrefix(trimmed, `'`)
	trimmed = strings.TrimSuffix(trimmed, `'`)
	return strings.TrimSpace(trimmed)
}

// StripBannedOpener removes a clichéd opening phrase from the front of a
// sentence, case-insensitively, and re-capitalizes what remains. Sentences
// without a banned opener are returned unchanged.
func StripBannedOpener(sentence string) string {
	trimmed := strings.TrimSpace(sentence)
	lower := strings.ToLower(trimmed)
	for _, opener := range bannedOpeners {
		if !strings.HasPrefix(lower, opener) {
			continue
		}
		rest := strings.TrimLeft(trimmed[len(opener):], " ,")
		if rest == "" {
			return trimmed
		}
		r, size := utf8.DecodeRuneInString(rest)
		return string(unicode.ToUpper(r)) + rest[size:]
	}
	return trimmed
}
