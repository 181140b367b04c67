package story

import "regexp"

// Markup wrapped around the matched word and appended after highlighted
// sentences. The frontend renders these directly.
const (
	EmphasisOpen  = "<b>"
	EmphasisClose = "</b>"
	BreakMarker   = "<br>"
)

// Highlight wraps the first case-insensitive occurrence of word in sentence
// with emphasis markup, preserving the original casing of the match, and
// appends a paragraph break. When the word does not occur, only the break is
// appended; when either input is empty, the sentence is returned untouched.
// The word is quoted before matching, so regex metacharacters are literal.
func Highlight(sentence, word string) string {
	if sentence == "" || word == "" {
		return sentence
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))
	loc := re.FindStringIndex(sentence)
	if loc == nil {
		return sentence + BreakMarker
	}
	return sentence[:loc[0]] + EmphasisOpen + sentence[loc[0]:loc[1]] + EmphasisClose + sentence[loc[1]:] + BreakMarker
}
