package provider

import (
	"context"
	"log/slog"
	"strings"

	"storyloom/internal/ai"
	"storyloom/internal/story"
)

// Text continues a story by one sentence related to the prompt word.
type Text struct {
	client ai.TextClient
	model  string
	logger *slog.Logger
}

// NewText builds the text adapter. A nil client means the provider is
// unconfigured and every turn uses the fallback sentence.
func NewText(client ai.TextClient, model string, logger *slog.Logger) *Text {
	return &Text{client: client, model: model, logger: logger}
}

// Continue produces the next turn. The story always progresses: when the
// provider is missing, fails, or returns nothing, the sentence is the
// deterministic fallback and the prior story is preserved unchanged.
func (t *Text) Continue(ctx context.Context, storyText, word string) story.Turn {
	turn := story.Turn{OldStory: storyText, Word: word}
	opening := strings.TrimSpace(storyText) == ""

	sentence := ""
	if t.client == nil {
		t.logger.Warn("text provider unconfigured, using fallback sentence")
	} else {
		system, prompt := story.BuildContinuationPrompts(storyText, word)
		raw, err := t.client.GenerateText(ctx, t.model, system, prompt)
		if err != nil {
			t.logger.Error("text generation failed", "word", word, "err", err)
		} else {
			sentence = story.SanitizeSentence(raw)
			if sentence == "" {
				t.logger.Warn("text generation returned empty output", "word", word)
			}
		}
	}
	if sentence == "" {
		sentence = story.FallbackSentence(word)
	}
	if opening {
		sentence = story.StripBannedOpener(sentence)
	}

	turn.Sentence = sentence
	turn.FullStory = story.Join(storyText, sentence)
	return turn
}
