package provider

import (
	"context"
	"log/slog"
	"strings"

	"storyloom/internal/ai"
)

const (
	illustrationPromptPrefix      = "A scene from a collaborative story: "
	illustrationPromptStyleSuffix = ". Storybook illustration, warm digital art."
)

// Illustration renders a single scene image for a sentence.
type Illustration struct {
	client ai.ImageClient
	model  string
	logger *slog.Logger
}

// NewIllustration builds the illustration adapter. A nil client means image
// generation is unconfigured and every job resolves without an image.
func NewIllustration(client ai.ImageClient, model string, logger *slog.Logger) *Illustration {
	return &Illustration{client: client, model: model, logger: logger}
}

// Illustrate requests one storybook-styled image depicting the sentence and
// returns its URL. Empty sentences, provider failures, and responses with
// no usable image all degrade to Unavailable.
func (i *Illustration) Illustrate(ctx context.Context, sentence string) Result[string] {
	if i.client == nil {
		return Unavailable[string]()
	}
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return Unavailable[string]()
	}
	prompt := illustrationPromptPrefix + strings.TrimSuffix(sentence, ".") + illustrationPromptStyleSuffix
	url, err := i.client.GenerateImage(ctx, i.model, prompt)
	if err != nil {
		i.logger.Error("illustration generation failed", "err", err)
		return Unavailable[string]()
	}
	if url == "" {
		i.logger.Warn("illustration generation returned no url")
		return Unavailable[string]()
	}
	return Ok(url)
}
