package ai

import (
	"context"
	"io"
)

// TextClient generates a text completion from a system and user prompt.
type TextClient interface {
	GenerateText(ctx context.Context, model, system, prompt string) (string, error)
}

// TTSClient synthesizes speech audio from text.
type TTSClient interface {
	TTS(ctx context.Context, model, voice, text string, w io.Writer) error
}

// ImageClient renders a single illustration and returns a reference URL.
type ImageClient interface {
	GenerateImage(ctx context.Context, model, prompt string) (string, error)
}
