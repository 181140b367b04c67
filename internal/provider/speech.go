package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"storyloom/internal/ai"
	"storyloom/internal/story"
)

// audioDataURIPrefix makes the inline MP3 payload self-describing for
// direct playback in a browser audio element.
const audioDataURIPrefix = "data:audio/mpeg;base64,"

// Speech narrates text as an inline MP3 data URI.
type Speech struct {
	client ai.TTSClient
	model  string
	voices *story.Registry
	logger *slog.Logger
}

// NewSpeech builds the speech adapter. A nil client means narration is
// unconfigured and every request degrades to no audio.
func NewSpeech(client ai.TTSClient, model string, voices *story.Registry, logger *slog.Logger) *Speech {
	return &Speech{client: client, model: model, voices: voices, logger: logger}
}

// Narrate synthesizes spoken audio for the text using the named voice.
// Empty or whitespace-only text, a missing client, and provider failures
// all degrade to Unavailable.
func (s *Speech) Narrate(ctx context.Context, text, voiceName string) Result[string] {
	if s.client == nil {
		return Unavailable[string]()
	}
	if strings.TrimSpace(text) == "" {
		return Unavailable[string]()
	}
	voice := s.voices.Resolve(voiceName)

	var buf bytes.Buffer
	if err := s.client.TTS(ctx, s.model, voice, text, &buf); err != nil {
		s.logger.Error("speech synthesis failed", "voice", voice, "err", err)
		return Unavailable[string]()
	}
	if buf.Len() == 0 {
		s.logger.Warn("speech synthesis returned no audio", "voice", voice)
		return Unavailable[string]()
	}
	return Ok(audioDataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()))
}
