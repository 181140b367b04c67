package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// TTS provider names accepted in TTS_PROVIDER.
const (
	TTSProviderOpenAI     = "openai"
	TTSProviderElevenLabs = "elevenlabs"
)

// Config holds all environment-driven settings. Missing provider keys are
// not an error: the matching feature degrades to unavailable instead.
type Config struct {
	Addr string `envconfig:"ADDR" default:":8080"`

	// Empty base URL uses the default OpenAI endpoint; set it to an
	// OpenRouter-style gateway to route requests elsewhere.
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:""`
	TextModel     string `envconfig:"TEXT_MODEL" default:"gpt-4o-mini"`
	ImageModel    string `envconfig:"IMAGE_MODEL" default:"dall-e-3"`
	TTSModel      string `envconfig:"TTS_MODEL" default:"gpt-4o-mini-tts"`

	TTSProvider        string `envconfig:"TTS_PROVIDER" default:"openai"`
	ElevenLabsTTSModel string `envconfig:"ELEVENLABS_TTS_MODEL" default:"eleven_multilingual_v2"`

	// Voices maps friendly voice names to provider voice identifiers,
	// e.g. VOICES="narrator:onyx,wizard:fable".
	Voices       map[string]string `envconfig:"VOICES"`
	DefaultVoice string            `envconfig:"DEFAULT_VOICE" default:"alloy"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`

	// Secrets, env only, no defaults.
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	ElevenLabsAPIKey string `envconfig:"ELEVENLABS_API_KEY"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.TTSProvider = strings.ToLower(strings.TrimSpace(cfg.TTSProvider))
	switch cfg.TTSProvider {
	case "":
		cfg.TTSProvider = TTSProviderOpenAI
	case TTSProviderOpenAI, TTSProviderElevenLabs:
	default:
		return nil, fmt.Errorf("unsupported tts provider: %s", cfg.TTSProvider)
	}
	return &cfg, nil
}

// TTSModelForProvider returns the speech model matching the configured
// provider.
func (c *Config) TTSModelForProvider() string {
	if c.TTSProvider == TTSProviderElevenLabs {
		return c.ElevenLabsTTSModel
	}
	return c.TTSModel
}
