package story

import "strings"

// Registry maps friendly voice names to provider-specific voice
// identifiers. Unknown or empty names resolve to the default voice.
type Registry struct {
	voices map[string]string
	def    string
}

// NewRegistry builds a registry from a name→identifier map. Names are
// matched case-insensitively.
func NewRegistry(voices map[string]string, defaultVoice string) *Registry {
	normalized := make(map[string]string, len(voices))
	for name, id := range voices {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || id == "" {
			continue
		}
		normalized[name] = id
	}
	return &Registry{voices: normalized, def: defaultVoice}
}

// Resolve returns the provider voice identifier for a friendly name.
func (r *Registry) Resolve(name string) string {
	if id, ok := r.voices[strings.ToLower(strings.TrimSpace(name))]; ok {
		return id
	}
	return r.def
}

// Default returns the fallback voice identifier.
func (r *Registry) Default() string { return r.def }
