package llm

import (
	"sync"

	"dario.cat/mergo"
	"github.com/samber/lo"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOllama     = "ollama"

	// DefaultProvider is used when a client is constructed without an
	// explicit provider ID.
	DefaultProvider = ProviderOpenRouter
)

// Profile holds the connection defaults for a named provider.
type Profile struct {
	ID             string
	Name           string
	BaseURL        string
	DefaultModel   string
	DefaultHeaders map[string]string
}

// clone returns a copy of the profile with its own header map.
func (p Profile) clone() Profile {
	out := p
	if p.DefaultHeaders != nil {
		out.DefaultHeaders = lo.Assign(map[string]string{}, p.DefaultHeaders)
	}
	return out
}

// Registry manages provider profiles. It is safe for concurrent use;
// mutations are atomic per entry.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewRegistry creates a Registry pre-populated with the built-in provider
// profiles (openrouter, openai, anthropic, ollama).
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]Profile)}
	for _, p := range builtinProfiles() {
		r.profiles[p.ID] = p
	}
	return r
}

func builtinProfiles() []Profile {
	return []Profile{
		{
			ID:           ProviderOpenRouter,
			Name:         "OpenRouter",
			BaseURL:      "https://openrouter.ai/api/v1",
			DefaultModel: "openai/gpt-4o-mini",
			DefaultHeaders: map[string]string{
				"HTTP-Referer": "https://github.com/evertlam/chatkit",
				"X-Title":      "chatkit",
			},
		},
		{
			ID:           ProviderOpenAI,
			Name:         "OpenAI",
			BaseURL:      "https://api.openai.com/v1",
			DefaultModel: "gpt-4o-mini",
		},
		{
			ID:           ProviderAnthropic,
			Name:         "Anthropic",
			BaseURL:      "https://api.anthropic.com/v1",
			DefaultModel: "claude-haiku-4-5",
		},
		{
			ID:           ProviderOllama,
			Name:         "Ollama",
			BaseURL:      "http://localhost:11434",
			DefaultModel: "llama3.2:3b",
		},
	}
}

// Register adds or replaces a provider profile. Registering an existing ID
// overwrites the previous profile silently.
func (r *Registry) Register(p Profile) error {
	if p.ID == "" {
		return NewValidationError("provider id is required")
	}
	if p.Name == "" {
		return NewValidationError("provider display name is required")
	}
	if p.BaseURL == "" {
		return NewValidationError("provider base URL is required")
	}
	if p.DefaultModel == "" {
		return NewValidationError("provider default model is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p.clone()
	return nil
}

// Get returns the profile for the given ID.
func (r *Registry) Get(id string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, false
	}
	return p.clone(), true
}

// Has reports whether a profile is registered under the given ID.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.profiles[id]
	return ok
}

// Update merges the non-empty fields of patch into an existing profile.
// Returns false if no profile is registered under the given ID.
func (r *Registry) Update(id string, patch Profile) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.profiles[id]
	if !ok {
		return false
	}

	patch.ID = id
	merged := existing.clone()
	if err := mergo.Merge(&merged, patch, mergo.WithOverride); err != nil {
		return false
	}
	r.profiles[id] = merged
	return true
}

// Remove deletes a profile. Returns false if no profile was registered
// under the given ID.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[id]; !ok {
		return false
	}
	delete(r.profiles, id)
	return true
}

// All returns a snapshot of every registered profile keyed by ID. Mutating
// the returned map or its profiles does not affect the registry.
func (r *Registry) All() map[string]Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.MapValues(r.profiles, func(p Profile, _ string) Profile {
		return p.clone()
	})
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide shared registry. Library code should
// prefer an explicitly injected Registry; this exists for callers at the
// application edge that want shared provider state.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
