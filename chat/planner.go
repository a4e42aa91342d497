package chat

import (
	"github.com/evertlam/chatkit/llm"
)

// effectiveParams are the fully resolved parameters for a single dispatch.
type effectiveParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Stream      bool
}

// resolveParams merges per-call options over the base config, falling back
// to the provider profile for the model. Precedence per field: options win
// when set, then the config, then the profile default (model only).
// Temperature and max tokens have no provider-level default; the
// construction-time defaults are already baked into the config.
func resolveParams(cfg Config, profile llm.Profile, opts *RequestOptions, streaming bool) effectiveParams {
	p := effectiveParams{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	if opts != nil {
		if opts.Model != "" {
			p.Model = opts.Model
		}
		if opts.Temperature != nil {
			p.Temperature = *opts.Temperature
		}
		if opts.MaxTokens != nil {
			p.MaxTokens = *opts.MaxTokens
		}
		if opts.Stream != nil {
			p.Stream = *opts.Stream
		}
	}

	if p.Model == "" {
		p.Model = profile.DefaultModel
	}

	// The streaming entry point always streams, regardless of options.
	if streaming {
		p.Stream = true
	}

	return p
}
