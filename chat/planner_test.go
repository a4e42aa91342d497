package chat

import (
	"testing"

	"github.com/evertlam/chatkit/llm"
)

func TestResolveParams_Precedence(t *testing.T) {
	cfg := Config{
		Model:       "m1",
		Temperature: 0.7,
		MaxTokens:   1000,
	}
	profile := llm.Profile{ID: "test", DefaultModel: "m2"}

	t.Run("options win over config", func(t *testing.T) {
		temp := 1.2
		tokens := 50
		p := resolveParams(cfg, profile, &RequestOptions{Model: "m3", Temperature: &temp, MaxTokens: &tokens}, false)
		if p.Model != "m3" {
			t.Errorf("expected model m3, got %q", p.Model)
		}
		if p.Temperature != 1.2 {
			t.Errorf("expected temperature 1.2, got %v", p.Temperature)
		}
		if p.MaxTokens != 50 {
			t.Errorf("expected max tokens 50, got %d", p.MaxTokens)
		}
	})

	t.Run("config wins over profile default", func(t *testing.T) {
		p := resolveParams(cfg, profile, nil, false)
		if p.Model != "m1" {
			t.Errorf("expected model m1, got %q", p.Model)
		}
		if p.Temperature != 0.7 {
			t.Errorf("expected temperature 0.7, got %v", p.Temperature)
		}
	})

	t.Run("profile default when config has no model", func(t *testing.T) {
		bare := cfg
		bare.Model = ""
		p := resolveParams(bare, profile, nil, false)
		if p.Model != "m2" {
			t.Errorf("expected provider default m2, got %q", p.Model)
		}
	})

	t.Run("zero temperature override is honored", func(t *testing.T) {
		temp := 0.0
		p := resolveParams(cfg, profile, &RequestOptions{Temperature: &temp}, false)
		if p.Temperature != 0 {
			t.Errorf("expected temperature 0, got %v", p.Temperature)
		}
	})
}

func TestResolveParams_StreamFlag(t *testing.T) {
	cfg := Config{Temperature: 0.7, MaxTokens: 1000}
	profile := llm.Profile{ID: "test", DefaultModel: "m"}

	if p := resolveParams(cfg, profile, nil, false); p.Stream {
		t.Error("expected stream to default to false")
	}

	streamOff := false
	if p := resolveParams(cfg, profile, &RequestOptions{Stream: &streamOff}, true); !p.Stream {
		t.Error("expected the streaming entry point to force stream true")
	}

	streamOn := true
	if p := resolveParams(cfg, profile, &RequestOptions{Stream: &streamOn}, false); !p.Stream {
		t.Error("expected an explicit stream option to be honored")
	}
}
