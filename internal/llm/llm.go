// Package llm dispatches single-shot JSON completions to the supported model
// vendors.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider identifies a model vendor.
type Provider string

const (
	ProviderGemini Provider = "GEMINI"
	ProviderOpenAI Provider = "OPENAI"
	ProviderGrok   Provider = "GROK"
)

// Providers lists every supported vendor.
var Providers = []Provider{ProviderGemini, ProviderOpenAI, ProviderGrok}

// ParseProvider parses a provider name case-insensitively.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q (must be GEMINI, OPENAI or GROK)", s)
}

// Credential is the caller-supplied key for one vendor.
type Credential struct {
	Provider Provider
	APIKey   string
}

// Valid reports whether both the provider and key are set.
func (c Credential) Valid() bool {
	return c.Provider != "" && c.APIKey != ""
}

// Completer sends a prompt and returns the raw JSON text of the reply.
type Completer interface {
	Complete(ctx context.Context, prompt string, cred Credential) (string, error)
}
