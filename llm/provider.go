package llm

import (
	"context"

	"github.com/kbukum/voxpersona/provider"
)

// Provider is the interface that LLM backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// ListModels returns the models the backend has available.
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// NewRegistry creates an empty registry of LLM providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
