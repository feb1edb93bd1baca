package transcription

import (
	"context"

	"github.com/kbukum/voxpersona/provider"
)

// Provider is the interface speech-to-text backends implement.
type Provider interface {
	provider.Provider

	// Transcribe sends one audio file and returns its transcription.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// NewRegistry creates an empty registry of transcription providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
