// Package llm defines the text-generation contract used for persona
// extraction and persona chat.
//
// The package provides:
//   - Universal types: [CompletionRequest], [CompletionResponse], [Message], [Options]
//   - [Provider]: the interface a generation backend implements
//   - [Complete]: a convenience helper for a single system + user exchange
//
// Backends live in sub-packages and are selected by name through a
// [provider.Registry]:
//
//	reg := llm.NewRegistry()
//	reg.RegisterFactory(ollama.ProviderName, ollama.Factory)
//	p, err := reg.Create("ollama", map[string]any{"base_url": "http://localhost:11434"})
//
//	reply, err := llm.Complete(ctx, p, "You are terse.", "Say hi.", llm.Options{Temperature: 0.2})
package llm
