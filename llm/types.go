package llm

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role" yaml:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" yaml:"content"`
}

// Options are the sampling parameters sent with every completion. Zero values
// leave the backend default in place.
type Options struct {
	Temperature   float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
	TopP          float64 `json:"top_p" yaml:"top_p" mapstructure:"top_p"`
	TopK          int     `json:"top_k" yaml:"top_k" mapstructure:"top_k"`
	RepeatPenalty float64 `json:"repeat_penalty" yaml:"repeat_penalty" mapstructure:"repeat_penalty"`
	// MaxTokens limits the response length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
	// ContextWindow is the prompt context size in tokens.
	ContextWindow int `json:"context_window" yaml:"context_window" mapstructure:"context_window"`
}

// CompletionRequest is the universal input for all LLM providers.
type CompletionRequest struct {
	// Model overrides the provider's default model.
	Model string `json:"model,omitempty"`
	// SystemPrompt is prepended as a system message.
	SystemPrompt string `json:"system_prompt,omitempty"`
	// Messages is the conversation history, oldest first.
	Messages []Message `json:"messages"`
	Options  Options   `json:"options"`
}

// CompletionResponse is the universal output from all LLM providers.
type CompletionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ModelInfo describes a model the backend can serve.
type ModelInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}
