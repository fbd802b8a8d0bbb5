package agent

// Config controls the agent loop.
type Config struct {
	// MaxIterations limits the number of LLM round trips per Run.
	// Default: 8
	MaxIterations int

	// ContextTokens is the estimated context window used for pruning.
	// Default: 16000
	ContextTokens int

	// Model overrides the provider's default model.
	Model string

	// Temperature is passed through to every completion request.
	Temperature *float64

	// ToolConcurrency bounds how many tool calls from one model turn run
	// at once. Default: 4
	ToolConcurrency int
}

// DefaultConfig returns the default agent configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations:   8,
		ContextTokens:   16000,
		ToolConcurrency: 4,
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.ContextTokens <= 0 {
		c.ContextTokens = d.ContextTokens
	}
	if c.ToolConcurrency <= 0 {
		c.ToolConcurrency = d.ToolConcurrency
	}
	return c
}
