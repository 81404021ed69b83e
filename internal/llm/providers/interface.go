package providers

// LLMClient interface for all LLM providers. The system prompt is chosen
// per task (issue summarization, approach analysis), so it travels with
// the call rather than living in configuration.
type LLMClient interface {
	Complete(systemPrompt, userPrompt string) (string, error)
}
