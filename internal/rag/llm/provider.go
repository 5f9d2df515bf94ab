package llm

import "context"

// Provider streams a completion for a single system-role prompt. emit is
// called once per incremental text fragment, in arrival order; an emit error
// aborts the stream and is returned unchanged.
type Provider interface {
	StreamCompletion(ctx context.Context, systemPrompt string, emit func(fragment string) error) error
}
