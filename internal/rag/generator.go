package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/metrics"
)

const promptTemplate = `[INSTRUCTION]
You are a statistical analyst specialized in the analysis of historical invoice transactions.

Follow these rules strictly:
1. Answer ONLY using the information in the CONTEXT provided.
2. If the information is not in the CONTEXT, reply "%s"
3. Never invent data, names, dates or statistics that are not explicit in the CONTEXT.
4. Keep answers short, precise and direct.
5. If asked about trends or analysis not present in the CONTEXT, state that you cannot perform analysis beyond the provided data.

[CONTEXT]
%s
[END CONTEXT]

[QUESTION]
%s
[END QUESTION]`

// BuildPrompt embeds the retrieved context and the question verbatim into
// the fixed system instruction.
func BuildPrompt(contextText string, question string) string {
	return fmt.Sprintf(promptTemplate, config.NoInformationMessage, contextText, question)
}

func (s *service) StreamAnswer(ctx context.Context, question string, emit func(fragment string) error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result := s.Query(ctx, question, config.RetrievalTopK)
	prompt := BuildPrompt(result.Context, question)

	start := time.Now()
	err := s.llmProvider.StreamCompletion(ctx, prompt, emit)
	metrics.CaptureExecutionMetrics("llm_generation", time.Since(start))

	if err != nil {
		log.Error("Answer generation failed", "error", err)
		//surface the failure as the last fragment; if the caller is already
		//gone this emit fails too and that is fine
		if emitErr := emit("Error: " + err.Error()); emitErr != nil {
			log.Debug("Could not deliver error fragment", "error", emitErr)
		}
	}
}
