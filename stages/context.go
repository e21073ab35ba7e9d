package stages

import (
	"context"
	"strings"

	"github.com/tailored-agentic-units/brainstorm/prompts"
	"github.com/tailored-agentic-units/brainstorm/session"
)

// NoSummaryFallback is stored as the combined context when no material could
// be gathered or the summarization call failed.
const NoSummaryFallback = "No summary could be generated."

// ingestDocument reads the document named at ask_document into the state.
// A missing file reads as empty text; an unexpected read error degrades the
// same way rather than halting the session.
func (st *Stages) ingestDocument(ctx context.Context, s session.State) (session.Update, error) {
	text, err := st.deps.Documents.Extract(ctx, s.DocumentPath)
	if err != nil {
		st.degraded(ctx, StageIngestDocument, err)
		text = ""
	}
	return session.Update{DocumentText: ptr(text)}, nil
}

// contextSynthesis gathers background on the topic via web search, combines
// it with any ingested document text, and summarizes the result into the
// combined context every later prompt receives.
func (st *Stages) contextSynthesis(ctx context.Context, s session.State) (session.Update, error) {
	searched, err := st.deps.Web.Search(ctx, s.Topic)
	if err != nil {
		st.degraded(ctx, StageContextSynthesis, err)
		searched = ""
	}

	var parts []string
	if searched != "" {
		parts = append(parts, searched)
	}
	if s.DocumentText != "" {
		parts = append(parts, s.DocumentText)
	}

	if len(parts) == 0 {
		return session.Update{CombinedContext: ptr(NoSummaryFallback)}, nil
	}

	summary, err := st.deps.Text.Complete(ctx, string(prompts.ContextSummary), map[string]string{
		"text": strings.Join(parts, "\n\n"),
	})
	if err != nil {
		st.degraded(ctx, StageContextSynthesis, err)
		return session.Update{CombinedContext: ptr(NoSummaryFallback)}, nil
	}

	return session.Update{CombinedContext: ptr(strings.TrimSpace(summary))}, nil
}
