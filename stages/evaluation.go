package stages

import (
	"context"
	"encoding/json"

	"github.com/tailored-agentic-units/brainstorm/prompts"
	"github.com/tailored-agentic-units/brainstorm/session"
)

// redTeamCritique asks the model to critique every surviving idea in one
// call. On failure the session carries an empty critique list and the
// evaluation stage sees the ideas uncritiqued.
func (st *Stages) redTeamCritique(ctx context.Context, s session.State) (session.Update, error) {
	var batch critiqueBatchWire
	err := st.deps.Structured.CompleteInto(ctx, prompts.For(prompts.RedTeamCritique, s.Kind), map[string]string{
		"ideas": formatIdeas(s.Ideas),
	}, &batch)
	if err != nil {
		st.degraded(ctx, StageRedTeamCritique, err)
		return session.Update{Critiques: ptr([]session.Critique{})}, nil
	}

	return session.Update{Critiques: ptr(batch.Critiques)}, nil
}

// convergentEvaluation pairs each idea with its critique, asks the model for
// a comparative analysis, and splits the reply into a narrative and the top
// ideas carried in the reply's first fenced json block.
//
// Degradation is two-tiered. A failed completion falls back to promoting the
// first ideas directly so selection still has candidates. A completion that
// answered but carried no json block, a block that does not decode, or a
// block whose records are missing a title or description keeps the
// narrative and leaves the top-idea slate empty, letting selection fall
// back to the raw idea pool.
func (st *Stages) convergentEvaluation(ctx context.Context, s session.State) (session.Update, error) {
	text, err := st.deps.Text.Complete(ctx, prompts.For(prompts.ConvergentEvaluation, s.Kind), map[string]string{
		"raw_ideas": formatIdeasWithCritiques(s.Ideas, s.Critiques),
	})
	if err != nil {
		st.degraded(ctx, StageConvergentEvaluation, err)
		return session.Update{
			AnalysisNarrative: ptr(""),
			TopIdeas:          ptr(promoteIdeas(s.Ideas, 3)),
		}, nil
	}

	payload, narrative, found := ExtractJSONBlock(text)
	if !found {
		return session.Update{
			AnalysisNarrative: ptr(narrative),
			TopIdeas:          ptr([]session.TopIdea{}),
		}, nil
	}

	var top []session.TopIdea
	if err := json.Unmarshal([]byte(payload), &top); err != nil || !validSlate(top) {
		top = []session.TopIdea{}
	}

	return session.Update{
		AnalysisNarrative: ptr(narrative),
		TopIdeas:          ptr(top),
	}, nil
}

// validSlate reports whether every decoded record carries both fields the
// selection stage depends on.
func validSlate(top []session.TopIdea) bool {
	for _, idea := range top {
		if idea.Title == "" || idea.Description == "" {
			return false
		}
	}
	return true
}

// promoteIdeas converts up to limit raw ideas into top-idea entries.
func promoteIdeas(ideas []session.Idea, limit int) []session.TopIdea {
	var top []session.TopIdea
	for _, idea := range ideas {
		if len(top) == limit {
			break
		}
		top = append(top, session.TopIdea{Title: idea.Title, Description: idea.Rationale})
	}
	return top
}
