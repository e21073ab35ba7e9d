package stages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tailored-agentic-units/brainstorm/prompts"
	"github.com/tailored-agentic-units/brainstorm/session"
)

// NoPapersFallback is stored as the literature context when the search
// returned nothing recent enough, or failed entirely.
const NoPapersFallback = "No relevant papers found for this topic."

// NoPlanFallback is stored as the final plan when plan generation failed.
const NoPlanFallback = "No plan could be generated."

// literatureSearch queries the literature collaborator for the chosen idea
// and keeps only papers published inside the configured recency window.
func (st *Stages) literatureSearch(ctx context.Context, s session.State) (session.Update, error) {
	if s.ChosenIdea == nil {
		return session.Update{LiteratureContext: ptr(NoPapersFallback)}, nil
	}

	papers, err := st.deps.Literature.Search(ctx, s.ChosenIdea.Title, st.cfg.Literature.MaxDocs)
	if err != nil {
		st.degraded(ctx, StageLiteratureSearch, err)
		return session.Update{LiteratureContext: ptr(NoPapersFallback)}, nil
	}

	cutoff := time.Now().AddDate(0, 0, -st.cfg.Literature.RecencyCutoffDays)
	var entries []string
	for _, paper := range papers {
		if paper.Published.Before(cutoff) {
			continue
		}
		entries = append(entries, fmt.Sprintf("Title: %s\nPublished: %s\nAbstract: %s",
			paper.Title, paper.Published.Format("2006-01-02"), paper.Abstract))
	}

	if len(entries) == 0 {
		return session.Update{LiteratureContext: ptr(NoPapersFallback)}, nil
	}

	return session.Update{LiteratureContext: ptr(strings.Join(entries, "\n\n"))}, nil
}

// planGeneration produces the final plan for the chosen idea, lifts its
// mermaid diagram out, and appends the literature context under a divider
// so the saved plan is self-contained.
func (st *Stages) planGeneration(ctx context.Context, s session.State) (session.Update, error) {
	if s.ChosenIdea == nil {
		return session.Update{FinalPlan: ptr(NoPlanFallback)}, nil
	}

	plan, err := st.deps.Text.Complete(ctx, prompts.For(prompts.PlanGeneration, s.Kind), map[string]string{
		"title":       s.ChosenIdea.Title,
		"description": s.ChosenIdea.Description,
		"literature":  s.LiteratureContext,
	})
	if err != nil {
		st.degraded(ctx, StagePlanGeneration, err)
		return session.Update{FinalPlan: ptr(NoPlanFallback)}, nil
	}

	plan = strings.TrimSpace(plan)
	diagram := ExtractMermaidBlock(plan)

	if s.LiteratureContext != "" {
		plan = plan + "\n\n---\n\n" + s.LiteratureContext
	}

	return session.Update{
		FinalPlan:   ptr(plan),
		PlanDiagram: ptr(diagram),
	}, nil
}
