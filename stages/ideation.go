package stages

import (
	"context"

	"github.com/tailored-agentic-units/brainstorm/fanout"
	"github.com/tailored-agentic-units/brainstorm/prompts"
	"github.com/tailored-agentic-units/brainstorm/session"
)

// personaGeneration asks the model for a panel of expert personas. On
// failure the session continues with a fixed generic panel so the fan-out
// stages always have viewpoints to work with.
func (st *Stages) personaGeneration(ctx context.Context, s session.State) (session.Update, error) {
	var batch personaBatchWire
	err := st.deps.Structured.CompleteInto(ctx, prompts.For(prompts.PersonaGeneration, s.Kind), map[string]string{
		"topic":   s.Topic,
		"context": s.CombinedContext,
	}, &batch)
	if err != nil || len(batch.Personas) == 0 {
		if err != nil {
			st.degraded(ctx, StagePersonaGeneration, err)
		}
		return session.Update{Personas: ptr(defaultPersonas(s.Kind))}, nil
	}

	return session.Update{Personas: ptr(batch.Personas)}, nil
}

func defaultPersonas(kind session.Kind) []session.Persona {
	if kind == session.KindResearch {
		return []session.Persona{
			{Role: "Theorist", Goal: "Find directions with strong conceptual novelty", Backstory: "Career academic focused on foundations."},
			{Role: "Empiricist", Goal: "Find directions that can be tested with available data", Backstory: "Runs a measurement-driven lab."},
			{Role: "Methodologist", Goal: "Find directions where methodology itself is the contribution", Backstory: "Reviews for top venues."},
			{Role: "Practitioner", Goal: "Find directions with near-term applied impact", Backstory: "Splits time between industry and research."},
		}
	}
	return []session.Persona{
		{Role: "Product Visionary", Goal: "Find ideas users would love", Backstory: "Has shipped consumer products for a decade."},
		{Role: "Staff Engineer", Goal: "Find ideas that are feasible to build well", Backstory: "Owns architecture for a large platform."},
		{Role: "Growth Strategist", Goal: "Find ideas with a clear path to adoption", Backstory: "Took two startups from zero to scale."},
		{Role: "Skeptical Investor", Goal: "Find ideas that survive hard questions", Backstory: "Passes on most pitches."},
	}
}

// divergentIdeation fans out one ideation call per persona. Persona order
// defines output order regardless of completion timing, and a persona whose
// call fails simply contributes no ideas.
func (st *Stages) divergentIdeation(ctx context.Context, s session.State) (session.Update, error) {
	templateID := prompts.For(prompts.DivergentIdeation, s.Kind)

	batches := fanout.Run(ctx, fanout.Config{
		Observer: st.observer,
		Source:   "stages." + StageDivergentIdeation,
	}, s.Personas, func(ctx context.Context, p session.Persona) ([]session.Idea, error) {
		var batch ideaBatchWire
		err := st.deps.Structured.CompleteInto(ctx, templateID, map[string]string{
			"topic":     s.Topic,
			"context":   s.CombinedContext,
			"role":      p.Role,
			"goal":      p.Goal,
			"backstory": p.Backstory,
		}, &batch)
		if err != nil {
			return nil, err
		}
		return batch.toIdeas(s.Kind, p.Role), nil
	})

	for _, itemErr := range batches.Errors {
		st.degraded(ctx, StageDivergentIdeation, itemErr.Err)
	}

	var ideas []session.Idea
	for _, batch := range batches.Results {
		ideas = append(ideas, batch...)
	}

	return session.Update{Ideas: ptr(ideas)}, nil
}

// collaborativeDiscussion shows every persona the full idea pool, fans out
// one champion-selection call per persona, and merges the picks against the
// pool under the consensus quorum. The merge result replaces the pool
// wholesale, empty or not; an empty pool short-circuits through the later
// stages via their no-idea fallbacks.
func (st *Stages) collaborativeDiscussion(ctx context.Context, s session.State) (session.Update, error) {
	templateID := prompts.For(prompts.CollaborativeDiscussion, s.Kind)
	allIdeas := formatIdeas(s.Ideas)

	picks := fanout.Run(ctx, fanout.Config{
		Observer: st.observer,
		Source:   "stages." + StageCollaborativeDiscussion,
	}, s.Personas, func(ctx context.Context, p session.Persona) ([]session.Idea, error) {
		var batch ideaBatchWire
		err := st.deps.Structured.CompleteInto(ctx, templateID, map[string]string{
			"topic":     s.Topic,
			"role":      p.Role,
			"backstory": p.Backstory,
			"all_ideas": allIdeas,
		}, &batch)
		if err != nil {
			return nil, err
		}
		return batch.toIdeas(s.Kind, p.Role), nil
	})

	for _, itemErr := range picks.Errors {
		st.degraded(ctx, StageCollaborativeDiscussion, itemErr.Err)
	}

	merged := MergeConsensus(s.Ideas, picks.Results)
	return session.Update{Ideas: ptr(merged)}, nil
}
