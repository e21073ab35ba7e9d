// Package stages implements the brainstorm workflow: the compute, router,
// and human-input stage functions plus the graph wiring that connects them.
//
// Compute stages never return an error for collaborator failures. Each one
// degrades to a documented default (empty critiques, a sentinel context
// string, the unfiltered idea list) and emits a warning event, so a flaky
// model or network takes quality out of a session, not the session itself.
package stages

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/brainstorm/config"
	"github.com/tailored-agentic-units/brainstorm/graph"
	"github.com/tailored-agentic-units/brainstorm/observability"
	"github.com/tailored-agentic-units/brainstorm/services"
)

// Stage names. Routing targets in the wired graph refer to these.
const (
	StageAskDocument             = "ask_document"
	StageRouteDocument           = "route_document"
	StageIngestDocument          = "ingest_document"
	StageContextSynthesis        = "context_synthesis"
	StagePersonaGeneration       = "persona_generation"
	StageDivergentIdeation       = "divergent_ideation"
	StageCollaborativeDiscussion = "collaborative_discussion"
	StageHumanFilterIdeas        = "human_filter_ideas"
	StageRedTeamCritique         = "red_team_critique"
	StageConvergentEvaluation    = "convergent_evaluation"
	StageHumanSelectIdea         = "human_select_idea"
	StageAskLiteratureSearch     = "ask_literature_search"
	StageRouteLiterature         = "route_literature"
	StageLiteratureSearch        = "literature_search"
	StagePlanGeneration          = "plan_generation"
	StageHumanPlanFeedback       = "human_plan_feedback"
	StageRoutePlanFeedback       = "route_plan_feedback"
)

// EventStageDegraded reports that a stage substituted its fallback output
// after a collaborator failure.
const EventStageDegraded observability.EventType = "stage.degraded"

// Deps bundles the external collaborators the stage functions call.
type Deps struct {
	Text       services.TextCompletion
	Structured services.StructuredCompletion
	Web        services.WebSearch
	Documents  services.DocumentTextExtractor
	Literature services.LiteratureSearch
}

// Stages holds the collaborators and configuration behind the workflow's
// stage functions. One Stages value backs any number of concurrent sessions;
// it carries no per-session data.
type Stages struct {
	deps     Deps
	cfg      config.Config
	observer observability.Observer
}

// New creates the stage set. The observer named in cfg.Graph is resolved
// through the observability registry and shared with fan-out batches.
func New(cfg config.Config, deps Deps) (*Stages, error) {
	observer, err := observability.GetObserver(cfg.Graph.Observer)
	if err != nil {
		return nil, err
	}
	return &Stages{deps: deps, cfg: cfg, observer: observer}, nil
}

// Graph compiles the full brainstorm workflow.
//
// The session runs ask_document through convergent_evaluation once, then
// loops: an approved plan ends the session, a revision request routes back
// to idea selection with all generated material intact.
func (st *Stages) Graph() (*graph.Graph, error) {
	b := graph.NewBuilder(st.cfg.Graph)

	b.AddHuman(StageAskDocument, promptDocument, replyDocument, StageRouteDocument)
	b.AddRouter(StageRouteDocument, routeDocument, StageIngestDocument, StageContextSynthesis)
	b.AddCompute(StageIngestDocument, st.ingestDocument, StageContextSynthesis)
	b.AddCompute(StageContextSynthesis, st.contextSynthesis, StagePersonaGeneration)

	b.AddCompute(StagePersonaGeneration, st.personaGeneration, StageDivergentIdeation)
	b.AddCompute(StageDivergentIdeation, st.divergentIdeation, StageCollaborativeDiscussion)
	b.AddCompute(StageCollaborativeDiscussion, st.collaborativeDiscussion, StageHumanFilterIdeas)
	b.AddHuman(StageHumanFilterIdeas, promptFilterIdeas, replyFilterIdeas, StageRedTeamCritique)
	b.AddCompute(StageRedTeamCritique, st.redTeamCritique, StageConvergentEvaluation)
	b.AddCompute(StageConvergentEvaluation, st.convergentEvaluation, StageHumanSelectIdea)
	b.AddHuman(StageHumanSelectIdea, promptSelectIdea, replySelectIdea, StageAskLiteratureSearch)

	b.AddHuman(StageAskLiteratureSearch, promptLiteratureSearch, replyLiteratureSearch, StageRouteLiterature)
	b.AddRouter(StageRouteLiterature, routeLiterature, StageLiteratureSearch, StagePlanGeneration)
	b.AddCompute(StageLiteratureSearch, st.literatureSearch, StagePlanGeneration)
	b.AddCompute(StagePlanGeneration, st.planGeneration, StageHumanPlanFeedback)
	b.AddHuman(StageHumanPlanFeedback, promptPlanFeedback, replyPlanFeedback, StageRoutePlanFeedback)
	b.AddRouter(StageRoutePlanFeedback, routePlanFeedback, StageHumanSelectIdea, graph.End)

	b.SetEntryPoint(StageAskDocument)
	return b.Compile()
}

// degraded emits a warning that a stage substituted its fallback output.
func (st *Stages) degraded(ctx context.Context, stage string, err error) {
	st.observer.OnEvent(ctx, observability.Event{
		Type:      EventStageDegraded,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    "stages." + stage,
		Data: map[string]any{
			"failure_kind": string(services.KindOf(err)),
			"error":        err.Error(),
		},
	})
}
