// Package session defines the state record threaded through a brainstorm
// workflow run, the partial-update contract stages use to modify it, and the
// checkpoint stores that persist it across human-input suspensions.
package session

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind selects which template family and idea field set a session uses.
// It is set once at session creation and never changes.
type Kind string

const (
	KindProject  Kind = "project"
	KindResearch Kind = "research"
)

// Valid reports whether k is a known session kind.
func (k Kind) Valid() bool {
	return k == KindProject || k == KindResearch
}

// Persona is a synthetic expert viewpoint used to diversify idea generation.
type Persona struct {
	Role      string `json:"role"`
	Goal      string `json:"goal"`
	Backstory string `json:"backstory"`
}

// Idea is a single brainstormed idea. The Kind tag selects which field set
// is meaningful: project ideas carry TargetAudience/ProblemSolved, research
// ideas carry Methodology/Contribution. An idea is identified by its Title
// (the idea name or research question) — there is no synthetic id, so two
// distinct ideas sharing a title collide in consensus and critique matching.
type Idea struct {
	Kind           Kind   `json:"kind"`
	Title          string `json:"title"`
	TargetAudience string `json:"target_audience,omitempty"`
	ProblemSolved  string `json:"problem_solved,omitempty"`
	Methodology    string `json:"potential_methodology,omitempty"`
	Contribution   string `json:"potential_contribution,omitempty"`
	Rationale      string `json:"rationale"`
	OriginRole     string `json:"origin_role"`
}

// Critique is a red-team critique keyed to an idea by exact title equality.
type Critique struct {
	IdeaTitle string `json:"idea_title"`
	Critique  string `json:"critique"`
}

// TopIdea is one of the evaluator's selected ideas.
type TopIdea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// State is the record threaded through every workflow stage. It is owned
// exclusively by one runner per session; stages receive it read-only and
// return an Update, so there is never a concurrent writer.
type State struct {
	ID    string `json:"id"`
	Topic string `json:"topic"`
	Kind  Kind   `json:"kind"`

	DocumentPath    string `json:"document_path,omitempty"`
	DocumentText    string `json:"document_text,omitempty"`
	CombinedContext string `json:"combined_context"`

	Personas  []Persona  `json:"personas"`
	Ideas     []Idea     `json:"ideas"`
	Critiques []Critique `json:"critiques"`

	AnalysisNarrative string   `json:"analysis_narrative"`
	TopIdeas          []TopIdea `json:"top_ideas"`
	ChosenIdea        *TopIdea  `json:"chosen_idea,omitempty"`

	UseLiteratureSearch bool   `json:"use_literature_search"`
	LiteratureContext   string `json:"literature_context"`

	FinalPlan    string `json:"final_plan"`
	PlanDiagram  string `json:"plan_diagram,omitempty"`
	PlanFeedback string `json:"plan_feedback,omitempty"`
}

// New creates a fresh session State for the given topic and kind with a
// generated session id. Literature search defaults to enabled.
func New(topic string, kind Kind) State {
	return State{
		ID:                  uuid.New().String(),
		Topic:               topic,
		Kind:                kind,
		UseLiteratureSearch: true,
	}
}

// Validate checks the fields every stage depends on. A State failing
// validation cannot sensibly flow through the graph; the runner surfaces
// this as a fatal error rather than degrading.
func (s State) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	if s.Topic == "" {
		return fmt.Errorf("session topic is empty")
	}
	if !s.Kind.Valid() {
		return fmt.Errorf("unknown session kind %q", s.Kind)
	}
	return nil
}

// Update is a partial State modification. Nil fields are left untouched;
// non-nil fields replace the corresponding State field wholesale. Stages
// declare interest in fields by setting them, which is the contract that
// permits stages to be tested in isolation.
type Update struct {
	DocumentPath        *string
	DocumentText        *string
	CombinedContext     *string
	Personas            *[]Persona
	Ideas               *[]Idea
	Critiques           *[]Critique
	AnalysisNarrative   *string
	TopIdeas            *[]TopIdea
	ChosenIdea          *TopIdea
	UseLiteratureSearch *bool
	LiteratureContext   *string
	FinalPlan           *string
	PlanDiagram         *string
	PlanFeedback        *string
}

// Apply merges an Update into the State and returns the result. The
// receiver is not modified.
func (s State) Apply(u Update) State {
	next := s

	if u.DocumentPath != nil {
		next.DocumentPath = *u.DocumentPath
	}
	if u.DocumentText != nil {
		next.DocumentText = *u.DocumentText
	}
	if u.CombinedContext != nil {
		next.CombinedContext = *u.CombinedContext
	}
	if u.Personas != nil {
		next.Personas = *u.Personas
	}
	if u.Ideas != nil {
		next.Ideas = *u.Ideas
	}
	if u.Critiques != nil {
		next.Critiques = *u.Critiques
	}
	if u.AnalysisNarrative != nil {
		next.AnalysisNarrative = *u.AnalysisNarrative
	}
	if u.TopIdeas != nil {
		next.TopIdeas = *u.TopIdeas
	}
	if u.ChosenIdea != nil {
		chosen := *u.ChosenIdea
		next.ChosenIdea = &chosen
	}
	if u.UseLiteratureSearch != nil {
		next.UseLiteratureSearch = *u.UseLiteratureSearch
	}
	if u.LiteratureContext != nil {
		next.LiteratureContext = *u.LiteratureContext
	}
	if u.FinalPlan != nil {
		next.FinalPlan = *u.FinalPlan
	}
	if u.PlanDiagram != nil {
		next.PlanDiagram = *u.PlanDiagram
	}
	if u.PlanFeedback != nil {
		next.PlanFeedback = *u.PlanFeedback
	}

	return next
}
