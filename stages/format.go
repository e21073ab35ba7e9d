package stages

import (
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/brainstorm/session"
)

// Wire shapes for model output. Field names match what the prompt templates
// ask the model to emit; project and research ideas carry different fields
// and are folded into the one session.Idea type on decode.

type projectIdeaWire struct {
	Idea           string `json:"idea"`
	TargetAudience string `json:"target_audience"`
	ProblemSolved  string `json:"problem_solved"`
	Rationale      string `json:"rationale"`
}

type researchIdeaWire struct {
	ResearchQuestion string `json:"research_question"`
	Methodology      string `json:"potential_methodology"`
	Contribution     string `json:"potential_contribution"`
	Rationale        string `json:"rationale"`
}

type ideaBatchWire struct {
	ProjectIdeas  []projectIdeaWire  `json:"project_ideas"`
	ResearchIdeas []researchIdeaWire `json:"research_ideas"`
}

type personaBatchWire struct {
	Personas []session.Persona `json:"personas"`
}

type critiqueBatchWire struct {
	Critiques []session.Critique `json:"critiques"`
}

func (w ideaBatchWire) toIdeas(kind session.Kind, originRole string) []session.Idea {
	var ideas []session.Idea

	switch kind {
	case session.KindProject:
		for _, p := range w.ProjectIdeas {
			if p.Idea == "" {
				continue
			}
			ideas = append(ideas, session.Idea{
				Kind:           kind,
				Title:          p.Idea,
				TargetAudience: p.TargetAudience,
				ProblemSolved:  p.ProblemSolved,
				Rationale:      p.Rationale,
				OriginRole:     originRole,
			})
		}
	case session.KindResearch:
		for _, r := range w.ResearchIdeas {
			if r.ResearchQuestion == "" {
				continue
			}
			ideas = append(ideas, session.Idea{
				Kind:         kind,
				Title:        r.ResearchQuestion,
				Methodology:  r.Methodology,
				Contribution: r.Contribution,
				Rationale:    r.Rationale,
				OriginRole:   originRole,
			})
		}
	}

	return ideas
}

// formatIdeas renders ideas as a numbered plain-text list for prompt
// interpolation and human display.
func formatIdeas(ideas []session.Idea) string {
	var sb strings.Builder
	for i, idea := range ideas {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, idea.Title)
		if idea.Kind == session.KindProject {
			if idea.TargetAudience != "" {
				fmt.Fprintf(&sb, "\n   Target audience: %s", idea.TargetAudience)
			}
			if idea.ProblemSolved != "" {
				fmt.Fprintf(&sb, "\n   Problem solved: %s", idea.ProblemSolved)
			}
		} else {
			if idea.Methodology != "" {
				fmt.Fprintf(&sb, "\n   Methodology: %s", idea.Methodology)
			}
			if idea.Contribution != "" {
				fmt.Fprintf(&sb, "\n   Contribution: %s", idea.Contribution)
			}
		}
		if idea.Rationale != "" {
			fmt.Fprintf(&sb, "\n   Rationale: %s", idea.Rationale)
		}
	}
	return sb.String()
}

// formatIdeasWithCritiques pairs each idea with its critique by exact title
// match. Ideas without a critique render without a critique line.
func formatIdeasWithCritiques(ideas []session.Idea, critiques []session.Critique) string {
	byTitle := make(map[string]string, len(critiques))
	for _, c := range critiques {
		byTitle[c.IdeaTitle] = c.Critique
	}

	var sb strings.Builder
	for i, idea := range ideas {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%d. %s\n   Rationale: %s", i+1, idea.Title, idea.Rationale)
		if critique, ok := byTitle[idea.Title]; ok {
			fmt.Fprintf(&sb, "\n   Critique: %s", critique)
		}
	}
	return sb.String()
}

func ptr[T any](v T) *T {
	return &v
}
