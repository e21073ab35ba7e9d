// Package prompts holds the string templates behind every model call,
// registered by template id. Templates are opaque collaborators to the
// workflow core: stages reference ids, the completion client renders them,
// and nothing downstream depends on the wording. Kind-specific templates
// (project vs research) are addressed via For.
package prompts

import (
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/tailored-agentic-units/brainstorm/session"
)

// TemplateID names a prompt family. Kind-specific families have one
// registered template per session kind; see For.
type TemplateID string

const (
	ContextSummary          TemplateID = "context_summary"
	PersonaGeneration       TemplateID = "persona_generation"
	DivergentIdeation       TemplateID = "divergent_ideation"
	CollaborativeDiscussion TemplateID = "collaborative_discussion"
	RedTeamCritique         TemplateID = "red_team_critique"
	ConvergentEvaluation    TemplateID = "convergent_evaluation"
	PlanGeneration          TemplateID = "plan_generation"
)

// For returns the registry key for a kind-specific template.
func For(id TemplateID, kind session.Kind) string {
	return string(id) + "." + string(kind)
}

var (
	mu        sync.RWMutex
	templates = map[string]*template.Template{}
)

// Register parses and stores a template under the given key, replacing any
// existing one. Panics on a malformed template — templates are compiled-in
// constants and a parse failure is a programming error.
func Register(key, text string) {
	tmpl := template.Must(template.New(key).Parse(text))

	mu.Lock()
	defer mu.Unlock()
	templates[key] = tmpl
}

// Render executes the template registered under key with vars.
func Render(key string, vars map[string]string) (string, error) {
	mu.RLock()
	tmpl, exists := templates[key]
	mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("unknown prompt template: %s", key)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, vars); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", key, err)
	}
	return sb.String(), nil
}

func init() {
	Register(string(ContextSummary), contextSummaryText)

	Register(For(PersonaGeneration, session.KindProject), personaProjectText)
	Register(For(PersonaGeneration, session.KindResearch), personaResearchText)

	Register(For(DivergentIdeation, session.KindProject), ideationProjectText)
	Register(For(DivergentIdeation, session.KindResearch), ideationResearchText)

	Register(For(CollaborativeDiscussion, session.KindProject), discussionProjectText)
	Register(For(CollaborativeDiscussion, session.KindResearch), discussionResearchText)

	Register(For(RedTeamCritique, session.KindProject), critiqueProjectText)
	Register(For(RedTeamCritique, session.KindResearch), critiqueResearchText)

	Register(For(ConvergentEvaluation, session.KindProject), evaluationProjectText)
	Register(For(ConvergentEvaluation, session.KindResearch), evaluationResearchText)

	Register(For(PlanGeneration, session.KindProject), planProjectText)
	Register(For(PlanGeneration, session.KindResearch), planResearchText)
}
