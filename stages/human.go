package stages

import (
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/brainstorm/graph"
	"github.com/tailored-agentic-units/brainstorm/session"
)

// Plan feedback values stored in state after normalization.
const (
	FeedbackApprove = "approve"
	FeedbackRevise  = "revise"
)

// Human-input stages. Prompt funcs render the message shown at suspension;
// reply funcs parse whatever the human typed, resolving anything ambiguous
// with a documented fallback instead of an error.

func promptDocument(s session.State) string {
	return fmt.Sprintf("Brainstorming %s ideas about %q.\n"+
		"Enter a path to a document to use as context, or press Enter to skip:",
		s.Kind, s.Topic)
}

func replyDocument(_ session.State, reply string) (session.Update, error) {
	return session.Update{DocumentPath: ptr(strings.TrimSpace(reply))}, nil
}

func promptFilterIdeas(s session.State) string {
	return fmt.Sprintf("The team settled on these ideas:\n\n%s\n\n"+
		"Enter the numbers to keep (e.g. \"1, 3\"), or press Enter to keep all:",
		formatIdeas(s.Ideas))
}

// replyFilterIdeas keeps the ideas the human picked. An empty or unusable
// reply keeps everything.
func replyFilterIdeas(s session.State, reply string) (session.Update, error) {
	indices, ok := ParseFilterIndices(reply, len(s.Ideas))
	if !ok {
		return session.Update{}, nil
	}

	kept := make([]session.Idea, 0, len(indices))
	for _, idx := range indices {
		kept = append(kept, s.Ideas[idx])
	}
	return session.Update{Ideas: ptr(kept)}, nil
}

func promptSelectIdea(s session.State) string {
	var sb strings.Builder
	if s.AnalysisNarrative != "" {
		sb.WriteString(s.AnalysisNarrative)
		sb.WriteString("\n\n")
	}

	if len(s.TopIdeas) > 0 {
		sb.WriteString("Top ideas:\n")
		for i, idea := range s.TopIdeas {
			fmt.Fprintf(&sb, "%d. %s\n   %s\n", i+1, idea.Title, idea.Description)
		}
	} else {
		sb.WriteString("Ideas:\n")
		for i, idea := range s.Ideas {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, idea.Title)
		}
	}

	sb.WriteString("\nEnter the number of the idea to develop:")
	return sb.String()
}

// replySelectIdea resolves the chosen idea from the evaluator's slate, or
// from the raw pool when the slate is empty. Anything unparseable selects
// the first entry. With nothing to choose from at all the selection is
// skipped entirely and the later stages substitute their no-idea fallbacks.
// Plan feedback is cleared so a session looping back here after a revision
// request routes cleanly next time.
func replySelectIdea(s session.State, reply string) (session.Update, error) {
	candidates := s.TopIdeas
	if len(candidates) == 0 {
		candidates = promoteIdeas(s.Ideas, len(s.Ideas))
	}
	if len(candidates) == 0 {
		return session.Update{PlanFeedback: ptr("")}, nil
	}

	chosen := candidates[parseSelection(reply, len(candidates))]
	return session.Update{
		ChosenIdea:   ptr(chosen),
		PlanFeedback: ptr(""),
	}, nil
}

func promptLiteratureSearch(s session.State) string {
	subject := s.Topic
	if s.ChosenIdea != nil {
		subject = s.ChosenIdea.Title
	}
	return fmt.Sprintf("Search recent literature related to %q before planning? [Y/n]:", subject)
}

// replyLiteratureSearch treats anything except an explicit no as yes.
func replyLiteratureSearch(_ session.State, reply string) (session.Update, error) {
	answer := strings.ToLower(strings.TrimSpace(reply))
	enabled := answer != "n" && answer != "no"
	return session.Update{UseLiteratureSearch: ptr(enabled)}, nil
}

func promptPlanFeedback(s session.State) string {
	return fmt.Sprintf("%s\n\nPress Enter to approve this plan, or type \"r\" to pick a different idea:",
		s.FinalPlan)
}

// replyPlanFeedback normalizes the raw reply into approve or revise. Only
// an explicit revision request loops the session back; everything else,
// including an empty reply, approves.
func replyPlanFeedback(_ session.State, reply string) (session.Update, error) {
	feedback := FeedbackApprove
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "r", "revise":
		feedback = FeedbackRevise
	}
	return session.Update{PlanFeedback: ptr(feedback)}, nil
}

// Routers. Pure functions of state; every target is declared in the wired
// graph.

func routeDocument(s session.State) string {
	if strings.TrimSpace(s.DocumentPath) != "" {
		return StageIngestDocument
	}
	return StageContextSynthesis
}

func routeLiterature(s session.State) string {
	if s.UseLiteratureSearch {
		return StageLiteratureSearch
	}
	return StagePlanGeneration
}

func routePlanFeedback(s session.State) string {
	if s.PlanFeedback == FeedbackRevise {
		return StageHumanSelectIdea
	}
	return graph.End
}
