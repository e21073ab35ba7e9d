package stages

import (
	"testing"

	"github.com/tailored-agentic-units/brainstorm/graph"
	"github.com/tailored-agentic-units/brainstorm/session"
)

func TestReplyFilterIdeas(t *testing.T) {
	s := session.New("t", session.KindProject)
	s.Ideas = []session.Idea{
		{Title: "One"}, {Title: "Two"}, {Title: "Three"},
	}

	t.Run("selection keeps picked ideas in reply order", func(t *testing.T) {
		update, err := replyFilterIdeas(s, "3, 1")
		if err != nil {
			t.Fatalf("replyFilterIdeas() error: %v", err)
		}
		kept := *update.Ideas
		if len(kept) != 2 || kept[0].Title != "Three" || kept[1].Title != "One" {
			t.Errorf("kept = %+v", kept)
		}
	})

	t.Run("unusable reply keeps all", func(t *testing.T) {
		for _, reply := range []string{"", "whatever", "0", "99"} {
			update, err := replyFilterIdeas(s, reply)
			if err != nil {
				t.Fatalf("replyFilterIdeas(%q) error: %v", reply, err)
			}
			if update.Ideas != nil {
				t.Errorf("reply %q filtered the pool: %+v", reply, *update.Ideas)
			}
		}
	})
}

func TestReplySelectIdea(t *testing.T) {
	s := session.New("t", session.KindProject)
	s.TopIdeas = []session.TopIdea{
		{Title: "First"}, {Title: "Second"},
	}

	cases := []struct {
		reply string
		want  string
	}{
		{reply: "2", want: "Second"},
		{reply: "1", want: "First"},
		{reply: "", want: "First"},
		{reply: "nonsense", want: "First"},
		{reply: "9", want: "First"},
	}
	for _, tc := range cases {
		update, err := replySelectIdea(s, tc.reply)
		if err != nil {
			t.Fatalf("replySelectIdea(%q) error: %v", tc.reply, err)
		}
		if update.ChosenIdea.Title != tc.want {
			t.Errorf("replySelectIdea(%q) chose %s, want %s", tc.reply, update.ChosenIdea.Title, tc.want)
		}
		if update.PlanFeedback == nil || *update.PlanFeedback != "" {
			t.Errorf("replySelectIdea(%q) did not clear plan feedback", tc.reply)
		}
	}

	t.Run("empty slate falls back to raw pool", func(t *testing.T) {
		s := session.New("t", session.KindProject)
		s.Ideas = []session.Idea{{Title: "Raw", Rationale: "r"}}

		update, err := replySelectIdea(s, "")
		if err != nil {
			t.Fatalf("replySelectIdea() error: %v", err)
		}
		if update.ChosenIdea.Title != "Raw" {
			t.Errorf("chose %s, want Raw", update.ChosenIdea.Title)
		}
	})

	t.Run("empty pool skips selection", func(t *testing.T) {
		update, err := replySelectIdea(session.New("t", session.KindProject), "")
		if err != nil {
			t.Fatalf("replySelectIdea() error: %v", err)
		}
		if update.ChosenIdea != nil {
			t.Errorf("chose %+v with no candidates", update.ChosenIdea)
		}
		if update.PlanFeedback == nil || *update.PlanFeedback != "" {
			t.Error("plan feedback not cleared on skip")
		}
	})
}

func TestReplyLiteratureSearch(t *testing.T) {
	cases := []struct {
		reply string
		want  bool
	}{
		{"", true},
		{"y", true},
		{"yes", true},
		{"sure", true},
		{"n", false},
		{"N", false},
		{"no", false},
	}
	for _, tc := range cases {
		update, err := replyLiteratureSearch(session.State{}, tc.reply)
		if err != nil {
			t.Fatalf("replyLiteratureSearch(%q) error: %v", tc.reply, err)
		}
		if *update.UseLiteratureSearch != tc.want {
			t.Errorf("replyLiteratureSearch(%q) = %v, want %v", tc.reply, *update.UseLiteratureSearch, tc.want)
		}
	}
}

func TestReplyPlanFeedback(t *testing.T) {
	cases := []struct {
		reply string
		want  string
	}{
		{"r", FeedbackRevise},
		{"R", FeedbackRevise},
		{"revise", FeedbackRevise},
		{"", FeedbackApprove},
		{"y", FeedbackApprove},
		{"looks good", FeedbackApprove},
	}
	for _, tc := range cases {
		update, err := replyPlanFeedback(session.State{}, tc.reply)
		if err != nil {
			t.Fatalf("replyPlanFeedback(%q) error: %v", tc.reply, err)
		}
		if *update.PlanFeedback != tc.want {
			t.Errorf("replyPlanFeedback(%q) = %s, want %s", tc.reply, *update.PlanFeedback, tc.want)
		}
	}
}

func TestRouters(t *testing.T) {
	t.Run("document", func(t *testing.T) {
		if got := routeDocument(session.State{DocumentPath: "notes.md"}); got != StageIngestDocument {
			t.Errorf("routeDocument(path) = %s", got)
		}
		if got := routeDocument(session.State{}); got != StageContextSynthesis {
			t.Errorf("routeDocument(empty) = %s", got)
		}
		if got := routeDocument(session.State{DocumentPath: "   "}); got != StageContextSynthesis {
			t.Errorf("routeDocument(blank) = %s", got)
		}
	})

	t.Run("literature", func(t *testing.T) {
		if got := routeLiterature(session.State{UseLiteratureSearch: true}); got != StageLiteratureSearch {
			t.Errorf("routeLiterature(on) = %s", got)
		}
		if got := routeLiterature(session.State{}); got != StagePlanGeneration {
			t.Errorf("routeLiterature(off) = %s", got)
		}
	})

	t.Run("plan feedback", func(t *testing.T) {
		if got := routePlanFeedback(session.State{PlanFeedback: FeedbackRevise}); got != StageHumanSelectIdea {
			t.Errorf("routePlanFeedback(revise) = %s", got)
		}
		if got := routePlanFeedback(session.State{PlanFeedback: FeedbackApprove}); got != graph.End {
			t.Errorf("routePlanFeedback(approve) = %s", got)
		}
		if got := routePlanFeedback(session.State{}); got != graph.End {
			t.Errorf("routePlanFeedback(empty) = %s", got)
		}
	})
}
