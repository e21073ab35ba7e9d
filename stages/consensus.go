package stages

import (
	"strings"

	"github.com/tailored-agentic-units/brainstorm/session"
)

// ConsensusQuorum is the number of distinct personas that must champion an
// idea during collaborative discussion for it to survive the merge.
const ConsensusQuorum = 2

// MergeConsensus folds per-persona discussion picks into a consensus slate.
// Picks are matched against the pool by exact title: a pick whose title
// names no pool idea is dropped (models re-emit ideas and occasionally
// invent titles), the pool record becomes the base for a surviving idea,
// each champion's rationale is collected as a "role: rationale" line, and
// only titles championed by at least ConsensusQuorum distinct personas
// survive. Output order follows first appearance across batches.
func MergeConsensus(pool []session.Idea, batches [][]session.Idea) []session.Idea {
	byTitle := make(map[string]session.Idea, len(pool))
	for _, idea := range pool {
		if _, exists := byTitle[idea.Title]; !exists {
			byTitle[idea.Title] = idea
		}
	}

	type tally struct {
		rationales []string
		champions  map[string]bool
	}

	var order []string
	tallies := make(map[string]*tally)

	for _, batch := range batches {
		for _, pick := range batch {
			if _, known := byTitle[pick.Title]; !known {
				continue
			}
			t, exists := tallies[pick.Title]
			if !exists {
				t = &tally{champions: make(map[string]bool)}
				tallies[pick.Title] = t
				order = append(order, pick.Title)
			}
			if t.champions[pick.OriginRole] {
				continue
			}
			t.champions[pick.OriginRole] = true
			t.rationales = append(t.rationales, pick.OriginRole+": "+pick.Rationale)
		}
	}

	var merged []session.Idea
	for _, title := range order {
		t := tallies[title]
		if len(t.champions) < ConsensusQuorum {
			continue
		}
		idea := byTitle[title]
		idea.Rationale = strings.Join(t.rationales, "\n")
		merged = append(merged, idea)
	}
	return merged
}
