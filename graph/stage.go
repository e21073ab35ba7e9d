package graph

import (
	"context"

	"github.com/tailored-agentic-units/brainstorm/session"
)

// End is the terminal routing target. A router returning End finishes the
// session; End never names a real stage.
const End = "END"

// ComputeFunc is one unit of work: it reads the session state and returns a
// partial update. Compute functions own their failure handling — a transient
// collaborator error must be converted into a safe default update, not
// returned. A returned error is treated as unrecoverable and halts the run.
type ComputeFunc func(ctx context.Context, s session.State) (session.Update, error)

// RouteFunc evaluates state and picks the next stage name (or End) from the
// router's declared targets. It must be pure: no I/O, no mutation.
type RouteFunc func(s session.State) string

// PromptFunc renders the message shown to the human at a suspension point.
type PromptFunc func(s session.State) string

// ReplyFunc parses the human's raw reply into a partial update. Ambiguous
// input is resolved by documented fallbacks inside the func, never by error;
// a returned error is unrecoverable.
type ReplyFunc func(s session.State, reply string) (session.Update, error)

// stageKind discriminates the three stage flavors a graph supports.
type stageKind int

const (
	kindCompute stageKind = iota
	kindRouter
	kindHuman
)

func (k stageKind) String() string {
	switch k {
	case kindCompute:
		return "compute"
	case kindRouter:
		return "router"
	default:
		return "human"
	}
}

// stage is one named node of the compiled graph. Exactly one of the
// function fields is set, matching kind.
type stage struct {
	name    string
	kind    stageKind
	next    string   // compute and human stages advance here unconditionally
	targets []string // router stages select among these (may include End)

	run     ComputeFunc
	route   RouteFunc
	prompt  PromptFunc
	onReply ReplyFunc
}
