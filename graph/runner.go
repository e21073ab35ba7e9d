package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/brainstorm/config"
	"github.com/tailored-agentic-units/brainstorm/observability"
	"github.com/tailored-agentic-units/brainstorm/session"
)

// Prompt describes a human-input suspension surfaced to the caller. The
// caller shows Message to a human and later calls Resume with the session
// id and the reply text — nothing else is needed, even after a process
// restart, because the session was checkpointed.
type Prompt struct {
	SessionID string
	Stage     string
	Message   string
}

// Outcome is the result of driving a session. Either the session reached
// the terminal target (Done, final State) or it suspended for human input
// (Prompt describes what to ask).
type Outcome struct {
	Done   bool
	State  session.State
	Prompt Prompt
}

// Runner drives a compiled Graph against one session at a time. The runner
// owns the session state exclusively between Run/Resume calls; stages never
// execute concurrently against the same state.
type Runner struct {
	graph    *Graph
	store    session.CheckpointStore
	observer observability.Observer
	preserve bool
}

// NewRunner creates a Runner with the checkpoint store named in cfg.
// Store "file" resolves to a file-backed store rooted at cfg.Path; other
// names resolve through the checkpoint-store registry.
func NewRunner(g *Graph, cfg config.CheckpointConfig) (*Runner, error) {
	var store session.CheckpointStore
	var err error

	if cfg.Store == "file" && cfg.Path != "" {
		store = session.NewFileCheckpointStore(cfg.Path)
	} else {
		store, err = session.GetCheckpointStore(cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve checkpoint store: %w", err)
		}
	}

	return &Runner{
		graph:    g,
		store:    store,
		observer: g.observer,
		preserve: cfg.Preserve,
	}, nil
}

// NewRunnerWithStore creates a Runner with an explicit store, bypassing the
// registry. Intended for tests and embedders that construct stores directly.
func NewRunnerWithStore(g *Graph, store session.CheckpointStore, preserve bool) *Runner {
	return &Runner{
		graph:    g,
		store:    store,
		observer: g.observer,
		preserve: preserve,
	}
}

// Run starts a session at the graph's entry stage and drives it until it
// either suspends for human input or reaches the terminal target.
//
// Stage functions are responsible for degrading transient failures into
// safe default updates; an error returned by a stage is unrecoverable and
// surfaces as an *ExecutionError.
func (r *Runner) Run(ctx context.Context, initial session.State) (Outcome, error) {
	if err := initial.Validate(); err != nil {
		return Outcome{State: initial}, execErr(r.graph.entry, initial, nil, fmt.Errorf("invalid session: %w", err))
	}

	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventGraphStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    r.graph.name,
		Data: map[string]any{
			"session_id": initial.ID,
			"entry":      r.graph.entry,
			"stages":     len(r.graph.stages),
		},
	})

	return r.drive(ctx, r.graph.entry, initial, nil)
}

// Pending returns the human-input prompt a suspended session is waiting on
// without consuming it. ErrNoCheckpoint means no session is suspended under
// that id.
func (r *Runner) Pending(sessionID string) (Prompt, error) {
	cp, err := r.store.Load(sessionID)
	if err != nil {
		return Prompt{}, fmt.Errorf("%w: %s: %v", ErrNoCheckpoint, sessionID, err)
	}

	s, exists := r.graph.stages[cp.Stage]
	if !exists || s.kind != kindHuman {
		return Prompt{}, fmt.Errorf("checkpoint stage %s is not a human-input stage in this graph", cp.Stage)
	}

	return Prompt{
		SessionID: sessionID,
		Stage:     cp.Stage,
		Message:   s.prompt(cp.State),
	}, nil
}

// Resume continues a suspended session. The checkpoint saved at suspension
// is loaded by session id, the pending human-input stage parses the reply
// into a state update, and the session is driven forward from there.
func (r *Runner) Resume(ctx context.Context, sessionID, reply string) (Outcome, error) {
	cp, err := r.store.Load(sessionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %s: %v", ErrNoCheckpoint, sessionID, err)
	}

	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventCheckpointLoad,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    r.graph.name,
		Data: map[string]any{
			"session_id": sessionID,
			"stage":      cp.Stage,
		},
	})

	s, exists := r.graph.stages[cp.Stage]
	if !exists || s.kind != kindHuman {
		return Outcome{State: cp.State}, execErr(cp.Stage, cp.State, nil,
			fmt.Errorf("checkpoint stage %s is not a human-input stage in this graph", cp.Stage))
	}

	update, err := s.onReply(cp.State, reply)
	if err != nil {
		return Outcome{State: cp.State}, execErr(cp.Stage, cp.State, nil,
			fmt.Errorf("reply handling failed: %w", err))
	}
	state := cp.State.Apply(update)

	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventStageResume,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    r.graph.name,
		Data: map[string]any{
			"session_id":   sessionID,
			"stage":        cp.Stage,
			"reply_length": len(reply),
		},
	})

	return r.drive(ctx, s.next, state, []string{cp.Stage})
}

func (r *Runner) drive(ctx context.Context, current string, state session.State, path []string) (Outcome, error) {
	iterations := 0
	visited := make(map[string]int)

	for {
		if current == End {
			return r.complete(ctx, state, path)
		}

		if err := ctx.Err(); err != nil {
			return Outcome{State: state}, execErr(current, state, path, fmt.Errorf("execution cancelled: %w", err))
		}

		iterations++
		if iterations > r.graph.maxIterations {
			return Outcome{State: state}, execErr(current, state, path,
				fmt.Errorf("max iterations (%d) exceeded", r.graph.maxIterations))
		}

		visited[current]++
		path = append(path, current)

		if visited[current] > 1 {
			r.observer.OnEvent(ctx, observability.Event{
				Type:      EventCycleDetected,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    r.graph.name,
				Data: map[string]any{
					"session_id":  state.ID,
					"stage":       current,
					"visit_count": visited[current],
				},
			})
		}

		s := r.graph.stages[current]

		r.observer.OnEvent(ctx, observability.Event{
			Type:      EventStageStart,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    r.graph.name,
			Data: map[string]any{
				"session_id": state.ID,
				"stage":      current,
				"kind":       s.kind.String(),
			},
		})

		switch s.kind {
		case kindCompute:
			update, err := s.run(ctx, state)
			if err != nil {
				return Outcome{State: state}, execErr(current, state, path,
					fmt.Errorf("stage execution failed: %w", err))
			}
			state = state.Apply(update)

			r.observer.OnEvent(ctx, observability.Event{
				Type:      EventStageComplete,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    r.graph.name,
				Data: map[string]any{
					"session_id": state.ID,
					"stage":      current,
				},
			})

			current = s.next

		case kindRouter:
			target := s.route(state)
			if !s.hasTarget(target) {
				return Outcome{State: state}, execErr(current, state, path,
					fmt.Errorf("router selected undeclared target %q", target))
			}

			r.observer.OnEvent(ctx, observability.Event{
				Type:      EventRouteSelect,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    r.graph.name,
				Data: map[string]any{
					"session_id": state.ID,
					"stage":      current,
					"target":     target,
				},
			})

			current = target

		case kindHuman:
			return r.suspend(ctx, s, state, path)
		}
	}
}

func (r *Runner) suspend(ctx context.Context, s *stage, state session.State, path []string) (Outcome, error) {
	message := s.prompt(state)

	cp := session.Checkpoint{
		SessionID: state.ID,
		Stage:     s.name,
		State:     state,
		SavedAt:   time.Now(),
	}
	if err := r.store.Save(cp); err != nil {
		return Outcome{State: state}, execErr(s.name, state, path,
			fmt.Errorf("checkpoint save failed: %w", err))
	}

	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventCheckpointSave,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    r.graph.name,
		Data: map[string]any{
			"session_id": state.ID,
			"stage":      s.name,
		},
	})

	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventStageSuspend,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    r.graph.name,
		Data: map[string]any{
			"session_id":     state.ID,
			"stage":          s.name,
			"message_length": len(message),
		},
	})

	return Outcome{
		State: state,
		Prompt: Prompt{
			SessionID: state.ID,
			Stage:     s.name,
			Message:   message,
		},
	}, nil
}

func (r *Runner) complete(ctx context.Context, state session.State, path []string) (Outcome, error) {
	if !r.preserve {
		if err := r.store.Delete(state.ID); err == nil {
			r.observer.OnEvent(ctx, observability.Event{
				Type:      EventCheckpointDelete,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    r.graph.name,
				Data:      map[string]any{"session_id": state.ID},
			})
		}
	}

	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventGraphComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    r.graph.name,
		Data: map[string]any{
			"session_id":  state.ID,
			"path_length": len(path),
		},
	})

	return Outcome{Done: true, State: state}, nil
}

func (s *stage) hasTarget(name string) bool {
	for _, t := range s.targets {
		if t == name {
			return true
		}
	}
	return false
}
