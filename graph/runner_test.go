package graph_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tailored-agentic-units/brainstorm/graph"
	"github.com/tailored-agentic-units/brainstorm/session"
)

// echoGraph suspends at "ask", stores the reply as the topic's combined
// context, then finishes.
func echoGraph(t *testing.T) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder(testGraphConfig())
	b.AddHuman("ask",
		func(s session.State) string { return "say something about " + s.Topic },
		func(_ session.State, reply string) (session.Update, error) {
			return session.Update{CombinedContext: &reply}, nil
		},
		"record")
	b.AddCompute("record", noopCompute, graph.End)
	b.SetEntryPoint("ask")

	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	return g
}

func TestRunnerSuspendResume(t *testing.T) {
	store := session.NewMemoryCheckpointStore()
	runner := graph.NewRunnerWithStore(echoGraph(t), store, false)

	initial := session.New("caching", session.KindProject)
	o, err := runner.Run(context.Background(), initial)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if o.Done {
		t.Fatal("session finished without suspending")
	}
	if o.Prompt.Stage != "ask" || o.Prompt.SessionID != initial.ID {
		t.Fatalf("Prompt = %+v", o.Prompt)
	}
	if o.Prompt.Message != "say something about caching" {
		t.Errorf("Prompt.Message = %q", o.Prompt.Message)
	}

	// Suspension persisted a checkpoint at the asking stage.
	cp, err := store.Load(initial.ID)
	if err != nil {
		t.Fatalf("no checkpoint after suspension: %v", err)
	}
	if cp.Stage != "ask" {
		t.Errorf("checkpoint stage = %s", cp.Stage)
	}

	o, err = runner.Resume(context.Background(), initial.ID, "it is hard")
	if err != nil {
		t.Fatalf("Resume() error: %v", err)
	}
	if !o.Done {
		t.Fatalf("session not done, suspended at %s", o.Prompt.Stage)
	}
	if o.State.CombinedContext != "it is hard" {
		t.Errorf("reply not applied: %q", o.State.CombinedContext)
	}

	// Completion removed the checkpoint.
	if _, err := store.Load(initial.ID); err == nil {
		t.Error("checkpoint survived completion")
	}
}

func TestRunnerResumeUnknownSession(t *testing.T) {
	runner := graph.NewRunnerWithStore(echoGraph(t), session.NewMemoryCheckpointStore(), false)

	_, err := runner.Resume(context.Background(), "nope", "reply")
	if !errors.Is(err, graph.ErrNoCheckpoint) {
		t.Errorf("Resume() error = %v, want ErrNoCheckpoint", err)
	}
}

func TestRunnerRejectsInvalidSession(t *testing.T) {
	runner := graph.NewRunnerWithStore(echoGraph(t), session.NewMemoryCheckpointStore(), false)

	_, err := runner.Run(context.Background(), session.State{ID: "x"})
	var execErr *graph.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Run() error = %v, want *ExecutionError", err)
	}
}

func TestRunnerMaxIterations(t *testing.T) {
	cfg := testGraphConfig()
	cfg.MaxIterations = 5

	b := graph.NewBuilder(cfg)
	b.AddCompute("spin", noopCompute, "route")
	b.AddRouter("route", func(session.State) string { return "spin" }, "spin", graph.End)
	b.SetEntryPoint("spin")
	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	runner := graph.NewRunnerWithStore(g, session.NewMemoryCheckpointStore(), false)
	_, err = runner.Run(context.Background(), session.New("t", session.KindProject))

	var execErr *graph.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Run() error = %v, want *ExecutionError", err)
	}
	if len(execErr.Path) == 0 {
		t.Error("execution error carries no path")
	}
}

func TestRunnerComputeErrorIsFatal(t *testing.T) {
	boom := fmt.Errorf("stage blew up")

	b := graph.NewBuilder(testGraphConfig())
	b.AddCompute("bad", func(context.Context, session.State) (session.Update, error) {
		return session.Update{}, boom
	}, graph.End)
	b.SetEntryPoint("bad")
	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	runner := graph.NewRunnerWithStore(g, session.NewMemoryCheckpointStore(), false)
	_, err = runner.Run(context.Background(), session.New("t", session.KindProject))

	var execErr *graph.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Run() error = %v, want *ExecutionError", err)
	}
	if execErr.Stage != "bad" || !errors.Is(err, boom) {
		t.Errorf("ExecutionError = %+v", execErr)
	}
}

func TestRunnerUndeclaredRouterTarget(t *testing.T) {
	b := graph.NewBuilder(testGraphConfig())
	b.AddCompute("a", noopCompute, "route")
	// Router declares only End but selects "a" at run time.
	b.AddRouter("route", func(session.State) string { return "a" }, graph.End)
	b.SetEntryPoint("a")
	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	runner := graph.NewRunnerWithStore(g, session.NewMemoryCheckpointStore(), false)
	_, err = runner.Run(context.Background(), session.New("t", session.KindProject))

	var execErr *graph.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Run() error = %v, want *ExecutionError", err)
	}
}

func TestRunnerPreservesCheckpoint(t *testing.T) {
	store := session.NewMemoryCheckpointStore()
	runner := graph.NewRunnerWithStore(echoGraph(t), store, true)

	initial := session.New("t", session.KindProject)
	if _, err := runner.Run(context.Background(), initial); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if _, err := runner.Resume(context.Background(), initial.ID, "done"); err != nil {
		t.Fatalf("Resume() error: %v", err)
	}

	if _, err := store.Load(initial.ID); err != nil {
		t.Errorf("preserve=true but checkpoint gone: %v", err)
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	runner := graph.NewRunnerWithStore(echoGraph(t), session.NewMemoryCheckpointStore(), false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, session.New("t", session.KindProject))
	if err == nil {
		t.Fatal("Run() with cancelled context succeeded")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled in chain", err)
	}
}
