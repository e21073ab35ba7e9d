package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/tailored-agentic-units/brainstorm/config"
	"github.com/tailored-agentic-units/brainstorm/graph"
	"github.com/tailored-agentic-units/brainstorm/session"
)

func testGraphConfig() config.GraphConfig {
	cfg := config.DefaultGraphConfig("test")
	cfg.Observer = "noop"
	return cfg
}

func noopCompute(_ context.Context, _ session.State) (session.Update, error) {
	return session.Update{}, nil
}

func TestCompileValidation(t *testing.T) {
	cases := []struct {
		name    string
		build   func(b *graph.Builder)
		wantErr string
	}{
		{
			name:    "no stages",
			build:   func(b *graph.Builder) {},
			wantErr: "no stages",
		},
		{
			name: "entry point not set",
			build: func(b *graph.Builder) {
				b.AddCompute("a", noopCompute, graph.End)
			},
			wantErr: "entry point not set",
		},
		{
			name: "entry point unknown",
			build: func(b *graph.Builder) {
				b.AddCompute("a", noopCompute, graph.End)
				b.SetEntryPoint("missing")
			},
			wantErr: "does not exist",
		},
		{
			name: "duplicate stage",
			build: func(b *graph.Builder) {
				b.AddCompute("a", noopCompute, graph.End)
				b.AddCompute("a", noopCompute, graph.End)
				b.SetEntryPoint("a")
			},
			wantErr: "already exists",
		},
		{
			name: "dangling next",
			build: func(b *graph.Builder) {
				b.AddCompute("a", noopCompute, "missing")
				b.SetEntryPoint("a")
			},
			wantErr: "unknown stage",
		},
		{
			name: "dangling router target",
			build: func(b *graph.Builder) {
				b.AddCompute("a", noopCompute, "r")
				b.AddRouter("r", func(session.State) string { return "missing" }, "missing", graph.End)
				b.SetEntryPoint("a")
			},
			wantErr: "unknown stage",
		},
		{
			name: "no route to terminal",
			build: func(b *graph.Builder) {
				b.AddCompute("a", noopCompute, "b")
				b.AddCompute("b", noopCompute, "a")
				b.SetEntryPoint("a")
			},
			wantErr: "no stage routes to",
		},
		{
			name: "reserved stage name",
			build: func(b *graph.Builder) {
				b.AddCompute(graph.End, noopCompute, graph.End)
				b.SetEntryPoint(graph.End)
			},
			wantErr: "reserved",
		},
		{
			name: "nil compute func",
			build: func(b *graph.Builder) {
				b.AddCompute("a", nil, graph.End)
				b.SetEntryPoint("a")
			},
			wantErr: "nil func",
		},
		{
			name: "router with no targets",
			build: func(b *graph.Builder) {
				b.AddRouter("r", func(session.State) string { return graph.End })
				b.SetEntryPoint("r")
			},
			wantErr: "no targets",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := graph.NewBuilder(testGraphConfig())
			tc.build(b)

			_, err := b.Compile()
			if err == nil {
				t.Fatal("Compile() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Compile() error = %v, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestCompileValidGraph(t *testing.T) {
	b := graph.NewBuilder(testGraphConfig())
	b.AddCompute("work", noopCompute, "route")
	b.AddRouter("route", func(session.State) string { return graph.End }, "work", graph.End)
	b.SetEntryPoint("work")

	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if g.Name() != "test" || g.Entry() != "work" || g.Stages() != 2 {
		t.Errorf("compiled graph = %s/%s/%d", g.Name(), g.Entry(), g.Stages())
	}
}
