// Package graph implements the workflow stage graph and its runner. A graph
// is a directed set of named stages — compute, router, or human-input —
// compiled once, validated at construction time, and reentrant across
// sessions: the graph holds no session data.
//
// Example:
//
//	b := graph.NewBuilder(config.DefaultGraphConfig("brainstorm"))
//	b.AddHuman("ask", promptFn, replyFn, "work")
//	b.AddCompute("work", workFn, "route")
//	b.AddRouter("route", pickFn, "ask", graph.End)
//	b.SetEntryPoint("ask")
//	g, err := b.Compile()
package graph

import (
	"fmt"

	"github.com/tailored-agentic-units/brainstorm/config"
	"github.com/tailored-agentic-units/brainstorm/observability"
)

// Builder accumulates stages before compilation. All structural errors —
// duplicate names, dangling transition targets, missing entry point — are
// reported by Compile; a compiled Graph is guaranteed well-formed.
type Builder struct {
	name          string
	observerName  string
	maxIterations int
	entry         string
	order         []string
	stages        map[string]*stage
	errs          []error
}

// NewBuilder creates a graph builder from configuration.
func NewBuilder(cfg config.GraphConfig) *Builder {
	return &Builder{
		name:          cfg.Name,
		observerName:  cfg.Observer,
		maxIterations: cfg.MaxIterations,
		stages:        make(map[string]*stage),
	}
}

func (b *Builder) add(s *stage) {
	if s.name == "" {
		b.errs = append(b.errs, fmt.Errorf("stage name cannot be empty"))
		return
	}
	if s.name == End {
		b.errs = append(b.errs, fmt.Errorf("stage name %q is reserved", End))
		return
	}
	if _, exists := b.stages[s.name]; exists {
		b.errs = append(b.errs, fmt.Errorf("stage %s already exists", s.name))
		return
	}
	b.stages[s.name] = s
	b.order = append(b.order, s.name)
}

// AddCompute registers a compute stage that runs fn and advances to next
// unconditionally.
func (b *Builder) AddCompute(name string, fn ComputeFunc, next string) {
	if fn == nil {
		b.errs = append(b.errs, fmt.Errorf("compute stage %s: nil func", name))
		return
	}
	b.add(&stage{name: name, kind: kindCompute, run: fn, next: next})
}

// AddRouter registers a router stage. pick must return one of targets;
// targets may include End.
func (b *Builder) AddRouter(name string, pick RouteFunc, targets ...string) {
	if pick == nil {
		b.errs = append(b.errs, fmt.Errorf("router stage %s: nil predicate", name))
		return
	}
	if len(targets) == 0 {
		b.errs = append(b.errs, fmt.Errorf("router stage %s: no targets", name))
		return
	}
	b.add(&stage{name: name, kind: kindRouter, route: pick, targets: targets})
}

// AddHuman registers a human-input stage: prompt renders the message shown
// at suspension, onReply parses the reply when the session resumes, and the
// stage then advances to next unconditionally.
func (b *Builder) AddHuman(name string, prompt PromptFunc, onReply ReplyFunc, next string) {
	if prompt == nil || onReply == nil {
		b.errs = append(b.errs, fmt.Errorf("human stage %s: nil prompt or reply func", name))
		return
	}
	b.add(&stage{name: name, kind: kindHuman, prompt: prompt, onReply: onReply, next: next})
}

// SetEntryPoint defines the stage execution starts from.
func (b *Builder) SetEntryPoint(name string) {
	b.entry = name
}

// Compile validates the accumulated stages and returns an immutable Graph.
// An unresolved transition target is a construction-time error — fatal, not
// recoverable at run time.
func (b *Builder) Compile() (*Graph, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("graph %s: %w", b.name, b.errs[0])
	}
	if len(b.stages) == 0 {
		return nil, fmt.Errorf("graph %s has no stages", b.name)
	}
	if b.entry == "" {
		return nil, fmt.Errorf("graph %s: entry point not set", b.name)
	}
	if _, exists := b.stages[b.entry]; !exists {
		return nil, fmt.Errorf("graph %s: entry point %s does not exist", b.name, b.entry)
	}

	terminalReachable := false
	for _, name := range b.order {
		s := b.stages[name]
		switch s.kind {
		case kindRouter:
			for _, target := range s.targets {
				if target == End {
					terminalReachable = true
					continue
				}
				if _, exists := b.stages[target]; !exists {
					return nil, fmt.Errorf("graph %s: router %s targets unknown stage %s", b.name, name, target)
				}
			}
		default:
			if s.next == End {
				terminalReachable = true
				continue
			}
			if _, exists := b.stages[s.next]; !exists {
				return nil, fmt.Errorf("graph %s: stage %s advances to unknown stage %s", b.name, name, s.next)
			}
		}
	}
	if !terminalReachable {
		return nil, fmt.Errorf("graph %s: no stage routes to %s", b.name, End)
	}

	observer, err := observability.GetObserver(b.observerName)
	if err != nil {
		return nil, fmt.Errorf("graph %s: failed to resolve observer: %w", b.name, err)
	}

	maxIterations := b.maxIterations
	if maxIterations <= 0 {
		maxIterations = 1
	}

	return &Graph{
		name:          b.name,
		entry:         b.entry,
		stages:        b.stages,
		maxIterations: maxIterations,
		observer:      observer,
	}, nil
}

// Graph is a compiled, immutable stage graph. Safe for concurrent use by
// any number of runners and sessions.
type Graph struct {
	name          string
	entry         string
	stages        map[string]*stage
	maxIterations int
	observer      observability.Observer
}

// Name returns the graph identifier for event metadata.
func (g *Graph) Name() string {
	return g.name
}

// Entry returns the name of the entry stage.
func (g *Graph) Entry() string {
	return g.entry
}

// Stages returns the number of stages in the graph.
func (g *Graph) Stages() int {
	return len(g.stages)
}
