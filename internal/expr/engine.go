// Package expr evaluates the compact physics notation used to ask questions
// of a collected store, such as "mean(abs(V_2(pion))) / mean(abs(e_2(ed)))".
//
// Evaluation has three stages. An ordered list of regular expression rules
// rewrites the notation into plain function calls until nothing changes.
// The result is parsed into a small AST. A tree-walking evaluator then runs
// it over complex scalars, vectors and matrices with numpy style
// broadcasting, calling into the store for the domain functions.
package expr

import (
	"context"
)

type Options struct {
	MaxIterations int
	Rules         []Rule
}

type Engine struct {
	source   Source
	rewriter *Rewriter
}

type Result struct {
	Rewritten string
	Passes    int
	Value     Value
}

// NewEngine builds an engine over source, which may be nil when only plain
// arithmetic is evaluated.
func NewEngine(source Source, opts Options) *Engine {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{source: source, rewriter: NewRewriter(rules, opts.MaxIterations)}
}

// Rewrite turns notation into a callable expression without evaluating it.
func (e *Engine) Rewrite(notation string) (string, int, error) {
	rewritten, passes, err := e.rewriter.Rewrite(notation)
	if err != nil {
		return rewritten, passes, err
	}
	if err := checkResolved(rewritten); err != nil {
		return rewritten, passes, err
	}
	return rewritten, passes, nil
}

func (e *Engine) Evaluate(ctx context.Context, notation string) (*Result, error) {
	rewritten, passes, err := e.Rewrite(notation)
	if err != nil {
		return nil, err
	}
	node, err := Parse(rewritten)
	if err != nil {
		return nil, err
	}
	ev := &evaluator{ctx: ctx, source: e.source}
	value, err := ev.eval(node)
	if err != nil {
		return nil, err
	}
	return &Result{Rewritten: rewritten, Passes: passes, Value: value}, nil
}
