// Package filter implements find's expression engine: the token registry,
// the recursive-descent parser, the And/Or/Not combinators, and every leaf
// test, action and option. A parsed expression is a Filter tree that the
// walker evaluates once per visited entry.
package filter

import (
	"github.com/harrison/gofind/internal/config"
)

// Instruction is a walk-control signal emitted by action leaves during
// evaluation. The walker interprets the collected instructions after each
// entry, in emission order.
type Instruction interface {
	instruction()
}

// PruneInstruction stops descent into the entry just evaluated. It is a
// no-op for non-directories and in post-order walks.
type PruneInstruction struct{}

func (PruneInstruction) instruction() {}

// ExitInstruction terminates the walk. A nil Code means exit with the run
// status accumulated so far.
type ExitInstruction struct {
	Code *int
}

func (ExitInstruction) instruction() {}

// Filter is one node of the expression tree.
type Filter interface {
	// Filter evaluates the node against an entry.
	Filter(entry *Entry) (bool, error)
	// HasSideEffects reports whether evaluating the node can do more
	// than answer the question: write output, spawn processes, emit
	// instructions.
	HasSideEffects() bool
	// BasedOnName reports whether the node decides from the path alone,
	// without metadata.
	BasedOnName() bool
	// String renders the node for -D tree output.
	String() string
}

// SideEffector is implemented by nodes whose evaluation emits walk-control
// instructions. Evaluation goes through Evaluate so the upgrade is always
// picked up.
type SideEffector interface {
	FilterWithSideEffects(entry *Entry, effects *[]Instruction) (bool, error)
}

// Evaluate runs f against entry, collecting instructions when f produces
// them.
func Evaluate(f Filter, entry *Entry, effects *[]Instruction) (bool, error) {
	if se, ok := f.(SideEffector); ok {
		return se.FilterWithSideEffects(entry, effects)
	}
	return f.Filter(entry)
}

// Option is a leaf that reconfigures the run once, at parse time. After
// that its Filter method always answers true.
type Option interface {
	Filter
	TakeEffect(cfg *config.Config) error
}
