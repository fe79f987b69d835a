package filter

// The logical combinators. Both binary operators short-circuit, which is
// observable through actions: `-name x -a -print` prints only matches, and
// `-prune -o -print` never prints where prune answered true.

// And evaluates its right side only when the left side answered true.
type And struct {
	Left, Right Filter
}

func and(left, right Filter) Filter { return &And{Left: left, Right: right} }

// Filter drops emitted instructions; evaluation normally goes through
// Evaluate, which keeps them.
func (a *And) Filter(entry *Entry) (bool, error) {
	var effects []Instruction
	return a.FilterWithSideEffects(entry, &effects)
}

// FilterWithSideEffects implements the short-circuit: side effects of the
// right side happen only when the left side answered true.
func (a *And) FilterWithSideEffects(entry *Entry, effects *[]Instruction) (bool, error) {
	ok, err := Evaluate(a.Left, entry, effects)
	if err != nil || !ok {
		return ok, err
	}
	return Evaluate(a.Right, entry, effects)
}

func (a *And) HasSideEffects() bool {
	return a.Left.HasSideEffects() || a.Right.HasSideEffects()
}

func (a *And) BasedOnName() bool {
	return a.Left.BasedOnName() && a.Right.BasedOnName()
}

func (a *And) String() string {
	return "( " + a.Left.String() + " -a " + a.Right.String() + " )"
}

// Or evaluates its right side only when the left side answered false.
type Or struct {
	Left, Right Filter
}

func or(left, right Filter) Filter { return &Or{Left: left, Right: right} }

// Filter drops emitted instructions; evaluation normally goes through
// Evaluate, which keeps them.
func (o *Or) Filter(entry *Entry) (bool, error) {
	var effects []Instruction
	return o.FilterWithSideEffects(entry, &effects)
}

// FilterWithSideEffects implements the short-circuit: side effects of the
// right side happen only when the left side answered false.
func (o *Or) FilterWithSideEffects(entry *Entry, effects *[]Instruction) (bool, error) {
	ok, err := Evaluate(o.Left, entry, effects)
	if err != nil || ok {
		return ok, err
	}
	return Evaluate(o.Right, entry, effects)
}

func (o *Or) HasSideEffects() bool {
	return o.Left.HasSideEffects() || o.Right.HasSideEffects()
}

func (o *Or) BasedOnName() bool {
	return o.Left.BasedOnName() && o.Right.BasedOnName()
}

func (o *Or) String() string {
	return "( " + o.Left.String() + " -o " + o.Right.String() + " )"
}

// Not negates its inner node. Side effects of the inner node still happen;
// only the boolean answer is flipped.
type Not struct {
	Inner Filter
}

func not(inner Filter) Filter { return &Not{Inner: inner} }

func (n *Not) Filter(entry *Entry) (bool, error) {
	var effects []Instruction
	return n.FilterWithSideEffects(entry, &effects)
}

func (n *Not) FilterWithSideEffects(entry *Entry, effects *[]Instruction) (bool, error) {
	ok, err := Evaluate(n.Inner, entry, effects)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (n *Not) HasSideEffects() bool { return n.Inner.HasSideEffects() }
func (n *Not) BasedOnName() bool    { return n.Inner.BasedOnName() }
func (n *Not) String() string       { return "! " + n.Inner.String() }
