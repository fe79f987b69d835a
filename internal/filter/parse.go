package filter

import (
	"github.com/harrison/gofind/internal/config"
)

// tokens is a cursor over the expression region of argv.
type tokens struct {
	items []string
	pos   int
}

func newTokens(items []string) *tokens { return &tokens{items: items} }

func (t *tokens) peek() (string, bool) {
	if t.pos >= len(t.items) {
		return "", false
	}
	return t.items[t.pos], true
}

func (t *tokens) next() (string, bool) {
	tok, ok := t.peek()
	if ok {
		t.pos++
	}
	return tok, ok
}

// nextArg consumes the argument token of a leaf, failing with the leaf's
// name when the command line ends early.
func nextArg(tr *tokens, name string) (string, error) {
	arg, ok := tr.next()
	if !ok {
		return "", usageErrorf("missing argument to `%s`", name)
	}
	return arg, nil
}

// Parse builds the expression tree from the expression region, mutating
// cfg as option leaves take effect. When no action leaf appears the
// implicit -print is AND-appended. A nil tree with a nil error means the
// region was empty; the caller substitutes a bare -print.
func Parse(exprs []string, cfg *config.Config) (Filter, error) {
	tr := newTokens(exprs)
	root, err := parseExprs(tr, cfg, false)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	if !cfg.HasActions {
		root = and(root, DefaultPrint(cfg))
	}
	return root, nil
}

// parseExprs is the accumulator loop: it folds units into a growing left
// hand side, giving -a and -o the same precedence, left to right. A `,`
// parses exactly like -o. Inside parentheses the loop stops at the
// matching `)` and leaves it for the caller.
func parseExprs(tr *tokens, cfg *config.Config, inParens bool) (Filter, error) {
	var left Filter

	for {
		tok, ok := tr.peek()
		if !ok {
			if inParens {
				return nil, usageErrorf("No matching closing parentheses")
			}
			return left, nil
		}

		switch tok {
		case ")":
			if !inParens {
				return nil, usageErrorf("no matching opening parentheses before `)`")
			}
			return left, nil

		case "-a", "-and":
			if left == nil {
				return nil, usageErrorf("%s is a binary operator; no expression before it", tok)
			}
			tr.next()
			right, err := parseUnit(tr, cfg)
			if err != nil {
				return nil, err
			}
			left = and(left, right)

		case "-o", "-or", ",":
			if left == nil {
				return nil, usageErrorf("%s is a binary operator; no expression before it", tok)
			}
			tr.next()
			right, err := parseUnit(tr, cfg)
			if err != nil {
				return nil, err
			}
			left = or(left, right)

		default:
			unit, err := parseUnit(tr, cfg)
			if err != nil {
				return nil, err
			}
			if left == nil {
				left = unit
			} else {
				left = and(left, unit)
			}
		}
	}
}

// parseUnit parses one operand: an optional negation, then either a
// parenthesized group or a leaf with its arguments.
func parseUnit(tr *tokens, cfg *config.Config) (Filter, error) {
	tok, ok := tr.peek()
	if !ok {
		return nil, usageErrorf("expected an expression")
	}

	switch tok {
	case "!", "-not":
		tr.next()
		inner, err := parseUnit(tr, cfg)
		if err != nil {
			return nil, err
		}
		return not(inner), nil

	case "(":
		tr.next()
		group, err := parseExprs(tr, cfg, true)
		if err != nil {
			return nil, err
		}
		tr.next() // the matching ")"
		if group == nil {
			return nil, usageErrorf("Empty parentheses are illegal")
		}
		return group, nil

	default:
		return parseLeaf(tr, cfg)
	}
}

// parseLeaf looks the token up in the registry and hands the cursor to the
// leaf's constructor so it can consume its arguments.
func parseLeaf(tr *tokens, cfg *config.Config) (Filter, error) {
	name, ok := tr.next()
	if !ok {
		return nil, usageErrorf("expected an expression")
	}
	build, err := lookupConstruct(name)
	if err != nil {
		return nil, err
	}
	return build(tr, cfg)
}
