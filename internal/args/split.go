// Package args carves the raw command line into find's three regions
// (options, starting points, expression) and parses the option region.
package args

import "strings"

// arity reports how many following tokens a leading option consumes, and
// whether the token belongs to the option region at all. An attached value
// (-Dexec, -O2) consumes nothing extra.
func arity(tok string) (int, bool) {
	switch tok {
	case "-H", "-L", "-P":
		return 0, true
	case "-D", "-O":
		return 1, true
	}
	if strings.HasPrefix(tok, "-D") || strings.HasPrefix(tok, "-O") {
		return 0, true
	}
	return 0, false
}

// isExprStart reports whether tok begins the expression region: an operator
// punctuation token or anything flag-shaped.
func isExprStart(tok string) bool {
	switch tok {
	case "(", ")", "!", ",":
		return true
	}
	return strings.HasPrefix(tok, "-")
}

// Split separates argv (without the program name) into the option region,
// the starting points, and the expression tokens. The option region is the
// longest prefix of known leading options with their consumed values; the
// starting points run until the first expression-shaped token. No region
// validation happens here.
func Split(argv []string) (opts, starts, exprs []string) {
	i := 0
	for i < len(argv) {
		n, ok := arity(argv[i])
		if !ok {
			break
		}
		i++
		// a trailing -D/-O with no value still belongs to the option
		// region; ParseOptions reports the missing argument
		for ; n > 0 && i < len(argv); n-- {
			i++
		}
	}

	opts = argv[:i]
	rest := argv[i:]

	j := 0
	for j < len(rest) && !isExprStart(rest[j]) {
		j++
	}
	return opts, rest[:j], rest[j:]
}
