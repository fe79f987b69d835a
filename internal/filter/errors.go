package filter

import (
	"errors"
	"fmt"
)

// UsageError reports a malformed expression. It is always detected at
// parse time, before any filesystem traversal happens.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// ErrHelp and ErrVersion are returned by Parse when the expression
// contains -help or -version. The command layer answers them with the
// requested text and exit status 0.
var (
	ErrHelp    = errors.New("help requested")
	ErrVersion = errors.New("version requested")
)
