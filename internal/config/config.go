// Package config holds the mutable state a gofind run is built from: the
// symlink policy, the starting points, and the option fields that expression
// parsing fills in before the walk starts. A single Config is threaded
// through the argument parser, every leaf constructor, and the walker.
package config

import (
	"io"
	"os"
)

// LinkMode is the symbolic-link policy selected by -H, -L and -P.
// When several of the three flags appear, the last one wins.
type LinkMode int

const (
	// LinkModeP never follows symbolic links. The default.
	LinkModeP LinkMode = iota
	// LinkModeH follows symbolic links only while resolving command-line
	// starting points and predicate arguments.
	LinkModeH
	// LinkModeL follows all symbolic links.
	LinkModeL
)

// String returns the flag spelling of the mode.
func (m LinkMode) String() string {
	switch m {
	case LinkModeH:
		return "-H"
	case LinkModeL:
		return "-L"
	default:
		return "-P"
	}
}

// RegexType selects the dialect -regex patterns are compiled with.
// Only the native engine is supported; "default" is an alias for it.
type RegexType int

// RegexTypeGo compiles patterns with the standard regexp package.
const RegexTypeGo RegexType = iota

// DebugFlags records which -D topics were enabled. Topics that are accepted
// but produce no output (opt, rates, help) are not stored.
type DebugFlags struct {
	Exec   bool
	Search bool
	Stat   bool
	Tree   bool
}

// FilterOption carries the positional options that alter how individual
// tests evaluate. Leaves capture a snapshot of the fields they need at
// parse time, so an option only affects the predicates that follow it.
type FilterOption struct {
	// FollowLink is set by -follow and makes metadata-based tests follow
	// a final symlink, like -L but positional.
	FollowLink bool
	// DayStart measures -atime/-ctime/-mtime from today's local midnight
	// instead of from now.
	DayStart bool
	// RegexType is the dialect -regex/-iregex compile with.
	RegexType RegexType
	// Warn enables command-line usage warnings. On by default; -nowarn
	// clears it and -warn restores it.
	Warn bool
}

// GlobalOption carries the options that shape the walk as a whole.
type GlobalOption struct {
	// Depth yields directory contents before the directory itself (-depth).
	Depth bool
	// IgnoreReaddirRace suppresses warnings for entries that vanish
	// between readdir and stat.
	IgnoreReaddirRace bool
	// MaxDepth bounds descent; nil means unbounded.
	MaxDepth *int
	// MinDepth suppresses entries shallower than it; nil means 0.
	MinDepth *int
	// XDev stops descent into directories on other filesystems.
	XDev bool
	// NoLeaf disables the leaf-count traversal shortcut. Implied by -L
	// and -follow.
	NoLeaf bool
	// ArgMax bounds the accumulated argument bytes of one -exec … + batch.
	ArgMax int64
	// PosixlyCorrect mirrors the POSIXLY_CORRECT environment variable.
	PosixlyCorrect bool
}

// DefaultArgMax is a conservative stand-in for sysconf(_SC_ARG_MAX).
const DefaultArgMax = 128 * 1024

// Config is the full run state. Expression parsing mutates it (option
// leaves, action bookkeeping); the walker reads it and owns Status.
type Config struct {
	// LinkMode is the -H/-L/-P policy.
	LinkMode LinkMode
	// StartingPoints are the roots to walk. Empty means "." unless
	// -files0-from supplied the list.
	StartingPoints []string
	// FromCLI is false once -files0-from has taken over the starting
	// points; CLI paths and -ok are then rejected.
	FromCLI bool
	// Debug holds the enabled -D topics.
	Debug DebugFlags
	// HasOK is set when an -ok/-okdir leaf was parsed.
	HasOK bool
	// HasActions is set when any action leaf was parsed; when it stays
	// false the parser appends the implicit -print.
	HasActions bool
	// Status is the exit code of the run so far. Recoverable walk errors
	// raise it to 1; -quit exits with its current value.
	Status int

	Filter FilterOption
	Global GlobalOption

	// Stdout, Stderr and Stdin are the run's streams. Actions write and
	// prompt through them so tests can substitute buffers.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	walkDone []func() error
}

// New returns a Config with find's defaults: -P, warnings on, streams bound
// to the process, ArgMax at its conservative default.
func New() *Config {
	return &Config{
		FromCLI: true,
		Filter:  FilterOption{Warn: true},
		Global: GlobalOption{
			ArgMax:         DefaultArgMax,
			PosixlyCorrect: os.Getenv("POSIXLY_CORRECT") != "",
		},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
	}
}

// FollowAtFilterTime reports whether metadata-based tests follow a final
// symlink: -L, or a preceding -follow.
func (c *Config) FollowAtFilterTime() bool {
	return c.LinkMode == LinkModeL || c.Filter.FollowLink
}

// FollowAtBuildTime reports whether paths named on the command line
// (reference files, starting points) follow a final symlink: everything
// FollowAtFilterTime covers, plus -H.
func (c *Config) FollowAtBuildTime() bool {
	return c.FollowAtFilterTime() || c.LinkMode == LinkModeH
}

// OnWalkDone registers fn to run once the walk finishes, and before an Exit
// instruction terminates it. Batching actions use this to flush.
func (c *Config) OnWalkDone(fn func() error) {
	c.walkDone = append(c.walkDone, fn)
}

// WalkDoneHooks returns the registered end-of-walk hooks in registration
// order.
func (c *Config) WalkDoneHooks() []func() error {
	return c.walkDone
}
