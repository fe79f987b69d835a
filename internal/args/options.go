package args

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/harrison/gofind/internal/config"
)

// ErrUsage marks option-region errors that should be answered with the
// usage line and exit status 1.
var ErrUsage = fmt.Errorf("invalid command line")

// Options is the parsed option region of the command line.
type Options struct {
	// LinkMode is the winning -H/-L/-P flag; LinkModeP when none appeared.
	LinkMode config.LinkMode
	// Explicit records whether any of -H/-L/-P appeared at all.
	Explicit bool
	// Debug holds the recognized -D topics.
	Debug config.DebugFlags
	// OptLevel is the -O query optimisation level. Parsed and stored, not
	// acted on.
	OptLevel uint8
}

// ParseOptions parses the option region produced by Split. The -H/-L/-P
// resolution is positional (last occurrence wins), which no flag library
// reports, so it is an index scan; -D and -O go through pflag for value
// validation and the attached-value forms.
func ParseOptions(tokens []string) (Options, error) {
	opts := Options{OptLevel: 1}

	last := -1
	for i, tok := range tokens {
		switch tok {
		case "-H":
			if i > last {
				opts.LinkMode = config.LinkModeH
				last = i
			}
		case "-L":
			opts.LinkMode = config.LinkModeL
			last = i
		case "-P":
			opts.LinkMode = config.LinkModeP
			last = i
		}
	}
	opts.Explicit = last >= 0

	fs := pflag.NewFlagSet("gofind", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	topics := fs.StringArrayP("debug", "D", nil, "print diagnostic information")
	fs.Uint8VarP(&opts.OptLevel, "optimize", "O", 1, "query optimisation level")
	fs.CountP("follow-args", "H", "follow symlinks on the command line")
	fs.CountP("follow", "L", "follow all symlinks")
	fs.CountP("no-follow", "P", "never follow symlinks")

	if err := fs.Parse(tokens); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	for _, topic := range *topics {
		for _, name := range strings.Split(topic, ",") {
			applyDebugTopic(&opts.Debug, name)
		}
	}
	return opts, nil
}

// applyDebugTopic enables one -D topic. Unrecognized names are dropped
// silently; opt, rates and help are accepted but carry no output.
func applyDebugTopic(d *config.DebugFlags, name string) {
	switch name {
	case "exec":
		d.Exec = true
	case "search":
		d.Search = true
	case "stat":
		d.Stat = true
	case "tree":
		d.Tree = true
	case "all":
		*d = config.DebugFlags{Exec: true, Search: true, Stat: true, Tree: true}
	}
}
