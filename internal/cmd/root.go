// Package cmd wires the command line to the expression engine and the
// walker. find's grammar (leading options, starting points, then the
// expression) predates conventional flag handling, so the root command
// disables flag parsing and carves the regions itself.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/harrison/gofind/internal/args"
	"github.com/harrison/gofind/internal/config"
	"github.com/harrison/gofind/internal/diag"
	"github.com/harrison/gofind/internal/filter"
	"github.com/harrison/gofind/internal/walker"
)

const version = "0.1.0"

const usageLine = "gofind [-H] [-L] [-P] [-Dtopics] [-Olevel] [starting-point...] [expression]"

const longHelp = `gofind searches a directory hierarchy, evaluating an expression against
every file it encounters.

The command line is read as three regions: the leading options -H, -L,
-P, -D and -O; the starting points; and the expression. The expression
combines tests (-name, -type, -size, -mtime, ...), actions (-print,
-printf, -exec, -delete, ...) and options (-maxdepth, -depth, ...) with
the operators !, -a, -o and parentheses. With no action the matched
paths are printed; with no expression every path matches.`

// Execute runs gofind and returns its exit status.
func Execute(argv []string) int {
	cfg := config.New()
	return run(cfg, argv)
}

func run(cfg *config.Config, argv []string) int {
	log := diag.New(cfg.Stderr)
	status := 0

	root := &cobra.Command{
		Use:           usageLine,
		Short:         "search for files in a directory hierarchy",
		Long:          longHelp,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,

		// The option/start/expression split is find's own grammar.
		DisableFlagParsing: true,

		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			status = search(cfg, log, cmd, cmdArgs)
			return nil
		},
	}
	root.SetArgs(argv)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	if err := root.Execute(); err != nil {
		log.Errorf("%v", err)
		return 1
	}
	return status
}

func search(cfg *config.Config, log *diag.Logger, cmd *cobra.Command, argv []string) int {
	optTokens, starts, exprs := args.Split(argv)

	opts, err := args.ParseOptions(optTokens)
	if err != nil {
		log.Errorf("%v", err)
		fmt.Fprintf(cfg.Stderr, "usage: %s\n", usageLine)
		return 1
	}

	cfg.LinkMode = opts.LinkMode
	cfg.Debug = opts.Debug
	cfg.StartingPoints = starts
	if !opts.Explicit && cfg.Global.PosixlyCorrect {
		cfg.LinkMode = config.LinkModeH
	}

	expr, err := filter.Parse(exprs, cfg)
	switch {
	case errors.Is(err, filter.ErrHelp):
		_ = cmd.Help()
		return 0
	case errors.Is(err, filter.ErrVersion):
		fmt.Fprintf(cfg.Stdout, "gofind %s\n", version)
		return 0
	case err != nil:
		log.Errorf("%v", err)
		var usageErr *filter.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(cfg.Stderr, "usage: %s\n", usageLine)
		}
		return 1
	}

	if expr == nil {
		expr = filter.DefaultPrint(cfg)
	}
	if cfg.Debug.Tree {
		log.Debugf("tree", "%s", expr.String())
	}
	if cfg.LinkMode == config.LinkModeL {
		cfg.Global.NoLeaf = true
	}

	s := walker.NewSearcher(cfg, expr, log)
	s.Exit = func(code int) { os.Exit(code) }
	if err := s.Run(); err != nil {
		// Each failed point was warned about as it happened; summarize
		// only when there were several.
		var merr *multierror.Error
		if errors.As(err, &merr) && len(merr.Errors) > 1 {
			log.Warnf("%d starting points could not be searched", len(merr.Errors))
		}
	}

	return cfg.Status
}
