package walker

import (
	"errors"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/harrison/gofind/internal/config"
	"github.com/harrison/gofind/internal/diag"
	"github.com/harrison/gofind/internal/filter"
)

// Searcher drives the walk: one traversal per starting point, the parsed
// expression evaluated against every visited entry, and the emitted
// instructions interpreted in order.
type Searcher struct {
	cfg  *config.Config
	root filter.Filter
	log  *diag.Logger

	// Exit terminates the run, for -quit. Tests swap it out.
	Exit func(code int)
}

func NewSearcher(cfg *config.Config, root filter.Filter, log *diag.Logger) *Searcher {
	return &Searcher{cfg: cfg, root: root, log: log, Exit: os.Exit}
}

// Run walks every starting point. Traversal problems are reported as
// warnings and set the run status; only a misconfiguration aborts.
func (s *Searcher) Run() error {
	points := s.cfg.StartingPoints
	if len(points) == 0 {
		if !s.cfg.FromCLI {
			return errors.New("no starting points")
		}
		points = []string{"."}
	}

	var merr *multierror.Error
	for _, point := range points {
		if err := s.walkPoint(point); err != nil {
			s.log.Warnf("%v", err)
			merr = multierror.Append(merr, err)
			s.cfg.Status = 1
		}
	}

	s.runWalkDoneHooks()
	return merr.ErrorOrNil()
}

func (s *Searcher) walkPoint(point string) error {
	if _, err := os.Lstat(point); err != nil {
		return err
	}

	var rootDev uint64
	if s.cfg.Global.XDev {
		m, err := filter.NewEntry(point, point, 0).Stat()
		if err != nil {
			return err
		}
		rootDev = m.Dev()
	}

	maxDepth := -1
	if s.cfg.Global.MaxDepth != nil {
		maxDepth = *s.cfg.Global.MaxDepth
	}
	minDepth := 0
	if s.cfg.Global.MinDepth != nil {
		minDepth = *s.cfg.Global.MinDepth
	}

	w := New(point, Options{
		MinDepth:   minDepth,
		MaxDepth:   maxDepth,
		PostOrder:  s.cfg.Global.Depth,
		Follow:     s.cfg.FollowAtFilterTime(),
		FollowRoot: s.cfg.FollowAtBuildTime(),
	})

	for {
		item, err := w.Next()
		if err != nil {
			if !s.cfg.Global.IgnoreReaddirRace {
				s.log.Warnf("%v", err)
				s.cfg.Status = 1
			}
			continue
		}
		if item == nil {
			return nil
		}

		if s.cfg.Debug.Search {
			s.log.Debugf("search", "considering %s (depth %d)", item.Path, item.Depth)
		}

		entry := filter.NewEntry(item.Path, point, item.Depth)

		// Never cross into another filesystem.
		if s.cfg.Global.XDev && item.IsDir {
			if m, err := entry.Stat(); err == nil && m.Dev() != rootDev {
				w.SkipDir()
				continue
			}
		}

		var effects []filter.Instruction
		if _, err := filter.Evaluate(s.root, entry, &effects); err != nil {
			s.log.Errorf("%s: %v", item.Path, err)
			s.cfg.Status = 1
		}

		if s.cfg.Debug.Stat {
			if lstated, stated := entry.Fetched(); lstated || stated {
				s.log.Debugf("stat", "%s (lstat=%v stat=%v)", item.Path, lstated, stated)
			}
		}

		for _, effect := range effects {
			switch instr := effect.(type) {
			case filter.PruneInstruction:
				if item.IsDir {
					w.SkipDir()
				}
			case filter.ExitInstruction:
				s.runWalkDoneHooks()
				code := s.cfg.Status
				if instr.Code != nil {
					code = *instr.Code
				}
				s.Exit(code)
				return nil
			}
		}
	}
}

// runWalkDoneHooks flushes pending work, such as batched -exec commands.
func (s *Searcher) runWalkDoneHooks() {
	for _, hook := range s.cfg.WalkDoneHooks() {
		if err := hook(); err != nil {
			s.log.Warnf("%v", err)
			s.cfg.Status = 1
		}
	}
}
