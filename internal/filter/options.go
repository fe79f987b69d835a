package filter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/harrison/gofind/internal/config"
)

// optionLeaf supplies the shared behaviour of option leaves: once the
// option has taken effect at parse time, evaluation always answers true.
type optionLeaf struct {
	name string
}

func (o optionLeaf) Filter(*Entry) (bool, error) { return true, nil }
func (o optionLeaf) HasSideEffects() bool        { return false }
func (o optionLeaf) BasedOnName() bool           { return true }
func (o optionLeaf) String() string              { return o.name }

// -daystart

type dayStart struct{ optionLeaf }

func newDayStart(*tokens, *config.Config) (Filter, error) {
	return dayStart{optionLeaf{"-daystart"}}, nil
}

func (dayStart) TakeEffect(cfg *config.Config) error {
	cfg.Filter.DayStart = true
	return nil
}

// -follow

type follow struct{ optionLeaf }

func newFollow(*tokens, *config.Config) (Filter, error) {
	return follow{optionLeaf{"-follow"}}, nil
}

// TakeEffect also sets noleaf, as -follow implies it.
func (follow) TakeEffect(cfg *config.Config) error {
	cfg.Filter.FollowLink = true
	cfg.Global.NoLeaf = true
	return nil
}

// -warn / -nowarn

type warnSetting struct {
	optionLeaf
	value bool
}

func newWarnSetting(value bool) constructor {
	name := "-warn"
	if !value {
		name = "-nowarn"
	}
	return func(*tokens, *config.Config) (Filter, error) {
		return warnSetting{optionLeaf{name}, value}, nil
	}
}

func (w warnSetting) TakeEffect(cfg *config.Config) error {
	cfg.Filter.Warn = w.value
	return nil
}

// -regextype

type regexTypeSetting struct {
	optionLeaf
	value config.RegexType
}

func newRegexTypeSetting(tr *tokens, _ *config.Config) (Filter, error) {
	arg, err := nextArg(tr, "-regextype")
	if err != nil {
		return nil, err
	}
	switch arg {
	case "default", "go":
		return regexTypeSetting{optionLeaf{"-regextype"}, config.RegexTypeGo}, nil
	}
	return nil, usageErrorf("unknown regular expression type `%s`", arg)
}

func (r regexTypeSetting) TakeEffect(cfg *config.Config) error {
	cfg.Filter.RegexType = r.value
	return nil
}

// -d / -depth

type depthOption struct{ optionLeaf }

func newDepth(*tokens, *config.Config) (Filter, error) {
	return depthOption{optionLeaf{"-depth"}}, nil
}

func (depthOption) TakeEffect(cfg *config.Config) error {
	cfg.Global.Depth = true
	return nil
}

// -files0-from

type files0From struct {
	optionLeaf
	source string
}

func newFiles0From(tr *tokens, cfg *config.Config) (Filter, error) {
	if cfg.HasOK {
		return nil, usageErrorf("cannot combine -files0-from with -ok")
	}
	arg, err := nextArg(tr, "-files0-from")
	if err != nil {
		return nil, err
	}
	return files0From{optionLeaf{"-files0-from"}, arg}, nil
}

// TakeEffect reads the NUL-separated starting points and replaces the
// command-line ones, which must not have been given.
func (f files0From) TakeEffect(cfg *config.Config) error {
	var data []byte
	var err error
	if f.source == "-" {
		data, err = io.ReadAll(cfg.Stdin)
	} else {
		data, err = os.ReadFile(f.source)
	}
	if err != nil {
		return fmt.Errorf("reading starting points from %s: %w", f.source, err)
	}

	points := strings.Split(string(data), "\x00")
	if len(points) > 1 && points[len(points)-1] == "" {
		points = points[:len(points)-1]
	}

	if cfg.FromCLI && len(cfg.StartingPoints) > 0 {
		return usageErrorf("cannot specify starting points both in arguments and with -files0-from")
	}
	cfg.FromCLI = false
	cfg.StartingPoints = append(cfg.StartingPoints, points...)
	return nil
}

// -ignore_readdir_race / -noignore_readdir_race

type readdirRaceSetting struct {
	optionLeaf
	value bool
}

func newReaddirRaceSetting(value bool) constructor {
	name := "-ignore_readdir_race"
	if !value {
		name = "-noignore_readdir_race"
	}
	return func(*tokens, *config.Config) (Filter, error) {
		return readdirRaceSetting{optionLeaf{name}, value}, nil
	}
}

func (r readdirRaceSetting) TakeEffect(cfg *config.Config) error {
	cfg.Global.IgnoreReaddirRace = r.value
	return nil
}

// -maxdepth / -mindepth

type depthBound struct {
	optionLeaf
	depth int
}

func newDepthBound(name string) constructor {
	return func(tr *tokens, _ *config.Config) (Filter, error) {
		arg, err := nextArg(tr, name)
		if err != nil {
			return nil, err
		}
		depth, err := strconv.Atoi(arg)
		if err != nil || depth < 0 {
			return nil, usageErrorf("expected a non-negative integer argument to %s, got `%s`", name, arg)
		}
		return depthBound{optionLeaf{name}, depth}, nil
	}
}

func (d depthBound) TakeEffect(cfg *config.Config) error {
	depth := d.depth
	if d.name == "-maxdepth" {
		cfg.Global.MaxDepth = &depth
	} else {
		cfg.Global.MinDepth = &depth
	}
	return nil
}

// -mount / -xdev

type xdevOption struct{ optionLeaf }

func newXDev(name string) constructor {
	return func(*tokens, *config.Config) (Filter, error) {
		return xdevOption{optionLeaf{name}}, nil
	}
}

func (xdevOption) TakeEffect(cfg *config.Config) error {
	cfg.Global.XDev = true
	return nil
}

// -noleaf

type noLeaf struct{ optionLeaf }

func newNoLeaf(*tokens, *config.Config) (Filter, error) {
	return noLeaf{optionLeaf{"-noleaf"}}, nil
}

func (noLeaf) TakeEffect(cfg *config.Config) error {
	cfg.Global.NoLeaf = true
	return nil
}
