package filter

import (
	"strings"

	"github.com/harrison/gofind/internal/config"
)

// constructor builds one leaf, consuming its arguments from the token
// stream. Constructors run at parse time, against the Config as shaped by
// the options to their left.
type constructor func(tr *tokens, cfg *config.Config) (Filter, error)

// option wraps a constructor whose leaf reconfigures the run; the effect
// is applied immediately, at parse time.
func option(build constructor) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		f, err := build(tr, cfg)
		if err != nil {
			return nil, err
		}
		if err := f.(Option).TakeEffect(cfg); err != nil {
			return nil, err
		}
		return f, nil
	}
}

// action wraps a constructor whose leaf produces output or side effects;
// parsing one disables the implicit -print.
func action(build constructor) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		f, err := build(tr, cfg)
		if err != nil {
			return nil, err
		}
		cfg.HasActions = true
		return f, nil
	}
}

func helpConstructor(*tokens, *config.Config) (Filter, error)    { return nil, ErrHelp }
func versionConstructor(*tokens, *config.Config) (Filter, error) { return nil, ErrVersion }

// registry maps each literal expression token to its leaf constructor.
// -newerXY is resolved dynamically in lookupConstruct.
var registry = map[string]constructor{
	// positional options
	"-daystart":  option(newDayStart),
	"-follow":    option(newFollow),
	"-regextype": option(newRegexTypeSetting),
	"-warn":      option(newWarnSetting(true)),
	"-nowarn":    option(newWarnSetting(false)),

	// global options
	"-d":                     option(newDepth),
	"-depth":                 option(newDepth),
	"-files0-from":           option(newFiles0From),
	"-ignore_readdir_race":   option(newReaddirRaceSetting(true)),
	"-noignore_readdir_race": option(newReaddirRaceSetting(false)),
	"-maxdepth":              option(newDepthBound("-maxdepth")),
	"-mindepth":              option(newDepthBound("-mindepth")),
	"-mount":                 option(newXDev("-mount")),
	"-xdev":                  option(newXDev("-xdev")),
	"-noleaf":                option(newNoLeaf),
	"-help":                  helpConstructor,
	"--help":                 helpConstructor,
	"-version":               versionConstructor,
	"--version":              versionConstructor,

	// actions
	"-delete":  action(newDelete),
	"-exec":    action(newExecLeaf("-exec", false, false)),
	"-execdir": action(newExecLeaf("-execdir", true, false)),
	"-ok":      action(newExecLeaf("-ok", false, true)),
	"-okdir":   action(newExecLeaf("-okdir", true, true)),
	"-ls":      action(newLs),
	"-fls":     action(newFLs),
	"-print":   action(newPrint),
	"-print0":  action(newPrint0),
	"-printf":  action(newPrintf),
	"-fprint":  action(newFprint),
	"-fprint0": action(newFprint0),
	"-fprintf": action(newFprintf),
	"-prune":   newPrune,
	"-quit":    newQuit,

	// tests
	"-amin":       newAgeTest("-amin", timeAccess, secondsPerMinute),
	"-atime":      newAgeTest("-atime", timeAccess, secondsPerDay),
	"-cmin":       newAgeTest("-cmin", timeChange, secondsPerMinute),
	"-ctime":      newAgeTest("-ctime", timeChange, secondsPerDay),
	"-mmin":       newAgeTest("-mmin", timeModify, secondsPerMinute),
	"-mtime":      newAgeTest("-mtime", timeModify, secondsPerDay),
	"-anewer":     newNewerLeaf("-anewer", timeAccess, timeAccess),
	"-cnewer":     newNewerLeaf("-cnewer", timeChange, timeChange),
	"-newer":      newNewerLeaf("-newer", timeModify, timeModify),
	"-used":       newUsed,
	"-empty":      newEmpty,
	"-true":       newConstTest(true),
	"-false":      newConstTest(false),
	"-fstype":     newFstype,
	"-gid":        newFieldTest("-gid", func(m Metadata) int64 { return int64(m.GID()) }),
	"-uid":        newFieldTest("-uid", func(m Metadata) int64 { return int64(m.UID()) }),
	"-inum":       newFieldTest("-inum", func(m Metadata) int64 { return int64(m.Inode()) }),
	"-links":      newFieldTest("-links", func(m Metadata) int64 { return int64(m.Nlink()) }),
	"-group":      newOwnerTest("-group", true),
	"-user":       newOwnerTest("-user", false),
	"-nogroup":    newNoOwnerTest("-nogroup", true),
	"-nouser":     newNoOwnerTest("-nouser", false),
	"-lname":      newLnameTest("-lname", false),
	"-ilname":     newLnameTest("-ilname", true),
	"-name":       newNameTest("-name", false),
	"-iname":      newNameTest("-iname", true),
	"-path":       newPathTest("-path", false),
	"-ipath":      newPathTest("-ipath", true),
	"-wholename":  newPathTest("-wholename", false),
	"-iwholename": newPathTest("-iwholename", true),
	"-regex":      newRegexTest("-regex", false),
	"-iregex":     newRegexTest("-iregex", true),
	"-perm":       newPermTest,
	"-readable":   newAccessTest("-readable", accessRead),
	"-writable":   newAccessTest("-writable", accessWrite),
	"-executable": newAccessTest("-executable", accessExecute),
	"-samefile":   newSamefile,
	"-size":       newSizeTest,
	"-type":       newTypeTest("-type", false),
	"-xtype":      newTypeTest("-xtype", true),
}

// lookupConstruct resolves an expression token to its constructor.
func lookupConstruct(tok string) (constructor, error) {
	if build, ok := registry[tok]; ok {
		return build, nil
	}
	if strings.HasPrefix(tok, "-newer") && len(tok) == 8 {
		return newerXYConstructor(tok)
	}
	return nil, usageErrorf("%s is an invalid name for filter", tok)
}

// newerXYConstructor resolves the -newerXY family: X selects the entry
// timestamp, Y the reference timestamp, with Y=t taking a date string
// instead of a reference file.
func newerXYConstructor(tok string) (constructor, error) {
	x, y := tok[6], tok[7]

	xKind, ok := timeKindFromByte(x)
	if !ok {
		return nil, usageErrorf("invalid XY pair for %s", tok)
	}
	if y == 't' {
		return newNewerThanTimestamp(tok, xKind), nil
	}
	yKind, ok := timeKindFromByte(y)
	if !ok {
		return nil, usageErrorf("invalid XY pair for %s", tok)
	}
	return newNewerLeaf(tok, xKind, yKind), nil
}
