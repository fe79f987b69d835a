package filter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/harrison/gofind/internal/config"
)

// dest is where a print action writes: the run's stdout, or a file opened
// for append on every write so several actions can share it.
type dest struct {
	w    io.Writer
	path string
}

func stdoutDest(cfg *config.Config) dest { return dest{w: cfg.Stdout} }
func fileDest(path string) dest          { return dest{path: path} }

func (d dest) write(s string) error {
	if d.w != nil {
		_, err := io.WriteString(d.w, s)
		return err
	}
	f, err := os.OpenFile(d.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.WriteString(f, s)
	return err
}

// printAction is the whole print family: -print, -print0, -printf and
// their -f variants, differing only in destination and formatter.
type printAction struct {
	name   string
	out    dest
	format formatter
}

func (p *printAction) Filter(entry *Entry) (bool, error) {
	s, err := p.format.render(entry)
	if err != nil {
		return false, err
	}
	if err := p.out.write(s); err != nil {
		return false, err
	}
	return true, nil
}

func (p *printAction) HasSideEffects() bool { return true }
func (p *printAction) BasedOnName() bool    { return false }
func (p *printAction) String() string       { return p.name }

func newPrint(_ *tokens, cfg *config.Config) (Filter, error) {
	return &printAction{"-print", stdoutDest(cfg), newlineFormat{}}, nil
}

func newPrint0(_ *tokens, cfg *config.Config) (Filter, error) {
	return &printAction{"-print0", stdoutDest(cfg), nulFormat{}}, nil
}

func newPrintf(tr *tokens, cfg *config.Config) (Filter, error) {
	format, err := nextArg(tr, "-printf")
	if err != nil {
		return nil, err
	}
	return &printAction{"-printf", stdoutDest(cfg), newPrintfFormat(format, cfg.FollowAtBuildTime())}, nil
}

func newFprint(tr *tokens, _ *config.Config) (Filter, error) {
	path, err := nextArg(tr, "-fprint")
	if err != nil {
		return nil, err
	}
	return &printAction{"-fprint", fileDest(path), newlineFormat{}}, nil
}

func newFprint0(tr *tokens, _ *config.Config) (Filter, error) {
	path, err := nextArg(tr, "-fprint0")
	if err != nil {
		return nil, err
	}
	return &printAction{"-fprint0", fileDest(path), nulFormat{}}, nil
}

func newFprintf(tr *tokens, cfg *config.Config) (Filter, error) {
	path, err := nextArg(tr, "-fprintf")
	if err != nil {
		return nil, err
	}
	format, err := nextArg(tr, "-fprintf")
	if err != nil {
		return nil, err
	}
	return &printAction{"-fprintf", fileDest(path), newPrintfFormat(format, cfg.FollowAtBuildTime())}, nil
}

// DefaultPrint is the implicit -print appended when an expression names
// no action of its own.
func DefaultPrint(cfg *config.Config) Filter {
	return &printAction{"-print", stdoutDest(cfg), newlineFormat{}}
}

// lsAction renders entries the way ls -dils does: inode, blocks, mode,
// link count, owner, group, size, mtime, name.
type lsAction struct {
	name   string
	out    dest
	posix  bool
	follow bool
}

func newLs(_ *tokens, cfg *config.Config) (Filter, error) {
	return &lsAction{"-ls", stdoutDest(cfg), cfg.Global.PosixlyCorrect, cfg.FollowAtBuildTime()}, nil
}

func newFLs(tr *tokens, cfg *config.Config) (Filter, error) {
	path, err := nextArg(tr, "-fls")
	if err != nil {
		return nil, err
	}
	return &lsAction{"-fls", fileDest(path), cfg.Global.PosixlyCorrect, cfg.FollowAtBuildTime()}, nil
}

func (l *lsAction) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(l.follow)
	if err != nil {
		return false, err
	}

	// Blocks are shown in 1K units unless POSIXLY_CORRECT asks for the
	// raw 512 byte count.
	blocks := m.Blocks()
	if !l.posix {
		blocks >>= 1
	}

	user, ok := lookupUsername(m.UID())
	if !ok {
		return false, fmt.Errorf("cannot get corresponding user name for uid %d", m.UID())
	}
	group, ok := lookupGroupname(m.GID())
	if !ok {
		return false, fmt.Errorf("cannot get corresponding group name for gid %d", m.GID())
	}

	line := fmt.Sprintf("%d %d %c%o %d %s %s %d %s %s\n",
		m.Inode(),
		blocks,
		modeTypeChar(m.Mode()),
		m.Mode()&0o777,
		m.Nlink(),
		user,
		group,
		m.Size(),
		time.Unix(m.ModTime(), 0).Format("Jan _2 15:04"),
		escapeControl(entry.Path()),
	)
	if err := l.out.write(line); err != nil {
		return false, err
	}
	return true, nil
}

func (l *lsAction) HasSideEffects() bool { return true }
func (l *lsAction) BasedOnName() bool    { return false }
func (l *lsAction) String() string       { return l.name }

// deleteAction removes each matched entry. It implies -depth so a
// directory's contents go before the directory itself.
type deleteAction struct{}

func newDelete(_ *tokens, cfg *config.Config) (Filter, error) {
	cfg.Global.Depth = true
	return deleteAction{}, nil
}

func (deleteAction) Filter(entry *Entry) (bool, error) {
	if err := os.Remove(entry.Path()); err != nil {
		return false, err
	}
	return true, nil
}

func (deleteAction) HasSideEffects() bool { return true }
func (deleteAction) BasedOnName() bool    { return false }
func (deleteAction) String() string       { return "-delete" }

// pruneAction tells the walker not to descend into the entry.
type pruneAction struct{}

func newPrune(*tokens, *config.Config) (Filter, error) { return pruneAction{}, nil }

func (pruneAction) Filter(*Entry) (bool, error) { return true, nil }

func (pruneAction) FilterWithSideEffects(_ *Entry, effects *[]Instruction) (bool, error) {
	*effects = append(*effects, PruneInstruction{})
	return true, nil
}

func (pruneAction) HasSideEffects() bool { return true }
func (pruneAction) BasedOnName() bool    { return true }
func (pruneAction) String() string       { return "-prune" }

// quitAction tells the walker to stop, exiting with the status
// accumulated so far.
type quitAction struct{}

func newQuit(*tokens, *config.Config) (Filter, error) { return quitAction{}, nil }

func (quitAction) Filter(*Entry) (bool, error) { return true, nil }

func (quitAction) FilterWithSideEffects(_ *Entry, effects *[]Instruction) (bool, error) {
	*effects = append(*effects, ExitInstruction{})
	return true, nil
}

func (quitAction) HasSideEffects() bool { return true }
func (quitAction) BasedOnName() bool    { return true }
func (quitAction) String() string       { return "-quit" }

// yesRe accepts the affirmative answers of the -ok prompt.
var yesRe = regexp.MustCompile(`^[1yY]`)

// execAction runs a command per matched entry, or batched with `+`. The
// dir variants run from the entry's directory with just its name.
type execAction struct {
	name   string
	argv   []string
	chdir  bool
	prompt bool
	batch  bool

	dir      string
	batchDir string
	cache    []string
	cacheLen int64
	argMax   int64

	debug  bool
	stdout io.Writer
	stderr io.Writer
	stdin  *bufio.Reader
}

func newExecLeaf(name string, chdir, prompt bool) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		if prompt && !cfg.FromCLI {
			return nil, usageErrorf("cannot combine %s with -files0-from", name)
		}

		argv, batch, err := parseExecArgv(tr, name)
		if err != nil {
			return nil, err
		}
		if prompt && batch {
			return nil, usageErrorf("%s does not support `+`", name)
		}

		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}

		a := &execAction{
			name:     name,
			argv:     argv,
			chdir:    chdir,
			prompt:   prompt,
			batch:    batch,
			dir:      dir,
			batchDir: dir,
			argMax:   cfg.Global.ArgMax,
			debug:    cfg.Debug.Exec,
			stdout:   cfg.Stdout,
			stderr:   cfg.Stderr,
		}
		if prompt {
			cfg.HasOK = true
			a.stdin = bufio.NewReader(cfg.Stdin)
		}
		if batch {
			cfg.OnWalkDone(a.Flush)
		}
		return a, nil
	}
}

// parseExecArgv collects the command tokens up to the terminating `;` or
// `+`. With `+` the trailing `{}` placeholder is checked and dropped.
func parseExecArgv(tr *tokens, name string) (argv []string, batch bool, err error) {
	program, err := nextArg(tr, name)
	if err != nil {
		return nil, false, err
	}
	argv = append(argv, program)

	for {
		tok, ok := tr.next()
		if !ok {
			return nil, false, usageErrorf("no `;` or `+` after the command for %s", name)
		}
		switch tok {
		case ";":
			return argv, false, nil
		case "+":
			if argv[len(argv)-1] != "{}" {
				return nil, false, usageErrorf("the last arg before `+` must be `{}`")
			}
			return argv[:len(argv)-1], true, nil
		default:
			argv = append(argv, tok)
		}
	}
}

func (a *execAction) FilterWithSideEffects(entry *Entry, effects *[]Instruction) (bool, error) {
	target := entry.Path()
	dir := a.dir
	if a.chdir {
		base, ok := baseName(target)
		if !ok {
			return false, fmt.Errorf("cannot get file name of `%s`", target)
		}
		dir = filepath.Dir(target)
		target = base
	}

	if a.batch {
		targetLen := int64(len(target))
		if a.cacheLen+targetLen > a.argMax || dir != a.batchDir {
			if err := a.runBatch(effects); err != nil {
				return false, err
			}
			a.batchDir = dir
		}
		a.cache = append(a.cache, target)
		a.cacheLen += targetLen
		return true, nil
	}

	argv := make([]string, len(a.argv))
	for i, arg := range a.argv {
		argv[i] = strings.ReplaceAll(arg, "{}", target)
	}

	if a.prompt {
		ok, err := a.confirm(argv)
		if err != nil || !ok {
			return false, err
		}
	}

	code, err := a.run(argv, dir)
	if err != nil {
		return false, err
	}
	return code == 0, nil
}

// confirm prints the command on stderr and reads one answer line.
func (a *execAction) confirm(argv []string) (bool, error) {
	fmt.Fprintf(a.stderr, "%s ([1yY]/[0nN]):", strings.Join(argv, " "))
	line, err := a.stdin.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	return yesRe.MatchString(line), nil
}

// runBatch runs the collected command once over the cached names. A
// failing batch asks the walker to exit with the command's status.
func (a *execAction) runBatch(effects *[]Instruction) error {
	if len(a.cache) == 0 {
		return nil
	}
	argv := append(append([]string{}, a.argv...), a.cache...)
	a.cache = nil
	a.cacheLen = 0

	code, err := a.run(argv, a.batchDir)
	if err != nil {
		return err
	}
	if code != 0 && effects != nil {
		*effects = append(*effects, ExitInstruction{Code: &code})
	}
	return nil
}

// Flush runs the pending batch. The walker calls it when the walk is
// done, so a short run still executes the command.
func (a *execAction) Flush() error {
	return a.runBatch(nil)
}

func (a *execAction) run(argv []string, dir string) (int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr

	if a.debug {
		fmt.Fprintf(a.stderr, "debug(exec): launching %s in %s\n", strings.Join(argv, " "), dir)
	}
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if a.debug {
				fmt.Fprintf(a.stderr, "debug(exec): process exited with status %d\n", code)
			}
			return code, nil
		}
		return 0, err
	}
	if a.debug {
		fmt.Fprintf(a.stderr, "debug(exec): process exited with status 0\n")
	}
	return 0, nil
}

func (a *execAction) Filter(entry *Entry) (bool, error) {
	var effects []Instruction
	return a.FilterWithSideEffects(entry, &effects)
}

func (a *execAction) HasSideEffects() bool { return true }
func (a *execAction) BasedOnName() bool    { return false }

func (a *execAction) String() string {
	terminator := ";"
	if a.batch {
		terminator = "{} +"
	}
	return a.name + " " + strings.Join(a.argv, " ") + " " + terminator
}
