package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"golang.org/x/sys/unix"

	"github.com/harrison/gofind/internal/config"
)

// metaLeaf supplies the shared behaviour of tests that decide from
// metadata.
type metaLeaf struct {
	name string
}

func (l metaLeaf) HasSideEffects() bool { return false }
func (l metaLeaf) BasedOnName() bool    { return false }

// nameLeaf supplies the shared behaviour of tests that decide from the
// path alone.
type nameLeaf struct {
	name string
}

func (l nameLeaf) HasSideEffects() bool { return false }
func (l nameLeaf) BasedOnName() bool    { return true }

// numericArg is the N / +N / -N argument shape shared by the numeric
// tests: +N matches values strictly greater than N, -N strictly less.
type compareMode int

const (
	compareEqual compareMode = iota
	compareGreater
	compareLess
)

type numericArg struct {
	n    int64
	mode compareMode
}

func parseNumericArg(arg string) (numericArg, error) {
	mode := compareEqual
	body := arg
	if rest, ok := strings.CutPrefix(arg, "+"); ok {
		mode = compareGreater
		body = rest
	} else if rest, ok := strings.CutPrefix(arg, "-"); ok {
		mode = compareLess
		body = rest
	}
	n, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return numericArg{}, fmt.Errorf("cannot parse %s as the filter argument", body)
	}
	return numericArg{n: n, mode: mode}, nil
}

func (a numericArg) matches(v int64) bool {
	switch a.mode {
	case compareGreater:
		return v > a.n
	case compareLess:
		return v < a.n
	default:
		return v == a.n
	}
}

func (a numericArg) String() string {
	switch a.mode {
	case compareGreater:
		return "+" + strconv.FormatInt(a.n, 10)
	case compareLess:
		return "-" + strconv.FormatInt(a.n, 10)
	default:
		return strconv.FormatInt(a.n, 10)
	}
}

func nextNumericArg(tr *tokens, name string) (numericArg, error) {
	arg, err := nextArg(tr, name)
	if err != nil {
		return numericArg{}, err
	}
	parsed, err := parseNumericArg(arg)
	if err != nil {
		return numericArg{}, usageErrorf("%v", err)
	}
	return parsed, nil
}

const (
	secondsPerMinute int64 = 60
	secondsPerDay    int64 = 24 * 60 * 60
)

// timeKind selects one of the three stat timestamps.
type timeKind int

const (
	timeAccess timeKind = iota
	timeChange
	timeModify
)

func (k timeKind) of(m Metadata) int64 {
	switch k {
	case timeAccess:
		return m.AccessTime()
	case timeChange:
		return m.ChangeTime()
	default:
		return m.ModTime()
	}
}

func timeKindFromByte(b byte) (timeKind, bool) {
	switch b {
	case 'a':
		return timeAccess, true
	case 'c':
		return timeChange, true
	case 'm':
		return timeModify, true
	}
	return 0, false
}

// nowTimestamp is the reference point for the age tests, taken once when
// the leaf is built. With -daystart ages are measured from the beginning
// of today instead of from now.
func nowTimestamp(cfg *config.Config) int64 {
	now := time.Now()
	if cfg.Filter.DayStart {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local).Unix()
	}
	return now.Unix()
}

// -amin, -atime, -cmin, -ctime, -mmin, -mtime

type ageTest struct {
	metaLeaf
	kind   timeKind
	unit   int64
	arg    numericArg
	now    int64
	follow bool
}

func newAgeTest(name string, kind timeKind, unit int64) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		arg, err := nextNumericArg(tr, name)
		if err != nil {
			return nil, err
		}
		return &ageTest{
			metaLeaf: metaLeaf{name},
			kind:     kind,
			unit:     unit,
			arg:      arg,
			now:      nowTimestamp(cfg),
			follow:   cfg.FollowAtFilterTime(),
		}, nil
	}
}

func (t *ageTest) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	elapsed := t.now - t.kind.of(m)
	if elapsed < 0 {
		elapsed = 0
	}
	return t.arg.matches(elapsed / t.unit), nil
}

func (t *ageTest) String() string { return t.name + " " + t.arg.String() }

// -anewer, -cnewer, -newer and the -newerXY family

type newerTest struct {
	metaLeaf
	kind   timeKind
	ref    string
	target int64
	follow bool
}

func newNewerLeaf(name string, x, y timeKind) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		ref, err := nextArg(tr, name)
		if err != nil {
			return nil, err
		}
		m, err := NewEntry(ref, "/", 0).metadata(cfg.FollowAtBuildTime())
		if err != nil {
			return nil, fmt.Errorf("getting metadata of %s: %w", ref, err)
		}
		return &newerTest{
			metaLeaf: metaLeaf{name},
			kind:     x,
			ref:      ref,
			target:   y.of(m),
			follow:   cfg.FollowAtFilterTime(),
		}, nil
	}
}

func newNewerThanTimestamp(name string, x timeKind) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		arg, err := nextArg(tr, name)
		if err != nil {
			return nil, err
		}
		target, err := parseTimestamp(arg)
		if err != nil {
			return nil, usageErrorf("invalid argument `%s` to %s", arg, name)
		}
		return &newerTest{
			metaLeaf: metaLeaf{name},
			kind:     x,
			ref:      arg,
			target:   target,
			follow:   cfg.FollowAtFilterTime(),
		}, nil
	}
}

// timestampLayouts are tried in order, in local time.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"Jan 2 2006 15:04:05",
	"Jan 2 2006",
}

func parseTimestamp(arg string) (int64, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, arg, time.Local); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized timestamp %q", arg)
}

func (t *newerTest) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	return t.kind.of(m) > t.target, nil
}

func (t *newerTest) String() string { return t.name + " " + t.ref }

// -used

type usedTest struct {
	metaLeaf
	arg    numericArg
	follow bool
}

func newUsed(tr *tokens, cfg *config.Config) (Filter, error) {
	arg, err := nextNumericArg(tr, "-used")
	if err != nil {
		return nil, err
	}
	return &usedTest{metaLeaf{"-used"}, arg, cfg.FollowAtFilterTime()}, nil
}

// Filter compares the days between last access and last status change. A
// file whose atime equals its ctime was never used after the change, and
// `-used 0` deliberately answers false for it.
func (t *usedTest) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	atime, ctime := m.AccessTime(), m.ChangeTime()
	if atime == ctime && t.arg.n == 0 && t.arg.mode == compareEqual {
		return false, nil
	}
	return t.arg.matches((atime - ctime) / secondsPerDay), nil
}

func (t *usedTest) String() string { return t.name + " " + t.arg.String() }

// -empty

type emptyTest struct {
	metaLeaf
	follow bool
}

func newEmpty(_ *tokens, cfg *config.Config) (Filter, error) {
	return &emptyTest{metaLeaf{"-empty"}, cfg.FollowAtFilterTime()}, nil
}

func (t *emptyTest) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	return m.Size() == 0, nil
}

func (t *emptyTest) String() string { return t.name }

// -true / -false

type constTest struct {
	nameLeaf
	value bool
}

func newConstTest(value bool) constructor {
	name := "-true"
	if !value {
		name = "-false"
	}
	return func(*tokens, *config.Config) (Filter, error) {
		return constTest{nameLeaf{name}, value}, nil
	}
}

func (t constTest) Filter(*Entry) (bool, error) { return t.value, nil }
func (t constTest) String() string              { return t.name }

// -gid, -uid, -inum, -links

type fieldTest struct {
	metaLeaf
	field  func(Metadata) int64
	arg    numericArg
	follow bool
}

func newFieldTest(name string, field func(Metadata) int64) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		arg, err := nextNumericArg(tr, name)
		if err != nil {
			return nil, err
		}
		return &fieldTest{metaLeaf{name}, field, arg, cfg.FollowAtFilterTime()}, nil
	}
}

func (t *fieldTest) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	return t.arg.matches(t.field(m)), nil
}

func (t *fieldTest) String() string { return t.name + " " + t.arg.String() }

// -user / -group

type ownerTest struct {
	metaLeaf
	group  bool
	arg    string
	byID   bool
	id     uint32
	follow bool
}

func newOwnerTest(name string, group bool) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		arg, err := nextArg(tr, name)
		if err != nil {
			return nil, err
		}
		t := &ownerTest{
			metaLeaf: metaLeaf{name},
			group:    group,
			arg:      arg,
			follow:   cfg.FollowAtFilterTime(),
		}
		if id, err := strconv.ParseUint(arg, 10, 32); err == nil {
			t.byID = true
			t.id = uint32(id)
		}
		return t, nil
	}
}

func (t *ownerTest) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	id := m.UID()
	if t.group {
		id = m.GID()
	}
	if t.byID {
		return id == t.id, nil
	}
	lookup := lookupUsername
	if t.group {
		lookup = lookupGroupname
	}
	name, ok := lookup(id)
	return ok && name == t.arg, nil
}

func (t *ownerTest) String() string { return t.name + " " + t.arg }

// -nouser / -nogroup

type noOwnerTest struct {
	metaLeaf
	group  bool
	follow bool
}

func newNoOwnerTest(name string, group bool) constructor {
	return func(_ *tokens, cfg *config.Config) (Filter, error) {
		return &noOwnerTest{metaLeaf{name}, group, cfg.FollowAtFilterTime()}, nil
	}
}

func (t *noOwnerTest) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	if t.group {
		_, ok := lookupGroupname(m.GID())
		return !ok, nil
	}
	_, ok := lookupUsername(m.UID())
	return !ok, nil
}

func (t *noOwnerTest) String() string { return t.name }

// baseName extracts the final path component the way the name tests see
// it. Paths resolving to "/", "." or ".." have no usable name.
func baseName(path string) (string, bool) {
	base := filepath.Base(path)
	switch base {
	case "/", ".", "..":
		return "", false
	}
	return base, true
}

// matchGlob compiles pattern as a shell glob with no separator, so `*`
// crosses nothing special. Case folding lowers both sides.
func compileGlob(pattern string, fold bool) (glob.Glob, error) {
	if fold {
		pattern = strings.ToLower(pattern)
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, usageErrorf("invalid pattern `%s`: %v", pattern, err)
	}
	return g, nil
}

// -name / -iname

type nameTest struct {
	nameLeaf
	pattern string
	fold    bool
	g       glob.Glob
}

func newNameTest(name string, fold bool) constructor {
	return func(tr *tokens, _ *config.Config) (Filter, error) {
		pattern, err := nextArg(tr, name)
		if err != nil {
			return nil, err
		}
		g, err := compileGlob(pattern, fold)
		if err != nil {
			return nil, err
		}
		return &nameTest{nameLeaf{name}, pattern, fold, g}, nil
	}
}

func (t *nameTest) Filter(entry *Entry) (bool, error) {
	if t.pattern == "/" && entry.Path() == "/" {
		return true, nil
	}
	base, ok := baseName(entry.Path())
	if !ok {
		return false, nil
	}
	if t.fold {
		base = strings.ToLower(base)
	}
	return t.g.Match(base), nil
}

func (t *nameTest) String() string { return t.name + " " + t.pattern }

// -path / -ipath / -wholename / -iwholename

type pathTest struct {
	nameLeaf
	pattern string
	fold    bool
	g       glob.Glob
}

func newPathTest(name string, fold bool) constructor {
	return func(tr *tokens, _ *config.Config) (Filter, error) {
		pattern, err := nextArg(tr, name)
		if err != nil {
			return nil, err
		}
		g, err := compileGlob(pattern, fold)
		if err != nil {
			return nil, err
		}
		return &pathTest{nameLeaf{name}, pattern, fold, g}, nil
	}
}

func (t *pathTest) Filter(entry *Entry) (bool, error) {
	path := entry.Path()
	if t.fold {
		path = strings.ToLower(path)
	}
	return t.g.Match(path), nil
}

func (t *pathTest) String() string { return t.name + " " + t.pattern }

// -lname / -ilname

type lnameTest struct {
	nameLeaf
	pattern string
	fold    bool
	g       glob.Glob
	follow  bool
}

func newLnameTest(name string, fold bool) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		pattern, err := nextArg(tr, name)
		if err != nil {
			return nil, err
		}
		g, err := compileGlob(pattern, fold)
		if err != nil {
			return nil, err
		}
		return &lnameTest{nameLeaf{name}, pattern, fold, g, cfg.FollowAtFilterTime()}, nil
	}
}

// Filter matches the symlink target. When symlinks are being followed
// nothing looks like a symlink, so the answer is always false.
func (t *lnameTest) Filter(entry *Entry) (bool, error) {
	if t.follow {
		return false, nil
	}
	target, err := os.Readlink(entry.Path())
	if err != nil {
		return false, nil
	}
	if t.fold {
		target = strings.ToLower(target)
	}
	return t.g.Match(target), nil
}

func (t *lnameTest) String() string { return t.name + " " + t.pattern }

// -regex / -iregex

type regexTest struct {
	nameLeaf
	pattern string
	re      *regexp.Regexp
}

func compileRegex(pattern string, _ config.RegexType, fold bool) (*regexp.Regexp, error) {
	anchored := "^" + pattern + "$"
	if fold {
		anchored = "(?i)" + anchored
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, usageErrorf("cannot build the regex `%s`: %v", pattern, err)
	}
	return re, nil
}

func newRegexTest(name string, fold bool) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		pattern, err := nextArg(tr, name)
		if err != nil {
			return nil, err
		}
		re, err := compileRegex(pattern, cfg.Filter.RegexType, fold)
		if err != nil {
			return nil, err
		}
		return &regexTest{nameLeaf{name}, pattern, re}, nil
	}
}

func (t *regexTest) Filter(entry *Entry) (bool, error) {
	base, ok := baseName(entry.Path())
	if !ok {
		return false, fmt.Errorf("cannot get the file name of %s", entry.Path())
	}
	return t.re.MatchString(base), nil
}

func (t *regexTest) String() string { return t.name + " " + t.pattern }

// -perm

type permMode int

const (
	permExact permMode = iota // -perm MODE
	permAll                   // -perm -MODE
	permAny                   // -perm /MODE
)

type permTest struct {
	metaLeaf
	raw    string
	mode   permMode
	bits   uint32
	follow bool
}

var symbolicModeRe = regexp.MustCompile(`([ugoa]=[rwx]+,)*([ugoa]=[rwx]+)`)
var symbolicClauseRe = regexp.MustCompile(`(u|g|o|a)=([rwx]+)`)

func newPermTest(tr *tokens, cfg *config.Config) (Filter, error) {
	raw, err := nextArg(tr, "-perm")
	if err != nil {
		return nil, err
	}

	mode := permExact
	body := raw
	if rest, ok := strings.CutPrefix(raw, "-"); ok {
		mode = permAll
		body = rest
	} else if rest, ok := strings.CutPrefix(raw, "/"); ok {
		mode = permAny
		body = rest
	} else if rest, ok := strings.CutPrefix(raw, "+"); ok {
		mode = permAny
		body = rest
	}

	bits, err := parsePermBits(body)
	if err != nil {
		return nil, usageErrorf("invalid mode `%s`", raw)
	}
	return &permTest{metaLeaf{"-perm"}, raw, mode, bits, cfg.FollowAtFilterTime()}, nil
}

func parsePermBits(body string) (uint32, error) {
	if symbolicModeRe.MatchString(body) {
		var bits uint32
		for _, clause := range symbolicClauseRe.FindAllStringSubmatch(body, -1) {
			var shift uint32
			switch clause[1] {
			case "u":
				shift = 6
			case "g":
				shift = 3
			}
			for _, c := range clause[2] {
				switch c {
				case 'r':
					bits |= 0o4 << shift
				case 'w':
					bits |= 0o2 << shift
				case 'x':
					bits |= 0o1 << shift
				}
			}
		}
		return bits, nil
	}
	n, err := strconv.ParseUint(body, 8, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

func (t *permTest) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	perm := m.Mode() & 0o777
	switch t.mode {
	case permAll:
		return perm&t.bits == t.bits, nil
	case permAny:
		return t.bits == 0 || perm&t.bits != 0, nil
	default:
		return perm == t.bits, nil
	}
}

func (t *permTest) String() string { return t.name + " " + t.raw }

// -readable / -writable / -executable

const (
	accessRead    = unix.R_OK
	accessWrite   = unix.W_OK
	accessExecute = unix.X_OK
)

type accessTest struct {
	metaLeaf
	mode uint32
}

func newAccessTest(name string, mode uint32) constructor {
	return func(*tokens, *config.Config) (Filter, error) {
		return accessTest{metaLeaf{name}, mode}, nil
	}
}

// Filter asks the kernel, so the answer reflects the real uid and gid of
// the running process, ACLs included.
func (t accessTest) Filter(entry *Entry) (bool, error) {
	return unix.Access(entry.Path(), t.mode) == nil, nil
}

func (t accessTest) String() string { return t.name }

// -samefile

type samefileTest struct {
	metaLeaf
	ref    string
	inode  uint64
	follow bool
}

func newSamefile(tr *tokens, cfg *config.Config) (Filter, error) {
	ref, err := nextArg(tr, "-samefile")
	if err != nil {
		return nil, err
	}
	m, err := NewEntry(ref, "/", 0).metadata(cfg.FollowAtBuildTime())
	if err != nil {
		return nil, fmt.Errorf("getting metadata of %s: %w", ref, err)
	}
	return &samefileTest{metaLeaf{"-samefile"}, ref, m.Inode(), cfg.FollowAtFilterTime()}, nil
}

func (t *samefileTest) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	return m.Inode() == t.inode, nil
}

func (t *samefileTest) String() string { return t.name + " " + t.ref }

// -size

type sizeTest struct {
	metaLeaf
	raw    string
	arg    numericArg
	unit   int64
	follow bool
}

func sizeUnit(suffix byte) (int64, bool) {
	switch suffix {
	case 'c':
		return 1, true
	case 'w':
		return 2, true
	case 'k':
		return 1 << 10, true
	case 'M':
		return 1 << 20, true
	case 'G':
		return 1 << 30, true
	case 'b':
		return 512, true
	}
	return 0, false
}

func newSizeTest(tr *tokens, cfg *config.Config) (Filter, error) {
	raw, err := nextArg(tr, "-size")
	if err != nil {
		return nil, err
	}

	body := raw
	unit := int64(512)
	if n := len(body); n > 0 {
		if u, ok := sizeUnit(body[n-1]); ok {
			unit = u
			body = body[:n-1]
		}
	}

	arg, err := parseNumericArg(body)
	if err != nil {
		return nil, usageErrorf("invalid argument `%s` to -size", raw)
	}
	return &sizeTest{metaLeaf{"-size"}, raw, arg, unit, cfg.FollowAtFilterTime()}, nil
}

// Filter rounds the size up to whole units before comparing, so a one
// byte file is one block.
func (t *sizeTest) Filter(entry *Entry) (bool, error) {
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	blocks := (m.Size() + t.unit - 1) / t.unit
	return t.arg.matches(blocks), nil
}

func (t *sizeTest) String() string { return t.name + " " + t.raw }

// -type / -xtype

type typeTest struct {
	metaLeaf
	want   byte
	follow bool
}

func newTypeTest(name string, invertFollow bool) constructor {
	return func(tr *tokens, cfg *config.Config) (Filter, error) {
		arg, err := nextArg(tr, name)
		if err != nil {
			return nil, err
		}
		if len(arg) != 1 || !strings.ContainsRune("bcdpflsD", rune(arg[0])) {
			return nil, usageErrorf("invalid argument `%s` to %s", arg, name)
		}
		follow := cfg.FollowAtFilterTime()
		if invertFollow {
			follow = !follow
		}
		return &typeTest{metaLeaf{name}, arg[0], follow}, nil
	}
}

// typeChar maps the stat mode bits to find's type letters.
func typeChar(mode uint32) byte {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return 'f'
	case unix.S_IFDIR:
		return 'd'
	case unix.S_IFLNK:
		return 'l'
	case unix.S_IFBLK:
		return 'b'
	case unix.S_IFCHR:
		return 'c'
	case unix.S_IFIFO:
		return 'p'
	case unix.S_IFSOCK:
		return 's'
	}
	return '?'
}

// Filter classifies the entry. A symlink whose target does not exist is
// still reported as `l` when following, since there is nothing else it
// could resolve to.
func (t *typeTest) Filter(entry *Entry) (bool, error) {
	own, err := entry.Lstat()
	if err != nil {
		return false, err
	}
	if t.follow && typeChar(own.Mode()) == 'l' {
		if _, err := entry.Stat(); err != nil {
			return t.want == 'l', nil
		}
	}
	m, err := entry.metadata(t.follow)
	if err != nil {
		return false, err
	}
	return typeChar(m.Mode()) == t.want, nil
}

func (t *typeTest) String() string { return t.name + " " + string(t.want) }

// -fstype

type mountPoint struct {
	dir    string
	fstype string
}

// mountsPath is a package variable so tests can point it at a fixture.
var mountsPath = "/proc/self/mounts"

var (
	mountsOnce  sync.Once
	mountsTable []mountPoint
)

func loadMounts() []mountPoint {
	mountsOnce.Do(func() {
		data, err := os.ReadFile(mountsPath)
		if err != nil {
			return
		}
		mountsTable = parseMounts(string(data))
	})
	return mountsTable
}

// parseMounts reads an fstab-shaped mount table, longest mount point
// first so a path resolves to its most specific filesystem.
func parseMounts(data string) []mountPoint {
	var points []mountPoint
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		points = append(points, mountPoint{dir: fields[1], fstype: fields[2]})
	}
	for i := 1; i < len(points); i++ {
		for j := i; j > 0 && len(points[j].dir) > len(points[j-1].dir); j-- {
			points[j], points[j-1] = points[j-1], points[j]
		}
	}
	return points
}

// fstypeForPath resolves the filesystem type of the mount containing
// path, which must be absolute.
func fstypeForPath(path string) string {
	return lookupFstype(loadMounts(), path)
}

func lookupFstype(table []mountPoint, path string) string {
	for _, p := range table {
		if path == p.dir || strings.HasPrefix(path, strings.TrimSuffix(p.dir, "/")+"/") {
			return p.fstype
		}
	}
	return "Unknown"
}

type fstypeTest struct {
	metaLeaf
	fstype string
}

func newFstype(tr *tokens, _ *config.Config) (Filter, error) {
	arg, err := nextArg(tr, "-fstype")
	if err != nil {
		return nil, err
	}
	return &fstypeTest{metaLeaf{"-fstype"}, arg}, nil
}

func (t *fstypeTest) Filter(entry *Entry) (bool, error) {
	abs, err := filepath.Abs(entry.Path())
	if err != nil {
		return false, err
	}
	return fstypeForPath(abs) == t.fstype, nil
}

func (t *fstypeTest) String() string { return t.name + " " + t.fstype }
