package filter

// Entry is one visited filesystem node. Metadata is fetched lazily and at
// most once per flavour (the entry's own metadata vs the final symlink
// resolved), so an expression with several metadata tests costs a single
// stat.
type Entry struct {
	path          string
	startingPoint string
	depth         int

	lstat *metaResult
	stat  *metaResult
}

type metaResult struct {
	meta Metadata
	err  error
}

// NewEntry returns an Entry for path, found at depth below startingPoint.
func NewEntry(path, startingPoint string, depth int) *Entry {
	return &Entry{path: path, startingPoint: startingPoint, depth: depth}
}

// Path returns the entry's path as walked, starting point included.
func (e *Entry) Path() string { return e.path }

// StartingPoint returns the root this entry was found under.
func (e *Entry) StartingPoint() string { return e.startingPoint }

// Depth returns the number of path components below the starting point.
func (e *Entry) Depth() int { return e.depth }

// Lstat returns the entry's own metadata, never following a final symlink.
// The result, error included, is computed at most once.
func (e *Entry) Lstat() (Metadata, error) {
	if e.lstat == nil {
		m, err := lstatMetadata(e.path)
		e.lstat = &metaResult{meta: m, err: err}
	}
	return e.lstat.meta, e.lstat.err
}

// Stat returns the entry's metadata with a final symlink resolved. The
// result, error included, is computed at most once.
func (e *Entry) Stat() (Metadata, error) {
	if e.stat == nil {
		m, err := statMetadata(e.path)
		e.stat = &metaResult{meta: m, err: err}
	}
	return e.stat.meta, e.stat.err
}

// Fetched reports which metadata flavours have been loaded so far.
func (e *Entry) Fetched() (lstat, stat bool) {
	return e.lstat != nil, e.stat != nil
}

// metadata picks the flavour the calling test was configured with.
func (e *Entry) metadata(follow bool) (Metadata, error) {
	if follow {
		return e.Stat()
	}
	return e.Lstat()
}
