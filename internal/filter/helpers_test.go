package filter

// fakeMetadata is a forged stat result for tests that must not depend on
// the state of the real filesystem.
type fakeMetadata struct {
	mode       uint32
	size       int64
	accessTime int64
	changeTime int64
	modTime    int64
	inode      uint64
	dev        uint64
	nlink      uint64
	blocks     int64
	blockSize  int64
	uid        uint32
	gid        uint32
}

func (m *fakeMetadata) Mode() uint32      { return m.mode }
func (m *fakeMetadata) Size() int64       { return m.size }
func (m *fakeMetadata) AccessTime() int64 { return m.accessTime }
func (m *fakeMetadata) ChangeTime() int64 { return m.changeTime }
func (m *fakeMetadata) ModTime() int64    { return m.modTime }
func (m *fakeMetadata) Inode() uint64     { return m.inode }
func (m *fakeMetadata) Dev() uint64       { return m.dev }
func (m *fakeMetadata) Nlink() uint64     { return m.nlink }
func (m *fakeMetadata) Blocks() int64     { return m.blocks }
func (m *fakeMetadata) BlockSize() int64  { return m.blockSize }
func (m *fakeMetadata) UID() uint32       { return m.uid }
func (m *fakeMetadata) GID() uint32       { return m.gid }

// forgeEntry builds an Entry whose metadata cells are pre-filled, so no
// stat ever happens.
func forgeEntry(path string, meta Metadata) *Entry {
	e := NewEntry(path, "/", 0)
	e.lstat = &metaResult{meta: meta}
	e.stat = &metaResult{meta: meta}
	return e
}

// countingFilter records evaluations and answers a fixed result.
type countingFilter struct {
	result bool
	calls  int
}

func (c *countingFilter) Filter(*Entry) (bool, error) {
	c.calls++
	return c.result, nil
}

func (c *countingFilter) HasSideEffects() bool { return false }
func (c *countingFilter) BasedOnName() bool    { return true }
func (c *countingFilter) String() string       { return "-stub" }
