package filter

import (
	"os/user"
	"strconv"
)

// Metadata is the stat surface the leaf tests consume. Timestamps are
// seconds since the epoch.
type Metadata interface {
	Mode() uint32
	Size() int64
	AccessTime() int64
	ChangeTime() int64
	ModTime() int64
	Inode() uint64
	Dev() uint64
	Nlink() uint64
	Blocks() int64
	BlockSize() int64
	UID() uint32
	GID() uint32
}

// lookupUsername and lookupGroupname resolve ids to names. Package
// variables so tests can pin the answers.
var (
	lookupUsername = func(uid uint32) (string, bool) {
		u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
		if err != nil {
			return "", false
		}
		return u.Username, true
	}

	lookupGroupname = func(gid uint32) (string, bool) {
		g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
		if err != nil {
			return "", false
		}
		return g.Name, true
	}
)
