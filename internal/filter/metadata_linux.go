package filter

import (
	"os"

	"golang.org/x/sys/unix"
)

// sysMetadata adapts a raw unix.Stat_t to the Metadata interface.
type sysMetadata struct {
	st unix.Stat_t
}

func lstatMetadata(path string) (Metadata, error) {
	var m sysMetadata
	if err := unix.Lstat(path, &m.st); err != nil {
		return nil, &os.PathError{Op: "lstat", Path: path, Err: err}
	}
	return &m, nil
}

func statMetadata(path string) (Metadata, error) {
	var m sysMetadata
	if err := unix.Stat(path, &m.st); err != nil {
		return nil, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return &m, nil
}

func (m *sysMetadata) Mode() uint32      { return uint32(m.st.Mode) }
func (m *sysMetadata) Size() int64       { return m.st.Size }
func (m *sysMetadata) AccessTime() int64 { return m.st.Atim.Sec }
func (m *sysMetadata) ChangeTime() int64 { return m.st.Ctim.Sec }
func (m *sysMetadata) ModTime() int64    { return m.st.Mtim.Sec }
func (m *sysMetadata) Inode() uint64     { return m.st.Ino }
func (m *sysMetadata) Dev() uint64       { return uint64(m.st.Dev) }
func (m *sysMetadata) Nlink() uint64     { return uint64(m.st.Nlink) }
func (m *sysMetadata) Blocks() int64     { return m.st.Blocks }
func (m *sysMetadata) BlockSize() int64  { return int64(m.st.Blksize) }
func (m *sysMetadata) UID() uint32       { return m.st.Uid }
func (m *sysMetadata) GID() uint32       { return m.st.Gid }
