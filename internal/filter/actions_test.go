package filter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestPrintActionWritesToStdout(t *testing.T) {
	cfg := testConfig()
	f, err := newPrint(newTokens(nil), cfg)
	require.NoError(t, err)

	ok, err := f.Filter(forgeEntry("/tmp/a", &fakeMetadata{}))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/a\n", cfg.Stdout.(*bytes.Buffer).String())
}

func TestPrint0ActionNulTerminates(t *testing.T) {
	cfg := testConfig()
	f, err := newPrint0(newTokens(nil), cfg)
	require.NoError(t, err)

	_, err = f.Filter(forgeEntry("/tmp/a", &fakeMetadata{}))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a\x00", cfg.Stdout.(*bytes.Buffer).String())
}

func TestFprintAppendsToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")

	cfg := testConfig()
	f, err := newFprint(newTokens([]string{out}), cfg)
	require.NoError(t, err)

	_, err = f.Filter(forgeEntry("/a", &fakeMetadata{}))
	require.NoError(t, err)
	_, err = f.Filter(forgeEntry("/b", &fakeMetadata{}))
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "/a\n/b\n", string(data))
}

func TestPrintfAction(t *testing.T) {
	cfg := testConfig()
	f, err := newPrintf(newTokens([]string{`%f\n`}), cfg)
	require.NoError(t, err)

	_, err = f.Filter(forgeEntry("/tmp/notes.txt", &fakeMetadata{mode: unix.S_IFREG}))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt\n", cfg.Stdout.(*bytes.Buffer).String())
}

func TestLsActionLine(t *testing.T) {
	restoreUser, restoreGroup := lookupUsername, lookupGroupname
	defer func() { lookupUsername, lookupGroupname = restoreUser, restoreGroup }()
	lookupUsername = func(uint32) (string, bool) { return "alice", true }
	lookupGroupname = func(uint32) (string, bool) { return "staff", true }

	cfg := testConfig()
	f, err := newLs(newTokens(nil), cfg)
	require.NoError(t, err)

	meta := &fakeMetadata{
		mode:   unix.S_IFREG | 0o644,
		size:   1234,
		inode:  42,
		nlink:  1,
		blocks: 8,
	}
	ok, err := f.Filter(forgeEntry("/tmp/report", meta))
	require.NoError(t, err)
	assert.True(t, ok)

	line := cfg.Stdout.(*bytes.Buffer).String()
	assert.Contains(t, line, "42 4 -644 1 alice staff 1234 ")
	assert.Contains(t, line, " /tmp/report\n")
}

func TestLsActionPosixBlocks(t *testing.T) {
	restoreUser, restoreGroup := lookupUsername, lookupGroupname
	defer func() { lookupUsername, lookupGroupname = restoreUser, restoreGroup }()
	lookupUsername = func(uint32) (string, bool) { return "alice", true }
	lookupGroupname = func(uint32) (string, bool) { return "staff", true }

	cfg := testConfig()
	cfg.Global.PosixlyCorrect = true
	f, err := newLs(newTokens(nil), cfg)
	require.NoError(t, err)

	_, err = f.Filter(forgeEntry("/f", &fakeMetadata{mode: unix.S_IFREG, blocks: 8}))
	require.NoError(t, err)
	assert.Contains(t, cfg.Stdout.(*bytes.Buffer).String(), " 8 -0 ")
}

func TestDeleteAction(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "victim")
	require.NoError(t, os.WriteFile(victim, nil, 0o644))

	cfg := testConfig()
	f, err := newDelete(newTokens(nil), cfg)
	require.NoError(t, err)
	assert.True(t, cfg.Global.Depth)

	ok, err := f.Filter(NewEntry(victim, dir, 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoFileExists(t, victim)
}

func TestParseExecArgv(t *testing.T) {
	argv, batch, err := parseExecArgv(newTokens([]string{"echo", "{}", ";"}), "-exec")
	require.NoError(t, err)
	assert.False(t, batch)
	assert.Equal(t, []string{"echo", "{}"}, argv)

	argv, batch, err = parseExecArgv(newTokens([]string{"echo", "-n", "{}", "+"}), "-exec")
	require.NoError(t, err)
	assert.True(t, batch)
	assert.Equal(t, []string{"echo", "-n"}, argv)

	_, _, err = parseExecArgv(newTokens([]string{"echo", "{}"}), "-exec")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no `;` or `+`")

	_, _, err = parseExecArgv(newTokens([]string{"echo", "+"}), "-exec")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be `{}`")
}

func TestExecActionRunsCommand(t *testing.T) {
	cfg := testConfig()
	build := newExecLeaf("-exec", false, false)
	f, err := build(newTokens([]string{"echo", "got", "{}", ";"}), cfg)
	require.NoError(t, err)
	assert.True(t, f.HasSideEffects())

	var effects []Instruction
	ok, err := Evaluate(f, forgeEntry("/tmp/a", &fakeMetadata{}), &effects)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "got /tmp/a\n", cfg.Stdout.(*bytes.Buffer).String())
	assert.Empty(t, effects)
}

func TestExecActionFalseOnFailure(t *testing.T) {
	cfg := testConfig()
	build := newExecLeaf("-exec", false, false)
	f, err := build(newTokens([]string{"false", ";"}), cfg)
	require.NoError(t, err)

	var effects []Instruction
	ok, err := Evaluate(f, forgeEntry("/tmp/a", &fakeMetadata{}), &effects)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExecActionBatchesUntilFlush(t *testing.T) {
	cfg := testConfig()
	build := newExecLeaf("-exec", false, false)
	f, err := build(newTokens([]string{"echo", "{}", "+"}), cfg)
	require.NoError(t, err)

	var effects []Instruction
	_, err = Evaluate(f, forgeEntry("/tmp/a", &fakeMetadata{}), &effects)
	require.NoError(t, err)
	_, err = Evaluate(f, forgeEntry("/tmp/b", &fakeMetadata{}), &effects)
	require.NoError(t, err)

	// Nothing ran yet.
	assert.Empty(t, cfg.Stdout.(*bytes.Buffer).String())

	for _, hook := range cfg.WalkDoneHooks() {
		require.NoError(t, hook())
	}
	assert.Equal(t, "/tmp/a /tmp/b\n", cfg.Stdout.(*bytes.Buffer).String())
}

func TestOkActionDecline(t *testing.T) {
	cfg := testConfig()
	cfg.Stdin = bytes.NewBufferString("n\n")

	build := newExecLeaf("-ok", false, true)
	f, err := build(newTokens([]string{"echo", "{}", ";"}), cfg)
	require.NoError(t, err)
	assert.True(t, cfg.HasOK)

	var effects []Instruction
	ok, err := Evaluate(f, forgeEntry("/tmp/a", &fakeMetadata{}), &effects)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, cfg.Stdout.(*bytes.Buffer).String())
	assert.Contains(t, cfg.Stderr.(*bytes.Buffer).String(), "([1yY]/[0nN]):")
}

func TestOkActionAccept(t *testing.T) {
	cfg := testConfig()
	cfg.Stdin = bytes.NewBufferString("y\n")

	build := newExecLeaf("-ok", false, true)
	f, err := build(newTokens([]string{"echo", "{}", ";"}), cfg)
	require.NoError(t, err)

	var effects []Instruction
	ok, err := Evaluate(f, forgeEntry("/tmp/a", &fakeMetadata{}), &effects)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/a\n", cfg.Stdout.(*bytes.Buffer).String())
}

func TestOkRejectsBatchAndFiles0From(t *testing.T) {
	cfg := testConfig()
	build := newExecLeaf("-ok", false, true)
	_, err := build(newTokens([]string{"echo", "{}", "+"}), cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.FromCLI = false
	_, err = build(newTokens([]string{"echo", "{}", ";"}), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-files0-from")
}

func TestFiles0FromReadsStdin(t *testing.T) {
	cfg := testConfig()
	cfg.FromCLI = true
	cfg.Stdin = bytes.NewBufferString("a\x00b\x00")

	f, err := newFiles0From(newTokens([]string{"-"}), cfg)
	require.NoError(t, err)
	require.NoError(t, f.(Option).TakeEffect(cfg))

	assert.False(t, cfg.FromCLI)
	assert.Equal(t, []string{"a", "b"}, cfg.StartingPoints)
}

func TestFiles0FromConflictsWithArguments(t *testing.T) {
	cfg := testConfig()
	cfg.FromCLI = true
	cfg.StartingPoints = []string{"."}
	cfg.Stdin = bytes.NewBufferString("a\x00")

	f, err := newFiles0From(newTokens([]string{"-"}), cfg)
	require.NoError(t, err)

	err = f.(Option).TakeEffect(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting points")
}
