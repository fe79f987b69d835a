package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/gofind/internal/config"
)

func runCommand(t *testing.T, argv ...string) (stdout, stderr string, status int) {
	t.Helper()

	cfg := config.New()
	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cfg.Stdout = outBuf
	cfg.Stderr = errBuf

	// cobra treats SetArgs(nil) as "use os.Args", which would leak the
	// test binary's flags into the command line.
	if argv == nil {
		argv = []string{}
	}
	status = run(cfg, argv)
	return outBuf.String(), errBuf.String(), status
}

func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.log"), nil, 0o644))
	return root
}

// chdir switches to dir for the duration of the test, restoring the
// previous working directory on cleanup. (testing.T.Chdir needs Go 1.24.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestRunDefaultPrint(t *testing.T) {
	root := makeTree(t)
	chdir(t, root)

	stdout, stderr, status := runCommand(t)
	assert.Equal(t, 0, status)
	assert.Empty(t, stderr)
	assert.Equal(t, []string{".", "./a.txt", "./sub", "./sub/b.log"},
		strings.Split(strings.TrimSpace(stdout), "\n"))
}

func TestRunNameExpression(t *testing.T) {
	root := makeTree(t)

	stdout, _, status := runCommand(t, root, "-name", "*.txt")
	assert.Equal(t, 0, status)
	assert.Equal(t, filepath.Join(root, "a.txt")+"\n", stdout)
}

func TestRunUsageError(t *testing.T) {
	stdout, stderr, status := runCommand(t, ".", "-frobnicate")
	assert.Equal(t, 1, status)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "-frobnicate is an invalid name for filter")
	assert.Contains(t, stderr, "usage:")
}

func TestRunBadOptionRegion(t *testing.T) {
	_, stderr, status := runCommand(t, "-O", "banana", ".")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr, "usage:")
}

func TestRunHelp(t *testing.T) {
	stdout, _, status := runCommand(t, "-help")
	assert.Equal(t, 0, status)
	assert.Contains(t, stdout, "searches a directory hierarchy")
}

func TestRunVersion(t *testing.T) {
	stdout, _, status := runCommand(t, "-version")
	assert.Equal(t, 0, status)
	assert.Equal(t, "gofind "+version+"\n", stdout)
}

func TestRunMissingStartingPointSetsStatus(t *testing.T) {
	root := makeTree(t)

	stdout, stderr, status := runCommand(t, filepath.Join(root, "nope"), root, "-maxdepth", "0")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr, "warning:")
	assert.Equal(t, root+"\n", stdout)
}

func TestRunSummarizesMultipleFailedPoints(t *testing.T) {
	root := makeTree(t)

	stdout, stderr, status := runCommand(t,
		filepath.Join(root, "nope1"), filepath.Join(root, "nope2"), root,
		"-maxdepth", "0")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr, "2 starting points could not be searched")
	assert.Equal(t, root+"\n", stdout)
}

func TestRunLinkModeLastWins(t *testing.T) {
	root := makeTree(t)
	target := filepath.Join(root, "a.txt")
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(target, link))

	// -P after -L: links are not followed, so -type f rejects the link.
	stdout, _, status := runCommand(t, "-L", "-P", link, "-type", "l")
	assert.Equal(t, 0, status)
	assert.Equal(t, link+"\n", stdout)
}

func TestRunFollowMode(t *testing.T) {
	root := makeTree(t)
	target := filepath.Join(root, "a.txt")
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(target, link))

	stdout, _, status := runCommand(t, "-L", link, "-type", "f")
	assert.Equal(t, 0, status)
	assert.Equal(t, link+"\n", stdout)
}

func TestRunDebugTreeTrace(t *testing.T) {
	root := makeTree(t)

	_, stderr, status := runCommand(t, "-D", "tree", root, "-name", "x", "-print")
	assert.Equal(t, 0, status)
	assert.Contains(t, stderr, "debug(tree):")
	assert.Contains(t, stderr, "( -name x -a -print )")
}

func TestRunPrintfExpression(t *testing.T) {
	root := makeTree(t)

	stdout, _, status := runCommand(t, root, "-name", "a.txt", "-printf", `%f\n`)
	assert.Equal(t, 0, status)
	assert.Equal(t, "a.txt\n", stdout)
}
