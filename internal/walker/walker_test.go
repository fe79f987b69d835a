package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTree builds:
//
//	root/
//	  a.txt
//	  sub/
//	    b.txt
//	    deep/
//	      c.txt
//	  zed/
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "zed"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "deep", "c.txt"), nil, 0o644))
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

func collect(t *testing.T, w *Walker) []string {
	t.Helper()
	var paths []string
	for {
		item, err := w.Next()
		require.NoError(t, err)
		if item == nil {
			return paths
		}
		paths = append(paths, item.Path)
	}
}

func relative(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if p == root {
			out[i] = "."
		} else {
			out[i] = p[len(root)+1:]
		}
	}
	return out
}

func TestPreOrderSorted(t *testing.T) {
	root := makeTree(t)
	got := collect(t, New(root, Options{MaxDepth: -1}))

	assert.Equal(t, []string{
		".", "a.txt", "sub", "sub/b.txt", "sub/deep", "sub/deep/c.txt", "zed",
	}, relative(root, got))
}

func TestPostOrder(t *testing.T) {
	root := makeTree(t)
	got := collect(t, New(root, Options{MaxDepth: -1, PostOrder: true}))

	assert.Equal(t, []string{
		"a.txt", "sub/b.txt", "sub/deep/c.txt", "sub/deep", "sub", "zed", ".",
	}, relative(root, got))
}

func TestMaxDepthZeroYieldsOnlyRoot(t *testing.T) {
	root := makeTree(t)
	got := collect(t, New(root, Options{MaxDepth: 0}))
	assert.Equal(t, []string{root}, got)
}

func TestMaxDepthBoundsDescent(t *testing.T) {
	root := makeTree(t)
	got := collect(t, New(root, Options{MaxDepth: 1}))

	assert.Equal(t, []string{".", "a.txt", "sub", "zed"}, relative(root, got))
}

func TestMinDepthSuppressesShallowItems(t *testing.T) {
	root := makeTree(t)
	got := collect(t, New(root, Options{MaxDepth: -1, MinDepth: 2}))

	assert.Equal(t, []string{"sub/b.txt", "sub/deep", "sub/deep/c.txt"}, relative(root, got))
}

func TestSkipDirPrunes(t *testing.T) {
	root := makeTree(t)
	w := New(root, Options{MaxDepth: -1})

	var paths []string
	for {
		item, err := w.Next()
		require.NoError(t, err)
		if item == nil {
			break
		}
		paths = append(paths, item.Path)
		if item.IsDir && filepath.Base(item.Path) == "sub" {
			w.SkipDir()
		}
	}

	assert.Equal(t, []string{".", "a.txt", "sub", "zed"}, relative(root, paths))
}

func TestWalkSingleFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "only")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	got := collect(t, New(file, Options{MaxDepth: -1}))
	assert.Equal(t, []string{file}, got)
}

func TestRelativeRootKeepsPrefix(t *testing.T) {
	root := makeTree(t)
	chdir(t, root)

	got := collect(t, New(".", Options{MaxDepth: -1}))
	assert.Equal(t, []string{
		".", "./a.txt", "./sub", "./sub/b.txt", "./sub/deep", "./sub/deep/c.txt", "./zed",
	}, got)
}

func TestUnreadableDirReportsAndContinues(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := makeTree(t)
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	w := New(root, Options{MaxDepth: -1})
	var paths []string
	var errs int
	for {
		item, err := w.Next()
		if err != nil {
			errs++
			continue
		}
		if item == nil {
			break
		}
		paths = append(paths, item.Path)
	}

	assert.Equal(t, 1, errs)
	assert.Contains(t, paths, locked)
	assert.Contains(t, paths, filepath.Join(root, "zed"))
}

func TestFollowRefusesAncestorLoop(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.txt"), nil, 0o644))
	require.NoError(t, os.Symlink(root, filepath.Join(sub, "loop")))

	w := New(root, Options{MaxDepth: -1, Follow: true})
	var paths []string
	var errs []error
	for {
		item, err := w.Next()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if item == nil {
			break
		}
		paths = append(paths, item.Path)
	}

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "filesystem loop detected")

	// The link itself is visited; its contents are not.
	assert.Equal(t, []string{".", "sub", "sub/b.txt", "sub/loop"}, relative(root, paths))
}

func TestFollowAllowsRevisitOffThePath(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "inside"), nil, 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "zlink")))

	// target leaves the descent path before zlink enters it, so the same
	// directory reached twice is not a loop.
	got := collect(t, New(root, Options{MaxDepth: -1, Follow: true}))
	assert.Contains(t, got, filepath.Join(root, "target", "inside"))
	assert.Contains(t, got, filepath.Join(root, "zlink", "inside"))
}

func TestFollowDescendsLinkedDirs(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "inside"), nil, 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link")))

	got := collect(t, New(root, Options{MaxDepth: -1, Follow: true}))
	assert.Contains(t, got, filepath.Join(root, "link", "inside"))

	got = collect(t, New(root, Options{MaxDepth: -1}))
	assert.NotContains(t, got, filepath.Join(root, "link", "inside"))
}
