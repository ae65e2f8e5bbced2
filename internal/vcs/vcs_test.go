package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
)

func initRepo(t *testing.T, files map[string]string) (string, *git.Worktree) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, wt
}

func TestCheckClean_OutsideRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CMakeLists.txt")
	require.NoError(t, os.WriteFile(path, []byte("rosbuild_init()\n"), 0o600))

	state, err := State(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, state.InRepository)
	assert.NoError(t, CheckClean(context.Background(), path))
}

func TestCheckClean_CommittedFile(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{"pkg/CMakeLists.txt": "rosbuild_init()\n"})

	assert.NoError(t, CheckClean(context.Background(), filepath.Join(dir, "pkg", "CMakeLists.txt")))
}

func TestCheckClean_ModifiedFile(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{"CMakeLists.txt": "rosbuild_init()\n"})
	path := filepath.Join(dir, "CMakeLists.txt")
	require.NoError(t, os.WriteFile(path, []byte("rosbuild_init()\nset(A b)\n"), 0o600))

	state, err := State(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, state.Modified)

	err = CheckClean(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryGit))
	assert.Contains(t, err.Error(), "uncommitted changes")
}

func TestCheckClean_UntrackedFile(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{"README": "x\n"})
	path := filepath.Join(dir, "manifest.xml")
	require.NoError(t, os.WriteFile(path, []byte("<package/>\n"), 0o600))

	err := CheckClean(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not tracked")
}

func TestCheckClean_IgnoredFile(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{".gitignore": "package.xml\n"})
	path := filepath.Join(dir, "package.xml")
	require.NoError(t, os.WriteFile(path, []byte("<package/>\n"), 0o600))

	state, err := State(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, state.InRepository)
	assert.False(t, state.Tracked)

	err = CheckClean(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryGit))
	assert.Contains(t, err.Error(), "not tracked")
}

func TestCheckClean_StagedNewFile(t *testing.T) {
	dir, wt := initRepo(t, map[string]string{"README": "x\n"})
	path := filepath.Join(dir, "CMakeLists.txt")
	require.NoError(t, os.WriteFile(path, []byte("rosbuild_init()\n"), 0o600))
	_, err := wt.Add("CMakeLists.txt")
	require.NoError(t, err)

	state, err := State(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, state.Tracked)
	assert.True(t, state.Modified)
	assert.Error(t, CheckClean(context.Background(), path))
}

func TestState_CanceledContext(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{"CMakeLists.txt": "x\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := State(ctx, filepath.Join(dir, "CMakeLists.txt"))
	assert.ErrorIs(t, err, context.Canceled)
}
