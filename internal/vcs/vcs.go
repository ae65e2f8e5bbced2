// Package vcs guards in-place rewrites against clobbering uncommitted work.
package vcs

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"

	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
	"git.home.luguber.info/inful/catkinize/internal/logfields"
)

// FileState describes a file relative to the git work tree containing it.
type FileState struct {
	InRepository bool
	Tracked      bool
	Modified     bool // staged or unstaged changes
}

// State inspects path. A path outside any git work tree returns a zero
// FileState and no error.
func State(ctx context.Context, path string) (FileState, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileState{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve path").
			WithContext("path", path).
			Build()
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return FileState{}, nil
		}
		return FileState{}, errors.WrapError(err, errors.CategoryGit, "failed to open git repository").
			WithContext("path", path).
			Build()
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no files to protect.
		if stderrors.Is(err, git.ErrIsBareRepository) {
			return FileState{}, nil
		}
		return FileState{}, errors.WrapError(err, errors.CategoryGit, "failed to open work tree").Build()
	}

	if err := ctx.Err(); err != nil {
		return FileState{}, err
	}

	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		root = wt.Filesystem.Root()
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		resolved = abs
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return FileState{}, errors.WrapError(err, errors.CategoryGit, "file is outside the work tree").
			WithContext("path", path).
			Build()
	}
	rel = filepath.ToSlash(rel)

	state := FileState{InRepository: true}

	// Ignored files never show up in the status, so tracking is read from
	// the index.
	idx, err := repo.Storer.Index()
	if err != nil {
		return FileState{}, errors.WrapError(err, errors.CategoryGit, "failed to read git index").Build()
	}
	if _, err := idx.Entry(rel); err != nil {
		if !stderrors.Is(err, index.ErrEntryNotFound) {
			return FileState{}, errors.WrapError(err, errors.CategoryGit, "failed to read git index").
				WithContext("path", path).
				Build()
		}
		slog.Debug("Checked git state", logfields.Path(rel), slog.Bool("tracked", false))
		return state, nil
	}
	state.Tracked = true

	status, err := wt.Status()
	if err != nil {
		return FileState{}, errors.WrapError(err, errors.CategoryGit, "failed to read work tree status").Build()
	}
	if fs, ok := status[rel]; ok {
		state.Modified = fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified
	}
	slog.Debug("Checked git state", logfields.Path(rel), slog.Bool("tracked", state.Tracked), slog.Bool("modified", state.Modified))
	return state, nil
}

// CheckClean returns a git error unless overwriting path can be undone with
// git. Files outside a repository always pass. Untracked files are refused
// because there is no committed copy to restore.
func CheckClean(ctx context.Context, path string) error {
	state, err := State(ctx, path)
	if err != nil {
		return err
	}
	switch {
	case !state.InRepository:
		return nil
	case !state.Tracked:
		return errors.GitError(path + " is not tracked by git; commit it first or use --force").
			WithContext("path", path).
			Build()
	case state.Modified:
		return errors.GitError(path + " has uncommitted changes; commit them first or use --force").
			WithContext("path", path).
			Build()
	}
	return nil
}
