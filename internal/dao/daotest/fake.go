// Package daotest provides an in-memory dao.GameRepository for tests.
package daotest

import (
	"context"
	"sync"

	"github.com/gmkornilov/chessbot/internal/dao"
)

type Closed struct {
	PR   dao.PullRequestRef
	Body string
}

type Merged struct {
	PR    dao.PullRequestRef
	Merge dao.Merge
}

// Repository serves canned files and commits and records merges and closes.
type Repository struct {
	mu sync.Mutex

	Files    []dao.ChangedFile
	Contents map[string]string
	Head     *dao.Commit
	// Err, when set, is returned by every read.
	Err error

	Merges []Merged
	Closes []Closed
}

func (r *Repository) ChangedFiles(ctx context.Context, pr dao.PullRequestRef, limit int) ([]dao.ChangedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if len(r.Files) > limit {
		return r.Files[:limit], nil
	}
	return r.Files, nil
}

func (r *Repository) FileContent(ctx context.Context, rawURL string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	content, ok := r.Contents[rawURL]
	if !ok {
		return "", dao.ErrContentUnavailable
	}
	return content, nil
}

func (r *Repository) LatestCommit(ctx context.Context, repo dao.Repo, branch string) (*dao.Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Head, nil
}

func (r *Repository) Merge(ctx context.Context, pr dao.PullRequestRef, merge dao.Merge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Merges = append(r.Merges, Merged{PR: pr, Merge: merge})
	return nil
}

func (r *Repository) Close(ctx context.Context, pr dao.PullRequestRef, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Closes = append(r.Closes, Closed{PR: pr, Body: body})
	return nil
}
