package dao

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/pkg/errors"
)

const callTimeout = 5 * time.Second

// ErrContentUnavailable is returned by FileContent when the host answers the
// content request with an error status.
var ErrContentUnavailable = errors.New("content unavailable")

type Repo struct {
	Owner string
	Name  string
}

type PullRequestRef struct {
	Repo
	Number int
}

type ChangedFile struct {
	Name   string
	Status string
	RawURL string
}

type Commit struct {
	SHA     string
	Message string
}

type Merge struct {
	Title   string
	Message string
	HeadSHA string
	Method  string
}

// GameRepository is the game's storage: the board file lives in pull requests
// and the move history in the commit log of the default branch.
type GameRepository interface {
	ChangedFiles(ctx context.Context, pr PullRequestRef, limit int) ([]ChangedFile, error)

	FileContent(ctx context.Context, rawURL string) (string, error)

	// LatestCommit returns nil when the branch has no commits.
	LatestCommit(ctx context.Context, repo Repo, branch string) (*Commit, error)

	Merge(ctx context.Context, pr PullRequestRef, merge Merge) error

	Close(ctx context.Context, pr PullRequestRef, body string) error
}

type gameRepository struct {
	client *github.Client
}

func NewGameRepository(client *github.Client) GameRepository {
	return &gameRepository{client}
}

func (g *gameRepository) ChangedFiles(ctx context.Context, pr PullRequestRef, limit int) ([]ChangedFile, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	files, _, err := g.client.PullRequests.ListFiles(ctx, pr.Owner, pr.Name, pr.Number, &github.ListOptions{PerPage: limit})
	if err != nil {
		return nil, errors.Wrapf(err, "list files of #%d", pr.Number)
	}

	changed := make([]ChangedFile, 0, len(files))
	for _, f := range files {
		changed = append(changed, ChangedFile{
			Name:   f.GetFilename(),
			Status: f.GetStatus(),
			RawURL: f.GetRawURL(),
		})
	}
	return changed, nil
}

func (g *gameRepository) FileContent(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := g.client.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.Wrapf(err, "build request for %s", rawURL)
	}

	var buf bytes.Buffer
	if _, err := g.client.Do(ctx, req, &buf); err != nil {
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) {
			return "", errors.Wrapf(ErrContentUnavailable, "fetch %s: %s", rawURL, errResp.Response.Status)
		}
		return "", errors.Wrapf(err, "fetch %s", rawURL)
	}
	return buf.String(), nil
}

func (g *gameRepository) LatestCommit(ctx context.Context, repo Repo, branch string) (*Commit, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	opts := &github.CommitsListOptions{
		SHA:         branch,
		ListOptions: github.ListOptions{PerPage: 1},
	}
	commits, _, err := g.client.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "list commits of %s/%s", repo.Owner, repo.Name)
	}
	if len(commits) == 0 {
		return nil, nil
	}

	return &Commit{
		SHA:     commits[0].GetSHA(),
		Message: commits[0].GetCommit().GetMessage(),
	}, nil
}

func (g *gameRepository) Merge(ctx context.Context, pr PullRequestRef, merge Merge) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	opts := &github.PullRequestOptions{
		CommitTitle: merge.Title,
		SHA:         merge.HeadSHA,
		MergeMethod: merge.Method,
	}
	result, _, err := g.client.PullRequests.Merge(ctx, pr.Owner, pr.Name, pr.Number, merge.Message, opts)
	if err != nil {
		return errors.Wrapf(err, "merge #%d", pr.Number)
	}
	if !result.GetMerged() {
		return errors.Errorf("merge #%d refused: %s", pr.Number, result.GetMessage())
	}
	return nil
}

func (g *gameRepository) Close(ctx context.Context, pr PullRequestRef, body string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	update := &github.PullRequest{
		Body:  github.String(body),
		State: github.String("closed"),
	}
	if _, _, err := g.client.PullRequests.Edit(ctx, pr.Owner, pr.Name, pr.Number, update); err != nil {
		return errors.Wrapf(err, "close #%d", pr.Number)
	}
	return nil
}
