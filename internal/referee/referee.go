package referee

import (
	"context"
	"fmt"

	"github.com/gmkornilov/chessbot/internal/config"
	"github.com/gmkornilov/chessbot/internal/dao"
	"github.com/gmkornilov/chessbot/pkg/diagram"
	"github.com/gmkornilov/chessbot/pkg/movematch"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// only the board file may change, asking for one more reveals extra files
const filesLimit = 2

type Outcome string

const (
	Ignored  Outcome = "ignored"
	Merged   Outcome = "merged"
	Rejected Outcome = "rejected"
)

type PullRequest struct {
	dao.PullRequestRef
	BaseRef       string
	DefaultBranch string
	HeadSHA       string
}

// SubmissionError is a pull request that can't be a move regardless of its board.
type SubmissionError struct {
	Reason string
}

func (e *SubmissionError) Error() string {
	return e.Reason
}

type Referee struct {
	repo        dao.GameRepository
	boardFile   string
	commitTitle string
	mergeMethod string
}

func NewReferee(repo dao.GameRepository, cfg *config.Configuration) *Referee {
	return &Referee{
		repo:        repo,
		boardFile:   cfg.Bot.BoardFile,
		commitTitle: cfg.Bot.CommitTitle,
		mergeMethod: cfg.Bot.MergeMethod,
	}
}

// judgement accumulates what each stage learns about one pull request.
type judgement struct {
	pr      PullRequest
	file    dao.ChangedFile
	content string
	board   *chess.Board
	head    *dao.Commit
	game    *chess.Game
	move    string
}

type stage func(ctx context.Context, j *judgement) error

// Judge merges the pull request if its board is exactly one legal move ahead of
// the game recorded on the default branch and closes it otherwise. Errors that
// are not the submitter's fault are returned without touching the pull request.
func (r *Referee) Judge(ctx context.Context, pr PullRequest) (Outcome, error) {
	log := zerolog.Ctx(ctx).With().Int("pr", pr.Number).Logger()

	if pr.BaseRef != pr.DefaultBranch {
		log.Info().Str("base", pr.BaseRef).Msg("ignored, base is not default branch")
		return Ignored, nil
	}

	j := &judgement{pr: pr}
	stages := []stage{
		r.findBoardFile,
		r.fetchBoard,
		r.parseBoard,
		r.loadGame,
		r.resolveMove,
	}
	for _, s := range stages {
		err := s(log.WithContext(ctx), j)
		if err == nil {
			continue
		}
		if !isRejection(err) {
			return "", err
		}
		if err := r.repo.Close(ctx, pr.PullRequestRef, err.Error()); err != nil {
			return "", err
		}
		log.Info().Str("reason", err.Error()).Msg("closed")
		return Rejected, nil
	}

	err := r.repo.Merge(ctx, pr.PullRequestRef, dao.Merge{
		Title:   r.commitTitle,
		Message: movematch.CommitMessage(movematch.History(j.game)),
		HeadSHA: pr.HeadSHA,
		Method:  r.mergeMethod,
	})
	if err != nil {
		return "", err
	}
	log.Info().Str("move", j.move).Str("base_sha", j.head.SHA).Msg("validated move, merged")
	return Merged, nil
}

func isRejection(err error) bool {
	var malformed *diagram.MalformedError
	var ambiguous *movematch.AmbiguousMoveError
	var submission *SubmissionError
	return errors.As(err, &malformed) ||
		errors.As(err, &ambiguous) ||
		errors.As(err, &submission) ||
		errors.Is(err, movematch.ErrNoMatchingMove)
}

func (r *Referee) findBoardFile(ctx context.Context, j *judgement) error {
	files, err := r.repo.ChangedFiles(ctx, j.pr.PullRequestRef, filesLimit)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Interface("files", files).Msg("changed files")

	onlyBoard := &SubmissionError{Reason: fmt.Sprintf("Only `%s` should be changed.", r.boardFile)}
	if len(files) != 1 {
		return onlyBoard
	}
	if files[0].Name != r.boardFile || files[0].Status != "modified" {
		return onlyBoard
	}
	j.file = files[0]
	return nil
}

func (r *Referee) fetchBoard(ctx context.Context, j *judgement) error {
	content, err := r.repo.FileContent(ctx, j.file.RawURL)
	if errors.Is(err, dao.ErrContentUnavailable) {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("board content unavailable")
		return &SubmissionError{Reason: "Request content failed."}
	}
	if err != nil {
		return err
	}
	j.content = content
	return nil
}

func (r *Referee) parseBoard(ctx context.Context, j *judgement) error {
	board, err := diagram.Parse(j.content)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("board", board.Draw()).Msg("target board")
	j.board = board
	return nil
}

func (r *Referee) loadGame(ctx context.Context, j *judgement) error {
	head, err := r.repo.LatestCommit(ctx, j.pr.Repo, j.pr.DefaultBranch)
	if err != nil {
		return err
	}
	if head == nil {
		return &SubmissionError{Reason: "There must be an initial commit."}
	}
	zerolog.Ctx(ctx).Debug().Str("sha", head.SHA).Str("message", head.Message).Msg("current history")

	game, err := movematch.Replay(movematch.ParseCommitMessage(head.Message))
	if err != nil {
		return errors.WithMessagef(err, "replay history at %s", head.SHA)
	}
	j.head = head
	j.game = game
	return nil
}

func (r *Referee) resolveMove(ctx context.Context, j *judgement) error {
	move, err := movematch.Play(j.game, j.board)
	if err != nil {
		return err
	}
	j.move = move
	return nil
}
