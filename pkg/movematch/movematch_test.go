package movematch

import (
	"testing"

	"github.com/gmkornilov/chessbot/pkg/diagram"
	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardAfter(t *testing.T, notations ...string) *chess.Board {
	t.Helper()
	game, err := Replay(notations)
	require.NoError(t, err)
	return game.Position().Board()
}

func gameFromFEN(t *testing.T, fen string) *chess.Game {
	t.Helper()
	opt, err := chess.FEN(fen)
	require.NoError(t, err)
	return chess.NewGame(opt)
}

func TestResolveKingsPawn(t *testing.T) {
	game := chess.NewGame()
	before := game.FEN()

	move, err := Resolve(game, boardAfter(t, "e4"))
	require.NoError(t, err)
	assert.Equal(t, chess.E2, move.S1())
	assert.Equal(t, chess.E4, move.S2())
	assert.Equal(t, "e4", chess.AlgebraicNotation{}.Encode(game.Position(), move))
	assert.Equal(t, before, game.FEN())
}

func TestResolveFromParsedDiagram(t *testing.T) {
	game, err := Replay([]string{"e4", "e5"})
	require.NoError(t, err)

	target, err := diagram.Parse(diagram.Render(boardAfter(t, "e4", "e5", "Nf3")))
	require.NoError(t, err)

	san, err := Play(game, target)
	require.NoError(t, err)
	assert.Equal(t, "Nf3", san)
	assert.Equal(t, []string{"e4", "e5", "Nf3"}, History(game))
}

func TestResolveRejects(t *testing.T) {
	tests := []struct {
		name    string
		history []string
		target  []string
	}{
		{name: "no-op", history: nil, target: nil},
		{name: "two moves at once", history: nil, target: []string{"e4", "e5"}},
		{name: "wrong side", history: []string{"e4"}, target: []string{"e4", "e5", "d4"}},
		{name: "no-op mid game", history: []string{"d4", "d5"}, target: []string{"d4", "d5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, err := Replay(tt.history)
			require.NoError(t, err)
			before := game.FEN()

			_, err = Resolve(game, boardAfter(t, tt.target...))
			assert.ErrorIs(t, err, ErrNoMatchingMove)
			assert.Equal(t, before, game.FEN())
			assert.Len(t, game.Moves(), len(tt.history))
		})
	}
}

func TestResolveUnreachableBoard(t *testing.T) {
	b, err := diagram.Parse(diagram.Render(gameFromFEN(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1").Position().Board()))
	require.NoError(t, err)

	_, err = Resolve(chess.NewGame(), b)
	assert.ErrorIs(t, err, ErrNoMatchingMove)
}

func TestResolveCastling(t *testing.T) {
	history := []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5"}
	game, err := Replay(history)
	require.NoError(t, err)

	san, err := Play(game, boardAfter(t, append(history, "O-O")...))
	require.NoError(t, err)
	assert.Equal(t, "O-O", san)
}

func TestResolveEnPassant(t *testing.T) {
	history := []string{"e4", "a6", "e5", "d5"}
	game, err := Replay(history)
	require.NoError(t, err)

	san, err := Play(game, boardAfter(t, append(history, "exd6")...))
	require.NoError(t, err)
	assert.Equal(t, "exd6", san)
	assert.Equal(t, chess.NoPiece, game.Position().Board().Piece(chess.D5))
}

func TestResolvePromotion(t *testing.T) {
	const fen = "8/P7/8/8/8/8/8/k1K5 w - - 0 1"

	for _, promo := range []chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight} {
		t.Run(promo.String(), func(t *testing.T) {
			game := gameFromFEN(t, fen)

			var want *chess.Move
			for _, m := range game.ValidMoves() {
				if m.S1() == chess.A7 && m.Promo() == promo {
					want = m
				}
			}
			require.NotNil(t, want)

			move, err := Resolve(game, game.Position().Update(want).Board())
			require.NoError(t, err)
			assert.Equal(t, promo, move.Promo())
			assert.Equal(t, chess.A8, move.S2())
		})
	}
}

func TestParseCommitMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{name: "initial", message: "Initial commit", want: nil},
		{name: "initial with newline", message: "Initial commit\n", want: nil},
		{name: "moves", message: "Moved by Chessbot\n\ne4\ne5\nNf3", want: []string{"e4", "e5", "Nf3"}},
		{name: "blank and padded lines", message: "Moved by Chessbot\n\ne4\n\n  e5 \r\n", want: []string{"e4", "e5"}},
		{name: "title only", message: "Moved by Chessbot", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommitMessage(tt.message)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplayInitialCommit(t *testing.T) {
	game, err := Replay(ParseCommitMessage(InitialCommit))
	require.NoError(t, err)
	assert.Equal(t, chess.NewGame().FEN(), game.FEN())
	assert.Empty(t, game.Moves())
	assert.Empty(t, History(game))
}

func TestReplayInconsistentHistory(t *testing.T) {
	_, err := Replay([]string{"e4", "e5", "Ke3"})

	var inconsistent *InconsistentHistoryError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, 2, inconsistent.Ply)
	assert.Equal(t, "Ke3", inconsistent.Notation)
}

func TestCommitMessageRoundTrip(t *testing.T) {
	history := []string{"e4", "e5", "Qh5", "Nc6", "Bc4", "Nf6", "Qxf7#"}
	game, err := Replay(history)
	require.NoError(t, err)
	assert.Equal(t, history, History(game))

	message := "Moved by Chessbot\n\n" + CommitMessage(History(game))
	assert.Equal(t, history, ParseCommitMessage(message))
}

func TestAmbiguousMoveError(t *testing.T) {
	err := &AmbiguousMoveError{Moves: []string{"Nbd2", "Nfd2"}}
	assert.Equal(t, "Ambiguous move: Nbd2, Nfd2", err.Error())
}
