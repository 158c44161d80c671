// Package movematch maps a proposed board back to the legal move that produces it
// and rebuilds games from the move list kept in commit messages.
package movematch

import (
	"fmt"
	"strings"

	"github.com/gmkornilov/chessbot/pkg/diagram"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// ErrNoMatchingMove is returned when no legal move produces the proposed board.
var ErrNoMatchingMove = errors.New("Invalid move")

// AmbiguousMoveError is returned when more than one legal move produces the
// proposed board.
type AmbiguousMoveError struct {
	Moves []string
}

func (e *AmbiguousMoveError) Error() string {
	return fmt.Sprintf("Ambiguous move: %s", strings.Join(e.Moves, ", "))
}

// Resolve returns the single legal move from the game's current position whose
// resulting board equals target. Candidates are simulated on copies of the
// position, the game itself is never modified.
func Resolve(game *chess.Game, target *chess.Board) (*chess.Move, error) {
	pos := game.Position()

	var found []*chess.Move
	for _, move := range pos.ValidMoves() {
		if diagram.Equal(pos.Update(move).Board(), target) {
			found = append(found, move)
		}
	}

	switch len(found) {
	case 0:
		return nil, ErrNoMatchingMove
	case 1:
		return found[0], nil
	}

	// No two distinct legal moves leave the same placement in standard chess,
	// so this is reached only if the rules engine misbehaves.
	notations := make([]string, 0, len(found))
	for _, move := range found {
		notations = append(notations, chess.AlgebraicNotation{}.Encode(pos, move))
	}
	return nil, &AmbiguousMoveError{Moves: notations}
}

// Play resolves target and applies the move to the game, returning its SAN.
func Play(game *chess.Game, target *chess.Board) (string, error) {
	move, err := Resolve(game, target)
	if err != nil {
		return "", err
	}

	san := chess.AlgebraicNotation{}.Encode(game.Position(), move)
	if err := game.Move(move); err != nil {
		return "", errors.Wrapf(err, "apply resolved move %s", san)
	}
	return san, nil
}
