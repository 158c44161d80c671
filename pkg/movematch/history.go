package movematch

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// InitialCommit is the message of the commit that starts a game.
const InitialCommit = "Initial commit"

// metadataLines precede the move list in a commit message: title and blank line.
const metadataLines = 2

// InconsistentHistoryError is returned when a recorded move cannot be played.
// Every recorded move was validated before it was merged, so this means the
// history itself is corrupt.
type InconsistentHistoryError struct {
	Ply      int
	Notation string
	Err      error
}

func (e *InconsistentHistoryError) Error() string {
	return fmt.Sprintf("recorded move %d (%q) is not legal: %v", e.Ply+1, e.Notation, e.Err)
}

func (e *InconsistentHistoryError) Unwrap() error {
	return e.Err
}

// ParseCommitMessage extracts the SAN move list from a commit message.
func ParseCommitMessage(message string) []string {
	if strings.TrimSpace(message) == InitialCommit {
		return nil
	}

	lines := strings.Split(message, "\n")
	if len(lines) <= metadataLines {
		return nil
	}

	moves := make([]string, 0, len(lines)-metadataLines)
	for _, line := range lines[metadataLines:] {
		if line = strings.TrimSpace(line); line != "" {
			moves = append(moves, line)
		}
	}
	return moves
}

// Replay plays the notations from the standard starting position.
func Replay(notations []string) (*chess.Game, error) {
	game := chess.NewGame()
	for ply, notation := range notations {
		move, err := chess.AlgebraicNotation{}.Decode(game.Position(), notation)
		if err != nil {
			return nil, errors.WithStack(&InconsistentHistoryError{Ply: ply, Notation: notation, Err: err})
		}
		if err := game.Move(move); err != nil {
			return nil, errors.WithStack(&InconsistentHistoryError{Ply: ply, Notation: notation, Err: err})
		}
	}
	return game, nil
}

// History returns the game's moves in SAN.
func History(game *chess.Game) []string {
	moves := game.Moves()
	positions := game.Positions()

	history := make([]string, 0, len(moves))
	for i, move := range moves {
		history = append(history, chess.AlgebraicNotation{}.Encode(positions[i], move))
	}
	return history
}

// CommitMessage formats a move list the way ParseCommitMessage reads it back
// when placed under a title and a blank line.
func CommitMessage(history []string) string {
	return strings.Join(history, "\n")
}
