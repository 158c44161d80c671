// Package diagram converts the README board diagram to and from notnil/chess boards.
//
// A diagram is a markdown table: two header lines followed by eight rank lines,
// rank 8 first. Every rank line is bar delimited with one glyph per file:
//
//	|a|b|c|d|e|f|g|h|
//	|-|-|-|-|-|-|-|-|
//	|♜|♞|♝|♛|♚|♝|♞|♜|
//	...
package diagram

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

const (
	// Empty is the glyph of a vacant square (ideographic space).
	Empty = "　"

	lineCount   = 10
	headerLines = 2
	fieldCount  = 10
	separator   = "|"
)

var glyphs = map[string]chess.Piece{
	"♜": chess.BlackRook,
	"♞": chess.BlackKnight,
	"♝": chess.BlackBishop,
	"♚": chess.BlackKing,
	"♛": chess.BlackQueen,
	"♟": chess.BlackPawn,
	"♖": chess.WhiteRook,
	"♘": chess.WhiteKnight,
	"♗": chess.WhiteBishop,
	"♔": chess.WhiteKing,
	"♕": chess.WhiteQueen,
	"♙": chess.WhitePawn,
}

// MalformedError reports a diagram that violates the fixed layout.
// Square and Glyph are set when a single square is at fault.
type MalformedError struct {
	Reason string
	Square string
	Glyph  string
}

func (e *MalformedError) Error() string {
	if e.Square == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s in %s: %s", e.Reason, e.Square, e.Glyph)
}

// Parse reads a diagram into a board. Whose turn it is and castling rights are
// not part of a diagram, so the result only carries piece placement.
func Parse(text string) (*chess.Board, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != lineCount {
		return nil, &MalformedError{Reason: fmt.Sprintf("Lines must be %d, got %d", lineCount, len(lines))}
	}

	squares := make(map[chess.Square]chess.Piece)
	for index, line := range lines[headerLines:] {
		rank := chess.Rank(7 - index)
		fields := strings.Split(strings.TrimRight(line, " \t\r"), separator)
		if len(fields) != fieldCount {
			return nil, &MalformedError{
				Reason: fmt.Sprintf("Line %s must have %d fields, got %d", rank, fieldCount, len(fields)),
			}
		}

		for f, glyph := range fields[1 : fieldCount-1] {
			if glyph == Empty {
				continue
			}
			sq := square(chess.File(f), rank)
			piece, ok := glyphs[glyph]
			if !ok {
				return nil, &MalformedError{Reason: "Unknown piece", Square: sq.String(), Glyph: glyph}
			}
			if _, taken := squares[sq]; taken {
				return nil, &MalformedError{Reason: "Square already occupied", Square: sq.String(), Glyph: glyph}
			}
			squares[sq] = piece
		}
	}
	return chess.NewBoard(squares), nil
}

func square(f chess.File, r chess.Rank) chess.Square {
	return chess.Square(int(r)*8 + int(f))
}
