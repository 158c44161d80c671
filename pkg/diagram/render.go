package diagram

import (
	"strings"

	"github.com/notnil/chess"
)

var pieceGlyphs = func() map[chess.Piece]string {
	m := make(map[chess.Piece]string, len(glyphs))
	for glyph, piece := range glyphs {
		m[piece] = glyph
	}
	return m
}()

// Render draws the board in the form Parse reads.
func Render(b *chess.Board) string {
	var sb strings.Builder
	sb.WriteString("|a|b|c|d|e|f|g|h|\n")
	sb.WriteString("|-|-|-|-|-|-|-|-|\n")
	for r := chess.Rank8; r >= chess.Rank1; r-- {
		sb.WriteString(separator)
		for f := chess.FileA; f <= chess.FileH; f++ {
			glyph, ok := pieceGlyphs[b.Piece(square(f, r))]
			if !ok {
				glyph = Empty
			}
			sb.WriteString(glyph)
			sb.WriteString(separator)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Equal reports whether two boards hold the same piece on every square.
func Equal(a, b *chess.Board) bool {
	return a.String() == b.String()
}
