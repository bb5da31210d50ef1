package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

func TestStartingFEN(t *testing.T) {
	assert.Equal(t, startPlacement, NewBoard().FEN())
}

func TestFENAfterMove(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.MovePiece(sq(4, 6), sq(4, 4)))
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR", b.FEN())
}

func TestLoadFEN(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.LoadFEN("8/8/8/3n4/8/8/8/R3K3 w - - 0 1"))

	assert.Equal(t, &Piece{Black, Knight}, b.PieceAt(sq(3, 3)))
	assert.Equal(t, &Piece{White, Rook}, b.PieceAt(sq(0, 7)))
	assert.Equal(t, &Piece{White, King}, b.PieceAt(sq(4, 7)))
	assert.Nil(t, b.PieceAt(sq(0, 0)))
	assert.Equal(t, "8/8/8/3n4/8/8/8/R3K3", b.FEN())

	steps, ok := b.Steps(sq(0, 7))
	require.True(t, ok)
	assert.Len(t, steps, 10)
	steps, _ = b.Steps(sq(3, 3))
	assert.Len(t, steps, 8)
}

func TestParseFENRoundTrip(t *testing.T) {
	for _, fen := range []string{
		startPlacement,
		"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R",
		"8/8/8/8/8/8/8/8",
	} {
		g, err := ParseFEN(fen)
		require.NoError(t, err)
		assert.Equal(t, fen, g.FEN())
	}
}

func TestParseFENRejectsGarbage(t *testing.T) {
	b := NewBoard()
	for _, bad := range []string{"", "rnbqkbnr/pppppppp", "xxxxxxxx/8/8/8/8/8/8/8", "9/8/8/8/8/8/8/8"} {
		err := b.LoadFEN(bad)
		assert.ErrorIs(t, err, ErrInvalidFEN, bad)
	}
	assert.Equal(t, startPlacement, b.FEN())
}
