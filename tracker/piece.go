package tracker

import (
	"fmt"
	"slices"
)

type Color int

const (
	White Color = iota
	Black
)

var colorNames = []string{"White", "Black"}

func (c Color) String() string {
	return colorNames[c]
}

// Opponent returns the other color.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) MarshalText() ([]byte, error) {
	if c < White || c > Black {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	idx := slices.Index(colorNames, string(text))
	if idx < 0 {
		return fmt.Errorf("unknown color %q", text)
	}
	*c = Color(idx)
	return nil
}

// Rank is the type of a piece. It is unrelated to board rows.
type Rank int

const (
	Pawn Rank = iota
	Bishop
	Queen
	King
	Knight
	Rook
)

var rankNames = []string{"Pawn", "Bishop", "Queen", "King", "Knight", "Rook"}

func (r Rank) String() string {
	return rankNames[r]
}

func (r Rank) MarshalText() ([]byte, error) {
	if r < Pawn || r > Rook {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	idx := slices.Index(rankNames, string(text))
	if idx < 0 {
		return fmt.Errorf("unknown rank %q", text)
	}
	*r = Rank(idx)
	return nil
}

// Piece is an immutable value; captures and removals replace it rather than
// modifying it.
type Piece struct {
	Color Color `json:"color"`
	Rank  Rank  `json:"rank"`
}

func WhitePiece(r Rank) Piece {
	return Piece{Color: White, Rank: r}
}

func BlackPiece(r Rank) Piece {
	return Piece{Color: Black, Rank: r}
}

func (p Piece) String() string {
	return p.Color.String() + " " + p.Rank.String()
}
