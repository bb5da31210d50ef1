package tracker

import (
	"fmt"
	"strconv"
	"strings"
)

const BoardSize = 8

// Square is a board coordinate. X is the column and Y the row, both in
// [0, 7]. Row 0 is the black back rank.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewSquare converts a signed coordinate pair, failing when it lies off the
// board.
func NewSquare(x, y int) (Square, error) {
	if !onBoard(x, y) {
		return Square{}, fmt.Errorf("square (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	return Square{X: x, Y: y}, nil
}

func onBoard(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

func (s Square) Valid() bool {
	return onBoard(s.X, s.Y)
}

// Offset returns the square dx columns and dy rows away, and whether it is
// still on the board.
func (s Square) Offset(dx, dy int) (Square, bool) {
	x, y := s.X+dx, s.Y+dy
	if !onBoard(x, y) {
		return Square{}, false
	}
	return Square{X: x, Y: y}, true
}

// String returns the algebraic name: column 0 is file a and row 0 is rank 8.
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.X, s.Y)
	}
	return string(rune('a'+s.X)) + strconv.Itoa(BoardSize-s.Y)
}

// ParseSquare accepts either an algebraic name ("e2") or an "x,y" pair.
func ParseSquare(text string) (Square, error) {
	text = strings.TrimSpace(text)
	if xs, ys, ok := strings.Cut(text, ","); ok {
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return Square{}, fmt.Errorf("parse square %q: %w", text, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return Square{}, fmt.Errorf("parse square %q: %w", text, err)
		}
		return NewSquare(x, y)
	}
	if len(text) != 2 {
		return Square{}, fmt.Errorf("parse square %q: expected a name like e2", text)
	}
	file := strings.ToLower(text)[0]
	rank := text[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("parse square %q: %w", text, ErrOutOfBounds)
	}
	return Square{X: int(file - 'a'), Y: BoardSize - int(rank-'0')}, nil
}
