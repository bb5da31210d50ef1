package tracker

import "github.com/samber/lo"

// Steps returns the squares the piece on sq attacks or may move to. The
// second result is false when sq is empty or off the board. It reads the
// cached attacker grids and never recomputes them.
func (b *Board) Steps(sq Square) ([]Square, bool) {
	if !sq.Valid() {
		return nil, false
	}
	piece := b.occupant(sq)
	if piece == nil {
		return nil, false
	}

	grid := &b.attacks[piece.Color]
	steps := []Square{}
	for y := range grid {
		for x := range grid[y] {
			if lo.Contains(grid[y][x], sq) {
				steps = append(steps, Square{X: x, Y: y})
			}
		}
	}
	return steps, true
}
