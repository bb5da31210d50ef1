package tracker

type direction struct {
	dx, dy int
}

var (
	knightOffsets = []direction{
		{-2, 1}, {-2, -1}, {2, 1}, {2, -1},
		{1, -2}, {-1, -2}, {1, 2}, {-1, 2},
	}
	straightDirs = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirs = []direction{{1, -1}, {1, 1}, {-1, -1}, {-1, 1}}
	queenDirs    = append(append([]direction{}, straightDirs...), diagonalDirs...)
)

// occupant returns the piece on sq without copying it.
func (b *Board) occupant(sq Square) *Piece {
	return b.cells[sq.Y][sq.X]
}

// enterable reports whether a piece of color c may land on sq: the square
// is empty or holds an enemy.
func (b *Board) enterable(sq Square, c Color) bool {
	p := b.occupant(sq)
	return p == nil || p.Color != c
}

func knightSteps(b *Board, from Square, c Color) []Square {
	return offsetSteps(b, from, c, knightOffsets)
}

func kingSteps(b *Board, from Square, c Color) []Square {
	return offsetSteps(b, from, c, queenDirs)
}

func offsetSteps(b *Board, from Square, c Color, offsets []direction) []Square {
	var steps []Square
	for _, d := range offsets {
		to, ok := from.Offset(d.dx, d.dy)
		if !ok || !b.enterable(to, c) {
			continue
		}
		steps = append(steps, to)
	}
	return steps
}

// slideSteps walks each ray until it leaves the board or hits a piece. An
// enemy piece ends the ray on its square, a friendly one just before it.
func slideSteps(b *Board, from Square, c Color, dirs []direction) []Square {
	var steps []Square
	for _, d := range dirs {
		cur := from
		for {
			next, ok := cur.Offset(d.dx, d.dy)
			if !ok {
				break
			}
			if p := b.occupant(next); p != nil {
				if p.Color != c {
					steps = append(steps, next)
				}
				break
			}
			steps = append(steps, next)
			cur = next
		}
	}
	return steps
}

func pawnSteps(b *Board, from Square, c Color) []Square {
	if from.Y == 0 || from.Y == BoardSize-1 {
		return nil
	}
	forward, baseRow := -1, BoardSize-2
	if c == Black {
		forward, baseRow = 1, 1
	}

	var steps []Square
	single := Square{X: from.X, Y: from.Y + forward}
	if b.occupant(single) == nil {
		steps = append(steps, single)
		if from.Y == baseRow {
			double := Square{X: from.X, Y: from.Y + 2*forward}
			if b.occupant(double) == nil {
				steps = append(steps, double)
			}
		}
	}

	for _, dx := range []int{-1, 1} {
		diag, ok := single.Offset(dx, 0)
		if !ok {
			continue
		}
		if p := b.occupant(diag); p != nil && p.Color != c {
			steps = append(steps, diag)
		}
	}
	return steps
}
