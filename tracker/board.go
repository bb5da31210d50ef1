package tracker

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrEmptySource = errors.New("no piece on source square")
	ErrInvalidFEN  = errors.New("invalid FEN")
)

// Grid is the 8x8 piece layout indexed [y][x]. A nil cell is empty.
type Grid [BoardSize][BoardSize]*Piece

// AttackGrid holds, for each target cell, the squares of the pieces that
// attack it.
type AttackGrid [BoardSize][BoardSize][]Square

type BoardOptions struct {
	KingSteps   bool
	StrictMoves bool
}

var defaultBoardOptions = BoardOptions{}

type BoardOption func(*BoardOptions)

// WithKingSteps lets kings attack the eight adjacent squares. Without it
// kings generate no steps at all.
func WithKingSteps() BoardOption {
	return func(opts *BoardOptions) {
		opts.KingSteps = true
	}
}

// WithStrictMoves rejects moves whose source square is empty.
func WithStrictMoves() BoardOption {
	return func(opts *BoardOptions) {
		opts.StrictMoves = true
	}
}

type Board struct {
	cells   Grid
	attacks [2]AttackGrid
	opts    BoardOptions
}

var backRank = [BoardSize]Rank{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns a board in the standard starting position.
func NewBoard(opts ...BoardOption) *Board {
	b := NewEmptyBoard(opts...)
	b.setStartingPosition()
	b.recompute()
	return b
}

// NewEmptyBoard returns a board with no pieces on it.
func NewEmptyBoard(opts ...BoardOption) *Board {
	boardOpts := defaultBoardOptions
	for _, opt := range opts {
		opt(&boardOpts)
	}
	return &Board{opts: boardOpts}
}

func (b *Board) setStartingPosition() {
	b.cells = Grid{}
	for x := 0; x < BoardSize; x++ {
		b.cells[0][x] = &Piece{Color: Black, Rank: backRank[x]}
		b.cells[1][x] = &Piece{Color: Black, Rank: Pawn}
		b.cells[6][x] = &Piece{Color: White, Rank: Pawn}
		b.cells[7][x] = &Piece{Color: White, Rank: backRank[x]}
	}
}

func (b *Board) Options() BoardOptions {
	return b.opts
}

// Reset restores the starting position, keeping the board's options.
func (b *Board) Reset() {
	b.setStartingPosition()
	b.recompute()
}

// Place puts p on sq, or clears sq when p is nil.
func (b *Board) Place(sq Square, p *Piece) error {
	if !sq.Valid() {
		return fmt.Errorf("place on %v: %w", sq, ErrOutOfBounds)
	}
	b.cells[sq.Y][sq.X] = clonePiece(p)
	b.recompute()
	return nil
}

// PieceAt returns the piece on sq, or nil. Off-board squares are empty.
func (b *Board) PieceAt(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	return clonePiece(b.cells[sq.Y][sq.X])
}

// MovePiece relocates whatever stands on from to to, overwriting the
// destination. An empty source clears the destination unless the board was
// built with WithStrictMoves.
func (b *Board) MovePiece(from, to Square) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("move %v to %v: %w", from, to, ErrOutOfBounds)
	}
	moving := b.cells[from.Y][from.X]
	if moving == nil && b.opts.StrictMoves {
		return fmt.Errorf("move %v to %v: %w", from, to, ErrEmptySource)
	}
	b.cells[from.Y][from.X] = nil
	b.cells[to.Y][to.X] = moving
	b.recompute()
	return nil
}

// Grid returns a copy of the piece layout.
func (b *Board) Grid() Grid {
	var g Grid
	for y := range b.cells {
		for x := range b.cells[y] {
			g[y][x] = clonePiece(b.cells[y][x])
		}
	}
	return g
}

func (b *Board) setGrid(g Grid) {
	for y := range g {
		for x := range g[y] {
			b.cells[y][x] = clonePiece(g[y][x])
		}
	}
	b.recompute()
}

// Attackers returns the squares of c-colored pieces attacking sq.
func (b *Board) Attackers(c Color, sq Square) []Square {
	if !sq.Valid() {
		return nil
	}
	return append([]Square(nil), b.attacks[c][sq.Y][sq.X]...)
}

func (b *Board) recompute() {
	b.attacks = [2]AttackGrid{}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			piece := b.cells[y][x]
			if piece == nil {
				continue
			}
			from := Square{X: x, Y: y}
			grid := &b.attacks[piece.Color]
			for _, to := range b.stepsFor(piece, from) {
				grid[to.Y][to.X] = append(grid[to.Y][to.X], from)
			}
		}
	}
	log.Debug().Msg("attacks recomputed")
}

func (b *Board) stepsFor(p *Piece, from Square) []Square {
	switch p.Rank {
	case Pawn:
		return pawnSteps(b, from, p.Color)
	case Knight:
		return knightSteps(b, from, p.Color)
	case Bishop:
		return slideSteps(b, from, p.Color, diagonalDirs)
	case Rook:
		return slideSteps(b, from, p.Color, straightDirs)
	case Queen:
		return slideSteps(b, from, p.Color, queenDirs)
	case King:
		if b.opts.KingSteps {
			return kingSteps(b, from, p.Color)
		}
	}
	return nil
}

func clonePiece(p *Piece) *Piece {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
