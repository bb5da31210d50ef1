package tracker

import (
	"fmt"
	"strings"

	chess "github.com/corentings/chess/v2"
)

var (
	toChessType = map[Rank]chess.PieceType{
		Pawn:   chess.Pawn,
		Bishop: chess.Bishop,
		Queen:  chess.Queen,
		King:   chess.King,
		Knight: chess.Knight,
		Rook:   chess.Rook,
	}
	fromChessType = map[chess.PieceType]Rank{
		chess.Pawn:   Pawn,
		chess.Bishop: Bishop,
		chess.Queen:  Queen,
		chess.King:   King,
		chess.Knight: Knight,
		chess.Rook:   Rook,
	}
)

// chessSquare maps our coordinates to the chess library's: row 0 is rank 8.
func chessSquare(sq Square) chess.Square {
	return chess.NewSquare(chess.File(sq.X), chess.Rank(BoardSize-1-sq.Y))
}

func chessPiece(p Piece) chess.Piece {
	c := chess.White
	if p.Color == Black {
		c = chess.Black
	}
	return chess.NewPiece(toChessType[p.Rank], c)
}

// FEN returns the piece placement field of the grid in FEN notation.
func (g Grid) FEN() string {
	m := map[chess.Square]chess.Piece{}
	for y := range g {
		for x, p := range g[y] {
			if p == nil {
				continue
			}
			sq := Square{X: x, Y: y}
			m[chessSquare(sq)] = chessPiece(*p)
		}
	}
	return chess.NewBoard(m).String()
}

// ParseFEN reads a piece placement. A full FEN record is accepted, but only
// its first field is used.
func ParseFEN(fen string) (Grid, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return Grid{}, fmt.Errorf("empty placement: %w", ErrInvalidFEN)
	}

	var cb chess.Board
	if err := cb.UnmarshalText([]byte(fields[0])); err != nil {
		return Grid{}, fmt.Errorf("%v: %w", err, ErrInvalidFEN)
	}

	var g Grid
	for csq, cp := range cb.SquareMap() {
		rank, ok := fromChessType[cp.Type()]
		if !ok {
			continue
		}
		color := White
		if cp.Color() == chess.Black {
			color = Black
		}
		x := int(csq.File())
		y := BoardSize - 1 - int(csq.Rank())
		g[y][x] = &Piece{Color: color, Rank: rank}
	}
	return g, nil
}

func (b *Board) FEN() string {
	return b.cells.FEN()
}

// LoadFEN replaces the placement with the one described by fen.
func (b *Board) LoadFEN(fen string) error {
	g, err := ParseFEN(fen)
	if err != nil {
		return err
	}
	b.setGrid(g)
	return nil
}
