// Package render draws tracked boards as SVG images.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/samber/lo"

	"github.com/walterschell/chess-tracker/tracker"
)

const SquareSize = 60

var glyphs = map[tracker.Color]map[tracker.Rank]string{
	tracker.White: {
		tracker.King: "♔", tracker.Queen: "♕", tracker.Rook: "♖",
		tracker.Bishop: "♗", tracker.Knight: "♘", tracker.Pawn: "♙",
	},
	tracker.Black: {
		tracker.King: "♚", tracker.Queen: "♛", tracker.Rook: "♜",
		tracker.Bishop: "♝", tracker.Knight: "♞", tracker.Pawn: "♟",
	},
}

type Options struct {
	Title      string
	Selected   *tracker.Square
	Highlights []tracker.Square
}

// Board writes an SVG image of g to w. Row 0 is drawn at the top.
func Board(w io.Writer, g tracker.Grid, opts Options) {
	size := SquareSize * tracker.BoardSize
	canvas := svg.New(w)
	canvas.Start(size, size)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	for y := 0; y < tracker.BoardSize; y++ {
		for x := 0; x < tracker.BoardSize; x++ {
			sq := tracker.Square{X: x, Y: y}
			px, py := x*SquareSize, y*SquareSize

			fill := "#f0d9b5"
			if (x+y)%2 == 1 {
				fill = "#b58863"
			}
			canvas.Rect(px, py, SquareSize, SquareSize, "fill:"+fill)

			switch {
			case opts.Selected != nil && *opts.Selected == sq:
				canvas.Rect(px, py, SquareSize, SquareSize, "fill:#f6f669;fill-opacity:0.6")
			case lo.Contains(opts.Highlights, sq):
				canvas.Circle(px+SquareSize/2, py+SquareSize/2, SquareSize/6, "fill:#3a7;fill-opacity:0.7")
			}

			if p := g[y][x]; p != nil {
				canvas.Text(px+SquareSize/2, py+SquareSize*3/4, glyphs[p.Color][p.Rank],
					fmt.Sprintf("text-anchor:middle;font-size:%dpx", SquareSize*3/4))
			}
		}
	}
	canvas.End()
}
