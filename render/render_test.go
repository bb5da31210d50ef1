package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/walterschell/chess-tracker/tracker"
)

func TestBoardDrawsEveryPiece(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer

	Board(&buf, tracker.NewBoard().Grid(), Options{Title: "start"})

	out := buf.String()
	is.True(strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	is.True(strings.Contains(out, "<title>start</title>"))
	is.Equal(strings.Count(out, "<rect"), 64)
	is.Equal(strings.Count(out, "♟"), 8)
	is.Equal(strings.Count(out, "♙"), 8)
	is.Equal(strings.Count(out, "♚"), 1)
	is.Equal(strings.Count(out, "<circle"), 0)
}

func TestBoardHighlightsSteps(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer

	b := tracker.NewBoard()
	from := tracker.Square{X: 1, Y: 7}
	steps, ok := b.Steps(from)
	is.True(ok)

	Board(&buf, b.Grid(), Options{Selected: &from, Highlights: steps})

	out := buf.String()
	is.Equal(strings.Count(out, "<circle"), 2)
	is.Equal(strings.Count(out, "<rect"), 65)
}
