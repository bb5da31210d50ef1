package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/walterschell/chess-tracker/tracker"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"   ", nil, errNoData},
		{"show", &shellcmd{"show", []string{}}, nil},
		{"MOVE e2 e4", &shellcmd{"move", []string{"e2", "e4"}}, nil},
		{`fen "8/8/8/8/8/8/8/8 w - - 0 1"`, &shellcmd{"fen", []string{"8/8/8/8/8/8/8/8 w - - 0 1"}}, nil},
	}
	for _, c := range cases {
		cmd, err := extractFields(c.line)
		is.Equal(cmd, c.expCmd)
		is.Equal(err, c.expErr)
	}

	_, err := extractFields(`fen "unterminated`)
	is.True(err != nil)
}

func TestExecuteSession(t *testing.T) {
	is := is.New(t)
	tr := tracker.New()
	var out bytes.Buffer

	is.NoErr(Execute(tr, "move e2 e4", &out))
	is.Equal(out.String(), "White Pawn e2-e4\n")

	out.Reset()
	is.NoErr(Execute(tr, "move d1 d7", &out))
	is.Equal(out.String(), "White Queen d1-d7 takes Black Pawn\n")

	out.Reset()
	is.NoErr(Execute(tr, "move 3,3 3,4", &out))
	is.Equal(out.String(), "d5 was empty; d4 cleared\n")

	out.Reset()
	is.NoErr(Execute(tr, "fen", &out))
	is.Equal(out.String(), "rnbqkbnr/pppQpppp/8/8/4P3/8/PPPP1PPP/RNB1KBNR\n")

	out.Reset()
	is.NoErr(Execute(tr, "steps g1", &out))
	is.True(strings.Contains(out.String(), "[N]"))
	is.True(strings.HasSuffix(out.String(), "3 steps: f3 h3 e2\n"))

	out.Reset()
	is.NoErr(Execute(tr, "steps e5", &out))
	is.Equal(out.String(), "no piece on e5\n")

	out.Reset()
	is.NoErr(Execute(tr, "reset", &out))
	is.Equal(tr.FEN(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR")
}

func TestExecuteShow(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer

	is.NoErr(Execute(tracker.New(), "show", &out))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	is.Equal(len(lines), 9)
	is.Equal(lines[0], "8  r  n  b  q  k  b  n  r ")
	is.Equal(lines[7], "1  R  N  B  Q  K  B  N  R ")
	is.Equal(lines[4], "4  .  .  .  .  .  .  .  . ")
}

func TestExecuteErrors(t *testing.T) {
	is := is.New(t)
	tr := tracker.New()
	var out bytes.Buffer

	is.Equal(Execute(tr, "move e2", &out), errWrongArgs)
	is.Equal(Execute(tr, "steps", &out), errWrongArgs)
	is.True(Execute(tr, "move e2 e9", &out) != nil)
	is.True(Execute(tr, "fen garbage", &out) != nil)
	is.True(Execute(tr, "castle", &out) != nil)
	is.Equal(Execute(tr, "exit", &out), errQuit)
	is.Equal(out.Len(), 0)
}
