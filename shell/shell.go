// Package shell is an interactive command line for a tracker.
package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/walterschell/chess-tracker/tracker"
)

var (
	errNoData    = errors.New("no data in command")
	errWrongArgs = errors.New("wrong number of arguments")
	errQuit      = errors.New("quit")
)

const helpText = `commands:
  show                 print the board
  steps <square>       print the board with the piece's destinations marked
  move <from> <to>     move a piece (squares as e2 or x,y)
  reset                restore the starting position
  fen [placement]      print the placement, or load one
  help                 this text
  exit                 leave the shell`

var letters = map[tracker.Rank]byte{
	tracker.Pawn: 'p', tracker.Knight: 'n', tracker.Bishop: 'b',
	tracker.Rook: 'r', tracker.Queen: 'q', tracker.King: 'k',
}

type shellcmd struct {
	cmd  string
	args []string
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	return &shellcmd{cmd: strings.ToLower(fields[0]), args: fields[1:]}, nil
}

type ShellController struct {
	l       *readline.Instance
	tracker *tracker.Tracker
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(t *tracker.Tracker, historyFile string) (*ShellController, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mtracker>\033[0m ",
		HistoryFile:     historyFile,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	return &ShellController{l: l, tracker: t}, nil
}

// Loop reads commands until exit, EOF, or an interrupt on an empty line.
func (sc *ShellController) Loop() {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		err = Execute(sc.tracker, line, sc.l.Stdout())
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil && !errors.Is(err, errNoData) {
			fmt.Fprintf(sc.l.Stderr(), "error: %v\n", err)
		}
	}
	log.Debug().Msg("exiting readline loop")
}

// Execute runs a single command line against t, writing output to w.
func Execute(t *tracker.Tracker, line string, w io.Writer) error {
	cmd, err := extractFields(line)
	if err != nil {
		return err
	}

	switch cmd.cmd {
	case "show":
		writeBoard(w, t.State(), nil, nil)
	case "steps":
		if len(cmd.args) != 1 {
			return errWrongArgs
		}
		sq, err := tracker.ParseSquare(cmd.args[0])
		if err != nil {
			return err
		}
		steps, ok := t.Steps(sq)
		if !ok {
			fmt.Fprintf(w, "no piece on %v\n", sq)
			return nil
		}
		writeBoard(w, t.State(), &sq, steps)
		names := lo.Map(steps, func(s tracker.Square, _ int) string { return s.String() })
		fmt.Fprintf(w, "%d steps: %s\n", len(steps), strings.Join(names, " "))
	case "move":
		if len(cmd.args) != 2 {
			return errWrongArgs
		}
		from, err := tracker.ParseSquare(cmd.args[0])
		if err != nil {
			return err
		}
		to, err := tracker.ParseSquare(cmd.args[1])
		if err != nil {
			return err
		}
		m, err := t.Move(from, to)
		if err != nil {
			return err
		}
		switch {
		case m.Piece == nil:
			fmt.Fprintf(w, "%v was empty; %v cleared\n", from, to)
		case m.Captured != nil:
			fmt.Fprintf(w, "%v %v-%v takes %v\n", m.Piece, from, to, m.Captured)
		default:
			fmt.Fprintf(w, "%v %v-%v\n", m.Piece, from, to)
		}
	case "reset":
		t.Reset()
		fmt.Fprintln(w, "board reset")
	case "fen":
		if len(cmd.args) > 0 {
			if err := t.LoadFEN(strings.Join(cmd.args, " ")); err != nil {
				return err
			}
		}
		fmt.Fprintln(w, t.FEN())
	case "help":
		fmt.Fprintln(w, helpText)
	case "exit", "quit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try help", cmd.cmd)
	}
	return nil
}

func writeBoard(w io.Writer, g tracker.Grid, selected *tracker.Square, marks []tracker.Square) {
	var sb strings.Builder
	for y := 0; y < tracker.BoardSize; y++ {
		fmt.Fprintf(&sb, "%d ", tracker.BoardSize-y)
		for x := 0; x < tracker.BoardSize; x++ {
			sq := tracker.Square{X: x, Y: y}
			c := byte('.')
			if p := g[y][x]; p != nil {
				c = letters[p.Rank]
				if p.Color == tracker.White {
					c -= 'a' - 'A'
				}
			}
			switch {
			case selected != nil && *selected == sq:
				sb.WriteString("[" + string(c) + "]")
			case lo.Contains(marks, sq):
				sb.WriteString("*" + string(c) + "*")
			default:
				sb.WriteString(" " + string(c) + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a  b  c  d  e  f  g  h\n")
	io.WriteString(w, sb.String())
}
