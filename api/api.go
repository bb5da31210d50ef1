// Package api defines the request and reply shapes shared by every
// transport the tracker is exposed on.
package api

import (
	"encoding/json"
	"fmt"

	"github.com/walterschell/chess-tracker/tracker"
)

type Op string

const (
	OpState Op = "state"
	OpReset Op = "reset"
	OpMove  Op = "move"
	OpSteps Op = "steps"
	OpFEN   Op = "fen"
	OpLoad  Op = "load"
)

var Ops = []Op{OpState, OpReset, OpMove, OpSteps, OpFEN, OpLoad}

type MoveRequest struct {
	From tracker.Square `json:"from"`
	To   tracker.Square `json:"to"`
}

type StepsRequest struct {
	Pos tracker.Square `json:"pos"`
}

type FENRequest struct {
	FEN string `json:"fen"`
}

type FENReply struct {
	FEN string `json:"fen"`
}

type ErrorReply struct {
	Error string `json:"error"`
}

// Handle runs op against t with the JSON-encoded body and returns the value
// to send back. Steps on an empty square yields a nil slice pointer, which
// encodes as null.
func Handle(t *tracker.Tracker, op Op, body []byte) (any, error) {
	switch op {
	case OpState:
		return t.State(), nil
	case OpReset:
		t.Reset()
		return struct{}{}, nil
	case OpMove:
		var req MoveRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		return t.Move(req.From, req.To)
	case OpSteps:
		var req StepsRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		steps, ok := t.Steps(req.Pos)
		if !ok {
			return (*[]tracker.Square)(nil), nil
		}
		return &steps, nil
	case OpFEN:
		return FENReply{FEN: t.FEN()}, nil
	case OpLoad:
		var req FENRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		if err := t.LoadFEN(req.FEN); err != nil {
			return nil, err
		}
		return FENReply{FEN: t.FEN()}, nil
	}
	return nil, fmt.Errorf("unknown operation %q", op)
}

func decode(body []byte, v any) error {
	if len(body) == 0 {
		return fmt.Errorf("missing request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// Reply encodes the outcome of Handle, turning errors into ErrorReply.
func Reply(v any, err error) []byte {
	if err != nil {
		v = ErrorReply{Error: err.Error()}
	}
	data, merr := json.Marshal(v)
	if merr != nil {
		data, _ = json.Marshal(ErrorReply{Error: merr.Error()})
	}
	return data
}
