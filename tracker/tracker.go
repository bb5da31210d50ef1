package tracker

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type EventKind string

const (
	EventMove  EventKind = "move"
	EventReset EventKind = "reset"
	EventLoad  EventKind = "load"
)

// Move describes an applied relocation. Piece is nil when the source square
// was empty; Captured is whatever stood on the destination before.
type Move struct {
	From     Square `json:"from"`
	To       Square `json:"to"`
	Piece    *Piece `json:"piece"`
	Captured *Piece `json:"captured"`
}

// Event is delivered to listeners after every successful mutation.
type Event struct {
	Kind EventKind `json:"kind"`
	Move *Move     `json:"move,omitempty"`
	FEN  string    `json:"fen"`
}

type Listener func(Event)

// Tracker guards a single Board with a read/write lock. Queries share the
// lock; mutations, including the attack recomputation they trigger, hold it
// exclusively.
type Tracker struct {
	mu    sync.RWMutex
	board *Board

	listenersLock sync.RWMutex
	listeners     []Listener
}

func New(opts ...BoardOption) *Tracker {
	return &Tracker{board: NewBoard(opts...)}
}

// Subscribe registers l. Listeners run synchronously after the board lock is
// released, so they may query the tracker.
func (t *Tracker) Subscribe(l Listener) {
	t.listenersLock.Lock()
	defer t.listenersLock.Unlock()
	t.listeners = append(t.listeners, l)
}

func (t *Tracker) notify(ev Event) {
	t.listenersLock.RLock()
	listeners := append([]Listener(nil), t.listeners...)
	t.listenersLock.RUnlock()
	for _, l := range listeners {
		l(ev)
	}
}

func (t *Tracker) State() Grid {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.board.Grid()
}

func (t *Tracker) Steps(sq Square) ([]Square, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.board.Steps(sq)
}

func (t *Tracker) FEN() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.board.FEN()
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	t.board.Reset()
	fen := t.board.FEN()
	t.mu.Unlock()

	log.Info().Msg("board reset")
	t.notify(Event{Kind: EventReset, FEN: fen})
}

func (t *Tracker) Move(from, to Square) (Move, error) {
	t.mu.Lock()
	m := Move{
		From:     from,
		To:       to,
		Piece:    t.board.PieceAt(from),
		Captured: t.board.PieceAt(to),
	}
	err := t.board.MovePiece(from, to)
	fen := t.board.FEN()
	t.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Stringer("from", from).Stringer("to", to).Msg("move rejected")
		return Move{}, err
	}
	log.Info().Stringer("from", from).Stringer("to", to).Msg("piece moved")
	t.notify(Event{Kind: EventMove, Move: &m, FEN: fen})
	return m, nil
}

func (t *Tracker) LoadFEN(fen string) error {
	t.mu.Lock()
	err := t.board.LoadFEN(fen)
	placement := t.board.FEN()
	t.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Str("fen", fen).Msg("load rejected")
		return err
	}
	log.Info().Str("fen", placement).Msg("position loaded")
	t.notify(Event{Kind: EventLoad, FEN: placement})
	return nil
}
