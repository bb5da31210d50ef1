package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerMoveReportsPieces(t *testing.T) {
	tr := New()
	var events []Event
	tr.Subscribe(func(ev Event) {
		// listeners may read back through the tracker
		_ = tr.State()
		events = append(events, ev)
	})

	m, err := tr.Move(sq(4, 6), sq(4, 1))
	require.NoError(t, err)
	assert.Equal(t, &Piece{White, Pawn}, m.Piece)
	assert.Equal(t, &Piece{Black, Pawn}, m.Captured)

	m, err = tr.Move(sq(4, 4), sq(4, 5))
	require.NoError(t, err)
	assert.Nil(t, m.Piece)
	assert.Nil(t, m.Captured)

	tr.Reset()
	require.NoError(t, tr.LoadFEN("4k3/8/8/8/8/8/8/4K3"))

	require.Len(t, events, 4)
	assert.Equal(t, EventMove, events[0].Kind)
	assert.Equal(t, "rnbqkbnr/ppppPppp/8/8/8/8/PPPP1PPP/RNBQKBNR", events[0].FEN)
	assert.Equal(t, EventReset, events[2].Kind)
	assert.Equal(t, startPlacement, events[2].FEN)
	assert.Equal(t, EventLoad, events[3].Kind)
	assert.Equal(t, "4k3/8/8/8/8/8/8/4K3", tr.FEN())
}

func TestTrackerRejectedMutationsDoNotNotify(t *testing.T) {
	tr := New(WithStrictMoves())
	calls := 0
	tr.Subscribe(func(Event) { calls++ })

	_, err := tr.Move(sq(3, 3), sq(3, 4))
	assert.ErrorIs(t, err, ErrEmptySource)
	_, err = tr.Move(sq(3, 6), sq(3, 8))
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.ErrorIs(t, tr.LoadFEN("nope"), ErrInvalidFEN)

	assert.Zero(t, calls)
	assert.Equal(t, startPlacement, tr.FEN())
}

func TestTrackerSteps(t *testing.T) {
	tr := New()
	steps, ok := tr.Steps(sq(6, 7))
	require.True(t, ok)
	assert.ElementsMatch(t, []Square{sq(5, 5), sq(7, 5)}, steps)

	_, ok = tr.Steps(sq(6, 5))
	assert.False(t, ok)
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if steps, ok := tr.Steps(sq(1, 7)); ok {
					assert.NotNil(t, steps)
				}
				_ = tr.State()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := tr.Move(sq(1, 7), sq(2, 5))
				assert.NoError(t, err)
				_, err = tr.Move(sq(2, 5), sq(1, 7))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	tr.Reset()
	assert.Equal(t, NewBoard().Grid(), tr.State())
}
