// Package bus exposes a tracker over NATS request/reply and publishes its
// change events.
package bus

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/walterschell/chess-tracker/api"
	"github.com/walterschell/chess-tracker/tracker"
)

// Publisher is the part of a NATS connection the bridge publishes through.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Bridge struct {
	tracker *tracker.Tracker
	prefix  string
	pub     Publisher
	subs    []*nats.Subscription
}

func NewBridge(t *tracker.Tracker, prefix string, pub Publisher) *Bridge {
	return &Bridge{tracker: t, prefix: strings.TrimSuffix(prefix, "."), pub: pub}
}

func (b *Bridge) Subject(op api.Op) string {
	return b.prefix + "." + string(op)
}

func (b *Bridge) EventSubject() string {
	return b.prefix + ".events"
}

// Handle answers a request that arrived on subject.
func (b *Bridge) Handle(subject string, data []byte) []byte {
	op, ok := strings.CutPrefix(subject, b.prefix+".")
	if !ok {
		return api.Reply(nil, fmt.Errorf("subject %q outside %q", subject, b.prefix))
	}
	log.Debug().Str("subject", subject).Int("bytes", len(data)).Msg("request")
	return api.Reply(api.Handle(b.tracker, api.Op(op), data))
}

// Publish sends ev to the event subject. It is registered as a tracker
// listener.
func (b *Bridge) Publish(ev tracker.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("encode event")
		return
	}
	if err := b.pub.Publish(b.EventSubject(), data); err != nil {
		log.Error().Err(err).Str("subject", b.EventSubject()).Msg("publish event")
	}
}

// Serve subscribes every operation subject on nc and starts publishing
// tracker events.
func (b *Bridge) Serve(nc *nats.Conn) error {
	for _, op := range api.Ops {
		sub, err := nc.Subscribe(b.Subject(op), func(m *nats.Msg) {
			if err := m.Respond(b.Handle(m.Subject, m.Data)); err != nil {
				log.Error().Err(err).Str("subject", m.Subject).Msg("respond")
			}
		})
		if err != nil {
			b.Close()
			return fmt.Errorf("subscribe %s: %w", b.Subject(op), err)
		}
		b.subs = append(b.subs, sub)
	}
	if err := nc.Flush(); err != nil {
		b.Close()
		return fmt.Errorf("flush subscriptions: %w", err)
	}
	b.tracker.Subscribe(b.Publish)
	log.Info().Str("prefix", b.prefix).Msg("listening on nats")
	return nil
}

func (b *Bridge) Close() {
	for _, sub := range b.subs {
		sub.Unsubscribe()
	}
	b.subs = nil
}

// Connect dials url and serves the tracker on it. The returned connection is
// owned by the caller.
func Connect(url, prefix string, t *tracker.Tracker) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("chess-tracker"))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", url, err)
	}
	if err := NewBridge(t, prefix, nc).Serve(nc); err != nil {
		nc.Close()
		return nil, err
	}
	return nc, nil
}
