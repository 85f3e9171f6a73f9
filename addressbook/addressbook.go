// Package addressbook implements the bounded, never-round-tripping
// observation channel the handshake and heartbeat tasks push peer
// status updates to (spec §5: "the address book channel is a bounded
// sender; sends never require a round-trip"). It is grounded on the
// teacher's Route (netadapter/router/route.go) buffered-channel
// pattern, simplified to a fire-and-forget event sink instead of a
// bidirectional message route.
package addressbook

import (
	"net"
	"sync"

	"github.com/btcsuite/btclog"
)

// EventKind identifies the shape of an Events payload.
type EventKind int

// Event kinds pushed by the handshake's per-direction observation
// wrappers (spec §4.9 step 10) and the heartbeat task (spec §4.11).
const (
	PeerResponded EventKind = iota
	PeerErrored
	PeerAddrUpdate
)

// Event is a single, small, droppable notification about a peer.
type Event struct {
	Kind EventKind
	Addr *net.TCPAddr
	Err  error
}

const defaultCapacity = 256

// Events is a bounded, non-blocking event sink. A full channel drops
// the oldest queued event rather than blocking the sender, since no
// caller of Push may ever await a round trip through it.
type Events struct {
	mu      sync.Mutex
	ch      chan Event
	log     btclog.Logger
	dropped uint64
}

// NewEvents returns an Events sink with the default capacity.
func NewEvents(log btclog.Logger) *Events {
	return NewEventsWithCapacity(log, defaultCapacity)
}

// NewEventsWithCapacity returns an Events sink with the given capacity.
func NewEventsWithCapacity(log btclog.Logger, capacity int) *Events {
	return &Events{ch: make(chan Event, capacity), log: log}
}

// Push enqueues ev without blocking, dropping the oldest queued event
// if the channel is at capacity.
func (e *Events) Push(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	select {
	case e.ch <- ev:
		return
	default:
	}

	select {
	case <-e.ch:
		e.dropped++
		if e.log != nil {
			e.log.Debugf("address book event channel full, dropped oldest event (total dropped: %d)", e.dropped)
		}
	default:
	}
	select {
	case e.ch <- ev:
	default:
	}
}

// Chan returns the channel events are delivered on, for a consumer
// (metrics, an address-manager) to range over.
func (e *Events) Chan() <-chan Event {
	return e.ch
}
