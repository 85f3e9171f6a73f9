// Package heartbeat implements the per-connection heartbeat task spawned
// as the final step of a completed handshake (spec §4.11).
package heartbeat

import (
	"math/rand"
	"net"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/komodo-platform/komodod/addressbook"
	"github.com/komodo-platform/komodod/netadapter/router"
	"github.com/komodo-platform/komodod/wire"
	"github.com/pkg/errors"
)

// ErrShutdown is reported when the task terminates because its
// shutdown channel fired rather than because of a ping/pong failure.
var ErrShutdown = errors.New("heartbeat task received shutdown signal")

// Task drives the fixed-interval ping/pong liveness check of spec
// §4.11 for one connection. outgoing carries Ping to the peer;
// incoming delivers the matching Pong (the connection task is expected
// to route inbound Pong messages there and nowhere else, the same
// demultiplexing the teacher's flow routers perform per command).
type Task struct {
	outgoing *router.Route
	incoming *router.Route
	shutdown <-chan struct{}
	interval time.Duration
	events   *addressbook.Events
	peerAddr *net.TCPAddr
	log      btclog.Logger
	rng      *rand.Rand
}

// NewTask returns a heartbeat Task for one connection. interval does
// double duty as both the tick cadence and the per-tick timeout, per
// spec §6's HEARTBEAT_INTERVAL.
func NewTask(outgoing, incoming *router.Route, shutdown <-chan struct{}, interval time.Duration,
	events *addressbook.Events, peerAddr *net.TCPAddr, log btclog.Logger) *Task {

	return &Task{
		outgoing: outgoing,
		incoming: incoming,
		shutdown: shutdown,
		interval: interval,
		events:   events,
		peerAddr: peerAddr,
		log:      log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes the heartbeat loop until a ping/pong failure or a
// shutdown signal, deferring its first tick by one interval (spec
// §4.11: "first tick deferred by one interval").
func (t *Task) Run() error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.shutdown:
			t.log.Debugf("heartbeat task for %s received shutdown signal", t.peerAddr)
			if t.events != nil {
				t.events.Push(addressbook.Event{Kind: addressbook.PeerErrored, Addr: t.peerAddr, Err: ErrShutdown})
			}
			return ErrShutdown

		default:
		}

		select {
		case <-t.shutdown:
			t.log.Debugf("heartbeat task for %s received shutdown signal", t.peerAddr)
			if t.events != nil {
				t.events.Push(addressbook.Event{Kind: addressbook.PeerErrored, Addr: t.peerAddr, Err: ErrShutdown})
			}
			return ErrShutdown

		case <-ticker.C:
			if err := t.beat(); err != nil {
				t.log.Warnf("heartbeat failure for %s: %s", t.peerAddr, err)
				if t.events != nil {
					t.events.Push(addressbook.Event{Kind: addressbook.PeerErrored, Addr: t.peerAddr, Err: err})
				}
				return err
			}
			if t.events != nil {
				t.events.Push(addressbook.Event{Kind: addressbook.PeerResponded, Addr: t.peerAddr})
			}
		}
	}
}

// beat sends one Ping and awaits its matching Pong, both bounded by the
// heartbeat interval.
func (t *Task) beat() error {
	nonce := t.rng.Uint64()

	if err := t.outgoing.EnqueueWithTimeout(wire.NewMsgPing(nonce), t.interval); err != nil {
		return errors.Wrap(err, "failed to send ping")
	}

	msg, err := t.incoming.DequeueWithTimeout(t.interval)
	if err != nil {
		return errors.Wrap(err, "failed to receive pong")
	}

	pong, ok := msg.(*wire.MsgPong)
	if !ok {
		return errors.Errorf("expected pong, got %s", msg.Command())
	}
	if pong.Nonce != nonce {
		return errors.Errorf("pong nonce mismatch: sent %d, got %d", nonce, pong.Nonce)
	}
	return nil
}
