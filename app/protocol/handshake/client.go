package handshake

import (
	"sync"

	"github.com/komodo-platform/komodod/netadapter/router"
)

// ConnectionTracker is decremented whenever a connection (handshake
// succeeded or not) is dropped, so callers can keep an accurate count
// of live peers.
type ConnectionTracker interface {
	Decrement()
}

// Client is the handle returned by a completed handshake. ServerTx and
// ServerRx are the two ends of the split stream (spec §4.9 step 10):
// callers enqueue outbound messages on ServerTx and dequeue inbound
// ones (already passed through the inventory filter) from ServerRx.
// Shutdown signals the heartbeat and connection tasks to terminate.
type Client struct {
	ServerTx *router.Route
	ServerRx *router.Route

	shutdownOnce sync.Once
	shutdownCh   chan struct{}

	done chan struct{}
}

func newClient(serverTx, serverRx *router.Route, shutdownCh, done chan struct{}) *Client {
	return &Client{ServerTx: serverTx, ServerRx: serverRx, shutdownCh: shutdownCh, done: done}
}

// Shutdown signals the spawned connection and heartbeat tasks to
// terminate. It is safe to call more than once.
func (c *Client) Shutdown() {
	c.shutdownOnce.Do(func() { close(c.shutdownCh) })
}

// Done is closed once both spawned tasks have terminated.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
