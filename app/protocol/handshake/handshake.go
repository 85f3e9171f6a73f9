// Package handshake implements the peer connection negotiation
// subsystem (spec §4.9): framed Version/Verack negotiation over a raw
// byte stream, followed by spawning the per-connection connection and
// heartbeat tasks. It is grounded on the teacher's
// network/protocol/flows/handshake package (the wg+errChan+isStopping
// concurrent-join pattern of HandleHandshake, and the ReceiveVersion/
// SendVersion message-discarding loops), adapted away from kaspad's
// grpc transport and DAG-aware address manager onto the classic
// magic-byte framed wire codec this module uses instead.
package handshake

import (
	"io"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/komodo-platform/komodod/addressbook"
	"github.com/komodo-platform/komodod/app/protocol/flows/heartbeat"
	"github.com/komodo-platform/komodod/app/protocol/flows/inventory"
	"github.com/komodo-platform/komodod/netadapter/router"
	"github.com/komodo-platform/komodod/util/mstime"
	"github.com/komodo-platform/komodod/util/panics"
	"github.com/komodo-platform/komodod/wire"
)

// timestampTruncation is the interval Version timestamps are truncated
// to (spec step 3), so Version messages don't leak fine-grained clock
// skew between peers.
const timestampTruncation = 5 * time.Minute

// HandshakeRequest is the public contract accepted by Service.Run (spec
// §4.9): a raw byte stream plus enough context to build and evaluate
// the Version exchange.
type HandshakeRequest struct {
	DataStream        io.ReadWriteCloser
	ConnectedAddr     ConnectedAddr
	ConnectionTracker ConnectionTracker
}

// Service runs handshakes for newly-accepted or newly-dialed
// connections. One Service is shared by every connection; its fields
// are either immutable after construction or internally synchronized
// (NonceBook), matching spec §5's "state service and crypto verifiers
// are cloneable handles" shape applied to the handshake's own shared
// state.
type Service struct {
	log               btclog.Logger
	magic             wire.NetMagic
	services          wire.ServiceFlag
	userAgent         string
	relay             bool
	listenAddr        *net.TCPAddr
	nonces            *NonceBook
	minVersion        *MinimumPeerVersion
	handshakeTimeout  time.Duration
	heartbeatInterval time.Duration
	events            *addressbook.Events
	spawn             func(func())

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService constructs a handshake Service.
func NewService(log btclog.Logger, magic wire.NetMagic, services wire.ServiceFlag, userAgent string, relay bool,
	listenAddr *net.TCPAddr, nonces *NonceBook, minVersion *MinimumPeerVersion,
	handshakeTimeout, heartbeatInterval time.Duration, events *addressbook.Events) *Service {

	return &Service{
		log:               log,
		magic:             magic,
		services:          services,
		userAgent:         userAgent,
		relay:             relay,
		listenAddr:        listenAddr,
		nonces:            nonces,
		minVersion:        minVersion,
		handshakeTimeout:  handshakeTimeout,
		heartbeatInterval: heartbeatInterval,
		events:            events,
		spawn:             panics.GoroutineWrapperFunc(log),
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) randUint64() uint64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Uint64()
}

// Run executes the full handshake state machine of spec §4.9 under the
// enclosing HANDSHAKE_TIMEOUT. On timeout the data stream is closed to
// unblock any in-flight read, and ConnectionClosed is reported.
func (s *Service) Run(req HandshakeRequest) (client *Client, err error) {
	type result struct {
		client *Client
		err    error
	}
	resultCh := make(chan result, 1)

	go func() {
		c, e := s.run(req)
		resultCh <- result{c, e}
	}()

	select {
	case r := <-resultCh:
		if r.err != nil && req.ConnectionTracker != nil {
			// spawnTasks's own goroutine decrements on a successful
			// handshake once its spawned tasks finish; every other exit
			// from run() (ObsoleteVersion, NonceReuse, a failed I/O during
			// the Version/Verack exchange) never reaches spawnTasks, so
			// the decrement has to happen here instead.
			req.ConnectionTracker.Decrement()
		}
		return r.client, r.err
	case <-time.After(s.handshakeTimeout):
		req.DataStream.Close()
		<-resultCh // let the goroutine observe the closed stream and exit
		if req.ConnectionTracker != nil {
			req.ConnectionTracker.Decrement()
		}
		return nil, NewError(ErrConnectionClosed, nil, "handshake timed out after %s", s.handshakeTimeout)
	}
}

func (s *Service) run(req HandshakeRequest) (*Client, error) {
	pver := wire.ProtocolVersion // phase 1: codec starts at our own protocol version.

	localNonce := s.randUint64() // phase 2.
	s.nonces.Insert(localNonce)

	version := s.buildVersionMessage(req.ConnectedAddr, localNonce) // phase 3.

	remoteVersion, err := s.sendVersionAndAwaitReply(req.DataStream, version, pver) // phase 4.
	if err != nil {
		s.nonces.Remove(localNonce)
		return nil, err
	}

	if s.nonces.Contains(remoteVersion.Nonce) { // phase 5.
		s.nonces.Remove(localNonce)
		return nil, NewError(ErrNonceReuse, nil, "peer nonce %d collides with an in-flight local nonce", remoteVersion.Nonce)
	}
	s.nonces.Remove(localNonce)

	if remoteVersion.ProtocolVersion < s.minVersion.Current() { // phase 6.
		return nil, NewError(ErrObsoleteVersion, nil, "peer protocol version %d below minimum %d",
			remoteVersion.ProtocolVersion, s.minVersion.Current())
	}

	if err := s.sendVerackAndAwaitReply(req.DataStream, pver); err != nil { // phase 7.
		return nil, err
	}

	pver = negotiatedVersion(wire.ProtocolVersion, remoteVersion.ProtocolVersion) // phase 8.

	if req.ConnectedAddr.Kind == OutboundDirect && s.events != nil { // phase 9.
		if req.ConnectedAddr.CanonicalRemote != nil {
			s.events.Push(addressbook.Event{Kind: addressbook.PeerAddrUpdate, Addr: req.ConnectedAddr.CanonicalRemote})
		}
		s.events.Push(addressbook.Event{Kind: addressbook.PeerResponded, Addr: req.ConnectedAddr.Remote})
	}

	return s.spawnTasks(req, pver) // phases 10-11.
}

// buildVersionMessage implements phase 3.
func (s *Service) buildVersionMessage(connected ConnectedAddr, localNonce uint64) *wire.MsgVersion {
	services := s.services
	remote := connected.Remote
	local := s.listenAddr

	if connected.Kind == Isolated || remote == nil {
		remote = unspecifiedAddr
		local = unspecifiedAddr
		services = 0
	}
	if local == nil {
		local = unspecifiedAddr
	}

	addrRecv := wire.NewNetAddressIPPort(remote.IP, uint16(remote.Port), services)
	addrFrom := wire.NewNetAddressIPPort(local.IP, uint16(local.Port), services)

	version := wire.NewMsgVersion(*addrRecv, *addrFrom, localNonce, s.userAgent, s.relay)
	version.Services = services
	version.Timestamp = mstime.Now().TruncateToInterval(timestampTruncation)
	return version
}

// sendVersionAndAwaitReply implements phase 4: send our Version, then
// discard anything that isn't a Version until one arrives.
func (s *Service) sendVersionAndAwaitReply(stream io.ReadWriter, version *wire.MsgVersion, pver uint32) (*wire.MsgVersion, error) {
	if err := wire.WriteMessage(stream, version, pver, s.magic); err != nil {
		return nil, NewError(ErrConnectionClosed, err, "failed to send version")
	}

	for {
		msg, err := wire.ReadMessage(stream, pver, s.magic)
		if err != nil {
			return nil, NewError(ErrConnectionClosed, err, "failed to read version")
		}
		if remoteVersion, ok := msg.(*wire.MsgVersion); ok {
			return remoteVersion, nil
		}
		s.log.Debugf("discarding %s while awaiting version", msg.Command())
	}
}

// sendVerackAndAwaitReply implements phase 7.
func (s *Service) sendVerackAndAwaitReply(stream io.ReadWriter, pver uint32) error {
	if err := wire.WriteMessage(stream, wire.NewMsgVerAck(), pver, s.magic); err != nil {
		return NewError(ErrConnectionClosed, err, "failed to send verack")
	}

	for {
		msg, err := wire.ReadMessage(stream, pver, s.magic)
		if err != nil {
			return NewError(ErrConnectionClosed, err, "failed to read verack")
		}
		if _, ok := msg.(*wire.MsgVerAck); ok {
			return nil
		}
		s.log.Debugf("discarding %s while awaiting verack", msg.Command())
	}
}

func negotiatedVersion(ours, theirs uint32) uint32 {
	if theirs < ours {
		return theirs
	}
	return ours
}

// spawnTasks implements phases 10 and 11: split the stream into
// outbound/inbound routes behind an inventory filter, then spawn the
// connection and heartbeat tasks.
func (s *Service) spawnTasks(req HandshakeRequest, pver uint32) (*Client, error) {
	serverTx := router.NewRoute()
	serverRx := router.NewRoute()
	pongRoute := router.NewRoute()
	shutdownCh := make(chan struct{})
	done := make(chan struct{})

	noisyCapacity := func(name string) func() {
		return func() { s.log.Warnf("%s route for %s reached capacity", name, req.ConnectedAddr.Remote) }
	}
	serverTx.SetOnCapacityReachedHandler(noisyCapacity("server_tx"))
	serverRx.SetOnCapacityReachedHandler(noisyCapacity("server_rx"))
	pongRoute.SetOnCapacityReachedHandler(noisyCapacity("pong"))

	registry := inventory.NewRegistry()
	client := newClient(serverTx, serverRx, shutdownCh, done)

	var wg sync.WaitGroup
	wg.Add(2)

	s.spawn(func() {
		defer wg.Done()
		s.runConnection(req, pver, serverTx, serverRx, pongRoute, registry, client)
	})

	heartbeatTask := heartbeat.NewTask(serverTx, pongRoute, shutdownCh, s.heartbeatInterval, s.events, req.ConnectedAddr.Remote, s.log)
	s.spawn(func() {
		defer wg.Done()
		heartbeatTask.Run()
	})

	go func() {
		wg.Wait()
		if req.ConnectionTracker != nil {
			req.ConnectionTracker.Decrement()
		}
		close(done)
	}()

	return client, nil
}

// runConnection drives inbound bytes onto serverRx (through the
// inventory filter, demultiplexing Pong replies to pongRoute for the
// heartbeat task) and outbound messages from serverTx onto the stream,
// until the stream errors or the client is shut down.
func (s *Service) runConnection(req HandshakeRequest, pver uint32, serverTx, serverRx, pongRoute *router.Route,
	registry *inventory.Registry, client *Client) {

	var once sync.Once
	stop := func() {
		once.Do(func() {
			req.DataStream.Close()
			client.Shutdown()
		})
	}
	defer stop()

	go func() {
		<-client.shutdownCh
		stop()
	}()

	go func() {
		for {
			msg, err := serverTx.Dequeue()
			if err != nil {
				return
			}
			if err := wire.WriteMessage(req.DataStream, msg, pver, s.magic); err != nil {
				s.log.Warnf("failed to write %s to %s: %s", msg.Command(), req.ConnectedAddr.Remote, err)
				stop()
				return
			}
		}
	}()

	for {
		msg, err := wire.ReadMessage(req.DataStream, pver, s.magic)
		if err != nil {
			if s.events != nil {
				s.events.Push(addressbook.Event{Kind: addressbook.PeerErrored, Addr: req.ConnectedAddr.Remote, Err: err})
			}
			serverRx.Close()
			return
		}

		if pong, ok := msg.(*wire.MsgPong); ok {
			pongRoute.Enqueue(pong)
			continue
		}

		msg = inventory.Observe(msg, registry)
		if err := serverRx.Enqueue(msg); err != nil {
			return
		}
	}
}
