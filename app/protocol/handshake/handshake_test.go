package handshake

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/komodo-platform/komodod/addressbook"
	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/komodo-platform/komodod/wire"
)

type nullLogger struct{}

func (nullLogger) Trace(args ...interface{})                    {}
func (nullLogger) Tracef(format string, args ...interface{})    {}
func (nullLogger) Debug(args ...interface{})                    {}
func (nullLogger) Debugf(format string, args ...interface{})    {}
func (nullLogger) Info(args ...interface{})                     {}
func (nullLogger) Infof(format string, args ...interface{})     {}
func (nullLogger) Warn(args ...interface{})                      {}
func (nullLogger) Warnf(format string, args ...interface{})     {}
func (nullLogger) Error(args ...interface{})                    {}
func (nullLogger) Errorf(format string, args ...interface{})    {}
func (nullLogger) Critical(args ...interface{})                 {}
func (nullLogger) Criticalf(format string, args ...interface{}) {}
func (nullLogger) Level() btclog.Level                          { return btclog.LevelOff }
func (nullLogger) SetLevel(level btclog.Level)                  {}

type countingTracker struct {
	decrements int
}

func (c *countingTracker) Decrement() { c.decrements++ }

func testAddr() *net.TCPAddr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 7770}
}

func newTestService(nonces *NonceBook) *Service {
	min := NewMinimumPeerVersion(externalapi.MainnetUpgrades, func() uint64 { return 0 })
	return NewService(nullLogger{}, wire.RegTest, wire.SFNodeNetwork, "/komodod-test:0.1/", true,
		testAddr(), nonces, min, 2*time.Second, time.Hour, addressbook.NewEvents(nullLogger{}))
}

func TestRunCompletesHandshakeAndRelaysMessages(t *testing.T) {
	peerConn, ourConn := net.Pipe()
	defer peerConn.Close()

	service := newTestService(NewNonceBook())
	req := HandshakeRequest{
		DataStream:    ourConn,
		ConnectedAddr: ConnectedAddr{Kind: InboundDirect, Remote: testAddr()},
	}

	type runResult struct {
		client *Client
		err    error
	}
	resultCh := make(chan runResult, 1)
	go func() {
		c, err := service.Run(req)
		resultCh <- runResult{c, err}
	}()

	// Peer side: read our Version, send back a Version, read our Verack,
	// send back a Verack.
	msg, err := wire.ReadMessage(peerConn, wire.ProtocolVersion, wire.RegTest)
	if err != nil {
		t.Fatalf("peer failed to read version: %v", err)
	}
	if _, ok := msg.(*wire.MsgVersion); !ok {
		t.Fatalf("expected version, got %T", msg)
	}

	peerAddr := wire.NewNetAddressIPPort(net.IPv4(10, 0, 0, 1), 7770, wire.SFNodeNetwork)
	ourAddr := wire.NewNetAddressIPPort(net.IPv4(127, 0, 0, 1), 7770, wire.SFNodeNetwork)
	peerVersion := wire.NewMsgVersion(*ourAddr, *peerAddr, 999, "/peer:0.1/", true)
	if err := wire.WriteMessage(peerConn, peerVersion, wire.ProtocolVersion, wire.RegTest); err != nil {
		t.Fatalf("peer failed to write version: %v", err)
	}

	msg, err = wire.ReadMessage(peerConn, wire.ProtocolVersion, wire.RegTest)
	if err != nil {
		t.Fatalf("peer failed to read verack: %v", err)
	}
	if _, ok := msg.(*wire.MsgVerAck); !ok {
		t.Fatalf("expected verack, got %T", msg)
	}
	if err := wire.WriteMessage(peerConn, wire.NewMsgVerAck(), wire.ProtocolVersion, wire.RegTest); err != nil {
		t.Fatalf("peer failed to write verack: %v", err)
	}

	var result runResult
	select {
	case result = <-resultCh:
	case <-time.After(2 * time.Second):
		t.Fatal("handshake did not complete")
	}
	if result.err != nil {
		t.Fatalf("unexpected handshake error: %v", result.err)
	}
	client := result.client
	defer client.Shutdown()

	// Data plane: something we send via ServerTx should reach the peer,
	// and something the peer sends should surface on ServerRx.
	inv := wire.NewMsgInv()
	if err := client.ServerTx.Enqueue(inv); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	relayed, err := wire.ReadMessage(peerConn, wire.ProtocolVersion, wire.RegTest)
	if err != nil {
		t.Fatalf("peer failed to read relayed message: %v", err)
	}
	if relayed.Command() != wire.CmdInv {
		t.Errorf("expected an inv to reach the peer, got %s", relayed.Command())
	}

	if err := wire.WriteMessage(peerConn, wire.NewMsgNotFound(), wire.ProtocolVersion, wire.RegTest); err != nil {
		t.Fatalf("peer failed to write notfound: %v", err)
	}
	inbound, err := client.ServerRx.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if inbound.Command() != wire.CmdNotFound {
		t.Errorf("expected a notfound on ServerRx, got %s", inbound.Command())
	}
}

func TestRunFailsObsoleteVersion(t *testing.T) {
	peerConn, ourConn := net.Pipe()
	defer peerConn.Close()

	service := newTestService(NewNonceBook())
	tracker := &countingTracker{}
	req := HandshakeRequest{
		DataStream:        ourConn,
		ConnectedAddr:     ConnectedAddr{Kind: InboundDirect, Remote: testAddr()},
		ConnectionTracker: tracker,
	}

	type runResult struct {
		client *Client
		err    error
	}
	resultCh := make(chan runResult, 1)
	go func() {
		c, err := service.Run(req)
		resultCh <- runResult{c, err}
	}()

	if _, err := wire.ReadMessage(peerConn, wire.ProtocolVersion, wire.RegTest); err != nil {
		t.Fatalf("peer failed to read version: %v", err)
	}

	peerAddr := wire.NewNetAddressIPPort(net.IPv4(10, 0, 0, 1), 7770, wire.SFNodeNetwork)
	ourAddr := wire.NewNetAddressIPPort(net.IPv4(127, 0, 0, 1), 7770, wire.SFNodeNetwork)
	obsolete := wire.NewMsgVersion(*ourAddr, *peerAddr, 999, "/peer:0.1/", true)
	obsolete.ProtocolVersion = baseMinimumProtocolVersion - 1
	if err := wire.WriteMessage(peerConn, obsolete, wire.ProtocolVersion, wire.RegTest); err != nil {
		t.Fatalf("peer failed to write version: %v", err)
	}

	var result runResult
	select {
	case result = <-resultCh:
	case <-time.After(2 * time.Second):
		t.Fatal("handshake did not complete")
	}
	if result.err == nil {
		t.Fatal("expected an ObsoleteVersion error")
	}
	var handshakeErr *Error
	if !errors.As(result.err, &handshakeErr) || handshakeErr.Kind != ErrObsoleteVersion {
		t.Errorf("expected ErrObsoleteVersion, got %v", result.err)
	}
	if tracker.decrements != 1 {
		t.Errorf("expected the connection tracker to decrement once on failure, got %d", tracker.decrements)
	}

	peerConn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, err := wire.ReadMessage(peerConn, wire.ProtocolVersion, wire.RegTest); err == nil {
		t.Error("expected no verack to be sent after an obsolete version")
	}
}

func TestRunFailsNonceReuse(t *testing.T) {
	peerConn, ourConn := net.Pipe()
	defer peerConn.Close()

	nonces := NewNonceBook()
	const reusedNonce = 555555
	nonces.Insert(reusedNonce)

	service := newTestService(nonces)
	tracker := &countingTracker{}
	req := HandshakeRequest{
		DataStream:        ourConn,
		ConnectedAddr:     ConnectedAddr{Kind: InboundDirect, Remote: testAddr()},
		ConnectionTracker: tracker,
	}

	type runResult struct {
		client *Client
		err    error
	}
	resultCh := make(chan runResult, 1)
	go func() {
		c, err := service.Run(req)
		resultCh <- runResult{c, err}
	}()

	if _, err := wire.ReadMessage(peerConn, wire.ProtocolVersion, wire.RegTest); err != nil {
		t.Fatalf("peer failed to read version: %v", err)
	}

	peerAddr := wire.NewNetAddressIPPort(net.IPv4(10, 0, 0, 1), 7770, wire.SFNodeNetwork)
	ourAddr := wire.NewNetAddressIPPort(net.IPv4(127, 0, 0, 1), 7770, wire.SFNodeNetwork)
	colliding := wire.NewMsgVersion(*ourAddr, *peerAddr, reusedNonce, "/peer:0.1/", true)
	if err := wire.WriteMessage(peerConn, colliding, wire.ProtocolVersion, wire.RegTest); err != nil {
		t.Fatalf("peer failed to write version: %v", err)
	}

	var result runResult
	select {
	case result = <-resultCh:
	case <-time.After(2 * time.Second):
		t.Fatal("handshake did not complete")
	}
	if result.err == nil {
		t.Fatal("expected a NonceReuse error")
	}
	var handshakeErr *Error
	if !errors.As(result.err, &handshakeErr) || handshakeErr.Kind != ErrNonceReuse {
		t.Errorf("expected ErrNonceReuse, got %v", result.err)
	}
	if tracker.decrements != 1 {
		t.Errorf("expected the connection tracker to decrement once on failure, got %d", tracker.decrements)
	}
}
