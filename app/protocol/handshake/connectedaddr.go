package handshake

import "net"

// ConnectionKind classifies how a connection was established, which
// determines how its Version message's addresses are built (step 3 of
// the handshake) and whether alternate-address updates are emitted
// (step 9).
type ConnectionKind int

// The connection kinds a handshake can be run over.
const (
	OutboundDirect ConnectionKind = iota
	InboundDirect
	OutboundProxy
	InboundProxy
	Isolated
)

func (k ConnectionKind) String() string {
	switch k {
	case OutboundDirect:
		return "outbound-direct"
	case InboundDirect:
		return "inbound-direct"
	case OutboundProxy:
		return "outbound-proxy"
	case InboundProxy:
		return "inbound-proxy"
	case Isolated:
		return "isolated"
	default:
		return "unknown"
	}
}

// ConnectedAddr describes the addresses involved in a connection the
// handshake runs over. CanonicalRemote is the address the peer is
// reachable at for future connection attempts, which may differ from
// Remote (e.g. a proxied connection's canonical address is the
// destination behind the proxy, not the proxy itself).
type ConnectedAddr struct {
	Kind            ConnectionKind
	Local           *net.TCPAddr
	Remote          *net.TCPAddr
	CanonicalRemote *net.TCPAddr
}

// unspecifiedAddr is the address/port substituted for both address_recv
// and address_from on Isolated connections (step 3: "both addresses are
// the unspecified IPv4 + the default port").
var unspecifiedAddr = &net.TCPAddr{IP: net.IPv4zero, Port: DefaultPort}

// DefaultPort is the default Komodo P2P listen port, used as a
// placeholder address component for Isolated connections.
const DefaultPort = 7770
