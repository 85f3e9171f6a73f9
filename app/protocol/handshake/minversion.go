package handshake

import "github.com/komodo-platform/komodod/domain/consensus/model/externalapi"

// baseMinimumProtocolVersion is the floor below which no peer is ever
// accepted, regardless of chain tip.
const baseMinimumProtocolVersion uint32 = 170002

// minProtocolVersions bumps the minimum accepted peer protocol version
// as each network upgrade activates, the same way zcashd raises
// MIN_PEER_PROTO_VERSION at upgrade boundaries to drop peers that can't
// follow the new consensus rules.
var minProtocolVersions = map[externalapi.NetworkUpgrade]uint32{
	externalapi.Overwinter: 170003,
	externalapi.Sapling:    170007,
	externalapi.Blossom:    170009,
	externalapi.Heartwood:  170011,
	externalapi.Canopy:     170012,
	externalapi.Nu5:        170100,
}

// MinimumPeerVersion reports the lowest protocol version this node will
// accept from a peer, as of the current chain tip. It increases
// monotonically as network upgrades activate (spec step 6: "the minimum
// version is chain-tip-sensitive: it increases as activation heights
// pass").
type MinimumPeerVersion struct {
	upgrades  *externalapi.NetworkUpgrades
	tipHeight func() uint64
}

// NewMinimumPeerVersion returns a MinimumPeerVersion that consults
// upgrades against the height reported by tipHeight every time Current
// is called.
func NewMinimumPeerVersion(upgrades *externalapi.NetworkUpgrades, tipHeight func() uint64) *MinimumPeerVersion {
	return &MinimumPeerVersion{upgrades: upgrades, tipHeight: tipHeight}
}

// Current returns the minimum acceptable peer protocol version for the
// present chain tip.
func (m *MinimumPeerVersion) Current() uint32 {
	nu := m.upgrades.Current(m.tipHeight())
	min := baseMinimumProtocolVersion
	for upgrade := externalapi.Genesis; upgrade <= nu; upgrade++ {
		if v, ok := minProtocolVersions[upgrade]; ok && v > min {
			min = v
		}
	}
	return min
}
