package externalapi

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// NetworkUpgrade is a totally ordered consensus rule epoch.
type NetworkUpgrade uint8

// The network upgrades covered by this node, in activation order.
const (
	Genesis NetworkUpgrade = iota
	BeforeOverwinter
	Overwinter
	Sapling
	Blossom
	Heartwood
	Canopy
	Nu5
)

func (nu NetworkUpgrade) String() string {
	switch nu {
	case Genesis:
		return "Genesis"
	case BeforeOverwinter:
		return "BeforeOverwinter"
	case Overwinter:
		return "Overwinter"
	case Sapling:
		return "Sapling"
	case Blossom:
		return "Blossom"
	case Heartwood:
		return "Heartwood"
	case Canopy:
		return "Canopy"
	case Nu5:
		return "Nu5"
	default:
		return fmt.Sprintf("NetworkUpgrade(%d)", uint8(nu))
	}
}

// Network identifies which Zcash/Komodo network a height is interpreted
// against.
type Network uint8

// Supported networks.
const (
	Mainnet Network = iota
	Testnet
	Regtest
)

// MaxHeight is the sentinel activation height for upgrades that have not
// yet been scheduled on a given network.
const MaxHeight uint64 = 1<<64 - 1

// NetworkUpgrades is an activation-height table for one network. As
// Komodo shares Overwinter's activation height with Sapling, the
// upgrade-to-height mapping is not injective and not bijective the way
// upstream Zcash's is: multiple upgrades may share a single activation
// height (spec §9 design note).
type NetworkUpgrades struct {
	heights [Nu5 + 1]uint64
}

// NewNetworkUpgrades builds a NetworkUpgrades table from a height per
// upgrade, indexed by NetworkUpgrade value. Unscheduled upgrades must be
// given MaxHeight.
func NewNetworkUpgrades(heights [Nu5 + 1]uint64) *NetworkUpgrades {
	return &NetworkUpgrades{heights: heights}
}

// ActivationHeight returns the height at which nu activates, or
// (MaxHeight, false) if nu is not scheduled on this table.
func (n *NetworkUpgrades) ActivationHeight(nu NetworkUpgrade) (uint64, bool) {
	if int(nu) >= len(n.heights) {
		return MaxHeight, false
	}
	h := n.heights[nu]
	return h, h != MaxHeight
}

// Current returns the network upgrade with the largest activation
// height <= height.
func (n *NetworkUpgrades) Current(height uint64) NetworkUpgrade {
	current := Genesis
	best := n.heights[Genesis]
	for nu := Genesis + 1; nu <= Nu5; nu++ {
		h := n.heights[nu]
		if h <= height && h >= best {
			current = nu
			best = h
		}
	}
	return current
}

// Next returns the network upgrade with the smallest activation height
// strictly greater than height, or (Genesis, false) if none exists.
func (n *NetworkUpgrades) Next(height uint64) (NetworkUpgrade, bool) {
	found := false
	var next NetworkUpgrade
	var nextHeight uint64
	for nu := Genesis; nu <= Nu5; nu++ {
		h := n.heights[nu]
		if h == MaxHeight {
			continue
		}
		if h > height && (!found || h < nextHeight) {
			found = true
			next = nu
			nextHeight = h
		}
	}
	return next, found
}

// MainnetUpgrades is the Komodo mainnet activation-height table. Heights
// are representative placeholders consistent with the Overwinter ==
// Sapling coincidence documented in spec §9; a deployed node would load
// these from network parameters rather than a compiled-in table, but the
// shape here is what the rest of this module depends on.
var MainnetUpgrades = NewNetworkUpgrades([Nu5 + 1]uint64{
	Genesis:          0,
	BeforeOverwinter: 1,
	Overwinter:       227_520,
	Sapling:          227_520,
	Blossom:          653_600,
	Heartwood:        903_000,
	Canopy:           1_046_400,
	Nu5:              MaxHeight,
})

// ConsensusBranchId is a 32-bit tag bound into transaction signatures to
// prevent replay across network upgrades.
type ConsensusBranchId uint32

// String renders the branch id as lowercase hex, e.g. "5ba81b19".
func (b ConsensusBranchId) String() string {
	return fmt.Sprintf("%08x", uint32(b))
}

// ConsensusBranchIDFromHex parses the output of String back into a
// ConsensusBranchId. It is the exact inverse of String.
func ConsensusBranchIDFromHex(s string) (ConsensusBranchId, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid consensus branch id %q", s)
	}
	return ConsensusBranchId(v), nil
}

// branchIDs maps each network upgrade that defines a branch id (branch
// ids were introduced at Overwinter) to its id.
var branchIDs = map[NetworkUpgrade]ConsensusBranchId{
	Overwinter: 0x5ba81b19,
	Sapling:    0x76b809bb,
	Blossom:    0x2bb40e60,
	Heartwood:  0xf5b9230b,
	Canopy:     0xe9ff75a6,
	Nu5:        0xc2d6d0b4,
}

// CurrentConsensusBranchID returns the branch id in effect for height on
// the given upgrade table, or (0, false) if the current upgrade
// predates Overwinter and therefore has no branch id.
func CurrentConsensusBranchID(upgrades *NetworkUpgrades, height uint64) (ConsensusBranchId, bool) {
	nu := upgrades.Current(height)
	id, ok := branchIDs[nu]
	return id, ok
}
