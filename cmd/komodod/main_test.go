package main

import (
	"testing"

	"github.com/komodo-platform/komodod/wire"
)

func TestNetworkMagic(t *testing.T) {
	cases := map[string]wire.NetMagic{
		"mainnet":  wire.MainNet,
		"testnet3": wire.TestNet3,
		"regtest":  wire.RegTest,
		"bogus":    wire.MainNet,
	}
	for network, want := range cases {
		if got := networkMagic(network); got != want {
			t.Errorf("networkMagic(%q) = %s, want %s", network, got, want)
		}
	}
}

func TestAtomicConnectionTracker(t *testing.T) {
	var tracker atomicConnectionTracker
	tracker.Increment()
	tracker.Increment()
	tracker.Decrement()
	if tracker.count != 1 {
		t.Errorf("expected count 1, got %d", tracker.count)
	}
}

func TestDefaultLogDir(t *testing.T) {
	if defaultLogDir() == "" {
		t.Error("expected a non-empty default log directory")
	}
}
