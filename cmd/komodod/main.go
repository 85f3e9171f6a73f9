// Command komodod is the node's top-level entry point: it parses
// configuration, wires up logging, and runs the peer handshake service
// over a listening socket. Grounded on the teacher's kaspad.go
// top-level wiring, reduced to this module's scope (no DAG, mempool,
// or RPC server).
package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/komodo-platform/komodod/addressbook"
	"github.com/komodo-platform/komodod/app/protocol/handshake"
	"github.com/komodo-platform/komodod/config"
	"github.com/komodo-platform/komodod/logger"
	"github.com/komodo-platform/komodod/util/panics"
	"github.com/komodo-platform/komodod/wire"
)

var log, _ = logger.Get(logger.SubsystemTags.HSHK)

// atomicConnectionTracker counts live connections, incrementing on
// accept. The handshake service decrements it when Run returns an
// error, or, after a successful handshake, when the spawned tasks
// finish.
type atomicConnectionTracker struct {
	count int64
}

func (t *atomicConnectionTracker) Increment() int64 { return atomic.AddInt64(&t.count, 1) }
func (t *atomicConnectionTracker) Decrement()       { atomic.AddInt64(&t.count, -1) }

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	logger.InitLogRotator(filepath.Join(defaultLogDir(), "komodod.log"))
	if err := logger.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return err
	}
	defer listener.Close()
	log.Infof("listening for peers on %s", cfg.Listen)

	magic := networkMagic(cfg.Network)
	userAgent := "/komodod:0.1.0/"
	if cfg.UserAgentComment != "" {
		userAgent = fmt.Sprintf("/komodod:0.1.0(%s)/", cfg.UserAgentComment)
	}

	nonces := handshake.NewNonceBook()
	minVersion := handshake.NewMinimumPeerVersion(cfg.NetworkUpgrades(), func() uint64 { return 0 })
	events := addressbook.NewEvents(log)
	services := wire.SFNodeNetwork
	relay := !cfg.NoRelay

	service := handshake.NewService(log, magic, services, userAgent, relay, nil, nonces, minVersion,
		cfg.HandshakeTimeout, cfg.HeartbeatInterval, events)

	tracker := &atomicConnectionTracker{}
	spawn := panics.GoroutineWrapperFunc(log)

	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		tracker.Increment()

		remote, _ := conn.RemoteAddr().(*net.TCPAddr)
		req := handshake.HandshakeRequest{
			DataStream:        conn,
			ConnectedAddr:     handshake.ConnectedAddr{Kind: handshake.InboundDirect, Remote: remote},
			ConnectionTracker: tracker,
		}

		spawn(func() {
			client, err := service.Run(req)
			if err != nil {
				log.Warnf("handshake with %s failed: %s", remote, err)
				conn.Close()
				return
			}
			log.Infof("handshake with %s complete", remote)
			<-client.Done()
		})
	}
}

func defaultLogDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, ".komodod", "logs")
}

func networkMagic(network string) wire.NetMagic {
	switch network {
	case "testnet3":
		return wire.TestNet3
	case "regtest":
		return wire.RegTest
	default:
		return wire.MainNet
	}
}
