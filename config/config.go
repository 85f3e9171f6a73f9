// Package config parses komodod's command-line configuration, grounded
// on the teacher's kasparovd/config package (a jessevdk/go-flags struct
// with defaulted fields, parsed by Load and exposed through
// ActiveConfig).
package config

import (
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/komodo-platform/komodod/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

const (
	defaultListen            = "0.0.0.0:7770"
	defaultNetwork           = "mainnet"
	defaultDebugLevel        = "info"
	defaultMinRelayTxFee     = 0.00001
	defaultMaxFeeRateLimit   = 100
	defaultHandshakeTimeout  = 30 * time.Second
	defaultHeartbeatInterval = 2 * time.Minute
)

var activeConfig *Config

// ActiveConfig returns the most recently loaded configuration.
func ActiveConfig() *Config {
	return activeConfig
}

// Config defines komodod's command-line options. No config file is read.
type Config struct {
	Listen            string        `long:"listen" description:"address to listen for peer connections on"`
	Network           string        `long:"network" description:"network to connect to: mainnet, testnet3, or regtest"`
	UserAgentComment  string        `long:"useragentcomment" description:"comment appended to the advertised user agent"`
	DebugLevel        string        `long:"debuglevel" description:"logging level for all subsystems: trace, debug, info, warn, error, critical"`
	MinRelayTxFee     float64       `long:"minrelaytxfee" description:"minimum fee rate, in KMD/kB, to relay or accept a transaction"`
	MaxFeeRateLimit   float64       `long:"maxfeeratelimit" description:"maximum tokens the fee-rate limiter's bucket may hold"`
	HandshakeTimeout  time.Duration `long:"handshaketimeout" description:"maximum time a peer handshake may take"`
	HeartbeatInterval time.Duration `long:"heartbeatinterval" description:"interval between heartbeat pings, and the per-ping timeout"`
	NoRelay           bool          `long:"norelay" description:"request that peers not relay transactions to us"`
}

func defaultConfig() *Config {
	return &Config{
		Listen:            defaultListen,
		Network:           defaultNetwork,
		DebugLevel:        defaultDebugLevel,
		MinRelayTxFee:     defaultMinRelayTxFee,
		MaxFeeRateLimit:   defaultMaxFeeRateLimit,
		HandshakeTimeout:  defaultHandshakeTimeout,
		HeartbeatInterval: defaultHeartbeatInterval,
	}
}

// Load parses args (typically os.Args[1:]) into a Config, applying
// defaults for anything left unset, validates it, and sets it as the
// ActiveConfig.
func Load(args []string) (*Config, error) {
	cfg := defaultConfig()
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	activeConfig = cfg
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Network {
	case "mainnet", "testnet3", "regtest":
	default:
		return errors.Errorf("unknown network %q", c.Network)
	}
	if c.HandshakeTimeout <= 0 {
		return errors.New("handshaketimeout must be positive")
	}
	if c.HeartbeatInterval <= 0 {
		return errors.New("heartbeatinterval must be positive")
	}
	if c.MinRelayTxFee < 0 {
		return errors.New("minrelaytxfee cannot be negative")
	}
	if c.MaxFeeRateLimit <= 0 {
		return errors.New("maxfeeratelimit must be positive")
	}
	return nil
}

// NetworkUpgrades returns the activation-height table for the
// configured network.
func (c *Config) NetworkUpgrades() *externalapi.NetworkUpgrades {
	switch c.Network {
	case "mainnet":
		return externalapi.MainnetUpgrades
	default:
		// testnet3 and regtest share the mainnet table's shape in this
		// build; a deployed node would load network-specific heights.
		return externalapi.MainnetUpgrades
	}
}
