// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package logger wires up the per-subsystem loggers used across the
// verifier and handshake packages on top of btclog, and multiplexes their
// output to stdout and a rotating log file via jrick/logrotate.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard output and
// the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	if initiated {
		os.Stdout.Write(p)
		LogRotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem. A single backend logger is created and all
// subsystem loggers created from it write to the same backend. When adding
// a new subsystem, add its tag here and to subsystemLoggers.
var (
	backendLog = btclog.NewBackend(logWriter{})

	// LogRotator is the rotating log file output. It must be closed on
	// application shutdown.
	LogRotator *rotator.Rotator

	// txvrLog is used by the transaction verifier orchestration.
	txvrLog = backendLog.Logger("TXVR")
	// chekLog is used by the synchronous consensus-rule check module.
	chekLog = backendLog.Logger("CHEK")
	// feelLog is used by the fee-rate limiter.
	feelLog = backendLog.Logger("FEEL")
	// hshkLog is used by the peer handshake service.
	hshkLog = backendLog.Logger("HSHK")
	// hbrtLog is used by the per-connection heartbeat task.
	hbrtLog = backendLog.Logger("HBRT")
	// invrLog is used by inbound inventory registration.
	invrLog = backendLog.Logger("INVR")
	// cdecLog is used by the wire codec.
	cdecLog = backendLog.Logger("CDEC")

	initiated = false
)

// SubsystemTags is an enum of all sub system tags.
var SubsystemTags = struct {
	TXVR,
	CHEK,
	FEEL,
	HSHK,
	HBRT,
	INVR,
	CDEC string
}{
	TXVR: "TXVR",
	CHEK: "CHEK",
	FEEL: "FEEL",
	HSHK: "HSHK",
	HBRT: "HBRT",
	INVR: "INVR",
	CDEC: "CDEC",
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	SubsystemTags.TXVR: txvrLog,
	SubsystemTags.CHEK: chekLog,
	SubsystemTags.FEEL: feelLog,
	SubsystemTags.HSHK: hshkLog,
	SubsystemTags.HBRT: hbrtLog,
	SubsystemTags.INVR: invrLog,
	SubsystemTags.CDEC: cdecLog,
}

// InitLogRotator initializes the logging rotator to write logs to logFile
// and create roll files in the same directory. It must be called before
// the package-global LogRotator variable is used.
func InitLogRotator(logFile string) {
	initiated = true
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %s\n", err)
		os.Exit(1)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %s\n", err)
		os.Exit(1)
	}
	LogRotator = r
}

// SetLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored.
func SetLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level.
func SetLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// Get returns the logger for a specific subsystem.
func Get(tag string) (logger btclog.Logger, ok bool) {
	logger, ok = subsystemLoggers[tag]
	return
}

// ParseAndSetDebugLevels attempts to parse the specified debug level string
// and set the levels accordingly. An appropriate error is returned if
// anything is invalid.
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if !validLogLevel(debugLevel) {
			return fmt.Errorf("the specified debug level [%s] is invalid", debugLevel)
		}
		SetLogLevels(debugLevel)
		return nil
	}

	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			return fmt.Errorf("the specified debug level contains an invalid "+
				"subsystem/level pair [%s]", logLevelPair)
		}

		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		if _, exists := Get(subsysID); !exists {
			return fmt.Errorf("the specified subsystem [%s] is invalid -- "+
				"supported subsystems %s", subsysID, strings.Join(SupportedSubsystems(), ", "))
		}

		if !validLogLevel(logLevel) {
			return fmt.Errorf("the specified debug level [%s] is invalid", logLevel)
		}

		SetLogLevel(subsysID, logLevel)
	}

	return nil
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

func validLogLevel(logLevel string) bool {
	switch logLevel {
	case "trace", "debug", "info", "warn", "error", "critical":
		return true
	}
	return false
}
