// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the subset of the Zcash peer-to-peer wire
// protocol the handshake service needs: magic-byte framed messages,
// Version/Verack negotiation, Ping/Pong, and inventory advertisement.
// Transaction and block encoding are assumed to be handled by a
// conformant codec elsewhere; this package never serializes a
// Transaction.
package wire

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// MaxMessagePayload is the maximum bytes a message can be regardless of
// other individual limits imposed by messages themselves.
const MaxMessagePayload = 2 * 1024 * 1024

// CommandSize is the fixed width, in bytes, of a message header's command
// field.
const CommandSize = 12

// ProtocolVersion is the latest protocol version this implementation
// supports and advertises in outbound Version messages.
const ProtocolVersion uint32 = 170100

// MessageCommand identifies the type of a message on the wire.
type MessageCommand uint32

// Commands used in message headers to describe the type of message.
const (
	CmdVersion MessageCommand = iota
	CmdVerAck
	CmdPing
	CmdPong
	CmdInv
	CmdNotFound
	CmdTx
	CmdBlock
	CmdGetAddr
	CmdAddr
)

var messageCommandToString = map[MessageCommand]string{
	CmdVersion:  "version",
	CmdVerAck:   "verack",
	CmdPing:     "ping",
	CmdPong:     "pong",
	CmdInv:      "inv",
	CmdNotFound: "notfound",
	CmdTx:       "tx",
	CmdBlock:    "block",
	CmdGetAddr:  "getaddr",
	CmdAddr:     "addr",
}

func (cmd MessageCommand) String() string {
	if s, ok := messageCommandToString[cmd]; ok {
		return s
	}
	return "unknown command"
}

// Message is implemented by every type that can be framed on the wire.
type Message interface {
	Command() MessageCommand
	KaspaEncode(w io.Writer, pver uint32) error
	KaspaDecode(r io.Reader, pver uint32) error
}

// NetMagic identifies which Zcash-compatible network a message belongs to;
// messages framed with the wrong magic are rejected outright rather than
// parsed.
type NetMagic uint32

const (
	// MainNet represents the main Komodo/Zcash network magic.
	MainNet NetMagic = 0xf9eab4d9
	// TestNet3 represents the test network magic.
	TestNet3 NetMagic = 0xfa1af9bf
	// RegTest represents the regression test network magic.
	RegTest NetMagic = 0xaae83f5f
)

func (n NetMagic) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case TestNet3:
		return "testnet3"
	case RegTest:
		return "regtest"
	default:
		return "unknown"
	}
}

// messageHeader is the fixed-size preamble written ahead of every message:
// the network's magic bytes, a fixed-width command name, the payload
// length, and a 4-byte additive checksum of the payload.
type messageHeader struct {
	magic    NetMagic
	command  [CommandSize]byte
	length   uint32
	checksum [4]byte
}

func commandBytes(cmd MessageCommand) [CommandSize]byte {
	var out [CommandSize]byte
	copy(out[:], cmd.String())
	return out
}

func commandFromBytes(b [CommandSize]byte) string {
	n := bytes.IndexByte(b[:], 0)
	if n == -1 {
		n = CommandSize
	}
	return string(b[:n])
}

var stringToMessageCommand = func() map[string]MessageCommand {
	m := make(map[string]MessageCommand, len(messageCommandToString))
	for cmd, s := range messageCommandToString {
		m[s] = cmd
	}
	return m
}()

func checksum(payload []byte) [4]byte {
	var sum [4]byte
	var acc uint32
	for i, b := range payload {
		acc += uint32(b) << uint((i%4)*8)
	}
	binary.LittleEndian.PutUint32(sum[:], acc)
	return sum
}

// makeEmptyMessage returns a zero-value Message for the given command, or
// an error if the command is not recognized.
func makeEmptyMessage(command string) (Message, error) {
	switch command {
	case CmdVersion.String():
		return &MsgVersion{}, nil
	case CmdVerAck.String():
		return &MsgVerAck{}, nil
	case CmdPing.String():
		return &MsgPing{}, nil
	case CmdPong.String():
		return &MsgPong{}, nil
	case CmdInv.String():
		return &MsgInv{}, nil
	case CmdNotFound.String():
		return &MsgNotFound{}, nil
	default:
		return nil, errors.Errorf("unhandled command [%s]", command)
	}
}

// WriteMessage writes a fully framed message to w: magic, command,
// payload length, checksum, and the encoded payload itself.
func WriteMessage(w io.Writer, msg Message, pver uint32, magic NetMagic) error {
	var payloadBuf bytes.Buffer
	if err := msg.KaspaEncode(&payloadBuf, pver); err != nil {
		return errors.Wrap(err, "failed to encode message payload")
	}
	payload := payloadBuf.Bytes()
	if len(payload) > MaxMessagePayload {
		return errors.Errorf("message payload is too large - encoded %d bytes, but maximum "+
			"message payload is %d bytes", len(payload), MaxMessagePayload)
	}

	var header bytes.Buffer
	if err := binary.Write(&header, littleEndian, uint32(magic)); err != nil {
		return err
	}
	cmdBytes := commandBytes(msg.Command())
	if _, err := header.Write(cmdBytes[:]); err != nil {
		return err
	}
	if err := binary.Write(&header, littleEndian, uint32(len(payload))); err != nil {
		return err
	}
	sum := checksum(payload)
	if _, err := header.Write(sum[:]); err != nil {
		return err
	}

	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadMessage reads one fully framed message from r, rejecting anything
// whose magic doesn't match or whose checksum doesn't verify.
func ReadMessage(r io.Reader, pver uint32, magic NetMagic) (Message, error) {
	var rawMagic uint32
	if err := binary.Read(r, littleEndian, &rawMagic); err != nil {
		return nil, err
	}
	if NetMagic(rawMagic) != magic {
		return nil, errors.Errorf("message from other network [%s]", NetMagic(rawMagic))
	}

	var cmdBytes [CommandSize]byte
	if _, err := io.ReadFull(r, cmdBytes[:]); err != nil {
		return nil, err
	}
	command := commandFromBytes(cmdBytes)

	var length uint32
	if err := binary.Read(r, littleEndian, &length); err != nil {
		return nil, err
	}
	if length > MaxMessagePayload {
		return nil, errors.Errorf("message payload is too large - header "+
			"indicates %d bytes, but max message payload is %d bytes", length, MaxMessagePayload)
	}

	var wantChecksum [4]byte
	if _, err := io.ReadFull(r, wantChecksum[:]); err != nil {
		return nil, err
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	if gotChecksum := checksum(payload); gotChecksum != wantChecksum {
		return nil, errors.Errorf("payload checksum failed - header indicates %x, but actual "+
			"checksum is %x", wantChecksum, gotChecksum)
	}

	msg, err := makeEmptyMessage(command)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to frame message from command %s", command)
	}
	if err := msg.KaspaDecode(bytes.NewReader(payload), pver); err != nil {
		return nil, errors.Wrap(err, "failed to decode message payload")
	}
	return msg, nil
}
