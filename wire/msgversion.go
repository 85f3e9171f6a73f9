// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/komodo-platform/komodod/util/mstime"
	"github.com/pkg/errors"
)

// MsgVersion implements the Message interface and represents the first
// message exchanged on a new connection. Both peers send one before
// either is willing to accept anything else.
type MsgVersion struct {
	// ProtocolVersion is the version of the protocol the node is using.
	ProtocolVersion uint32

	// Services is the bitfield of services advertised by the sender.
	Services ServiceFlag

	// Timestamp is when the message was generated, truncated to the
	// nearest five minutes per the handshake's timestamp policy.
	Timestamp mstime.Time

	// AddrRecv is the address and services of the node receiving this
	// message, as seen by the sender.
	AddrRecv NetAddress

	// AddrFrom is the address and services of the node sending this
	// message.
	AddrFrom NetAddress

	// Nonce is a random value the sender generated to detect connections
	// to itself.
	Nonce uint64

	// UserAgent is a free-form string identifying the sending software.
	UserAgent string

	// StartHeight is the last block height the sender is aware of.
	StartHeight int32

	// Relay indicates whether the remote peer should announce relayed
	// transactions to the sender.
	Relay bool
}

// Command returns the protocol command string for the message.
func (msg *MsgVersion) Command() MessageCommand {
	return CmdVersion
}

// KaspaEncode encodes the receiver to w.
func (msg *MsgVersion) KaspaEncode(w io.Writer, pver uint32) error {
	if len(msg.UserAgent) > MaxUserAgentLen {
		return errors.Errorf("user agent too long [len %d, max %d]", len(msg.UserAgent), MaxUserAgentLen)
	}

	if err := WriteElement(w, msg.ProtocolVersion); err != nil {
		return err
	}
	if err := WriteElement(w, msg.Services); err != nil {
		return err
	}
	if err := WriteElement(w, msg.Timestamp.UnixSeconds()); err != nil {
		return err
	}
	if err := msg.AddrRecv.encode(w, pver); err != nil {
		return err
	}
	if err := msg.AddrFrom.encode(w, pver); err != nil {
		return err
	}
	if err := WriteElement(w, msg.Nonce); err != nil {
		return err
	}
	if err := WriteVarString(w, msg.UserAgent); err != nil {
		return err
	}
	if err := WriteElement(w, uint32(msg.StartHeight)); err != nil {
		return err
	}
	return WriteElement(w, msg.Relay)
}

// KaspaDecode decodes r into the receiver.
func (msg *MsgVersion) KaspaDecode(r io.Reader, pver uint32) error {
	if err := ReadElement(r, &msg.ProtocolVersion); err != nil {
		return err
	}
	if err := ReadElement(r, &msg.Services); err != nil {
		return err
	}
	var seconds int64
	if err := ReadElement(r, &seconds); err != nil {
		return err
	}
	msg.Timestamp = mstime.FromUnixMilliseconds(seconds * 1000)

	if err := msg.AddrRecv.decode(r, pver); err != nil {
		return err
	}
	if err := msg.AddrFrom.decode(r, pver); err != nil {
		return err
	}
	if err := ReadElement(r, &msg.Nonce); err != nil {
		return err
	}
	userAgent, err := ReadVarString(r)
	if err != nil {
		return err
	}
	if len(userAgent) > MaxUserAgentLen {
		return errors.Errorf("user agent too long [len %d, max %d]", len(userAgent), MaxUserAgentLen)
	}
	msg.UserAgent = userAgent

	var startHeight uint32
	if err := ReadElement(r, &startHeight); err != nil {
		return err
	}
	msg.StartHeight = int32(startHeight)

	return ReadElement(r, &msg.Relay)
}

// NewMsgVersion returns a new Version message populated with the given
// fields and the default protocol version.
func NewMsgVersion(addrRecv, addrFrom NetAddress, nonce uint64, userAgent string, relay bool) *MsgVersion {
	return &MsgVersion{
		ProtocolVersion: ProtocolVersion,
		Timestamp:       mstime.Now(),
		AddrRecv:        addrRecv,
		AddrFrom:        addrFrom,
		Nonce:           nonce,
		UserAgent:       userAgent,
		StartHeight:     0,
		Relay:           relay,
	}
}
