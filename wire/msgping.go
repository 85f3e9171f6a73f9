// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgPing implements the Message interface and is used by the heartbeat
// task to verify a connection is still alive.
type MsgPing struct {
	Nonce uint64
}

// Command returns the protocol command string for the message.
func (msg *MsgPing) Command() MessageCommand {
	return CmdPing
}

// KaspaEncode encodes the receiver to w.
func (msg *MsgPing) KaspaEncode(w io.Writer, pver uint32) error {
	return WriteElement(w, msg.Nonce)
}

// KaspaDecode decodes r into the receiver.
func (msg *MsgPing) KaspaDecode(r io.Reader, pver uint32) error {
	return ReadElement(r, &msg.Nonce)
}

// NewMsgPing returns a new Ping message carrying nonce.
func NewMsgPing(nonce uint64) *MsgPing {
	return &MsgPing{Nonce: nonce}
}

// MsgPong implements the Message interface and is the required response to
// a Ping carrying the same nonce.
type MsgPong struct {
	Nonce uint64
}

// Command returns the protocol command string for the message.
func (msg *MsgPong) Command() MessageCommand {
	return CmdPong
}

// KaspaEncode encodes the receiver to w.
func (msg *MsgPong) KaspaEncode(w io.Writer, pver uint32) error {
	return WriteElement(w, msg.Nonce)
}

// KaspaDecode decodes r into the receiver.
func (msg *MsgPong) KaspaDecode(r io.Reader, pver uint32) error {
	return ReadElement(r, &msg.Nonce)
}

// NewMsgPong returns a new Pong message carrying nonce.
func NewMsgPong(nonce uint64) *MsgPong {
	return &MsgPong{Nonce: nonce}
}
