// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgVerAck implements the Message interface and is exchanged after
// Version to confirm a peer accepts the connection.
type MsgVerAck struct{}

// Command returns the protocol command string for the message.
func (msg *MsgVerAck) Command() MessageCommand {
	return CmdVerAck
}

// KaspaEncode encodes the receiver to w. Verack carries no payload.
func (msg *MsgVerAck) KaspaEncode(w io.Writer, pver uint32) error {
	return nil
}

// KaspaDecode decodes r into the receiver. Verack carries no payload.
func (msg *MsgVerAck) KaspaDecode(r io.Reader, pver uint32) error {
	return nil
}

// NewMsgVerAck returns a new Verack message.
func NewMsgVerAck() *MsgVerAck {
	return &MsgVerAck{}
}
