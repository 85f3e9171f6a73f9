// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/pkg/errors"
)

// InvType represents the type of inventory vector.
type InvType uint32

// Inventory vector types.
const (
	InvTypeError InvType = iota
	InvTypeTx
	InvTypeBlock
)

func (invtype InvType) String() string {
	switch invtype {
	case InvTypeError:
		return "ERROR"
	case InvTypeTx:
		return "MSG_TX"
	case InvTypeBlock:
		return "MSG_BLOCK"
	default:
		return "Unknown InvType"
	}
}

// MaxInvPerMsg is the maximum number of inventory vectors allowed per
// message.
const MaxInvPerMsg = 50000

// InvVect defines a single advertised or requested piece of inventory.
type InvVect struct {
	Type InvType
	Hash Hash
}

// NewInvVect returns a new InvVect.
func NewInvVect(typ InvType, hash *Hash) *InvVect {
	return &InvVect{Type: typ, Hash: *hash}
}

func encodeInvList(w io.Writer, list []*InvVect) error {
	if err := WriteVarInt(w, uint64(len(list))); err != nil {
		return err
	}
	for _, iv := range list {
		if err := WriteElement(w, iv.Type); err != nil {
			return err
		}
		if err := WriteElement(w, iv.Hash); err != nil {
			return err
		}
	}
	return nil
}

func decodeInvList(r io.Reader) ([]*InvVect, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > MaxInvPerMsg {
		return nil, errors.Errorf("too many invvect in message [%d]", count)
	}
	list := make([]*InvVect, 0, count)
	for i := uint64(0); i < count; i++ {
		iv := &InvVect{}
		if err := ReadElement(r, &iv.Type); err != nil {
			return nil, err
		}
		if err := ReadElement(r, &iv.Hash); err != nil {
			return nil, err
		}
		list = append(list, iv)
	}
	return list, nil
}

// MsgInv implements the Message interface and is used to advertise
// knowledge of transactions or blocks. Per the inventory registration
// rule, a single-Block Inv advertises that block; a multi-entry Inv is
// filtered down to its transaction entries before use.
type MsgInv struct {
	InvList []*InvVect
}

// Command returns the protocol command string for the message.
func (msg *MsgInv) Command() MessageCommand {
	return CmdInv
}

// KaspaEncode encodes the receiver to w.
func (msg *MsgInv) KaspaEncode(w io.Writer, pver uint32) error {
	return encodeInvList(w, msg.InvList)
}

// KaspaDecode decodes r into the receiver.
func (msg *MsgInv) KaspaDecode(r io.Reader, pver uint32) error {
	list, err := decodeInvList(r)
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}

// NewMsgInv returns a new empty Inv message.
func NewMsgInv() *MsgInv {
	return &MsgInv{InvList: make([]*InvVect, 0, defaultInvListAlloc)}
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgInv) AddInvVect(iv *InvVect) {
	msg.InvList = append(msg.InvList, iv)
}

const defaultInvListAlloc = 8

// MsgNotFound implements the Message interface and is sent in response to
// a request for transactions or blocks the peer does not have.
type MsgNotFound struct {
	InvList []*InvVect
}

// Command returns the protocol command string for the message.
func (msg *MsgNotFound) Command() MessageCommand {
	return CmdNotFound
}

// KaspaEncode encodes the receiver to w.
func (msg *MsgNotFound) KaspaEncode(w io.Writer, pver uint32) error {
	return encodeInvList(w, msg.InvList)
}

// KaspaDecode decodes r into the receiver.
func (msg *MsgNotFound) KaspaDecode(r io.Reader, pver uint32) error {
	list, err := decodeInvList(r)
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}

// NewMsgNotFound returns a new empty NotFound message.
func NewMsgNotFound() *MsgNotFound {
	return &MsgNotFound{InvList: make([]*InvVect, 0, defaultInvListAlloc)}
}
