// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"net"

	"github.com/komodo-platform/komodod/util/mstime"
)

// ServiceFlag identifies the services supported by a peer.
type ServiceFlag uint64

const (
	// SFNodeNetwork indicates a peer is a full node that can serve blocks
	// and transactions.
	SFNodeNetwork ServiceFlag = 1 << iota
	// SFNodeGetUTXO indicates a peer can answer the getutxo extension.
	SFNodeGetUTXO
	// SFNodeBloom indicates a peer supports bloom-filtered connections.
	SFNodeBloom
)

// NetAddress represents a network address for a Zcash-compatible peer.
type NetAddress struct {
	Timestamp mstime.Time
	Services  ServiceFlag
	IP        net.IP
	Port      uint16
}

// NewNetAddressIPPort creates a NetAddress from an IP and port.
func NewNetAddressIPPort(ip net.IP, port uint16, services ServiceFlag) *NetAddress {
	return &NetAddress{
		Timestamp: mstime.Now(),
		Services:  services,
		IP:        ip,
		Port:      port,
	}
}

func (na *NetAddress) encode(w io.Writer, pver uint32) error {
	if err := WriteElement(w, uint32(na.Timestamp.UnixSeconds())); err != nil {
		return err
	}
	if err := WriteElement(w, na.Services); err != nil {
		return err
	}
	var ip [16]byte
	copy(ip[:], na.IP.To16())
	if _, err := w.Write(ip[:]); err != nil {
		return err
	}
	return WriteElement(w, uint32(na.Port))
}

func (na *NetAddress) decode(r io.Reader, pver uint32) error {
	var seconds uint32
	if err := ReadElement(r, &seconds); err != nil {
		return err
	}
	na.Timestamp = mstime.FromUnixMilliseconds(int64(seconds) * 1000)

	if err := ReadElement(r, &na.Services); err != nil {
		return err
	}

	var ip [16]byte
	if _, err := io.ReadFull(r, ip[:]); err != nil {
		return err
	}
	na.IP = net.IP(ip[:])

	var port uint32
	if err := ReadElement(r, &port); err != nil {
		return err
	}
	na.Port = uint16(port)
	return nil
}
