// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

import (
	"github.com/rob-gra/gsmcore/ie"
	"github.com/rob-gra/gsmcore/l1prim"
)

// ChannelDescription is the decoded channel-type/subchannel/timeslot
// plus either a single ARFCN or a hopping mobile-allocation (GSM 04.08
// subclass 10.5.2.5).
type ChannelDescription struct {
	ChannelType uint8
	TN          uint8 // timeslot number, 0-7
	Hopping     bool
	Arfcn       l1prim.Arfcn   // valid when !Hopping
	HSN, MAIO   uint8          // valid when Hopping
	MobileAlloc []l1prim.Arfcn // valid when Hopping
}

// ImmediateAssignment is the decoded content relevant to RR channel
// activation (spec.md §4.4).
type ImmediateAssignment struct {
	RequestReference  byte
	TimingAdvance     uint8
	Chan              ChannelDescription
	StartingTime      uint16
	HasStartingTime   bool
}

// Decode parses an IMMEDIATE ASSIGNMENT payload (post message-type
// octet). The wire shape here is this core's own compact encoding of
// the relevant 04.08 IEs, not the full mandatory/optional TLV catalogue
// (channel-needed, cell-channel-description and other unused IEs are
// intentionally not modelled).
func Decode(b []byte) (ImmediateAssignment, error) {
	c := ie.NewCursor(b)
	var a ImmediateAssignment

	ref, err := c.DecodeByte()
	if err != nil {
		return a, err
	}
	a.RequestReference = ref

	ta, err := c.DecodeByte()
	if err != nil {
		return a, err
	}
	a.TimingAdvance = ta

	flags, err := c.DecodeByte()
	if err != nil {
		return a, err
	}
	a.Chan.ChannelType = (flags >> 4) & 0x7
	a.Chan.TN = flags & 0x7
	a.Chan.Hopping = flags&0x80 != 0

	if a.Chan.Hopping {
		hsnMaio, err := c.DecodeByte()
		if err != nil {
			return a, err
		}
		a.Chan.HSN = hsnMaio >> 3
		a.Chan.MAIO = hsnMaio & 0x7
		malen, err := c.DecodeByte()
		if err != nil {
			return a, err
		}
		for i := 0; i < int(malen); i++ {
			lo, err := c.DecodeUint16BE()
			if err != nil {
				return a, err
			}
			a.Chan.MobileAlloc = append(a.Chan.MobileAlloc, l1prim.Arfcn(lo))
		}
	} else {
		arfcn, err := c.DecodeUint16BE()
		if err != nil {
			return a, err
		}
		a.Chan.Arfcn = l1prim.Arfcn(arfcn)
	}

	flags2, err := c.DecodeByte()
	if err != nil {
		return a, err
	}
	if flags2&0x1 != 0 {
		st, err := c.DecodeUint16BE()
		if err != nil {
			return a, err
		}
		a.StartingTime = st
		a.HasStartingTime = true
	}

	return a, nil
}

// Encode is the mirror of Decode, used by test fixtures and any L1
// trace-replay tooling that needs to synthesise an IMMEDIATE ASSIGNMENT.
func Encode(a ImmediateAssignment) []byte {
	c := ie.NewEncoder()
	c.AppendByte(a.RequestReference)
	c.AppendByte(a.TimingAdvance)

	flags := (a.Chan.ChannelType << 4) | (a.Chan.TN & 0x7)
	if a.Chan.Hopping {
		flags |= 0x80
	}
	c.AppendByte(flags)

	if a.Chan.Hopping {
		c.AppendByte((a.Chan.HSN << 3) | (a.Chan.MAIO & 0x7))
		c.AppendByte(byte(len(a.Chan.MobileAlloc)))
		for _, f := range a.Chan.MobileAlloc {
			c.AppendUint16BE(uint16(f))
		}
	} else {
		c.AppendUint16BE(uint16(a.Chan.Arfcn))
	}

	if a.HasStartingTime {
		c.AppendByte(0x1)
		c.AppendUint16BE(a.StartingTime)
	} else {
		c.AppendByte(0x0)
	}
	return c.Bytes()
}

// MatchesHistory reports whether this assignment's request reference
// matches one of the stored CHAN_REQ values, the gate spec.md §4.4
// requires before activating the dedicated channel.
func (a ImmediateAssignment) MatchesHistory(h *History) bool {
	return h.Matches(a.RequestReference)
}
