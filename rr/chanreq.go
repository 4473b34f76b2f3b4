// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

import "math/rand"

// EstablishCause is the RR establishment-cause selector encoded into
// the high bits of a CHAN_REQ byte (GSM 04.08 subclass 9.1.8).
type EstablishCause uint8

const (
	CauseEmergencyCall EstablishCause = 0xA0
	CauseCallReest     EstablishCause = 0x00
	CauseOriginatingCC EstablishCause = 0xE0
	CauseLocationUpd   EstablishCause = 0x00 // combined with CCCH-non-combined mask
	CauseOtherSDCCH    EstablishCause = 0x10
	CausePagingAny     EstablishCause = 0x80
)

// ChanReqHistoryLen is how many recent CHAN_REQ bytes are kept to
// match against IMMEDIATE ASSIGNMENT's request reference (spec.md §4.4:
// "the 3 most recent CHAN_REQ values").
const ChanReqHistoryLen = 3

// History is the ring of recently-sent CHAN_REQ bytes.
type History struct {
	values [ChanReqHistoryLen]byte
	valid  [ChanReqHistoryLen]bool
	next   int
}

// Push records a new CHAN_REQ byte, evicting the oldest entry once the
// ring is full.
func (h *History) Push(b byte) {
	h.values[h.next] = b
	h.valid[h.next] = true
	h.next = (h.next + 1) % ChanReqHistoryLen
}

// Matches reports whether ref equals any of the stored CHAN_REQ bytes
// (spec.md §4.4: IMMEDIATE ASSIGNMENT's request-reference IE match).
func (h *History) Matches(ref byte) bool {
	for i, v := range h.valid {
		if v && h.values[i] == ref {
			return true
		}
	}
	return false
}

// BuildChanReq packs an establishment cause with masked random padding
// into one CHAN_REQ byte. The low bits (not covered by the cause mask)
// are randomised per spec.md §4.4's "masked random padding".
func BuildChanReq(cause EstablishCause, mask byte, r *rand.Rand) byte {
	pad := byte(r.Intn(256)) &^ mask
	return byte(cause) | pad
}

// slotDelayGroup is one row of the RACH slot-delay table: a set of
// TX_INTEGER values that share the same S, per GSM 04.08 table 3.1.
type slotDelayGroup struct {
	txIntegers  []int
	nonCombined int // S when the CCCH is not combined with SDCCH
	combined    int // S when the CCCH is combined with SDCCH
}

// slotDelayTable mirrors GSM 04.08 table 3.1, keyed by the actual
// TX_INTEGER value (not the 4-bit field code it was decoded from): S
// depends on whether the CCCH is combined with SDCCH and on which of
// the five value groups TX_INTEGER falls into. Any value outside the
// four named groups takes the default row.
var slotDelayTable = []slotDelayGroup{
	{[]int{3, 8, 14, 50}, 55, 41},
	{[]int{4, 9, 16}, 76, 52},
	{[]int{5, 10, 20}, 109, 58},
	{[]int{6, 11, 25}, 163, 86},
}

const (
	slotDelayDefaultNonCombined = 217
	slotDelayDefaultCombined    = 115
)

// SlotDelay returns S, the slot-delay spread for a retransmission, for
// the given actual TX_INTEGER value (GSM 04.08 table 3.1). Values
// outside the table's named groups take the default row; SlotDelay is
// always ok for txInteger in [0,255].
func SlotDelay(txInteger int, combined bool) (slots int, ok bool) {
	if txInteger < 0 || txInteger > 255 {
		return 0, false
	}
	for _, g := range slotDelayTable {
		for _, v := range g.txIntegers {
			if v == txInteger {
				if combined {
					return g.combined, true
				}
				return g.nonCombined, true
			}
		}
	}
	if combined {
		return slotDelayDefaultCombined, true
	}
	return slotDelayDefaultNonCombined, true
}

// RandomDelay draws a uniform random slot delay in [0,S) for one RACH
// burst.
func RandomDelay(slots int, r *rand.Rand) int {
	if slots <= 0 {
		return 0
	}
	return r.Intn(slots)
}

// RetransBudget computes the total number of RACH bursts allowed,
// spec.md §4.4: "up to max_retrans+1 bursts".
func RetransBudget(maxRetrans uint8) int { return int(maxRetrans) + 1 }
