// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package l1prim is the external-collaborator contract with layer 1
// (spec.md §6): the primitive structs the physical/DSP layer produces on
// the downlink and the ones the core produces on the uplink. This package
// holds only the shared vocabulary — no RF/DSP logic, which is explicitly
// out of scope (spec.md §1).
package l1prim

// Arfcn is an Absolute Radio-Frequency Channel Number. 0..1023 is the
// primary GSM band space; 1024..1322 maps to the PCS band 512..810
// (spec.md §3).
type Arfcn uint16

const (
	ArfcnMax    Arfcn = 1023
	ArfcnPCSMin Arfcn = 1024
	ArfcnPCSMax Arfcn = 1322
)

// IsPCS reports whether the ARFCN index falls in the PCS-band range.
func (a Arfcn) IsPCS() bool { return a >= ArfcnPCSMin && a <= ArfcnPCSMax }

// Band distinguishes the family an ARFCN's FBSB request must declare.
type Band uint8

const (
	BandGSM Band = iota
	BandDCS1800
	BandPCS1900
)

// BandOf derives the FBSB band hint from an ARFCN, the "original picks the
// band sub-field of the FBSB request from whether the ARFCN is in the
// 0-1023 or PCS-mapped 1024-1322 range" behaviour carried in from
// original_source/ (SPEC_FULL.md).
func BandOf(a Arfcn) Band {
	switch {
	case a.IsPCS():
		return BandPCS1900
	case a >= 512 && a <= 885:
		return BandDCS1800
	default:
		return BandGSM
	}
}

// ---- downlink primitives (consumed) ----

// PMRes reports measured receive level for one ARFCN during a power scan.
type PMRes struct {
	Arfcn Arfcn
	RxLev int8 // dBm, as GSM 05.08 rxlev (0..63 scale is pre-normalised by L1)
}

// PMDone signals a requested power-scan range has completed.
type PMDone struct{}

// FBSBResp reports a successful frequency-burst/synchronization-burst sync.
type FBSBResp struct {
	Arfcn    Arfcn
	BSIC     uint8
	SNR      uint8
	BandArfcn Arfcn // echoes the request, used to correlate in-flight syncs
}

// FBSBErr reports a failed sync attempt.
type FBSBErr struct {
	Arfcn Arfcn
}

// CCCHResp carries decoded CCCH-mode information used to reparameterise a
// subsequent FBSB request.
type CCCHResp struct {
	Arfcn Arfcn
	Combined bool
}

// LossInd reports loss of the currently camped CCCH/SACCH.
type LossInd struct {
	Arfcn Arfcn
}

// ResetInd acknowledges an L1CTLReset.
type ResetInd struct{}

// NeighPMInd reports a neighbour-cell power measurement sample.
type NeighPMInd struct {
	Arfcn Arfcn
	RxLev int8
}

// ---- uplink primitives (produced) ----

// Reset requests an L1 state reset before a new sync attempt.
type Reset struct{}

// PMReq requests a power-measurement scan over a contiguous ARFCN range.
type PMReq struct {
	From, To Arfcn
}

// FBSBReq requests synchronisation to a candidate cell.
type FBSBReq struct {
	Arfcn      Arfcn
	Band       Band
	CCCHMode   uint8
	TimeoutMS  int
	BSICHint   uint8
	RxLevHint  int8
}

// CCCHReq arms reception of the serving cell's CCCH (paging/AGCH).
type CCCHReq struct {
	Arfcn Arfcn
}

// RACHReq transmits a RACH burst (channel request).
type RACHReq struct {
	Arfcn   Arfcn
	RA      uint8 // the 8-bit establishment-cause/random octet
	Combined bool
}

// NeighPMReq requests neighbour-cell power measurement over up to 32
// ARFCNs (spec.md §6).
type NeighPMReq struct {
	Arfcns []Arfcn
}
