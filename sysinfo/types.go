// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package sysinfo implements the §4.1 System Information decoder: SI
// 1/2/2bis/2ter/3/4/5/5bis/5ter/6 parsing, the six frequency-list
// encodings, and aggregation into a per-cell SysInfo record.
package sysinfo

import "github.com/rob-gra/gsmcore/l1prim"

// Type identifies which SI message a decode call or freshness bit refers
// to. See spec.md §3 "SI freshness bits (si1..si6ter)".
type Type uint8

const (
	SI1 Type = iota
	SI2
	SI2bis
	SI2ter
	SI3
	SI4
	SI5
	SI5bis
	SI5ter
	SI6
	numTypes
)

func (t Type) String() string {
	names := [...]string{"SI1", "SI2", "SI2bis", "SI2ter", "SI3", "SI4", "SI5", "SI5bis", "SI5ter", "SI6"}
	if int(t) < len(names) {
		return names[t]
	}
	return "SI?"
}

// LAI is a Location Area Identifier (MCC, MNC, LAC).
type LAI struct {
	MCC uint16
	MNC uint16
	LAC uint16
}

// CellOptions carries the SI3/SI4-delivered BCCH cell options.
// See GSM 04.08 subclass 10.5.2.3.
type CellOptions struct {
	DTX              bool
	PWRC             bool // power control indicator
	RadioLinkTimeout uint8
}

// CellSelectionParams carries the cell (re)selection parameters decoded
// from SI3/SI4. See GSM 04.08 subclass 10.5.2.4.
type CellSelectionParams struct {
	CellReselectHysteresisDB uint8 // 2·CELL_RESELECT_OFFSET base, 0..14 in 2dB steps
	MSTxPwrMaxCCH            int8  // dBm
	RxLevAccessMin           int8  // dBm
	NECI                     bool  // new establishment cause indicator
	AccessClassBarred        uint16 // bitmap, from RACH control
}

// CellReselectParams carries the optional SI4/SI3 extended reselection
// parameters (power-offset, temporary offset, penalty time). See GSM
// 04.08 subclass 10.5.2.4a.
type CellReselectParams struct {
	Present          bool
	PowerOffsetDB    int8
	TemporaryOffset  uint8 // 0..7; 7 means "infinity", see spec.md C2 rule
	PenaltyTime      uint8 // 0..31; 31 disables the temporary term permanently
}

// RACHControl carries the RACH-control parameters from SI1/SI3/SI4.
// See GSM 04.08 subclass 10.5.2.29. MaxRetrans and TxInteger are already
// resolved from their wire field codes to the actual GSM values (one of
// 1/2/4/7, and one of 3/4/5/6/7/8/9/10/11/12/14/16/20/25/32/50
// respectively) at decode time; rr.SlotDelay and rr.RetransBudget both
// expect these resolved values, not the raw field codes.
type RACHControl struct {
	CellBarred       bool
	ReestablishDenied bool
	AccessClassBarred uint16 // bit i -> access class i barred
	MaxRetrans        uint8  // resolved value: one of 1, 2, 4, 7
	TxInteger         uint8  // resolved value, see rr.SlotDelay
	EmergencyCallAllowed bool
}

// ControlChannelDescription carries CCCH configuration from SI3/SI4.
// See GSM 04.08 subclass 10.5.2.11.
type ControlChannelDescription struct {
	CCCHConf          uint8 // 0: non-combined 1 basic physical channel, 1: combined, ...
	PagingMultiframes uint8 // BS_PA_MFRMS, 2..9
	T3212Decihours    uint8 // periodic-location-update timer value
}

// CBCHDescription carries the cell broadcast channel descriptor.
type CBCHDescription struct {
	Present bool
	Arfcn   l1prim.Arfcn
}

// SysInfo is the aggregated per-cell record built from multiple SI
// messages. See spec.md §3.
type SysInfo struct {
	LAI     LAI
	CellID  uint16
	BSIC    uint8

	NeighbourARFCNs []l1prim.Arfcn // from SI2/SI2bis/SI2ter, de-duplicated union

	CellOpt    CellOptions
	SelParams  CellSelectionParams
	ReselParams CellReselectParams
	RACH       RACHControl
	CCCHDesc   ControlChannelDescription
	CBCH       CBCHDescription

	ReceiveMask []byte // neighbour-cell BCCH receive frequency mask, raw bitmap
	ReportMask  []byte // neighbour-cell report frequency mask, raw bitmap

	// fresh records, per Type, the last raw octets successfully decoded
	// for that SI type — used both to detect freshness and to make
	// decode idempotent (spec.md §4.1: "if the incoming message
	// octet-equals the previously stored copy ... it is a no-op").
	fresh [numTypes][]byte
}

// New returns a zero-valued SysInfo ready for incremental decode.
func New() *SysInfo {
	return &SysInfo{}
}

// Has reports whether the given SI type has been successfully decoded at
// least once.
func (s *SysInfo) Has(t Type) bool {
	return s.fresh[t] != nil
}

// Sufficient reports whether SysInfo aggregation has reached the bar
// spec.md §4.1 requires before CS may advance: SI1+SI2+SI3 present, plus
// any neighbour-extension SI the serving cell's SI2 demands.
func (s *SysInfo) Sufficient(nb2ExtInd, nb2terInd bool) bool {
	if !s.Has(SI1) || !s.Has(SI2) || !s.Has(SI3) {
		return false
	}
	if nb2ExtInd && !s.Has(SI2bis) {
		return false
	}
	if nb2terInd && !s.Has(SI2ter) {
		return false
	}
	return true
}
