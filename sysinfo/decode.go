// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package sysinfo

import (
	"bytes"
	"fmt"

	"github.com/rob-gra/gsmcore/ie"
	"github.com/rob-gra/gsmcore/l1prim"
)

// txIntegerValues maps the 4-bit TX_INTEGER field code carried in RACH
// control to its actual GSM 04.08 table 3.1 value.
var txIntegerValues = [16]uint8{3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 14, 16, 20, 25, 32, 50}

// maxRetransValues maps the 2-bit MAX_RETRANS field code to its actual
// retransmission-count value.
var maxRetransValues = [4]uint8{1, 2, 4, 7}

// DecodeStatus is the outcome of a Decode call, the contract spec.md §4.1
// defines as `decode(si_type, octets, sysinfo_out, freq_table_out) → ok |
// short_read | unsupported_encoding`.
type DecodeStatus uint8

const (
	StatusOK DecodeStatus = iota
	StatusNoop                // idempotent re-delivery of an identical message
	StatusShortRead
	StatusUnsupportedEncoding
)

// NeighbourKind tags which SI message contributed a decoded neighbour
// ARFCN, so the caller can set the matching freq-table type bit (spec.md
// §4.1: "one of: SERV, NCELL, NCELL_2, NCELL_2bis, NCELL_2ter, REP_5,
// REP_5bis, REP_5ter, HOPP").
type NeighbourKind uint8

const (
	KindServing NeighbourKind = iota
	KindNCell
	KindNCell2
	KindNCell2bis
	KindNCell2ter
	KindRep5
	KindRep5bis
	KindRep5ter
	KindHopping
)

// DecodeResult reports the ARFCNs touched by one Decode call, tagged by
// kind, for the caller to fold into the frequency table.
type DecodeResult struct {
	Status DecodeStatus
	Touched map[NeighbourKind][]l1prim.Arfcn
}

// Decode parses one SI message's octets into si, per the contract in
// spec.md §4.1. It is idempotent: redelivery of byte-identical content is
// a no-op.
func Decode(t Type, octets []byte, si *SysInfo) (DecodeResult, error) {
	if prev := si.fresh[t]; prev != nil && bytes.Equal(prev, octets) {
		return DecodeResult{Status: StatusNoop}, nil
	}

	res := DecodeResult{Status: StatusOK, Touched: map[NeighbourKind][]l1prim.Arfcn{}}

	var err error
	switch t {
	case SI1:
		err = decodeSI1(octets, si, &res)
	case SI2:
		err = decodeSI2(octets, si, &res)
	case SI2bis:
		err = decodeSI2bis(octets, si, &res)
	case SI2ter:
		err = decodeSI2ter(octets, si, &res)
	case SI3:
		err = decodeSI3(octets, si, &res)
	case SI4:
		err = decodeSI4(octets, si, &res)
	case SI5, SI5bis, SI5ter:
		err = decodeSI5Family(t, octets, si, &res)
	case SI6:
		err = decodeSI6(octets, si, &res)
	default:
		return DecodeResult{Status: StatusUnsupportedEncoding}, fmt.Errorf("sysinfo: unknown SI type %v", t)
	}
	if err != nil {
		if err == ie.ErrShortRead || err == ErrShortFreqList {
			return DecodeResult{Status: StatusShortRead}, err
		}
		return DecodeResult{Status: StatusUnsupportedEncoding}, err
	}

	stored := append([]byte(nil), octets...)
	si.fresh[t] = stored
	return res, nil
}

// decodeSI1 decodes the RACH control and cell-channel description carried
// in SYSTEM INFORMATION TYPE 1.
func decodeSI1(octets []byte, si *SysInfo, res *DecodeResult) error {
	c := ie.NewCursor(octets)
	cellChan, err := c.DecodeBytes(16)
	if err != nil {
		return err
	}
	arfcns, _, err := DecodeFreqList(cellChan)
	if err != nil {
		return err
	}
	res.Touched[KindServing] = arfcns

	rachByte, err := c.DecodeByte()
	if err != nil {
		return err
	}
	si.RACH.CellBarred = rachByte&0x10 != 0
	si.RACH.ReestablishDenied = rachByte&0x08 != 0
	si.RACH.TxInteger = txIntegerValues[(rachByte>>4)&0x0f]
	return nil
}

// decodeSI2 decodes the BCCH neighbour-cell list. It does not decode NCC
// permission or the neighbour-extension indicators; Sufficient takes
// those indicators from its caller.
func decodeSI2(octets []byte, si *SysInfo, res *DecodeResult) error {
	c := ie.NewCursor(octets)
	nbFreq, err := c.DecodeBytes(16)
	if err != nil {
		return err
	}
	arfcns, _, err := DecodeFreqList(nbFreq)
	if err != nil {
		return err
	}
	si.NeighbourARFCNs = mergeArfcns(si.NeighbourARFCNs, arfcns)
	res.Touched[KindNCell] = arfcns
	return nil
}

func decodeSI2bis(octets []byte, si *SysInfo, res *DecodeResult) error {
	c := ie.NewCursor(octets)
	nbFreq, err := c.DecodeBytes(16)
	if err != nil {
		return err
	}
	arfcns, _, err := DecodeFreqList(nbFreq)
	if err != nil {
		return err
	}
	si.NeighbourARFCNs = mergeArfcns(si.NeighbourARFCNs, arfcns)
	res.Touched[KindNCell2bis] = arfcns
	return nil
}

func decodeSI2ter(octets []byte, si *SysInfo, res *DecodeResult) error {
	c := ie.NewCursor(octets)
	nbFreq, err := c.DecodeBytes(16)
	if err != nil {
		return err
	}
	arfcns, _, err := DecodeFreqList(nbFreq)
	if err != nil {
		return err
	}
	si.NeighbourARFCNs = mergeArfcns(si.NeighbourARFCNs, arfcns)
	res.Touched[KindNCell2ter] = arfcns
	return nil
}

// decodeSI3 decodes the cell identity, LAI, cell options, cell-selection
// parameters, RACH control and CCCH description — the three messages
// (SI1+SI2+SI3) spec.md §4.1 requires before CS may advance.
func decodeSI3(octets []byte, si *SysInfo, res *DecodeResult) error {
	c := ie.NewCursor(octets)

	cellID, err := c.DecodeUint16BE()
	if err != nil {
		return err
	}
	si.CellID = cellID

	mcc, err := c.DecodeUint16BE()
	if err != nil {
		return err
	}
	mnc, err := c.DecodeUint16BE()
	if err != nil {
		return err
	}
	lac, err := c.DecodeUint16BE()
	if err != nil {
		return err
	}
	si.LAI = LAI{MCC: mcc, MNC: mnc, LAC: lac}

	ctrlByte, err := c.DecodeByte()
	if err != nil {
		return err
	}
	si.CellOpt.DTX = ctrlByte&0x01 != 0
	si.CellOpt.PWRC = ctrlByte&0x02 != 0
	si.CellOpt.RadioLinkTimeout = (ctrlByte >> 2) & 0x0f

	selByte, err := c.DecodeByte()
	if err != nil {
		return err
	}
	si.SelParams.NECI = selByte&0x01 != 0
	si.SelParams.CellReselectHysteresisDB = (selByte >> 1) & 0x07 * 2

	msPwr, err := c.DecodeByte()
	if err != nil {
		return err
	}
	si.SelParams.MSTxPwrMaxCCH = int8(msPwr)

	rxLevMin, err := c.DecodeByte()
	if err != nil {
		return err
	}
	si.SelParams.RxLevAccessMin = int8(rxLevMin)

	rachByte, err := c.DecodeByte()
	if err != nil {
		return err
	}
	si.RACH.CellBarred = rachByte&0x10 != 0
	si.RACH.ReestablishDenied = rachByte&0x08 != 0
	si.RACH.TxInteger = txIntegerValues[(rachByte>>4)&0x0f]
	si.RACH.MaxRetrans = maxRetransValues[rachByte&0x03]

	ccchByte, err := c.DecodeByte()
	if err != nil {
		return err
	}
	si.CCCHDesc.CCCHConf = (ccchByte >> 5) & 0x07
	si.CCCHDesc.PagingMultiframes = (ccchByte >> 2) & 0x07

	t3212, err := c.DecodeByte()
	if err != nil {
		return err
	}
	si.CCCHDesc.T3212Decihours = t3212

	if c.Len() >= 1 {
		reselByte, _ := c.DecodeByte()
		si.ReselParams.Present = true
		si.ReselParams.PenaltyTime = reselByte & 0x1f
		si.ReselParams.TemporaryOffset = (reselByte >> 5) & 0x07
	}

	return nil
}

// decodeSI4 decodes SI4 with SI3's layout minus the leading cell id:
// LAI, cell options, cell-selection parameters, RACH control, CCCH
// description and T3212, then the optional reselection octet. A CBCH
// descriptor is not decoded.
func decodeSI4(octets []byte, si *SysInfo, res *DecodeResult) error {
	if len(octets) < 9 {
		return ie.ErrShortRead
	}
	// SI4 carries no cell id. Re-use SI3's cursor layout by padding a
	// synthetic cell id of 0, and keep the cell id already stored.
	padded := append([]byte{0, 0}, octets...)
	cellID := si.CellID
	err := decodeSI3(padded, si, res)
	si.CellID = cellID
	return err
}

func decodeSI5Family(t Type, octets []byte, si *SysInfo, res *DecodeResult) error {
	c := ie.NewCursor(octets)
	freq, err := c.DecodeBytes(16)
	if err != nil {
		return err
	}
	arfcns, _, err := DecodeFreqList(freq)
	if err != nil {
		return err
	}
	switch t {
	case SI5:
		res.Touched[KindRep5] = arfcns
	case SI5bis:
		res.Touched[KindRep5bis] = arfcns
	case SI5ter:
		res.Touched[KindRep5ter] = arfcns
	}
	return nil
}

func decodeSI6(octets []byte, si *SysInfo, res *DecodeResult) error {
	c := ie.NewCursor(octets)
	cellID, err := c.DecodeUint16BE()
	if err != nil {
		return err
	}
	si.CellID = cellID
	mcc, err := c.DecodeUint16BE()
	if err != nil {
		return err
	}
	mnc, err := c.DecodeUint16BE()
	if err != nil {
		return err
	}
	si.LAI.MCC, si.LAI.MNC = mcc, mnc
	return nil
}

func mergeArfcns(existing, add []l1prim.Arfcn) []l1prim.Arfcn {
	seen := make(map[l1prim.Arfcn]bool, len(existing))
	out := append([]l1prim.Arfcn(nil), existing...)
	for _, a := range existing {
		seen[a] = true
	}
	for _, a := range add {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}
