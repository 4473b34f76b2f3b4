// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

import (
	"fmt"

	"github.com/rob-gra/gsmcore/ie"
)

// MaxReportedNeighbours is the cap on neighbour triples a measurement
// report carries (spec.md §4.4: "up to 6 neighbour ... triples").
const MaxReportedNeighbours = 6

// MeasReportLen is the fixed wire size of a packed measurement report
// (spec.md §4.4: "packed into 16-byte fields").
const MeasReportLen = 16

// NeighbourMeasurement is one reported neighbour triple.
type NeighbourMeasurement struct {
	RxLev        int8
	BSIC         uint8
	BCCHFreqIdx  uint8
}

// MeasurementReport is the decoded content of a SACCH-periodic
// measurement report.
type MeasurementReport struct {
	RxLevFull, RxLevSub int8
	RxQualFull, RxQualSub uint8
	DTXUsed             bool
	BAUsed              bool
	Neighbours          []NeighbourMeasurement
}

// EncodeMeasReport packs a measurement report into its 16-byte wire
// form. Layout (bit 7 is the most significant bit of each byte):
//
//	byte 0:    ba-used (bit 7), dtx (bit 6), rxlev-full (bits 5-0)
//	byte 1:    rxlev-sub (bits 5-0); bits 7-6 are zero
//	byte 2:    rxqual-full (bits 7-3), rxqual-sub (bits 2-0)
//	bytes 3-14: up to 6 neighbour triples, 2 bytes each: the low 2 bits
//	           of BSIC (bits 7-6) and rxlev (bits 5-0), then the
//	           BCCH-frequency index
//	byte 15:   neighbour count
func EncodeMeasReport(m MeasurementReport) ([]byte, error) {
	if len(m.Neighbours) > MaxReportedNeighbours {
		return nil, fmt.Errorf("rr: too many neighbours in measurement report: %d", len(m.Neighbours))
	}
	c := ie.NewEncoder()
	b0 := byte(m.RxLevFull) & 0x3f
	if m.DTXUsed {
		b0 |= 0x40
	}
	if m.BAUsed {
		b0 |= 0x80
	}
	c.AppendByte(b0)
	c.AppendByte(byte(m.RxLevSub) & 0x3f)
	c.AppendByte((m.RxQualFull << 3) | (m.RxQualSub & 0x07))
	for _, n := range m.Neighbours {
		c.AppendByte(byte(n.RxLev)&0x3f | (n.BSIC&0x3)<<6)
		c.AppendByte(n.BCCHFreqIdx)
	}
	for i := len(m.Neighbours); i < MaxReportedNeighbours; i++ {
		c.AppendByte(0)
		c.AppendByte(0)
	}
	c.AppendByte(byte(len(m.Neighbours)))
	out := c.Bytes()
	if len(out) != MeasReportLen {
		return nil, fmt.Errorf("rr: internal encode length mismatch: %d", len(out))
	}
	return out, nil
}

// DecodeMeasReport unpacks a 16-byte measurement report.
func DecodeMeasReport(b []byte) (MeasurementReport, error) {
	if len(b) != MeasReportLen {
		return MeasurementReport{}, fmt.Errorf("rr: measurement report must be %d bytes, got %d", MeasReportLen, len(b))
	}
	var m MeasurementReport
	m.RxLevFull = int8(b[0] & 0x3f)
	m.DTXUsed = b[0]&0x40 != 0
	m.BAUsed = b[0]&0x80 != 0
	m.RxLevSub = int8(b[1] & 0x3f)
	m.RxQualFull = b[2] >> 3
	m.RxQualSub = b[2] & 0x07
	n := int(b[15])
	if n > MaxReportedNeighbours {
		n = MaxReportedNeighbours
	}
	for i := 0; i < n; i++ {
		lo := b[3+2*i]
		hi := b[3+2*i+1]
		m.Neighbours = append(m.Neighbours, NeighbourMeasurement{
			RxLev:       int8(lo & 0x3f),
			BSIC:        (lo >> 6) & 0x3,
			BCCHFreqIdx: hi,
		})
	}
	return m, nil
}
