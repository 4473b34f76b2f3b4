// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cellsel

import (
	"math"
	"time"
)

// C1Params bundles the inputs the C1 criterion needs. See spec.md §4.2:
// "C1 = (RLA_C - RXLEV_ACC_MIN) - max(0, MS_TXPWR_MAX_CCH - P)".
type C1Params struct {
	RLAC          int8 // dBm, received-level average
	RxLevAccMin   int8 // dBm
	MSTxPwrMaxCCH int8 // dBm
	P             int8 // MS class max output power for the band, dBm
}

// C1 computes the cell-selection (suitability) criterion.
func C1(p C1Params) int {
	deficit := int(p.MSTxPwrMaxCCH) - int(p.P)
	if deficit < 0 {
		deficit = 0
	}
	return (int(p.RLAC) - int(p.RxLevAccMin)) - deficit
}

// Suitable reports whether a cell passes the C1 ≥ 0, not-barred,
// access-class-allowed test (spec.md §4.2).
func Suitable(c1 int, barred, accessBarred bool) bool {
	return c1 >= 0 && !barred && !accessBarred
}

// C2Params bundles the inputs the reselection criterion needs. See
// spec.md §4.2.
type C2Params struct {
	C1 int

	// ExtendedReselParams reports whether the serving SI carries the
	// extended reselection parameters (cell-reselect offset / temporary
	// offset / penalty time). When false, C2 == C1.
	ExtendedReselParams bool

	CellReselectOffset int // dB, half of the SI-advertised hysteresis
	PenaltyTime        int // 0..31; 31 disables the temporary term permanently
	TemporaryOffset    int // 0..7; 7 encodes "infinity" (-inf contribution)

	// IsServingOrLastServing reports whether this candidate is the
	// current serving cell or the most recently left one — these always
	// get the full +2*offset bonus with no penalty-time gating.
	IsServingOrLastServing bool

	// Since reports how long ago this neighbour started being monitored
	// (or, for the serving cell, is irrelevant). Used against PenaltyTime.
	Since time.Duration
}

// C2NegInf represents the "-∞" result defined for temporary_offset >= 7
// while still within the penalty window.
const C2NegInf = math.MinInt32

// C2 computes the cell-reselection criterion per spec.md §4.2's four
// cases.
func C2(p C2Params) int {
	if !p.ExtendedReselParams {
		return p.C1
	}
	if p.PenaltyTime == 31 {
		return p.C1 - 2*p.CellReselectOffset
	}
	if p.IsServingOrLastServing {
		return p.C1 + 2*p.CellReselectOffset
	}
	penaltyWindow := time.Duration(p.PenaltyTime+1) * 20 * time.Second
	if p.Since < penaltyWindow {
		if p.TemporaryOffset >= 7 {
			return C2NegInf
		}
		return p.C1 + 2*p.CellReselectOffset - p.TemporaryOffset*10
	}
	// Penalty time elapsed: the temporary term is dropped.
	return p.C1 + 2*p.CellReselectOffset
}

// CRH (cell-reselect hysteresis) is zero when the neighbour shares the
// serving LAI or the MS is operating in emergency mode (spec.md §4.2).
func CRH(hysteresisDB int, sameLAI, emergency bool) int {
	if sameLAI || emergency {
		return 0
	}
	return hysteresisDB
}

// ReselectionTriggered reports whether a neighbour should trigger a
// reselection: (C2_neighbour - CRH) > C2_serving (spec.md §4.2).
func ReselectionTriggered(c2Neighbour, crh, c2Serving int) bool {
	if c2Neighbour == C2NegInf {
		return false
	}
	return c2Neighbour-crh > c2Serving
}
