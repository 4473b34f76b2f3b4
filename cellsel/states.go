// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package cellsel implements the §4.2 cell-selection engine: the 11
// normal + 3 search states, the 1324-entry frequency table interactions,
// power-scan batching, cell-sync attempts, the C1/C2 criteria, neighbour
// monitoring and cell reselection.
package cellsel

// State is a cell-selection engine state. See spec.md §4.2.
type State uint8

const (
	C0Null State = iota
	C1NormalSel
	C2StoredSel
	C3CampedNormally
	C4NormalResel
	C5ChooseCell
	C6AnyCellSel
	C7CampedAny
	C8AnyResel
	C9ChooseAny
	Connected1
	Connected2
	PlmnSearch
	HplmnSearch
	AnySearch
)

func (s State) String() string {
	names := [...]string{
		"C0_NULL", "C1_NORMAL_SEL", "C2_STORED_SEL", "C3_CAMPED_NORMALLY",
		"C4_NORMAL_RESEL", "C5_CHOOSE_CELL", "C6_ANY_CELL_SEL", "C7_CAMPED_ANY",
		"C8_ANY_RESEL", "C9_CHOOSE_ANY", "CONNECTED_1", "CONNECTED_2",
		"PLMN_SEARCH", "HPLMN_SEARCH", "ANY_SEARCH",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// CampedNormally reports whether the state is C3_CAMPED_NORMALLY, the
// "serving a suitable, non-barred, home/allowed cell" camped state.
func (s State) CampedNormally() bool { return s == C3CampedNormally }

// CampedAny reports whether the state is the "any cell" limited-service
// camped state.
func (s State) CampedAny() bool { return s == C7CampedAny }

// Camped reports whether the MS is camped on a cell at all (normally or
// any-cell), the gate spec.md §4.4 "Paging" uses for accepting a page.
func (s State) Camped() bool { return s.CampedNormally() || s.CampedAny() }

// Event is a CS-internal or cross-layer event the dispatch loop routes to
// the CS engine.
type Event uint8

const (
	EvPowerScanDone Event = iota
	EvSyncOK
	EvSyncFail
	EvNoCellFound
	EvCellResel
	EvLossOfCCCH
	EvNewPLMN
	EvPLMNAvail
	EvRegSuccess
	EvRegFailed
	EvEnterDedicated
	EvLeaveDedicated
)

func (e Event) String() string {
	names := [...]string{
		"POWER_SCAN_DONE", "SYNC_OK", "SYNC_FAIL", "NO_CELL_FOUND",
		"CELL_RESEL", "LOSS_OF_CCCH", "NEW_PLMN", "PLMN_AVAIL",
		"REG_SUCCESS", "REG_FAILED", "ENTER_DEDICATED", "LEAVE_DEDICATED",
	}
	if int(e) < len(names) {
		return names[e]
	}
	return "?"
}
