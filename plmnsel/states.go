// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package plmnsel implements the §4.3 PLMN-selection engine: the
// automatic and manual PLMN-selection state machines, sorted-PLMN-list
// construction, and the forbidden-PLMN / forbidden-LA lists.
package plmnsel

// Mode selects which of the two state machines is active.
type Mode uint8

const (
	ModeAutomatic Mode = iota
	ModeManual
)

// AutoState is one of the 7 automatic PLMN-selection states.
type AutoState uint8

const (
	A0Null AutoState = iota
	A1TryingRPLMN
	A2OnPLMN
	A3TryingPLMN
	A4WaitForPLMN
	A5HPLMNSearch
	A6NoSIM
)

func (s AutoState) String() string {
	names := [...]string{
		"A0_NULL", "A1_TRYING_RPLMN", "A2_ON_PLMN", "A3_TRYING_PLMN",
		"A4_WAIT_FOR_PLMN", "A5_HPLMN_SEARCH", "A6_NO_SIM",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// ManState is one of the 6 manual PLMN-selection states.
type ManState uint8

const (
	M0Null ManState = iota
	M1TryingRPLMN
	M2OnPLMN
	M3NotOnPLMN
	M4TryingPLMN
	M5NoSIM
)

func (s ManState) String() string {
	names := [...]string{
		"M0_NULL", "M1_TRYING_RPLMN", "M2_ON_PLMN", "M3_NOT_ON_PLMN",
		"M4_TRYING_PLMN", "M5_NO_SIM",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// Event is a PLMN-selection-internal or cross-layer event.
type Event uint8

const (
	EvSearchReq Event = iota
	EvSearchDone
	EvRegSuccess
	EvRegFailed
	EvSIMRemoved
	EvSIMInserted
	EvUserSelect
	EvHPLMNTimerExpired
)

func (e Event) String() string {
	names := [...]string{
		"SEARCH_REQ", "SEARCH_DONE", "REG_SUCCESS", "REG_FAILED",
		"SIM_REMOVED", "SIM_INSERTED", "USER_SELECT", "HPLMN_TIMER_EXPIRED",
	}
	if int(e) < len(names) {
		return names[e]
	}
	return "?"
}
