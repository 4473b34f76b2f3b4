// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package mm implements the §4.5 Mobility-Management sublayer: the
// headline and MM-IDLE-substate state machines, the location-update
// procedure, MM-connection multiplexing for CC/SS/SMS, and IMSI detach.
package mm

// State is one of the MM headline states (GSM 04.08 §4).
type State uint8

const (
	Null State = iota
	LocUpdInit
	WaitOutMMConn
	MMConnActive
	IMSIDetachInit
	WaitNetworkCmd
	LocUpdRej
	WaitRRConnLUpd
	WaitRRConnMMCon
	WaitRRConnIMSID
	WaitReest
	WaitRRActive
	MMIdle
	WaitAddOutMMCon
)

func (s State) String() string {
	names := [...]string{
		"NULL", "LOC_UPD_INIT", "WAIT_OUT_MM_CONN", "MM_CONN_ACTIVE",
		"IMSI_DETACH_INIT", "WAIT_NETWORK_CMD", "LOC_UPD_REJ",
		"WAIT_RR_CONN_LUPD", "WAIT_RR_CONN_MM_CON", "WAIT_RR_CONN_IMSI_D",
		"WAIT_REEST", "WAIT_RR_ACTIVE", "MM_IDLE", "WAIT_ADD_OUT_MM_CON",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// IdleSubstate is one of the MM_IDLE substates.
type IdleSubstate uint8

const (
	NormalService IdleSubstate = iota
	AttemptUpdate
	LimitedService
	NoIMSI
	NoCellAvail
	LocUpdNeeded
	PLMNSearch
	PLMNSearchNormal
)

func (s IdleSubstate) String() string {
	names := [...]string{
		"NORMAL_SERVICE", "ATTEMPT_UPDATE", "LIMITED_SERVICE", "NO_IMSI",
		"NO_CELL_AVAIL", "LOC_UPD_NEEDED", "PLMN_SEARCH", "PLMN_SEARCH_NORMAL",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// ReturnToIdleInput bundles the decision inputs spec.md §4.5's
// return-to-idle table consults.
type ReturnToIdleInput struct {
	SIMValid          bool
	RegisteredLAIEq   bool // registered LAI == current LAI
	Attached          bool
	CampedNormally    bool
	CampedAny         bool
	ForbiddenPLMN     bool
	ForbiddenLA       bool
	BarredOrNoAccess  bool
}

// ReturnToIdle implements the table in spec.md §4.5 ("Return-to-idle
// decision"), called on CELL_SELECTED while not idle.
func ReturnToIdle(in ReturnToIdleInput) IdleSubstate {
	switch {
	case !in.SIMValid:
		return NoIMSI
	case in.RegisteredLAIEq && in.Attached:
		return NormalService
	case in.CampedNormally && in.ForbiddenPLMN:
		return LimitedService
	case in.CampedNormally && in.ForbiddenLA:
		return LimitedService
	case in.CampedNormally && in.BarredOrNoAccess:
		return LimitedService
	case in.CampedNormally:
		return LocUpdNeeded
	case in.CampedAny:
		return LimitedService
	default:
		return NoCellAvail
	}
}
