// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package gcc implements the §4.6 voice-group/broadcast-call FSM
// (GSM 04.68/44.068): call state, the four per-state attributes,
// initiator/joiner flows, uplink contention, and the call timers.
package gcc

import "time"

// State is one of the 12 GCC/BCC call states.
type State uint8

const (
	U0Null State = iota
	U0pMMPending
	U1Initiated
	U2slActiveSeparateLink
	U2wrActiveWaitReceive
	U2rU6ActiveReceive
	U2wsActiveWaitSend
	U2srActiveSendReceive
	U2ncActiveNoChannel
	U3Present
	U4ConnRequest
	U5TerminationRequested
)

func (s State) String() string {
	names := [...]string{
		"U0_NULL", "U0p_MM_PENDING", "U1_INITIATED",
		"U2sl_ACTIVE_SEPARATE_LINK", "U2wr_ACTIVE_WAIT_RECEIVE",
		"U2r_U6_ACTIVE_RECEIVE", "U2ws_ACTIVE_WAIT_SEND",
		"U2sr_ACTIVE_SEND_RECEIVE", "U2nc_ACTIVE_NO_CHANNEL",
		"U3_PRESENT", "U4_CONN_REQUEST", "U5_TERMINATION_REQUESTED",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// Attributes are the four per-state flags spec.md §4.6 defines: D-ATT
// (speaker on), U-ATT (mic on), COMM (communication ongoing), ORIG
// (originator).
type Attributes struct {
	DATT bool
	UATT bool
	COMM bool
	ORIG bool
}

// forbiddenORIG lists the states where ORIG=true is invalid (spec.md
// §4.6: "ORIG=T is invalid in U0/U2nc/U2r/U3/U4").
var forbiddenORIG = map[State]bool{
	U0Null:                 true,
	U2ncActiveNoChannel:    true,
	U2rU6ActiveReceive:     true,
	U3Present:              true,
	U4ConnRequest:          true,
}

// ErrForbiddenAttributeCombination is returned when a state/attribute
// pairing is forbidden.
type ErrForbiddenAttributeCombination struct {
	State State
}

func (e ErrForbiddenAttributeCombination) Error() string {
	return "gcc: ORIG=true forbidden in state " + e.State.String()
}

// Validate checks a (state, attributes) pairing against the forbidden
// combinations spec.md §4.6 names.
func Validate(s State, a Attributes) error {
	if a.ORIG && forbiddenORIG[s] {
		return ErrForbiddenAttributeCombination{State: s}
	}
	return nil
}

// RelCauseLeaveGroupCA is an implementation-defined UPLINK RELEASE
// cause referenced by the original as RR_REL_CAUSE_LEAVE_GROUP_CA but
// never defined in its visible headers (spec.md open questions).
const RelCauseLeaveGroupCA = 0x20

// Timers holds the call's retry/guard durations (spec.md §4.6).
const (
	TNoChannel = 3 * time.Second
	TMMEst     = 7 * time.Second
	TTerm      = 10 * time.Second
	TConnReq   = 10 * time.Second
)
