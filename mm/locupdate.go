// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package mm

import (
	"github.com/rob-gra/gsmcore/ie"
	"github.com/rob-gra/gsmcore/subscr"
)

// UpdateType is carried in LOCATION UPDATING REQUEST (GSM 04.08
// subclass 10.5.3.5).
type UpdateType uint8

const (
	UpdateNormal UpdateType = iota
	UpdatePeriodic
	UpdateIMSIAttach
)

// MaxLupdAttempts bounds the general-failure retry counter (spec.md
// §4.5 step 7, §8 invariant: "0 <= lupd_attempt <= 4").
const MaxLupdAttempts = 4

// LocationUpdate drives one location-updating procedure instance
// (spec.md §4.5 steps 1-7).
type LocationUpdate struct {
	Type    UpdateType
	State   State
	Attempt int // 0..MaxLupdAttempts

	raFailureStreak int

	Cause ie.RejectCause
}

// NewLocationUpdate starts a procedure in WAIT_RR_CONN_LUPD, step 1.
func NewLocationUpdate(t UpdateType) *LocationUpdate {
	return &LocationUpdate{Type: t, State: WaitRRConnLUpd}
}

// OnRREstablished applies step 2: start T3210 (caller-owned timer
// wheel) and move to LOC_UPD_INIT.
func (l *LocationUpdate) OnRREstablished() {
	l.State = LocUpdInit
}

// OnAccept applies step 3: store the new LAI, mark U1_UPDATED, attach
// IMSI, and report whether TMSI REALLOCATION COMPLETE must be sent.
func (l *LocationUpdate) OnAccept(sub *subscr.Subscriber, mcc, mnc, lac uint16, newTMSI uint32, hasNewTMSI bool) (sendTMSIComplete bool) {
	sub.RPLMN = subscr.RPLMN{MCC: mcc, MNC: mnc, LAC: lac, Valid: true}
	sub.UState = subscr.U1Updated
	sub.IMSIAttached = true
	if hasNewTMSI {
		sub.TMSI = newTMSI
		sub.TMSIValid = true
		sendTMSIComplete = true
	}
	l.State = WaitNetworkCmd
	return sendTMSIComplete
}

// OnReject applies step 4: store the cause and move to LOC_UPD_REJ.
// The RR-release follow-up is dispatched separately via
// DispatchRejectCause once the RR connection actually releases.
func (l *LocationUpdate) OnReject(cause ie.RejectCause) {
	l.Cause = cause
	l.State = LocUpdRej
}

// DispatchRejectCause applies step 4's per-cause action on RR release
// following a reject.
func DispatchRejectCause(cause ie.RejectCause, sub *subscr.Subscriber, forbiddenPLMN, forbiddenLA func()) {
	switch cause {
	case ie.RejectPLMNNotAllowed:
		if forbiddenPLMN != nil {
			forbiddenPLMN()
		}
	case ie.RejectLANotAllowed, ie.RejectRoamingNotAllowed:
		if forbiddenLA != nil {
			forbiddenLA()
		}
		sub.UState = subscr.U3RoamingNotAllowed
	}
	if cause.SIMInvalid() {
		sub.SIMValid = false
		return
	}
}

// OnRARAFailure applies step 5: an RR release while in LOC_UPD_INIT
// carrying an RA-failure cause. If this is not the second consecutive
// RA failure, retry (caller arms T3213); otherwise fall through to the
// general-failure path (step 6/7).
func (l *LocationUpdate) OnRARAFailure() (retry bool) {
	l.raFailureStreak++
	if l.raFailureStreak < 2 {
		l.State = WaitReest
		return true
	}
	return false
}

// OnGeneralFailure applies steps 6-7: while the attempt counter is below
// MaxLupdAttempts, increment it and report retryable (the caller arms
// T3211); once it has reached MaxLupdAttempts, invalidate TMSI/LAI and the
// ciphering key sequence, matching step 7. The counter never exceeds
// MaxLupdAttempts.
func (l *LocationUpdate) OnGeneralFailure(sub *subscr.Subscriber) (retry bool) {
	if l.Attempt < MaxLupdAttempts {
		l.Attempt++
		return true
	}
	sub.InvalidateKeyAndIdentity()
	return false
}
