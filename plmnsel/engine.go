// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package plmnsel

import (
	"time"

	"github.com/rob-gra/gsmcore/subscr"
)

// Engine drives one MS's PLMN-selection state machines and owns the
// forbidden lists. Only one of Auto/Man is meaningful at a time,
// selected by Mode.
type Engine struct {
	Mode Mode
	Auto AutoState
	Man  ManState

	Forbidden ForbiddenLists

	hplmnTimerArmed bool
	hplmnDeadline   time.Time
}

// NewEngine returns an engine in the NULL state for both sub-machines.
func NewEngine(mode Mode) *Engine {
	return &Engine{Mode: mode}
}

// ArmHPLMNTimer starts the T6M HPLMN-search timer: subscr.t6m_hplmn*360
// seconds from now (spec.md §4.3, default 30*360=10800s).
func (e *Engine) ArmHPLMNTimer(sub *subscr.Subscriber, now time.Time) {
	e.hplmnTimerArmed = true
	e.hplmnDeadline = now.Add(time.Duration(sub.T6MHPLMN) * 360 * time.Second)
}

// DisarmHPLMNTimer stops the HPLMN-search timer, e.g. on deregistration
// or loss of camped state.
func (e *Engine) DisarmHPLMNTimer() {
	e.hplmnTimerArmed = false
}

// HPLMNTimerExpired reports whether the armed HPLMN-search timer has
// elapsed as of now.
func (e *Engine) HPLMNTimerExpired(now time.Time) bool {
	return e.hplmnTimerArmed && !now.Before(e.hplmnDeadline)
}

// ShouldArmHPLMNSearch reports whether the HPLMN-search timer's arm
// condition holds: camped on a VPLMN of the home country, or the
// subscriber's always_search_hplmn bit is set (spec.md §4.3).
func ShouldArmHPLMNSearch(sub *subscr.Subscriber, campedMCC uint16) bool {
	if sub.AlwaysSearchHPLMN {
		return true
	}
	return campedMCC == sub.HPLMN[0] && sub.RPLMN.MNC != sub.HPLMN[1]
}

// EnterHPLMNSearch transitions the automatic machine into
// A5_HPLMN_SEARCH on timer expiry while camped normally, per spec.md
// §4.3 ("On expiry, if camped normally, enter A5_HPLMN_SEARCH").
func (e *Engine) EnterHPLMNSearch(campedNormally bool) bool {
	if !campedNormally {
		return false
	}
	e.Auto = A5HPLMNSearch
	e.DisarmHPLMNTimer()
	return true
}

// HandleRegSuccess moves the active sub-machine into its "on PLMN"
// state.
func (e *Engine) HandleRegSuccess() {
	switch e.Mode {
	case ModeAutomatic:
		e.Auto = A2OnPLMN
	case ModeManual:
		e.Man = M2OnPLMN
	}
}

// HandleRegFailed moves the active sub-machine back to a searching
// state and records forbidden-list updates for the causes spec.md §4.4
// names (11 PLMN not allowed, 12 LA not allowed, 13 roaming not
// allowed).
func (e *Engine) HandleRegFailed(mcc, mnc, lac uint16, cause uint8) {
	switch cause {
	case 11:
		e.Forbidden.AddForbiddenPLMN(mcc, mnc)
	case 12, 13:
		e.Forbidden.AddForbiddenLA(mcc, mnc, lac)
	}
	switch e.Mode {
	case ModeAutomatic:
		e.Auto = A3TryingPLMN
	case ModeManual:
		e.Man = M3NotOnPLMN
	}
}
