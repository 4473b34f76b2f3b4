// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

import (
	"math/rand"
	"time"

	"github.com/rob-gra/gsmcore/ie"
)

// T3122Default and T3126Default are the 04.08 RACH backoff/exhaustion
// timer defaults.
const (
	T3122Default = 5 * time.Second
	T3126Default = 5 * time.Second
)

// Establishment drives one RACH channel-request procedure: burst
// transmission, retransmission up to the retrans budget, and the
// backoff timers that follow exhaustion or rejection (spec.md §4.4).
type Establishment struct {
	State   State
	History History

	maxRetrans uint8
	combined   bool
	txInteger  int

	attempts int

	t3122 time.Duration
	t3126 time.Duration

	t3122Deadline time.Time
	t3126Deadline time.Time
}

// NewEstablishment starts a channel-request procedure with the given
// RACH control parameters. txInteger and maxRetrans are the actual
// GSM 04.08 values (e.g. sysinfo.RACHControl.TxInteger/.MaxRetrans),
// already resolved from their wire field codes, not the field codes
// themselves.
func NewEstablishment(maxRetrans uint8, txInteger int, combined bool) *Establishment {
	return &Establishment{
		State:      Idle,
		maxRetrans: maxRetrans,
		combined:   combined,
		txInteger:  txInteger,
		t3122:      T3122Default,
		t3126:      T3126Default,
	}
}

// SendBurst records one CHAN_REQ transmission into the history and
// advances the attempt counter. It returns the slot delay to apply
// before the burst per the TX_INTEGER slot-delay table, and ok=false
// if the retransmission budget is exhausted.
func (e *Establishment) SendBurst(cause EstablishCause, mask byte, r *rand.Rand) (reqByte byte, delaySlots int, ok bool) {
	if e.attempts >= RetransBudget(e.maxRetrans) {
		return 0, 0, false
	}
	slots, found := SlotDelay(e.txInteger, e.combined)
	if !found {
		slots = 0
	}
	b := BuildChanReq(cause, mask, r)
	e.History.Push(b)
	e.attempts++
	e.State = ConnPend
	return b, RandomDelay(slots, r), true
}

// Exhausted reports whether the retransmission budget has been spent
// without an IMMEDIATE ASSIGNMENT.
func (e *Establishment) Exhausted() bool {
	return e.attempts >= RetransBudget(e.maxRetrans)
}

// StartT3126 arms the exhaustion timer spec.md §4.4 requires "on
// exhaustion".
func (e *Establishment) StartT3126(now time.Time) {
	e.t3126Deadline = now.Add(e.t3126)
}

// StartT3122 arms the backoff timer triggered by an IMMEDIATE
// ASSIGNMENT REJECT matching one of the stored CHAN_REQ values,
// optionally overriding the duration with the network-supplied wait
// indicator.
func (e *Establishment) StartT3122(now time.Time, wait time.Duration) {
	if wait > 0 {
		e.t3122 = wait
	}
	e.t3122Deadline = now.Add(e.t3122)
}

// T3122Active reports whether the backoff timer is still running,
// blocking a new RACH attempt.
func (e *Establishment) T3122Active(now time.Time) bool {
	return !e.t3122Deadline.IsZero() && now.Before(e.t3122Deadline)
}

// HandleReject applies an IMMEDIATE ASSIGNMENT REJECT to this
// establishment when its request reference matches the stored history,
// arming T3122 and T3126 per spec.md §4.4.
func (e *Establishment) HandleReject(requestRef byte, waitIndicator time.Duration, now time.Time) bool {
	if !e.History.Matches(requestRef) {
		return false
	}
	e.StartT3122(now, waitIndicator)
	e.StartT3126(now)
	e.State = Idle
	return true
}

// HandleAssignment applies a matching IMMEDIATE ASSIGNMENT, moving to
// DEDICATED and returning the request for L2 link establishment.
func (e *Establishment) HandleAssignment(a ImmediateAssignment) bool {
	if !a.MatchesHistory(&e.History) {
		return false
	}
	e.State = Dedicated
	return true
}

// ReleaseCause maps an RR release cause to ie.RRCause for RR STATUS /
// CHANNEL RELEASE messages this layer emits.
func ReleaseCause(c ie.RRCause) ie.RRCause { return c }
