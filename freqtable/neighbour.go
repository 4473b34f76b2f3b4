// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package freqtable

import (
	"time"

	"github.com/rob-gra/gsmcore/l1prim"
)

// RLACNumSamples is the RLA_C averaging window, spec.md §4.2: "RLA_C is
// averaged over the most recent RLA_C_NUM = 4 measurement samples".
const RLACNumSamples = 4

// NeighbourState is a monitored neighbour's sync/measurement lifecycle
// state (spec.md §3).
type NeighbourState uint8

const (
	NeighNew NeighbourState = iota
	NeighNotSupported
	NeighRLAC
	NeighNoSync
	NeighNoBCCH
	NeighSysinfo
)

func (s NeighbourState) String() string {
	switch s {
	case NeighNew:
		return "NEW"
	case NeighNotSupported:
		return "NOT_SUPPORTED"
	case NeighRLAC:
		return "RLA_C"
	case NeighNoSync:
		return "NO_SYNC"
	case NeighNoBCCH:
		return "NO_BCCH"
	case NeighSysinfo:
		return "SYSINFO"
	default:
		return "?"
	}
}

const (
	// ReadAgain is the re-read interval for an already-scanned neighbour,
	// spec.md §4.2 "GSM58_READ_AGAIN = 300s".
	ReadAgain = 300 * time.Second
	// TryAgain is the retry interval for a failed neighbour,
	// spec.md §4.2 "GSM58_TRY_AGAIN = 30s".
	TryAgain = 30 * time.Second
	// ReselThreshold debounces reselection decisions,
	// spec.md §4.2 "GSM58_RESEL_THRESHOLD = 15s".
	ReselThreshold = 15 * time.Second
	// MaxMonitored is how many neighbours are tracked concurrently,
	// spec.md §3 "up to 6 monitored at a time".
	MaxMonitored = 6
)

// Neighbour is one monitored neighbour cell. See spec.md §3.
type Neighbour struct {
	Arfcn l1prim.Arfcn

	rxlevSum   int
	rxlevCount int
	window     [RLACNumSamples]int
	next       int

	C1, C2 float64

	CheckedForResel bool
	PriorityLow     bool
	State           NeighbourState

	Created    time.Time
	LastEvent  time.Time
	lastResel  time.Time
}

// NewNeighbour starts tracking an ARFCN as a neighbour.
func NewNeighbour(a l1prim.Arfcn, now time.Time) *Neighbour {
	return &Neighbour{Arfcn: a, State: NeighNew, Created: now, LastEvent: now}
}

// AddSample folds in one RxLev measurement using a rolling window of the
// most recent RLACNumSamples samples (spec.md §4.2).
func (n *Neighbour) AddSample(rxlev int8, now time.Time) {
	if n.rxlevCount == RLACNumSamples {
		// Window full: the oldest sample drops out of the sum.
		n.rxlevSum -= n.window[n.next]
	} else {
		n.rxlevCount++
	}
	n.window[n.next] = int(rxlev)
	n.rxlevSum += int(rxlev)
	n.next = (n.next + 1) % RLACNumSamples
	n.LastEvent = now
}

// RLAC returns the current received-level average, or 0 if no samples
// have been taken yet.
func (n *Neighbour) RLAC() int8 {
	if n.rxlevCount == 0 {
		return 0
	}
	return int8(n.rxlevSum / n.rxlevCount)
}

// NeedsReread reports whether this neighbour is due a re-sync: either it
// was never synced (state NEW), it failed and TryAgain has elapsed, or it
// last succeeded and ReadAgain has elapsed (spec.md §4.2).
func (n *Neighbour) NeedsReread(now time.Time) bool {
	switch n.State {
	case NeighNew:
		return true
	case NeighNoSync, NeighNoBCCH:
		return now.Sub(n.LastEvent) >= TryAgain
	case NeighSysinfo, NeighRLAC:
		return now.Sub(n.LastEvent) >= ReadAgain
	default:
		return false
	}
}

// ReselEligible applies the GSM58_RESEL_THRESHOLD debounce: a reselection
// trigger must hold for ReselThreshold before it is actioned.
func (n *Neighbour) ReselEligible(now time.Time) bool {
	if n.lastResel.IsZero() {
		return false
	}
	return now.Sub(n.lastResel) >= ReselThreshold
}

// MarkReselCandidate records the first moment the neighbour started
// beating the serving cell's C2, starting the debounce window.
func (n *Neighbour) MarkReselCandidate(now time.Time) {
	if n.lastResel.IsZero() {
		n.lastResel = now
	}
}

// ClearReselCandidate resets the debounce window, e.g. when the
// neighbour stops beating the serving cell.
func (n *Neighbour) ClearReselCandidate() {
	n.lastResel = time.Time{}
}
