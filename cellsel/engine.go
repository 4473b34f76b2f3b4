// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cellsel

import (
	"time"

	"github.com/rob-gra/gsmcore/clog"
	"github.com/rob-gra/gsmcore/freqtable"
	"github.com/rob-gra/gsmcore/l1prim"
	"github.com/rob-gra/gsmcore/sysinfo"
)

var log = clog.NewLogger("cellsel")

// Config carries the tunables spec.md §4.2 names for the selection
// engine: the scan-limiting knobs, emergency mode and the MS power class.
type Config struct {
	MaxScanPerBand int
	SkipMaxPerBand bool
	Emergency      bool
	P              int8 // MS class max output power for the serving band
}

// Engine drives one MS's cell-selection/reselection state machine. It
// owns the frequency table and the set of currently-monitored
// neighbours, and reacts to L1 primitives and CS-internal events.
type Engine struct {
	Cfg   Config
	Table *freqtable.Table
	BA    *freqtable.BAList

	State State

	neighbours map[l1prim.Arfcn]*freqtable.Neighbour
	pending    map[l1prim.Arfcn]*SyncAttempt

	batches    []ScanBatch
	batchIndex int

	servingC2 int
}

// NewEngine builds an idle engine over the given frequency table.
func NewEngine(cfg Config, t *freqtable.Table, ba *freqtable.BAList) *Engine {
	return &Engine{
		Cfg:        cfg,
		Table:      t,
		BA:         ba,
		State:      C0Null,
		neighbours: make(map[l1prim.Arfcn]*freqtable.Neighbour),
		pending:    make(map[l1prim.Arfcn]*SyncAttempt),
	}
}

// StartNormalSelection begins the stored/normal cell-selection procedure
// (spec.md §4.2 states C1_NORMAL_SEL / C2_STORED_SEL). If the BA list has
// entries for the current PLMN it prefers those; otherwise it falls back
// to a full-band power scan.
func (e *Engine) StartNormalSelection(mcc, mnc uint16) []l1prim.Arfcn {
	if e.BA != nil {
		if entry := e.BA.Entry(mcc, mnc); entry != nil {
			var stored []l1prim.Arfcn
			e.Table.Range(false, func(a l1prim.Arfcn, ent *freqtable.Entry) {
				if entry.Has(a) {
					stored = append(stored, a)
				}
			})
			if len(stored) > 0 {
				e.State = C2StoredSel
				e.batches = []ScanBatch{{Arfcns: stored}}
				e.batchIndex = 0
				return stored
			}
		}
	}
	e.State = C1NormalSel
	e.batches = BuildScanBatches(e.Table, false, e.Cfg.MaxScanPerBand, e.Cfg.SkipMaxPerBand)
	e.batchIndex = 0
	return e.flattenBatches()
}

// StartAnySelection begins the "choose any cell" procedure (states
// C5_CHOOSE_CELL / C6_ANY_CELL_SEL), scanning every supported ARFCN with
// no BA preference.
func (e *Engine) StartAnySelection() []l1prim.Arfcn {
	e.State = C6AnyCellSel
	e.batches = BuildScanBatches(e.Table, false, e.Cfg.MaxScanPerBand, e.Cfg.SkipMaxPerBand)
	e.batchIndex = 0
	return e.flattenBatches()
}

func (e *Engine) flattenBatches() []l1prim.Arfcn {
	var all []l1prim.Arfcn
	for _, b := range e.batches {
		all = append(all, b.Arfcns...)
	}
	return all
}

// RecordPowerMeasurement stores one PM_RES sample into the frequency
// table, gating on the Support flag (spec.md §4.2).
func (e *Engine) RecordPowerMeasurement(a l1prim.Arfcn, rxlev int8) {
	ent, ok := e.Table.At(a)
	if !ok || !ent.Support {
		return
	}
	ent.RxLev = rxlev
	ent.PowerMeasured = true
}

// SelectCandidate picks the strongest Suitable-eligible ARFCN out of the
// completed power scan, per spec.md §4.2's selection algorithm: order by
// RxLev descending, accept the first whose C1 passes. Returns ok=false
// when nothing qualifies (NO_CELL_FOUND).
func (e *Engine) SelectCandidate(rxLevAccMin, msTxPwrMaxCCH int8) (l1prim.Arfcn, bool) {
	var candidates []l1prim.Arfcn
	e.Table.Range(false, func(a l1prim.Arfcn, ent *freqtable.Entry) {
		if ent.PowerMeasured {
			candidates = append(candidates, a)
		}
	})
	ordered := SyncOrder(candidates, e.Table)
	for _, a := range ordered {
		ent, _ := e.Table.At(a)
		c1 := C1(C1Params{
			RLAC:          ent.RxLev,
			RxLevAccMin:   rxLevAccMin,
			MSTxPwrMaxCCH: msTxPwrMaxCCH,
			P:             e.Cfg.P,
		})
		if Suitable(c1, ent.Barred, ent.ForbiddenLA) {
			return a, true
		}
	}
	return 0, false
}

// BeginSync starts (or restarts) the sync-and-read procedure against a,
// recording whether this is the serving cell to pick the retry budget.
func (e *Engine) BeginSync(a l1prim.Arfcn, serving bool) *SyncAttempt {
	sa, ok := e.pending[a]
	if !ok {
		sa = &SyncAttempt{Arfcn: a, Serving: serving}
		e.pending[a] = sa
	}
	sa.Attempts++
	return sa
}

// SyncFailed reports a failed FBSB attempt, returning whether retries
// remain (spec.md §4.2 "retry up to N_SYNC").
func (e *Engine) SyncFailed(a l1prim.Arfcn) (retry bool) {
	sa, ok := e.pending[a]
	if !ok {
		return false
	}
	if sa.Exhausted() {
		delete(e.pending, a)
		if ent, ok := e.Table.At(a); ok {
			ent.PowerMeasured = false
		}
		return false
	}
	return true
}

// SyncSucceeded clears retry bookkeeping for a and marks the table entry
// synced.
func (e *Engine) SyncSucceeded(a l1prim.Arfcn) {
	delete(e.pending, a)
	if ent, ok := e.Table.At(a); ok {
		ent.AboveMin = true
	}
}

// ApplySysInfo merges a decoded SI block into the table entry for a,
// tracking the neighbour ARFCNs SI2*/SI5* reveal so they can be added to
// the monitored set.
func (e *Engine) ApplySysInfo(a l1prim.Arfcn, si *sysinfo.SysInfo, now time.Time) {
	ent, ok := e.Table.At(a)
	if !ok {
		return
	}
	ent.SysInfo = si
	ent.SysInfoReceived = true
	for _, n := range si.NeighbourARFCNs {
		e.TrackNeighbour(n, now)
	}
}

// TrackNeighbour starts (or returns the existing) monitoring record for
// a neighbour ARFCN, bounded at freqtable.MaxMonitored entries — spec.md
// §3 "up to 6 monitored at a time". The newest survivors win; this core
// evicts the oldest-created entry rather than silently ignoring new
// neighbours, since SI-advertised neighbour lists can legitimately churn
// across a cell reselection.
func (e *Engine) TrackNeighbour(a l1prim.Arfcn, now time.Time) *freqtable.Neighbour {
	if n, ok := e.neighbours[a]; ok {
		return n
	}
	if len(e.neighbours) >= freqtable.MaxMonitored {
		var oldestArfcn l1prim.Arfcn
		var oldestTime time.Time
		first := true
		for na, n := range e.neighbours {
			if first || n.Created.Before(oldestTime) {
				oldestArfcn, oldestTime, first = na, n.Created, false
			}
		}
		delete(e.neighbours, oldestArfcn)
	}
	n := freqtable.NewNeighbour(a, now)
	e.neighbours[a] = n
	return n
}

// Neighbours returns the currently-monitored neighbour set.
func (e *Engine) Neighbours() map[l1prim.Arfcn]*freqtable.Neighbour { return e.neighbours }

// EvaluateReselection computes whether any monitored, eligible neighbour
// should trigger a reselection away from the serving cell, applying the
// GSM58_RESEL_THRESHOLD debounce (spec.md §4.2, §8 scenario S4). It
// returns the winning ARFCN, or ok=false if none currently qualifies.
func (e *Engine) EvaluateReselection(hysteresisDB int, sameLAI bool, now time.Time) (l1prim.Arfcn, bool) {
	crh := CRH(hysteresisDB, sameLAI, e.Cfg.Emergency)

	var bestArfcn l1prim.Arfcn
	bestC2 := C2NegInf
	found := false
	for a, n := range e.neighbours {
		if n.State != freqtable.NeighRLAC && n.State != freqtable.NeighSysinfo {
			continue
		}
		c2 := int(n.C2)
		if !ReselectionTriggered(c2, crh, e.servingC2) {
			n.ClearReselCandidate()
			continue
		}
		n.MarkReselCandidate(now)
		if !n.ReselEligible(now) {
			continue
		}
		if !found || c2 > bestC2 {
			bestArfcn, bestC2, found = a, c2, true
		}
	}
	return bestArfcn, found
}

// SetServingC2 records the serving cell's current C2 value, the
// comparison baseline EvaluateReselection uses.
func (e *Engine) SetServingC2(c2 int) { e.servingC2 = c2 }

// HandleLossOfCCCH applies spec.md §4.2's camped-cell CCCH-loss rule:
// drop back out of the camped state into reselection so the MS can
// choose a fresh serving cell.
func (e *Engine) HandleLossOfCCCH() {
	if !e.State.Camped() {
		return
	}
	e.Table.ClearSelected()
	if e.State.CampedNormally() {
		e.State = C4NormalResel
	} else {
		e.State = C8AnyResel
	}
	log.Debug("cellsel: loss of CCCH, re-entering %s", e.State)
}

// CampOn pins a as the selected cell, moving into the matching camped
// state.
func (e *Engine) CampOn(a l1prim.Arfcn, normal bool) {
	e.Table.SetSelected(a)
	if normal {
		e.State = C3CampedNormally
	} else {
		e.State = C7CampedAny
	}
}
