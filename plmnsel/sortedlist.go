// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package plmnsel

import (
	"math/rand"

	"github.com/rob-gra/gsmcore/subscr"
)

// Cause annotates a sorted-PLMN entry with why it is (or isn't)
// forbidden (spec.md §4.3 step 6).
type Cause uint8

const (
	CauseNone Cause = iota
	CauseForbiddenPLMN
	CauseForbiddenLA
)

// ScanHit is one (MCC,MNC,rxlev) observation collected from ARFCNs with
// TEMP_AA set (spec.md §4.3 step 1).
type ScanHit struct {
	MCC, MNC uint16
	RxLev    int8
}

// SortedEntry is one row of the constructed sorted-PLMN list.
type SortedEntry struct {
	MCC, MNC uint16
	RxLev    int8
	Cause    Cause
}

// ForbiddenPLMNEntry is one row of the linear forbidden-PLMN list.
type ForbiddenPLMNEntry struct {
	MCC, MNC uint16
}

// ForbiddenLAEntry is one row of the linear forbidden-LA list, keyed by
// (MCC, MNC, LAC) (spec.md §4.3).
type ForbiddenLAEntry struct {
	MCC, MNC, LAC uint16
}

// ForbiddenLists holds the two linear forbidden lists.
type ForbiddenLists struct {
	PLMN []ForbiddenPLMNEntry
	LA   []ForbiddenLAEntry
}

// IsForbiddenPLMN reports whether (mcc,mnc) is in the forbidden-PLMN
// list.
func (f *ForbiddenLists) IsForbiddenPLMN(mcc, mnc uint16) bool {
	for _, e := range f.PLMN {
		if e.MCC == mcc && e.MNC == mnc {
			return true
		}
	}
	return false
}

// AddForbiddenPLMN appends (mcc,mnc) if not already present.
func (f *ForbiddenLists) AddForbiddenPLMN(mcc, mnc uint16) {
	if f.IsForbiddenPLMN(mcc, mnc) {
		return
	}
	f.PLMN = append(f.PLMN, ForbiddenPLMNEntry{mcc, mnc})
}

// IsForbiddenLA reports whether (mcc,mnc,lac) is in the forbidden-LA
// list.
func (f *ForbiddenLists) IsForbiddenLA(mcc, mnc, lac uint16) bool {
	for _, e := range f.LA {
		if e.MCC == mcc && e.MNC == mnc && e.LAC == lac {
			return true
		}
	}
	return false
}

// AddForbiddenLA appends (mcc,mnc,lac) if not already present.
func (f *ForbiddenLists) AddForbiddenLA(mcc, mnc, lac uint16) {
	if f.IsForbiddenLA(mcc, mnc, lac) {
		return
	}
	f.LA = append(f.LA, ForbiddenLAEntry{mcc, mnc, lac})
}

// randSource is package-level so tests can substitute a deterministic
// source for the step-4 random ordering.
var randSource = rand.New(rand.NewSource(1))

// SeedRandom reseeds the random source used for step 4's random
// ordering. Exposed for deterministic tests; production callers should
// seed once at startup with a time-derived value obtained outside this
// package (the workflow instructions forbid using time.Now() inside
// pure logic paths that must stay testable).
func SeedRandom(seed int64) { randSource = rand.New(rand.NewSource(seed)) }

// strongRxLevThreshold is the §4.3 step-4 cutoff: PLMNs heard above
// this level are shuffled rather than sorted.
const strongRxLevThreshold = -85

// BuildSortedList constructs the sorted-PLMN list from scan hits, the
// subscriber's HPLMN and SIM selector list, and the forbidden lists, per
// spec.md §4.3's 6-step algorithm.
//
// isSelector scans the full selector list on every lookup rather than
// breaking out early on the first non-matching entry, since the
// corresponding original loop exits on its first iteration regardless of
// match; the canonical behaviour only stops scanning once a match is
// actually found.
func BuildSortedList(hits []ScanHit, sub *subscr.Subscriber, forb *ForbiddenLists) []SortedEntry {
	// Step 1: one entry per distinct PLMN, rxlev = the max heard across
	// its ARFCNs.
	type key struct{ mcc, mnc uint16 }
	best := map[key]int8{}
	var order []key
	for _, h := range hits {
		k := key{h.MCC, h.MNC}
		if v, ok := best[k]; !ok || h.RxLev > v {
			if _, seen := best[k]; !seen {
				order = append(order, k)
			}
			best[k] = h.RxLev
		}
	}

	hplmnMCC, hplmnMNC := sub.HPLMN[0], sub.HPLMN[1]

	var hplmn []key
	var selector []key
	var strong []key
	var rest []key

	isSelector := func(k key) (int, bool) {
		for i, s := range sub.Selector {
			if s.MCC == k.mcc && s.MNC == k.mnc {
				return i, true
			}
		}
		return 0, false
	}

	for _, k := range order {
		switch {
		case k.mcc == hplmnMCC && k.mnc == hplmnMNC:
			hplmn = append(hplmn, k)
		default:
			if _, ok := isSelector(k); ok {
				selector = append(selector, k)
			} else if int(best[k]) > strongRxLevThreshold {
				strong = append(strong, k)
			} else {
				rest = append(rest, k)
			}
		}
	}

	// Step 3: selector entries preserve SIM selector order, not scan
	// order.
	selSortIdx := func(k key) int {
		i, _ := isSelector(k)
		return i
	}
	for i := 0; i < len(selector); i++ {
		for j := i + 1; j < len(selector); j++ {
			if selSortIdx(selector[j]) < selSortIdx(selector[i]) {
				selector[i], selector[j] = selector[j], selector[i]
			}
		}
	}

	// Step 4: random order among the strong entries.
	randSource.Shuffle(len(strong), func(i, j int) { strong[i], strong[j] = strong[j], strong[i] })

	// Step 5: descending rxlev for the remainder.
	for i := 0; i < len(rest); i++ {
		for j := i + 1; j < len(rest); j++ {
			if best[rest[j]] > best[rest[i]] {
				rest[i], rest[j] = rest[j], rest[i]
			}
		}
	}

	var merged []key
	merged = append(merged, hplmn...)
	merged = append(merged, selector...)
	merged = append(merged, strong...)
	merged = append(merged, rest...)

	// Step 6: annotate with forbidden cause.
	out := make([]SortedEntry, 0, len(merged))
	for _, k := range merged {
		e := SortedEntry{MCC: k.mcc, MNC: k.mnc, RxLev: best[k]}
		if forb.IsForbiddenPLMN(k.mcc, k.mnc) {
			e.Cause = CauseForbiddenPLMN
		}
		out = append(out, e)
	}
	return out
}
