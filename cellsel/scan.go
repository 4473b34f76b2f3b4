// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cellsel

import (
	"sort"

	"github.com/rob-gra/gsmcore/freqtable"
	"github.com/rob-gra/gsmcore/l1prim"
)

// NSyncScan and NSyncServing are the sync-retry budgets spec.md §4.2
// defines: "retry up to N_SYNC (1 for scan, 2 for serving)".
const (
	NSyncScan    = 1
	NSyncServing = 2
)

// ScanBatch is one contiguous block of same-band ARFCNs to power-scan
// together (spec.md §4.2 "Power-scan batches").
type ScanBatch struct {
	Arfcns []l1prim.Arfcn
}

// bandKey groups ARFCNs for the per-band scan cap; this core reuses
// l1prim.BandOf rather than inventing a second banding scheme.
type bandKey = l1prim.Band

// BuildScanBatches groups the frequency table's candidate ARFCNs
// (matching the SUPPORT flag, and BA membership when baOnly is set) into
// contiguous per-band blocks, honouring maxPerBand unless
// skipMaxPerBand is set (spec.md §4.2).
func BuildScanBatches(t *freqtable.Table, baOnly bool, maxPerBand int, skipMaxPerBand bool) []ScanBatch {
	var candidates []l1prim.Arfcn
	t.Range(baOnly, func(a l1prim.Arfcn, e *freqtable.Entry) {
		candidates = append(candidates, a)
	})
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	counted := map[bandKey]int{}
	kept := candidates[:0:0]
	for _, a := range candidates {
		band := l1prim.BandOf(a)
		if !skipMaxPerBand && maxPerBand > 0 {
			if counted[band] >= maxPerBand {
				continue
			}
			counted[band]++
		}
		kept = append(kept, a)
	}

	var batches []ScanBatch
	var cur []l1prim.Arfcn
	for i, a := range kept {
		if i == 0 || (a == kept[i-1]+1 && l1prim.BandOf(a) == l1prim.BandOf(kept[i-1])) {
			cur = append(cur, a)
			continue
		}
		batches = append(batches, ScanBatch{Arfcns: cur})
		cur = []l1prim.Arfcn{a}
	}
	if len(cur) > 0 {
		batches = append(batches, ScanBatch{Arfcns: cur})
	}
	return batches
}

// SyncOrder sorts scanned candidates by (rxlev desc, arfcn asc) for
// synchronisation attempts, per spec.md §4.2 "ordered by (rxlev, ARFCN)".
func SyncOrder(candidates []l1prim.Arfcn, t *freqtable.Table) []l1prim.Arfcn {
	out := append([]l1prim.Arfcn(nil), candidates...)
	sort.Slice(out, func(i, j int) bool {
		ei, _ := t.At(out[i])
		ej, _ := t.At(out[j])
		if ei.RxLev != ej.RxLev {
			return ei.RxLev > ej.RxLev
		}
		return out[i] < out[j]
	})
	return out
}

// SyncAttempt tracks retry state for one ARFCN's sync-and-read procedure
// (spec.md §4.2 "Sync-and-read").
type SyncAttempt struct {
	Arfcn    l1prim.Arfcn
	Attempts int
	Serving  bool // true widens the retry budget to NSyncServing
}

// Budget returns the maximum attempts allowed for this sync target.
func (s *SyncAttempt) Budget() int {
	if s.Serving {
		return NSyncServing
	}
	return NSyncScan
}

// Exhausted reports whether the retry budget has been spent.
func (s *SyncAttempt) Exhausted() bool { return s.Attempts >= s.Budget() }
