// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package freqtable implements the §3 frequency-table entry (1324 rows
// covering ARFCN 0-1023 plus the PCS-mapped 1024-1322 range), the BA-list
// type and its §6 file codec, and the neighbour-cell monitoring record.
package freqtable

import (
	"github.com/rob-gra/gsmcore/l1prim"
	"github.com/rob-gra/gsmcore/sysinfo"
)

// NumEntries is the frequency table's fixed size (spec.md §3: "one of
// 1324; indices 0-1023 map to ARFCN 0-1023, 1024-1322 map to PCS band
// 512-810").
const NumEntries = 1324

// TypeBit is the per-entry bitmask of which decoded SI source contributed
// this ARFCN, set by the sysinfo decoder (spec.md §4.1).
type TypeBit uint16

const (
	TypeServing TypeBit = 1 << iota
	TypeNCell
	TypeNCell2
	TypeNCell2bis
	TypeNCell2ter
	TypeRep5
	TypeRep5bis
	TypeRep5ter
	TypeHopping
)

// Entry is one frequency-table row. See spec.md §3.
type Entry struct {
	Support        bool // this MS class supports the ARFCN's band
	PowerMeasured  bool
	AboveMin       bool // signal-above-min flag
	SysInfoReceived bool
	BAMember       bool
	Barred         bool
	ForbiddenLA    bool
	TempAA         bool // temporary available-and-allowable
	RxLev          int8
	Types          TypeBit
	SysInfo        *sysinfo.SysInfo // owned pointer, nil unless synced
}

// Table is the fixed-size frequency table. Index i maps to ARFCN i for
// i<1024, and to PCS ARFCN 512+(i-1024) for i>=1024; in both cases the
// row index equals the l1prim.Arfcn value (l1prim numbers PCS channels
// 1024..1322).
type Table struct {
	entries  [NumEntries]Entry
	selected *l1prim.Arfcn
}

// New returns a Table with every ARFCN flagged unsupported; the caller
// marks supported bands via SetSupport.
func New() *Table { return &Table{} }

// IndexOf maps an ARFCN to its table row, per the index convention above.
func IndexOf(a l1prim.Arfcn) (int, bool) {
	if a > l1prim.ArfcnPCSMax {
		return 0, false
	}
	return int(a), true
}

// ArfcnOf is the inverse of IndexOf.
func ArfcnOf(idx int) l1prim.Arfcn {
	return l1prim.Arfcn(idx)
}

// At returns the entry for an ARFCN, and whether the ARFCN is addressable.
func (t *Table) At(a l1prim.Arfcn) (*Entry, bool) {
	idx, ok := IndexOf(a)
	if !ok {
		return nil, false
	}
	return &t.entries[idx], true
}

// SetSupport marks every ARFCN a support predicate approves, the step
// that runs once at MS-class configuration time.
func (t *Table) SetSupport(supported func(l1prim.Arfcn) bool) {
	for idx := range t.entries {
		a := ArfcnOf(idx)
		t.entries[idx].Support = supported(a)
	}
}

// ClearSysInfo frees a row's SysInfo record and its freshness/measurement
// flags, the "free on loss-of-signal or scan flush" lifecycle from
// spec.md §3.
func (t *Table) ClearSysInfo(a l1prim.Arfcn) {
	e, ok := t.At(a)
	if !ok {
		return
	}
	e.SysInfo = nil
	e.SysInfoReceived = false
	e.TempAA = false
}

// Range calls fn for every row whose Support flag (and, when baOnly is
// set, BAMember flag) is set — the "contiguous blocks of ARFCNs sharing
// the SUPPORT flag" selection spec.md §4.2 describes for power-scan
// batching.
func (t *Table) Range(baOnly bool, fn func(a l1prim.Arfcn, e *Entry)) {
	for idx := range t.entries {
		e := &t.entries[idx]
		if !e.Support {
			continue
		}
		if baOnly && !e.BAMember {
			continue
		}
		fn(ArfcnOf(idx), e)
	}
}

// SetSelected pins a is the single camped ARFCN, enforcing invariant (a)
// (spec.md §3/§8: "at most one ARFCN has selected=true at any time") by
// construction — there is only ever one selected field to set.
func (t *Table) SetSelected(a l1prim.Arfcn) {
	v := a
	t.selected = &v
}

// ClearSelected un-camps the table (e.g. on loss of coverage or power-down).
func (t *Table) ClearSelected() { t.selected = nil }

// Selected returns the camped ARFCN and true, or (0, false) if un-camped.
func (t *Table) Selected() (l1prim.Arfcn, bool) {
	if t.selected == nil {
		return 0, false
	}
	return *t.selected, true
}
