// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package freqtable

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/rob-gra/gsmcore/l1prim"
)

// baBitmapBytes is the 1024-bit primary range plus the 38-octet (304-bit)
// PCS extension, 128+38 = 166 octets total (spec.md §3, §6).
const (
	baPrimaryBytes = 128
	baPCSBytes     = 38
	baBitmapBytes  = baPrimaryBytes + baPCSBytes
)

// baFileVersion is the optional textual header spec.md §6 defines; an
// absent header still loads (loading is best-effort), a present-but-wrong
// header discards the file.
const baFileVersion = "osmocom BA V1\n"

// BAEntry is one PLMN's known BCCH allocation — the ARFCNs it is known to
// use in a region (spec.md §3, §6).
type BAEntry struct {
	MCC, MNC uint16
	Bitmap   [baBitmapBytes]byte
}

// Has reports whether arfcn is a known member of this BA entry's
// allocation.
func (e *BAEntry) Has(a l1prim.Arfcn) bool {
	bit, byteIdx, ok := baBitPosition(a)
	if !ok {
		return false
	}
	return e.Bitmap[byteIdx]&(1<<bit) != 0
}

// Set marks arfcn as a known member of this BA entry's allocation.
func (e *BAEntry) Set(a l1prim.Arfcn) {
	bit, byteIdx, ok := baBitPosition(a)
	if !ok {
		return
	}
	e.Bitmap[byteIdx] |= 1 << bit
}

// baBitPosition maps an ARFCN to (bit, byte) within the 166-byte bitmap.
// "Bit n in byte ⌊n/8⌋ position n & 7 encodes ARFCN n (indices 1024-1322
// encode PCS band 512-810)" — spec.md §6.
func baBitPosition(a l1prim.Arfcn) (bit uint, byteIdx int, ok bool) {
	idx, ok := IndexOf(a)
	if !ok {
		return 0, 0, false
	}
	return uint(idx & 7), idx / 8, true
}

// BAList is the in-memory collection of learned BA entries, one per PLMN,
// with a dirty flag for the incremental-flush policy original_source/
// uses (SPEC_FULL.md "BA-list learning persistence cadence").
type BAList struct {
	entries map[[2]uint16]*BAEntry
	dirty   bool
}

// NewBAList returns an empty BA list.
func NewBAList() *BAList {
	return &BAList{entries: make(map[[2]uint16]*BAEntry)}
}

// Entry returns (creating if absent) the BA entry for a PLMN.
func (l *BAList) Entry(mcc, mnc uint16) *BAEntry {
	key := [2]uint16{mcc, mnc}
	e, ok := l.entries[key]
	if !ok {
		e = &BAEntry{MCC: mcc, MNC: mnc}
		l.entries[key] = e
	}
	return e
}

// Learn records a newly-learned ARFCN for a PLMN's allocation and marks
// the list dirty.
func (l *BAList) Learn(mcc, mnc uint16, a l1prim.Arfcn) {
	l.Entry(mcc, mnc).Set(a)
	l.dirty = true
}

// Entries returns every known BA entry, keyed by (MCC, MNC).
func (l *BAList) Entries() map[[2]uint16]*BAEntry { return l.entries }

// MarkDirty flags the list as having unsaved changes.
func (l *BAList) MarkDirty() { l.dirty = true }

// Dirty reports whether the list has unsaved changes.
func (l *BAList) Dirty() bool { return l.dirty }

// Save writes the BA list using the §6 wire format: optional version
// header, then repeated (MCC be16, MNC be16, 166-byte bitmap) records.
func (l *BAList) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(baFileVersion); err != nil {
		return err
	}
	for _, e := range l.entries {
		var hdr [4]byte
		binary.BigEndian.PutUint16(hdr[0:2], e.MCC)
		binary.BigEndian.PutUint16(hdr[2:4], e.MNC)
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := w.Write(e.Bitmap[:]); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	l.dirty = false
	return nil
}

// FlushIfDirty saves only when there are unsaved changes — the
// incremental-flush behaviour supplemented from original_source/ (see
// SPEC_FULL.md); spec.md's own minimum is read-once/write-on-exit, which
// callers still get by invoking this unconditionally at shutdown.
func (l *BAList) FlushIfDirty(path string) error {
	if !l.dirty {
		return nil
	}
	return l.Save(path)
}

// LoadBAList reads a BA-list file per the §6 wire format. A present but
// mismatched version header discards the file (returns an empty list, no
// error) per spec.md §6; a missing header is tolerated (older files had
// none).
func LoadBAList(path string) (*BAList, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewBAList(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header, err := r.Peek(len(baFileVersion))
	if err == nil && string(header) == baFileVersion {
		if _, err := r.Discard(len(baFileVersion)); err != nil {
			return nil, err
		}
	} else if err == nil {
		// Present header-length prefix that doesn't match: by spec.md
		// §6 this is a version mismatch, discard the whole file.
		if looksLikeHeader(header) {
			return NewBAList(), nil
		}
	}

	list := NewBAList()
	for {
		var hdr [4]byte
		n, err := io.ReadFull(r, hdr[:])
		if err == io.EOF || (err == io.ErrUnexpectedEOF && n == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("freqtable: BA list read: %w", err)
		}
		var bitmap [baBitmapBytes]byte
		if _, err := io.ReadFull(r, bitmap[:]); err != nil {
			return nil, fmt.Errorf("freqtable: BA list read: %w", err)
		}
		mcc := binary.BigEndian.Uint16(hdr[0:2])
		mnc := binary.BigEndian.Uint16(hdr[2:4])
		e := list.Entry(mcc, mnc)
		e.Bitmap = bitmap
	}
	list.dirty = false
	return list, nil
}

// looksLikeHeader is a conservative heuristic: the version string is ASCII
// text ending in a newline, a 4-byte MCC/MNC record never is.
func looksLikeHeader(b []byte) bool {
	if len(b) == 0 || b[len(b)-1] != '\n' {
		return false
	}
	for _, c := range b[:len(b)-1] {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
