// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package freqtable

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBAListSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ba.dat")

	list := NewBAList()
	list.Learn(1, 1, 100)
	list.Learn(1, 1, 200)
	list.Learn(262, 1, 1024) // PCS-mapped ARFCN (PCS 512)

	if err := list.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if list.Dirty() {
		t.Fatal("Save should clear the dirty flag")
	}

	loaded, err := LoadBAList(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	e := loaded.Entry(1, 1)
	if !e.Has(100) || !e.Has(200) {
		t.Fatal("loaded entry missing learned ARFCNs")
	}
	if e.Has(300) {
		t.Fatal("loaded entry has a spurious ARFCN")
	}

	e2 := loaded.Entry(262, 1)
	if !e2.Has(1024) {
		t.Fatal("PCS-mapped ARFCN not preserved across save/load")
	}
}

func TestBAListLoadMissingFile(t *testing.T) {
	list, err := LoadBAList(filepath.Join(t.TempDir(), "missing.dat"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(list.Entries()) != 0 {
		t.Fatal("missing file should load an empty list")
	}
}

func TestBAListVersionMismatchDiscards(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ba.dat")
	if err := os.WriteFile(path, []byte("osmocom BA V2\nsome garbage"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	list, err := LoadBAList(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(list.Entries()) != 0 {
		t.Fatal("version-mismatched file should discard to an empty list")
	}
}

func TestFlushIfDirtyNoopWhenClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ba.dat")
	list := NewBAList()
	if err := list.FlushIfDirty(path); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("FlushIfDirty should not write when not dirty")
	}
}

func TestBABitPositionPCSMapping(t *testing.T) {
	e := &BAEntry{}
	e.Set(1112) // PCS 600
	if !e.Has(1112) {
		t.Fatal("PCS-band ARFCN 600 should round-trip through Set/Has")
	}
	if e.Has(1113) {
		t.Fatal("adjacent ARFCN must not alias")
	}
}
