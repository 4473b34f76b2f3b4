// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package plmnsel

import (
	"testing"

	"github.com/rob-gra/gsmcore/subscr"
)

func TestBuildSortedListOrdering(t *testing.T) {
	SeedRandom(42)
	sub := subscr.New()
	sub.HPLMN = [2]uint16{1, 1}
	sub.Selector = []subscr.PLMNSelectorEntry{
		{MCC: 3, MNC: 3},
		{MCC: 4, MNC: 4},
	}

	hits := []ScanHit{
		{MCC: 5, MNC: 5, RxLev: -95}, // rest, weaker
		{MCC: 6, MNC: 6, RxLev: -90}, // rest, stronger
		{MCC: 4, MNC: 4, RxLev: -70}, // selector, second in list
		{MCC: 3, MNC: 3, RxLev: -70}, // selector, first in list
		{MCC: 1, MNC: 1, RxLev: -90}, // HPLMN
	}

	got := BuildSortedList(hits, sub, &ForbiddenLists{})
	if len(got) != 5 {
		t.Fatalf("got %d entries, want 5", len(got))
	}
	if got[0].MCC != 1 || got[0].MNC != 1 {
		t.Fatalf("entry 0 = %+v, want HPLMN (1,1) first", got[0])
	}
	if got[1].MCC != 3 || got[1].MNC != 3 {
		t.Fatalf("entry 1 = %+v, want selector entry (3,3) preserving SIM order", got[1])
	}
	if got[2].MCC != 4 || got[2].MNC != 4 {
		t.Fatalf("entry 2 = %+v, want selector entry (4,4) second", got[2])
	}
	// entries 3,4 are the "rest" bucket sorted descending rxlev: (6,6)=-90 then (5,5)=-95.
	if got[3].MCC != 6 || got[3].MNC != 6 {
		t.Fatalf("entry 3 = %+v, want (6,6) (stronger rest entry first)", got[3])
	}
	if got[4].MCC != 5 || got[4].MNC != 5 {
		t.Fatalf("entry 4 = %+v, want (5,5) (weaker rest entry last)", got[4])
	}
}

func TestBuildSortedListStrongBucketShuffled(t *testing.T) {
	sub := subscr.New()
	hits := []ScanHit{
		{MCC: 7, MNC: 7, RxLev: -80},
		{MCC: 8, MNC: 8, RxLev: -81},
	}
	got := BuildSortedList(hits, sub, &ForbiddenLists{})
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	seen := map[[2]uint16]bool{}
	for _, e := range got {
		seen[[2]uint16{e.MCC, e.MNC}] = true
	}
	if !seen[[2]uint16{7, 7}] || !seen[[2]uint16{8, 8}] {
		t.Fatal("both strong entries should be present regardless of shuffle order")
	}
}

func TestBuildSortedListForbiddenCause(t *testing.T) {
	sub := subscr.New()
	hits := []ScanHit{{MCC: 9, MNC: 9, RxLev: -60}}
	forb := &ForbiddenLists{}
	forb.AddForbiddenPLMN(9, 9)
	got := BuildSortedList(hits, sub, forb)
	if len(got) != 1 || got[0].Cause != CauseForbiddenPLMN {
		t.Fatalf("got %+v, want forbidden-PLMN cause", got)
	}
}

func TestForbiddenListsDedup(t *testing.T) {
	f := &ForbiddenLists{}
	f.AddForbiddenPLMN(1, 1)
	f.AddForbiddenPLMN(1, 1)
	if len(f.PLMN) != 1 {
		t.Fatalf("AddForbiddenPLMN should dedup, got %d entries", len(f.PLMN))
	}
	if !f.IsForbiddenPLMN(1, 1) || f.IsForbiddenPLMN(2, 2) {
		t.Fatal("IsForbiddenPLMN mismatch")
	}

	f.AddForbiddenLA(1, 1, 10)
	f.AddForbiddenLA(1, 1, 10)
	if len(f.LA) != 1 {
		t.Fatalf("AddForbiddenLA should dedup, got %d entries", len(f.LA))
	}
	if !f.IsForbiddenLA(1, 1, 10) || f.IsForbiddenLA(1, 1, 11) {
		t.Fatal("IsForbiddenLA mismatch")
	}
}
