// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

import (
	"math/rand"
	"testing"
)

func TestHistoryMatchesAndEviction(t *testing.T) {
	var h History
	if h.Matches(0x01) {
		t.Fatal("empty history should not match anything")
	}
	h.Push(0x01)
	h.Push(0x02)
	h.Push(0x03)
	if !h.Matches(0x01) || !h.Matches(0x02) || !h.Matches(0x03) {
		t.Fatal("all 3 pushed values should match")
	}
	h.Push(0x04)
	if h.Matches(0x01) {
		t.Fatal("oldest entry should have been evicted")
	}
	if !h.Matches(0x04) {
		t.Fatal("newest entry should match")
	}
}

func TestBuildChanReqMasksCause(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	b := BuildChanReq(CauseEmergencyCall, 0xE0, r)
	if b&0xE0 != byte(CauseEmergencyCall) {
		t.Fatalf("top bits of %#x don't carry the cause %#x", b, CauseEmergencyCall)
	}
}

func TestSlotDelayValueGroups(t *testing.T) {
	cases := []struct {
		tx       int
		combined bool
		want     int
	}{
		// {3,8,14,50} -> 55/41
		{3, false, 55}, {8, false, 55}, {14, false, 55}, {50, false, 55},
		{3, true, 41}, {50, true, 41},
		// {4,9,16} -> 76/52
		{4, false, 76}, {9, false, 76}, {16, false, 76},
		{16, true, 52},
		// {5,10,20} -> 109/58
		{5, false, 109}, {10, false, 109}, {20, false, 109},
		{20, true, 58},
		// {6,11,25} -> 163/86
		{6, false, 163}, {11, false, 163}, {25, false, 163},
		{25, true, 86},
		// default -> 217/115
		{7, false, 217}, {12, false, 217}, {32, false, 217},
		{7, true, 115}, {32, true, 115},
	}
	for _, c := range cases {
		got, ok := SlotDelay(c.tx, c.combined)
		if !ok {
			t.Fatalf("SlotDelay(%d,%v): not ok", c.tx, c.combined)
		}
		if got != c.want {
			t.Fatalf("SlotDelay(%d,%v) = %d, want %d", c.tx, c.combined, got, c.want)
		}
	}
}

func TestSlotDelayOutOfRange(t *testing.T) {
	if _, ok := SlotDelay(-1, false); ok {
		t.Fatal("negative tx_integer is out of range")
	}
}

func TestRandomDelayBounds(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		d := RandomDelay(10, r)
		if d < 0 || d >= 10 {
			t.Fatalf("RandomDelay out of range: %d", d)
		}
	}
	if RandomDelay(0, r) != 0 {
		t.Fatal("zero slots should yield zero delay")
	}
}

func TestRetransBudget(t *testing.T) {
	if RetransBudget(3) != 4 {
		t.Fatalf("RetransBudget(3) = %d, want 4", RetransBudget(3))
	}
}
