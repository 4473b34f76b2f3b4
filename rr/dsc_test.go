// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

import "testing"

func TestDSCSaturatesAndTriggersLossOfCoverage(t *testing.T) {
	d := NewDSC(4)
	if d.Value() != 4 {
		t.Fatalf("Value() = %d, want 4", d.Value())
	}
	d.GoodBlock()
	if d.Value() != 4 {
		t.Fatal("GoodBlock should not exceed max")
	}

	var loss bool
	for i := 0; i < 3; i++ {
		loss = d.BadBlock()
	}
	if loss {
		t.Fatal("should not signal loss of coverage before reaching zero")
	}
	if d.Value() != 1 {
		t.Fatalf("Value() = %d, want 1 after 3 bad blocks from 4", d.Value())
	}
	if !d.BadBlock() {
		t.Fatal("reaching zero should signal loss of coverage")
	}
	if d.Value() != 0 {
		t.Fatalf("Value() = %d, want 0", d.Value())
	}

	d.GoodBlock()
	if d.Value() != 1 {
		t.Fatalf("Value() = %d, want 1 after recovering", d.Value())
	}
}
