// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cellsel

import (
	"testing"
	"time"
)

func TestC1Basic(t *testing.T) {
	c1 := C1(C1Params{RLAC: -80, RxLevAccMin: -100, MSTxPwrMaxCCH: 30, P: 30})
	if c1 != 20 {
		t.Fatalf("C1 = %d, want 20", c1)
	}
}

func TestC1PowerDeficitClampedAtZero(t *testing.T) {
	// P > MS_TXPWR_MAX_CCH: deficit must not go negative.
	c1 := C1(C1Params{RLAC: -80, RxLevAccMin: -100, MSTxPwrMaxCCH: 20, P: 30})
	if c1 != 20 {
		t.Fatalf("C1 = %d, want 20 (deficit clamped to 0)", c1)
	}
}

func TestSuitable(t *testing.T) {
	if !Suitable(0, false, false) {
		t.Fatal("C1=0 not barred should be suitable")
	}
	if Suitable(-1, false, false) {
		t.Fatal("negative C1 should not be suitable")
	}
	if Suitable(5, true, false) {
		t.Fatal("barred cell should not be suitable")
	}
	if Suitable(5, false, true) {
		t.Fatal("access-barred cell should not be suitable")
	}
}

func TestC2NoExtendedParams(t *testing.T) {
	c2 := C2(C2Params{C1: 12, ExtendedReselParams: false})
	if c2 != 12 {
		t.Fatalf("C2 = %d, want 12 (== C1)", c2)
	}
}

func TestC2PenaltyTimeDisabled(t *testing.T) {
	c2 := C2(C2Params{C1: 10, ExtendedReselParams: true, PenaltyTime: 31, CellReselectOffset: 4})
	if c2 != 2 {
		t.Fatalf("C2 = %d, want 2 (C1 - 2*offset)", c2)
	}
}

func TestC2ServingAlwaysBonused(t *testing.T) {
	c2 := C2(C2Params{
		C1: 10, ExtendedReselParams: true, CellReselectOffset: 4,
		IsServingOrLastServing: true, PenaltyTime: 5, Since: 0,
	})
	if c2 != 18 {
		t.Fatalf("C2 = %d, want 18", c2)
	}
}

func TestC2WithinPenaltyWindow(t *testing.T) {
	c2 := C2(C2Params{
		C1: 10, ExtendedReselParams: true, CellReselectOffset: 4,
		PenaltyTime: 2, TemporaryOffset: 3, Since: 10 * time.Second,
	})
	// window = (2+1)*20s = 60s, Since=10s is within window.
	// C1 + 2*4 - 3*10 = 10+8-30 = -12
	if c2 != -12 {
		t.Fatalf("C2 = %d, want -12", c2)
	}
}

func TestC2TemporaryOffsetInfinity(t *testing.T) {
	c2 := C2(C2Params{
		C1: 10, ExtendedReselParams: true, CellReselectOffset: 4,
		PenaltyTime: 2, TemporaryOffset: 7, Since: 5 * time.Second,
	})
	if c2 != C2NegInf {
		t.Fatalf("C2 = %d, want -inf", c2)
	}
}

func TestC2AfterPenaltyWindowElapsed(t *testing.T) {
	c2 := C2(C2Params{
		C1: 10, ExtendedReselParams: true, CellReselectOffset: 4,
		PenaltyTime: 0, TemporaryOffset: 7, Since: 30 * time.Second,
	})
	// window = (0+1)*20s = 20s, Since=30s elapsed; temp term dropped.
	if c2 != 18 {
		t.Fatalf("C2 = %d, want 18 (temp offset dropped after window)", c2)
	}
}

func TestCRH(t *testing.T) {
	if CRH(6, true, false) != 0 {
		t.Fatal("same LAI should zero CRH")
	}
	if CRH(6, false, true) != 0 {
		t.Fatal("emergency should zero CRH")
	}
	if CRH(6, false, false) != 6 {
		t.Fatal("otherwise CRH should equal hysteresis")
	}
}

func TestReselectionTriggered(t *testing.T) {
	if !ReselectionTriggered(20, 3, 15) {
		t.Fatal("20-3=17 > 15 should trigger")
	}
	if ReselectionTriggered(18, 3, 15) {
		t.Fatal("18-3=15, not > 15, should not trigger")
	}
	if ReselectionTriggered(C2NegInf, 0, -100) {
		t.Fatal("-inf neighbour C2 should never trigger")
	}
}
