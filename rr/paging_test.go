// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

import "testing"

func TestPagingMatchByTMSI(t *testing.T) {
	req := PagingRequest{Identities: []PagingIdentity{
		{TMSI: 0x1234, TMSIValid: true, IMSI: "001010000000001"},
	}}
	id, ok := req.Match(0x1234, true, "001010000000001", true)
	if !ok || id.TMSI != 0x1234 {
		t.Fatal("should match on TMSI when both sides have a valid TMSI")
	}
	if _, ok := req.Match(0x5678, true, "001010000000001", true); ok {
		t.Fatal("mismatched TMSI should not match even with the same IMSI")
	}
}

func TestPagingMatchByIMSI(t *testing.T) {
	req := PagingRequest{Identities: []PagingIdentity{
		{IMSI: "001010000000001"},
	}}
	if _, ok := req.Match(0, false, "001010000000001", true); !ok {
		t.Fatal("should fall back to IMSI match when the identity carries no TMSI")
	}
}

func TestPagingMatchGatedByCamped(t *testing.T) {
	req := PagingRequest{Identities: []PagingIdentity{
		{IMSI: "001010000000001"},
	}}
	if _, ok := req.Match(0, false, "001010000000001", false); ok {
		t.Fatal("should never match while not camped")
	}
}
