// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

import (
	"math/rand"
	"testing"
	"time"
)

func TestEstablishmentRetransBudget(t *testing.T) {
	e := NewEstablishment(2, 0, false) // budget = 3 bursts
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 3; i++ {
		_, _, ok := e.SendBurst(CauseOriginatingCC, 0xE0, r)
		if !ok {
			t.Fatalf("burst %d should still be within budget", i+1)
		}
	}
	if !e.Exhausted() {
		t.Fatal("should be exhausted after spending the full retrans budget")
	}
	if _, _, ok := e.SendBurst(CauseOriginatingCC, 0xE0, r); ok {
		t.Fatal("a burst beyond the budget should be refused")
	}
}

func TestEstablishmentHandleAssignmentAndReject(t *testing.T) {
	e := NewEstablishment(1, 0, false)
	r := rand.New(rand.NewSource(2))
	reqByte, _, ok := e.SendBurst(CauseOriginatingCC, 0xE0, r)
	if !ok {
		t.Fatal("first burst should succeed")
	}
	if e.State != ConnPend {
		t.Fatalf("State = %v, want CONN_PEND after sending a burst", e.State)
	}

	if e.HandleAssignment(ImmediateAssignment{RequestReference: reqByte ^ 0xff}) {
		t.Fatal("a non-matching assignment should not be accepted")
	}
	if !e.HandleAssignment(ImmediateAssignment{RequestReference: reqByte}) {
		t.Fatal("a matching assignment should be accepted")
	}
	if e.State != Dedicated {
		t.Fatalf("State = %v, want DEDICATED", e.State)
	}
}

func TestEstablishmentHandleRejectArmsBackoff(t *testing.T) {
	e := NewEstablishment(1, 0, false)
	r := rand.New(rand.NewSource(3))
	reqByte, _, _ := e.SendBurst(CauseOriginatingCC, 0xE0, r)
	now := time.Now()

	if e.HandleReject(reqByte^0xff, 0, now) {
		t.Fatal("a non-matching reject should not apply")
	}
	if !e.HandleReject(reqByte, 0, now) {
		t.Fatal("a matching reject should apply")
	}
	if !e.T3122Active(now) {
		t.Fatal("T3122 should be active immediately after a reject")
	}
	if e.T3122Active(now.Add(T3122Default + time.Second)) {
		t.Fatal("T3122 should have elapsed")
	}
}

func TestEstablishmentT3122OverrideFromWaitIndicator(t *testing.T) {
	e := NewEstablishment(1, 0, false)
	now := time.Now()
	e.StartT3122(now, 20*time.Second)
	if !e.T3122Active(now.Add(10 * time.Second)) {
		t.Fatal("the network-supplied wait indicator should extend the backoff")
	}
	if e.T3122Active(now.Add(21 * time.Second)) {
		t.Fatal("T3122 should have elapsed past the overridden duration")
	}
}
