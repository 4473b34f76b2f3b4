// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package sysinfo

import (
	"reflect"
	"sort"
	"testing"

	"github.com/rob-gra/gsmcore/l1prim"
)

func sortedArfcns(a []l1prim.Arfcn) []l1prim.Arfcn {
	out := append([]l1prim.Arfcn(nil), a...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestBitmap0RoundTrip(t *testing.T) {
	want := []l1prim.Arfcn{1, 12, 63, 124}
	enc, err := EncodeBitmap0(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeBitmap0(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(sortedArfcns(got), sortedArfcns(want)) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, want)
	}
}

func TestBitmap0RejectsOutOfRange(t *testing.T) {
	if _, err := EncodeBitmap0([]l1prim.Arfcn{125}); err == nil {
		t.Fatal("expected error for ARFCN 125 (bitmap-0 covers 1..124)")
	}
}

func TestRange1024RoundTrip(t *testing.T) {
	want := []l1prim.Arfcn{3, 10, 55, 900, 1023}
	enc, err := EncodeRange(FormatRange1024, want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRange(FormatRange1024, enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(sortedArfcns(got), sortedArfcns(want)) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, want)
	}
}

func TestRange1024RejectsOverCapacity(t *testing.T) {
	var arfcns []l1prim.Arfcn
	for i := 0; i < 17; i++ {
		arfcns = append(arfcns, l1prim.Arfcn(i+1))
	}
	if _, err := EncodeRange(FormatRange1024, arfcns); err == nil {
		t.Fatal("expected error for >16 entries")
	}
}

func TestRange512And256And128RoundTrip(t *testing.T) {
	cases := []struct {
		format FreqListFormat
		arfcns []l1prim.Arfcn
	}{
		{FormatRange512, []l1prim.Arfcn{1, 5, 20, 400}},
		{FormatRange256, []l1prim.Arfcn{2, 9, 100, 250}},
		{FormatRange128, []l1prim.Arfcn{1, 4, 50, 127}},
	}
	for _, c := range cases {
		enc, err := EncodeRange(c.format, c.arfcns)
		if err != nil {
			t.Fatalf("%v encode: %v", c.format, err)
		}
		got, err := DecodeRange(c.format, enc)
		if err != nil {
			t.Fatalf("%v decode: %v", c.format, err)
		}
		if !reflect.DeepEqual(sortedArfcns(got), sortedArfcns(c.arfcns)) {
			t.Fatalf("%v round trip mismatch: got %v, want %v", c.format, got, c.arfcns)
		}
	}
}

func TestVariableBitmapRoundTrip(t *testing.T) {
	origin := l1prim.Arfcn(50)
	want := []l1prim.Arfcn{origin, origin + 1, origin + 10, origin + 111}
	enc := EncodeVariableBitmap(origin, want)
	got, err := DecodeVariableBitmap(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(sortedArfcns(got), sortedArfcns(want)) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, want)
	}
}

func TestDetectFreqListFormat(t *testing.T) {
	cases := []struct {
		top  byte
		want FreqListFormat
	}{
		{0x00, FormatBitmap0},
		{0x80, FormatRange1024},
		{0x88, FormatRange512},
		{0x8a, FormatRange256},
		{0x8c, FormatRange128},
		{0x8e, FormatVariableBitmap},
	}
	for _, c := range cases {
		got, err := DetectFreqListFormat([]byte{c.top})
		if err != nil {
			t.Fatalf("top=%#x: %v", c.top, err)
		}
		if got != c.want {
			t.Fatalf("top=%#x: got %v, want %v", c.top, got, c.want)
		}
	}
}

func TestDecodeFreqListDispatch(t *testing.T) {
	want := []l1prim.Arfcn{7, 42, 99}
	enc, err := EncodeRange(FormatRange1024, want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, format, err := DecodeFreqList(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if format != FormatRange1024 {
		t.Fatalf("format = %v, want range-1024", format)
	}
	if !reflect.DeepEqual(sortedArfcns(got), sortedArfcns(want)) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, want)
	}
}

// TestDecodeRangeNestedSMODTree hand-builds a range-1024 octet string
// whose W-values occupy tree nodes 1-4 (node 4 sitting two levels below
// node 1, through node 2) and checks the decoded ARFCNs
// against the nested-SMOD formula GSM 04.08 §10.5.2.13 defines directly,
// rather than only round-tripping through EncodeRange.
func TestDecodeRangeNestedSMODTree(t *testing.T) {
	const origin = 100
	const w1, w2, w3, w4 = 600, 300, 700, 50

	enc := []byte{
		selectorByte(FormatRange1024),
		byte(origin >> 8), byte(origin),
		5, // origin + 4 W-values (nodes 1..4)
		byte(w1 >> 8), byte(w1 & 0xff),
		byte(w2 >> 8), byte(w2 & 0xff),
		byte(w3 >> 8), byte(w3 & 0xff),
		byte(w4 >> 8), byte(w4),
	}

	got, err := DecodeRange(FormatRange1024, enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	// node 1: origin + w1, mod 1024.
	node1 := (origin + w1) % 1024
	// node 2: origin + SMOD(w1-512+w2-1, 1023) + 1.
	node2 := (origin + floorMod(w1-512+w2-1, 1023) + 1) % 1024
	// node 3: no subtract on this branch, combines w1 directly.
	node3 := (origin + floorMod(w1+w3-1, 1023) + 1) % 1024
	// node 4: two nested SMOD steps, w4 under w2 (mod 511) under w1 (mod 1023).
	inner := floorMod(w2-256+w4-1, 511)
	node4 := (origin + floorMod(w1-512+inner, 1023) + 1) % 1024

	want := sortedArfcns([]l1prim.Arfcn{origin, l1prim.Arfcn(node1), l1prim.Arfcn(node2), l1prim.Arfcn(node3), l1prim.Arfcn(node4)})
	if !reflect.DeepEqual(sortedArfcns(got), want) {
		t.Fatalf("nested SMOD tree decode mismatch: got %v, want %v", sortedArfcns(got), want)
	}
}

func TestShortFreqListErrors(t *testing.T) {
	if _, err := DecodeBitmap0(nil); err != ErrShortFreqList {
		t.Fatalf("got %v, want ErrShortFreqList", err)
	}
	if _, _, err := DecodeFreqList(nil); err != ErrShortFreqList {
		t.Fatalf("got %v, want ErrShortFreqList", err)
	}
}
