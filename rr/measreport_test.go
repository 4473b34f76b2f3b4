// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

import (
	"reflect"
	"testing"
)

func TestMeasurementReportRoundTrip(t *testing.T) {
	want := MeasurementReport{
		RxLevFull: 40,
		RxLevSub:  35,
		RxQualFull: 3,
		RxQualSub:  2,
		DTXUsed:    true,
		BAUsed:     false,
		Neighbours: []NeighbourMeasurement{
			{RxLev: 20, BSIC: 1, BCCHFreqIdx: 5},
			{RxLev: 10, BSIC: 2, BCCHFreqIdx: 7},
		},
	}
	enc, err := EncodeMeasReport(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(enc) != MeasReportLen {
		t.Fatalf("encoded length = %d, want %d", len(enc), MeasReportLen)
	}
	got, err := DecodeMeasReport(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestMeasurementReportTooManyNeighbours(t *testing.T) {
	m := MeasurementReport{Neighbours: make([]NeighbourMeasurement, MaxReportedNeighbours+1)}
	if _, err := EncodeMeasReport(m); err == nil {
		t.Fatal("encoding more than MaxReportedNeighbours should error")
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	if _, err := DecodeMeasReport([]byte{1, 2, 3}); err == nil {
		t.Fatal("decoding a short buffer should error")
	}
}

func TestMeasurementReportNoNeighbours(t *testing.T) {
	want := MeasurementReport{RxLevFull: 5, RxLevSub: 6, BAUsed: true}
	enc, err := EncodeMeasReport(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeMeasReport(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Neighbours) != 0 {
		t.Fatalf("got %d neighbours, want 0", len(got.Neighbours))
	}
	if got.RxLevFull != 5 || got.RxLevSub != 6 || !got.BAUsed {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
