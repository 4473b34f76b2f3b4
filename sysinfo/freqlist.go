// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package sysinfo

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/rob-gra/gsmcore/l1prim"
)

// FreqListFormat selects one of the six frequency-list encodings a cell
// channel description (or neighbour-cell list) may use. See spec.md §4.1.
type FreqListFormat uint8

const (
	FormatBitmap0 FreqListFormat = iota
	FormatRange1024
	FormatRange512
	FormatRange256
	FormatRange128
	FormatVariableBitmap
)

func (f FreqListFormat) String() string {
	switch f {
	case FormatBitmap0:
		return "bitmap-0"
	case FormatRange1024:
		return "range-1024"
	case FormatRange512:
		return "range-512"
	case FormatRange256:
		return "range-256"
	case FormatRange128:
		return "range-128"
	case FormatVariableBitmap:
		return "variable-bitmap"
	default:
		return "unknown"
	}
}

// rangeModulus returns the top-level modulus of a range format's nested
// SMOD tree (GSM 04.08 §10.5.2.13): 1024/512/256/128 minus 1.
func rangeModulus(f FreqListFormat) (int, error) {
	switch f {
	case FormatRange1024:
		return 1023, nil
	case FormatRange512:
		return 511, nil
	case FormatRange256:
		return 255, nil
	case FormatRange128:
		return 127, nil
	default:
		return 0, fmt.Errorf("sysinfo: format %v has no range modulus", f)
	}
}

// The four range formats pack up to 15 further ARFCNs beyond an origin
// into a complete binary tree of W-values (nodes 1..15, root at node 1):
// node 2i and 2i+1-ish children reuse their grandparent's position within
// a level to decide which half of the ring they cover, combined through a
// chain of SMOD operations whose modulus halves one level at a time. This
// mirrors the nested-bracket recurrence gsm48_decode_freq_list() builds,
// e.g. node 8's ARFCN is origin + SMOD(SMOD(w4-128+w8-1, 255) + w2-256,
// 511) + w1-512, reduced mod 1023, plus 1. freqTreeParent/freqTreeSubtract
// below encode that tree shape; treeAcc/setTreeRaw walk it forward and
// backward.
//
// Unlike the real w1-only root of the range-1024 format, every format
// here carries an explicit origin octet (node 1 sits one level below it)
// so the four formats share one wire layout; see DESIGN.md.

// freqTreeLevel returns a node's depth (root = level 1).
func freqTreeLevel(i int) int { return bits.Len(uint(i)) }

// freqTreeParent returns the index of i's parent in the W-value tree.
func freqTreeParent(i int) int {
	l := freqTreeLevel(i)
	levelStart := 1 << uint(l-1)
	parentStart := 1 << uint(l-2)
	parentCount := 1 << uint(l-2)
	j := i - levelStart
	return parentStart + j%parentCount
}

// freqTreeSubtract reports whether i is in the first half of its level,
// the half whose combining step subtracts freqTreeOffset from the parent
// term (the "-512"/"-256"/"-128"/... terms in the nested formula).
func freqTreeSubtract(i int) bool {
	l := freqTreeLevel(i)
	levelStart := 1 << uint(l-1)
	count := 1 << uint(l-1)
	j := i - levelStart
	return j < count/2
}

// freqTreeNestedModulus returns the modulus a level-`level` node's
// combining step reduces by: the format's top modulus at level 2,
// halving (SMOD-style: (m-1)/2) one step per deeper level.
func freqTreeNestedModulus(level, topMod int) int {
	m := topMod
	for d := 2; d < level; d++ {
		m = (m - 1) / 2
	}
	return m
}

// freqTreeOffset is half the modulus a level's combining step uses, the
// amount subtracted from the parent term on the "left" (subtract) branch.
func freqTreeOffset(level, topMod int) int {
	return (freqTreeNestedModulus(level, topMod) + 1) / 2
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// treeAcc walks node i up to the root, folding in each ancestor's raw
// W-value through the nested-SMOD chain, and returns the result still
// awaiting the final "+1"/origin step (node 1 is handled by the caller;
// it has no ancestor chain to walk).
func treeAcc(w []int, i, topMod int) int {
	acc := w[i] - 1
	for cur := i; cur != 1; {
		p := freqTreeParent(cur)
		l := freqTreeLevel(cur)
		m := freqTreeNestedModulus(l, topMod)
		term := w[p]
		if freqTreeSubtract(cur) {
			term -= freqTreeOffset(l, topMod)
		}
		acc = floorMod(term+acc, m)
		cur = p
	}
	return acc
}

// setTreeRaw is treeAcc's inverse: given i's ancestors already assigned
// (w[freqTreeParent(i)] and up, all with smaller index than i so they
// are filled in first) and the target pre-"+1" accumulator value, it
// solves for w[i] by replaying the chain's SMOD steps in reverse, root
// end first.
func setTreeRaw(w []int, i, target, topMod int) {
	type step struct {
		modulus  int
		offset   int
		subtract bool
		parent   int
	}
	var chain []step
	for cur := i; cur != 1; {
		p := freqTreeParent(cur)
		l := freqTreeLevel(cur)
		chain = append(chain, step{
			modulus:  freqTreeNestedModulus(l, topMod),
			offset:   freqTreeOffset(l, topMod),
			subtract: freqTreeSubtract(cur),
			parent:   p,
		})
		cur = p
	}
	acc := target
	for k := len(chain) - 1; k >= 0; k-- {
		s := chain[k]
		term := w[s.parent]
		if s.subtract {
			term -= s.offset
		}
		acc = floorMod(acc-term, s.modulus)
	}
	w[i] = acc + 1
}

const maxFreqListHeaderLen = 1

// ErrShortFreqList is returned when the octet buffer is too short for its
// declared format.
var ErrShortFreqList = fmt.Errorf("sysinfo: short frequency list")

// ErrUnsupportedFreqFormat is returned for a first-octet pattern that does
// not match any of the six defined encodings.
var ErrUnsupportedFreqFormat = fmt.Errorf("sysinfo: unsupported frequency list encoding")

// DetectFreqListFormat inspects the top bits of the first octet and
// reports which of the six encodings a buffer uses, per spec.md's table.
func DetectFreqListFormat(b []byte) (FreqListFormat, error) {
	if len(b) < 1 {
		return 0, ErrShortFreqList
	}
	top := b[0]
	switch {
	case top&0xc0 == 0x00:
		return FormatBitmap0, nil
	case top&0xc8 == 0x80:
		return FormatRange1024, nil
	case top&0xce == 0x88:
		return FormatRange512, nil
	case top&0xce == 0x8a:
		return FormatRange256, nil
	case top&0xce == 0x8c: // 10100... widened with the range/var-bitmap split bit
		return FormatRange128, nil
	case top&0xce == 0x8e:
		return FormatVariableBitmap, nil
	default:
		return 0, ErrUnsupportedFreqFormat
	}
}

// EncodeBitmap0 encodes the subset of {1..124} as the 00xxxxxx bitmap-0
// format in 16 octets: the top two bits of octet 0 are the 00 format
// selector, and ARFCN n is bit (n-1)%8 of octet 15-(n-1)/8, so octet 0's
// low four bits carry ARFCNs 121..124.
func EncodeBitmap0(arfcns []l1prim.Arfcn) ([]byte, error) {
	buf := make([]byte, 16)
	buf[0] = 0x00
	for _, a := range arfcns {
		if a < 1 || a > 124 {
			return nil, fmt.Errorf("sysinfo: bitmap-0 arfcn %d out of range", a)
		}
		n := int(a)
		byteIdx := 15 - (n-1)/8
		buf[byteIdx] |= 1 << uint((n-1)&7)
	}
	return buf, nil
}

// DecodeBitmap0 decodes a bitmap-0 encoded frequency list back to the set
// of ARFCNs in {1..124}.
func DecodeBitmap0(b []byte) ([]l1prim.Arfcn, error) {
	if len(b) < 16 {
		return nil, ErrShortFreqList
	}
	var out []l1prim.Arfcn
	for n := 1; n <= 124; n++ {
		byteIdx := 15 - (n-1)/8
		if b[byteIdx]&(1<<uint((n-1)&7)) != 0 {
			out = append(out, l1prim.Arfcn(n))
		}
	}
	return out, nil
}

// EncodeRange encodes an arbitrary ARFCN subset using one of the four range
// formats: an origin octet pair (the lowest ARFCN present) followed by up
// to 15 further entries placed at W-tree nodes 1..15 in ascending ARFCN
// order, each W-value solved so DecodeRange's nested-SMOD walk reproduces
// the original ARFCN exactly.
func EncodeRange(format FreqListFormat, arfcns []l1prim.Arfcn) ([]byte, error) {
	topMod, err := rangeModulus(format)
	if err != nil {
		return nil, err
	}
	if len(arfcns) == 0 {
		return []byte{selectorByte(format)}, nil
	}
	if len(arfcns) > 16 {
		return nil, fmt.Errorf("sysinfo: range format carries at most 16 entries, got %d", len(arfcns))
	}
	sorted := append([]l1prim.Arfcn(nil), arfcns...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := []byte{selectorByte(format)}
	origin := int(sorted[0])
	out = append(out, byte(origin>>8), byte(origin))
	out = append(out, byte(len(sorted)))

	w := make([]int, 16) // w[1..15]; index 0 unused
	for idx, a := range sorted[1:] {
		node := idx + 1
		arfcn := int(a)
		if node == 1 {
			w[1] = floorMod(arfcn-origin, 1024)
		} else {
			target := floorMod(arfcn-origin-1, topMod)
			setTreeRaw(w, node, target, topMod)
		}
		out = append(out, byte(w[node]>>8), byte(w[node]))
	}
	return out, nil
}

// DecodeRange reverses EncodeRange, walking the same W-tree nested-SMOD
// recurrence EncodeRange solved against (GSM 04.08 §10.5.2.13).
func DecodeRange(format FreqListFormat, b []byte) ([]l1prim.Arfcn, error) {
	topMod, err := rangeModulus(format)
	if err != nil {
		return nil, err
	}
	if len(b) < 1 {
		return nil, ErrShortFreqList
	}
	if len(b) == 1 {
		return nil, nil
	}
	if len(b) < 4 {
		return nil, ErrShortFreqList
	}
	origin := int(b[1])<<8 | int(b[2])
	count := int(b[3])
	if count > 16 {
		return nil, fmt.Errorf("sysinfo: range format carries at most 16 entries, got %d", count)
	}
	out := []l1prim.Arfcn{l1prim.Arfcn(origin)}
	w := make([]int, 16)
	pos := 4
	for node := 1; node < count; node++ {
		if pos+2 > len(b) {
			return nil, ErrShortFreqList
		}
		w[node] = int(b[pos])<<8 | int(b[pos+1])
		pos += 2
		var arfcn int
		if node == 1 {
			arfcn = (origin + w[1]) % 1024
		} else {
			arfcn = (origin + treeAcc(w, node, topMod) + 1) % 1024
		}
		out = append(out, l1prim.Arfcn(arfcn))
	}
	return out, nil
}

func selectorByte(f FreqListFormat) byte {
	switch f {
	case FormatRange1024:
		return 0x80
	case FormatRange512:
		return 0x88
	case FormatRange256:
		return 0x8a
	case FormatRange128:
		return 0x8c
	case FormatVariableBitmap:
		return 0x8e
	default:
		return 0x00
	}
}

// EncodeVariableBitmap encodes a subset relative to an explicit origin
// ARFCN followed by a tail bitmap of the remaining candidate channels
// (origin+1 .. origin+111), the "origin ARFCN + tail bitmap" shape spec.md
// describes for the variable-bitmap format.
func EncodeVariableBitmap(origin l1prim.Arfcn, arfcns []l1prim.Arfcn) []byte {
	out := []byte{selectorByte(FormatVariableBitmap), byte(origin >> 8), byte(origin)}
	bitmap := make([]byte, 14) // 111 bits rounded up
	set := make(map[l1prim.Arfcn]bool, len(arfcns))
	for _, a := range arfcns {
		set[a] = true
	}
	for i := 1; i <= 111; i++ {
		if set[origin+l1prim.Arfcn(i)] {
			bitmap[(i-1)/8] |= 1 << uint((i-1)&7)
		}
	}
	return append(out, bitmap...)
}

// DecodeVariableBitmap reverses EncodeVariableBitmap.
func DecodeVariableBitmap(b []byte) ([]l1prim.Arfcn, error) {
	if len(b) < 3+14 {
		return nil, ErrShortFreqList
	}
	origin := l1prim.Arfcn(int(b[1])<<8 | int(b[2]))
	out := []l1prim.Arfcn{origin}
	bitmap := b[3 : 3+14]
	for i := 1; i <= 111; i++ {
		if bitmap[(i-1)/8]&(1<<uint((i-1)&7)) != 0 {
			out = append(out, origin+l1prim.Arfcn(i))
		}
	}
	return out, nil
}

// DecodeFreqList dispatches on the detected format and decodes the
// frequency list to its ARFCN set.
func DecodeFreqList(b []byte) ([]l1prim.Arfcn, FreqListFormat, error) {
	format, err := DetectFreqListFormat(b)
	if err != nil {
		return nil, 0, err
	}
	switch format {
	case FormatBitmap0:
		arfcns, err := DecodeBitmap0(b)
		return arfcns, format, err
	case FormatVariableBitmap:
		arfcns, err := DecodeVariableBitmap(b)
		return arfcns, format, err
	default:
		arfcns, err := DecodeRange(format, b)
		return arfcns, format, err
	}
}
