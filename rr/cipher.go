// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

import "fmt"

// A5Algorithm identifies one ciphering algorithm, bit-indexed per
// classmark 2/3's A5 capability bitmap (GSM 04.08 subclass 10.5.1.7).
type A5Algorithm uint8

const (
	A5_1 A5Algorithm = iota
	A5_2
	A5_3
	A5_4
	A5_5
	A5_6
	A5_7
)

// Capability is the MS's supported-algorithm bitmap.
type Capability uint8

// Supports reports whether alg is advertised in the capability bitmap.
func (c Capability) Supports(alg A5Algorithm) bool {
	return c&(1<<uint(alg)) != 0
}

// ErrUnsupportedAlgorithm is returned when a CIPHERING MODE COMMAND
// requests an A5/N the MS does not support.
var ErrUnsupportedAlgorithm = fmt.Errorf("rr: requested ciphering algorithm unsupported")

// ErrAlreadyEnciphered is returned when a CIPHERING MODE COMMAND is
// received while the link is already enciphered (spec.md §4.4: "refuse
// re-ciphering while already enciphered").
var ErrAlreadyEnciphered = fmt.Errorf("rr: refusing re-ciphering while already enciphered")

// CipherState tracks the RR sublayer's ciphering status for the current
// dedicated channel.
type CipherState struct {
	Enciphered bool
	Algorithm  A5Algorithm
}

// StartCiphering validates a CIPHERING MODE COMMAND's requested
// algorithm against the MS's capability and, on success, transitions to
// enciphered. imeisv is echoed by the caller in CIPHERING MODE COMPLETE
// when requested by the command.
func (c *CipherState) StartCiphering(alg A5Algorithm, cap Capability) error {
	if c.Enciphered {
		return ErrAlreadyEnciphered
	}
	if !cap.Supports(alg) {
		return ErrUnsupportedAlgorithm
	}
	c.Enciphered = true
	c.Algorithm = alg
	return nil
}

// StopCiphering clears the enciphered flag, e.g. on channel release.
func (c *CipherState) StopCiphering() {
	c.Enciphered = false
}
