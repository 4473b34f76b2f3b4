// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package subscr is the in-memory subscriber-state record (spec.md §3):
// SIM validity, IMSI/TMSI/RPLMN, update state, ciphering key material, and
// the selector lists MM and PLMN-selection consult. SIM file I/O itself is
// an out-of-scope external collaborator (spec.md §1); this package accepts
// already-read values.
package subscr

// UState is the subscriber's update state (GSM 04.08 subclass 4.1.2.2).
type UState uint8

const (
	U0Null UState = iota
	U1Updated
	U2NotUpdated
	U3RoamingNotAllowed
)

func (u UState) String() string {
	switch u {
	case U0Null:
		return "U0_NULL"
	case U1Updated:
		return "U1_UPDATED"
	case U2NotUpdated:
		return "U2_NOT_UPDATED"
	case U3RoamingNotAllowed:
		return "U3_ROAMING_NA"
	default:
		return "U?"
	}
}

// RPLMN is the registered PLMN + location area.
type RPLMN struct {
	MCC, MNC uint16
	LAC      uint16
	Valid    bool
}

// PLMNSelectorEntry is one entry of the SIM's preferred-PLMN selector
// list, order-preserving (spec.md §4.3 "SIM PLMN-selector entries").
type PLMNSelectorEntry struct {
	MCC, MNC uint16
}

// Classmark3 carries the subset of classmark 3 this core needs to decide
// whether to append it to LOCATION UPDATING REQUEST — the original only
// does so when multiband/high-multi-slot bits are set (SPEC_FULL.md).
type Classmark3 struct {
	Enabled      bool
	MultibandSupport uint8
	RFPowerCapability uint8
}

// Classmark1 and Classmark2 are minimal MS-capability descriptors encoded
// into LOCATION UPDATING REQUEST / PAGING RESPONSE / CM SERVICE REQUEST.
// See GSM 04.08 subclass 10.5.1.5/10.5.1.6.
type Classmark1 struct {
	RevisionLevel   uint8
	EarlyClmCapable bool
	PowerClass      uint8
}

type Classmark2 struct {
	Classmark1
	SMCapable  bool
	FreqCapGSM1800 bool
}

// Subscriber is the per-MS subscriber-state record.
type Subscriber struct {
	SIMValid bool
	IMSI     string
	TMSI     uint32
	TMSIValid bool

	RPLMN RPLMN

	UState UState
	Kc     [8]byte
	SeqNo  uint8 // ciphering key sequence number, 0..6; 7 = "no key available"

	IMSIAttached bool

	AccessClasses    uint16 // bitmap, classes 0..15
	EmergencyOverride bool

	SMSCAddress string

	HPLMN    [2]uint16 // MCC, MNC derived from the IMSI's network code
	Selector []PLMNSelectorEntry

	CM1 Classmark1
	CM2 Classmark2
	CM3 Classmark3

	// AlwaysSearchHPLMN mirrors the SIM/ME configuration bit spec.md §4.3
	// names for the HPLMN-search timer's arm condition.
	AlwaysSearchHPLMN bool
	T6MHPLMN          uint8 // multiplier, "t6m_hplmn * 360 seconds"
}

// New returns a Subscriber with a no-key sequence number (7, "key not
// available") and the default T6M multiplier (30, i.e. 10800s / 3h).
func New() *Subscriber {
	return &Subscriber{SeqNo: 7, T6MHPLMN: 30}
}

// InvalidateKeyAndIdentity clears TMSI/LAI and sets the key sequence to 7,
// the terminal action of a failed location update (spec.md §4.5 step 7,
// §8 scenario S3).
func (s *Subscriber) InvalidateKeyAndIdentity() {
	s.TMSIValid = false
	s.RPLMN.Valid = false
	s.SeqNo = 7
	s.UState = U2NotUpdated
}
