// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package rr

// ChannelNeeded is the per-identity channel type requested by a paging
// entry (GSM 04.08 subclass 10.5.2.8).
type ChannelNeeded uint8

const (
	ChanAny ChannelNeeded = iota
	ChanSDCCH
	ChanTCHF
	ChanTCHFH
)

// PagingIdentity is one of up to 4 identities carried in a PAGING
// REQUEST 1/2/3 message (spec.md §4.4).
type PagingIdentity struct {
	TMSI    uint32
	TMSIValid bool
	IMSI    string
	Needed  ChannelNeeded
}

// Matches reports whether this paging identity addresses the
// subscriber: by TMSI when the identity carries a valid TMSI, otherwise
// by IMSI string comparison (spec.md §4.4: "Matching is by (TMSI if
// valid) or IMSI string").
func (p PagingIdentity) Matches(tmsi uint32, tmsiValid bool, imsi string) bool {
	if p.TMSIValid {
		return tmsiValid && p.TMSI == tmsi
	}
	return p.IMSI == imsi
}

// PagingRequest is a decoded PAGING REQUEST 1/2/3, carrying 1-4
// identities.
type PagingRequest struct {
	Identities []PagingIdentity
}

// Match scans the request for an identity addressing the subscriber and
// reports whether the camping gate (C3_CAMPED_NORMALLY or C7_CAMPED_ANY)
// allows responding, per spec.md §4.4. camped should be
// cellsel.State.Camped().
func (p PagingRequest) Match(tmsi uint32, tmsiValid bool, imsi string, camped bool) (PagingIdentity, bool) {
	if !camped {
		return PagingIdentity{}, false
	}
	for _, id := range p.Identities {
		if id.Matches(tmsi, tmsiValid, imsi) {
			return id, true
		}
	}
	return PagingIdentity{}, false
}
