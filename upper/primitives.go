// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package upper defines the upper-layer service-access-point primitives
// MM exposes to CC, SS, SMS, and the GCC/BCC FSMs (spec.md §6).
package upper

// SAP identifies which upper-layer service-access-point a primitive
// belongs to.
type SAP uint8

const (
	SAPMMCC SAP = iota
	SAPMMSS
	SAPMMSMS
	SAPMMGCC
	SAPMMBCC
)

func (s SAP) String() string {
	switch s {
	case SAPMMCC:
		return "MMCC"
	case SAPMMSS:
		return "MMSS"
	case SAPMMSMS:
		return "MMSMS"
	case SAPMMGCC:
		return "MMGCC"
	case SAPMMBCC:
		return "MMBCC"
	default:
		return "?"
	}
}

// MsgType is the primitive's direction/kind, e.g. EST_REQ, EST_CNF,
// DATA_IND, REL_IND, ABORT_IND. Left open-ended (not a closed enum) so
// each SAP can define its own primitive vocabulary while sharing one
// envelope shape.
type MsgType string

const (
	MTEstReq    MsgType = "EST_REQ"
	MTEstCnf    MsgType = "EST_CNF"
	MTEstInd    MsgType = "EST_IND"
	MTDataReq   MsgType = "DATA_REQ"
	MTDataInd   MsgType = "DATA_IND"
	MTRelReq    MsgType = "REL_REQ"
	MTRelInd    MsgType = "REL_IND"
	MTAbortReq  MsgType = "ABORT_REQ"
	MTAbortInd  MsgType = "ABORT_IND"
)

// ChannelDesc is the optional channel-description payload some
// primitives (notably GCC/BCC NOTIFY) carry.
type ChannelDesc struct {
	Present bool
	Raw     []byte
}

// Primitive is the common envelope carried across every upper-layer SAP
// (spec.md §6: "Each primitive carries {msg_type, ref, transaction_id,
// sapi, cause?, ch_desc?}").
type Primitive struct {
	SAP           SAP
	MsgType       MsgType
	Ref           uint32
	TransactionID uint8 // 4-bit transaction identifier
	SAPI          uint8 // 0 or 3
	Cause         *uint8
	ChDesc        ChannelDesc
}

// NewPrimitive builds a bare primitive for the given SAP/type/ref.
func NewPrimitive(sap SAP, mt MsgType, ref uint32, tid uint8) Primitive {
	return Primitive{SAP: sap, MsgType: mt, Ref: ref, TransactionID: tid}
}

// WithCause attaches a cause value, returning the updated primitive.
func (p Primitive) WithCause(cause uint8) Primitive {
	p.Cause = &cause
	return p
}

// WithChannelDesc attaches a channel description, returning the updated
// primitive.
func (p Primitive) WithChannelDesc(raw []byte) Primitive {
	p.ChDesc = ChannelDesc{Present: true, Raw: raw}
	return p
}
