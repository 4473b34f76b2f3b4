// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package gcc

// CallKind distinguishes group-call from broadcast-call transactions,
// spec.md §4.6 "protocol discriminator (group-CC vs broadcast-CC)".
type CallKind uint8

const (
	KindGroupCC CallKind = iota
	KindBroadcastCC
)

// Transaction is one GCC/BCC call instance (spec.md §3 "GCC/BCC
// transaction"). Callref ranges 1..99999999.
type Transaction struct {
	Callref uint32
	Kind    CallKind

	State State
	Attr  Attributes

	PendingTermination bool

	// ReceiveAfterSeparateLink records the U2sl -> U2wr -> U2r
	// transition's intermediate flag (spec.md §4.6 initiator flow).
	ReceiveAfterSeparateLink bool

	// ChannelDesc is set when a NOTIFY-IND carried an optional channel
	// description for a joiner to use directly.
	ChannelDesc []byte
}

// NewInitiatorTransaction starts an originator call in U0_NULL, ORIG
// true by invariant (e) (spec.md §3: "ORIG is true exactly iff the MS
// initiated the call").
func NewInitiatorTransaction(callref uint32, kind CallKind) *Transaction {
	return &Transaction{Callref: callref, Kind: kind, State: U0Null, Attr: Attributes{ORIG: true}}
}

// NewJoinerTransaction starts a joiner call in U0_NULL, ORIG false.
func NewJoinerTransaction(callref uint32, kind CallKind) *Transaction {
	return &Transaction{Callref: callref, Kind: kind, State: U0Null}
}

func (t *Transaction) transition(s State, attr Attributes) error {
	if err := Validate(s, attr); err != nil {
		return err
	}
	t.State = s
	t.Attr = attr
	return nil
}

// SetupReq applies the initiator flow's first step: SETUP_REQ moves
// U0_NULL -> U0p_MM_PENDING, awaiting MM-EST-CNF (spec.md §4.6).
func (t *Transaction) SetupReq() error {
	return t.transition(U0pMMPending, Attributes{ORIG: true})
}

// MMEstCnf applies the initiator flow's second step: on MM-EST-CNF,
// send SETUP and move to U1_INITIATED.
func (t *Transaction) MMEstCnf() error {
	return t.transition(U1Initiated, Attributes{ORIG: true})
}

// DIConnect applies the initiator flow's third step: on DI-CONNECT,
// move to U2sl (separate-link active), the speaker and mic both on.
func (t *Transaction) DIConnect() error {
	return t.transition(U2slActiveSeparateLink, Attributes{ORIG: true, DATT: true, UATT: true, COMM: true})
}

// ListenReq releases the uplink from U2sl, transitioning through
// U2wr to U2r (spec.md §4.6: "LISTEN_REQ releases the uplink and
// transitions via U2wr to U2r").
func (t *Transaction) ListenReq() error {
	if t.State != U2slActiveSeparateLink {
		return nil
	}
	t.ReceiveAfterSeparateLink = true
	if err := t.transition(U2wrActiveWaitReceive, Attributes{ORIG: t.Attr.ORIG, DATT: true, COMM: true}); err != nil {
		return err
	}
	return t.transition(U2rU6ActiveReceive, Attributes{ORIG: false, DATT: true, COMM: true})
}

// NotifyInd applies the joiner flow's first step: on NOTIFY-IND with an
// optional channel description, move U0 -> U3 (call present).
func (t *Transaction) NotifyInd(chDesc []byte) error {
	t.ChannelDesc = chDesc
	return t.transition(U3Present, Attributes{ORIG: false})
}

// JoinGCReq applies the joiner flow's second step: on JOIN_GC_REQ,
// move U3 -> U4_CONN_REQUEST (group-req sent to MM).
func (t *Transaction) JoinGCReq() error {
	return t.transition(U4ConnRequest, Attributes{ORIG: false})
}

// JoinGCCnf applies the joiner flow's third step: on JOIN_GC_CNF, move
// U4 -> U2r (group receive).
func (t *Transaction) JoinGCCnf() error {
	return t.transition(U2rU6ActiveReceive, Attributes{ORIG: false, DATT: true, COMM: true})
}

// TalkReq begins uplink contention from U2r: U2r -> U2ws, sending
// UPLINK_REQ (spec.md §4.6).
func (t *Transaction) TalkReq() error {
	if t.State != U2rU6ActiveReceive {
		return nil
	}
	return t.transition(U2wsActiveWaitSend, Attributes{ORIG: false, DATT: true, COMM: true})
}

// TalkCnf grants the uplink, moving U2ws -> U2sr (send+receive).
func (t *Transaction) TalkCnf() error {
	if t.State != U2wsActiveWaitSend {
		return nil
	}
	return t.transition(U2srActiveSendReceive, Attributes{ORIG: false, DATT: true, UATT: true, COMM: true})
}

// TalkRej denies the uplink, returning U2ws -> U2r.
func (t *Transaction) TalkRej() error {
	if t.State != U2wsActiveWaitSend {
		return nil
	}
	return t.transition(U2rU6ActiveReceive, Attributes{ORIG: false, DATT: true, COMM: true})
}

// ListenReqFromSendReceive applies U2sr's LISTEN_REQ, which sends
// UPLINK_REL_REQ and returns to U2r (spec.md §4.6: "In U2sr, LISTEN_REQ
// sends UPLINK_REL_REQ").
func (t *Transaction) ListenReqFromSendReceive() error {
	if t.State != U2srActiveSendReceive {
		return nil
	}
	return t.transition(U2rU6ActiveReceive, Attributes{ORIG: false, DATT: true, COMM: true})
}

// TermReq requests call termination: moves to U5_TERMINATION_REQUESTED
// and sets the pending-termination flag.
func (t *Transaction) TermReq() error {
	t.PendingTermination = true
	return t.transition(U5TerminationRequested, Attributes{ORIG: t.Attr.ORIG})
}

// AbortReq models a user "leave" of a call they did not originate
// (spec.md §5: "Cancellation ... by the user is modelled as ABORT_REQ
// (leaves) or TERM_REQ (terminates)"), returning the uplink-release
// cause to signal if the uplink was held.
func (t *Transaction) AbortReq() (releaseCause byte) {
	t.State = U0Null
	t.Attr = Attributes{}
	return RelCauseLeaveGroupCA
}
