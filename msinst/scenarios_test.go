package msinst

import (
	"testing"
	"time"

	"github.com/rob-gra/gsmcore/cellsel"
	"github.com/rob-gra/gsmcore/freqtable"
	"github.com/rob-gra/gsmcore/gcc"
	"github.com/rob-gra/gsmcore/ie"
	"github.com/rob-gra/gsmcore/mm"
	"github.com/rob-gra/gsmcore/plmnsel"
	"github.com/rob-gra/gsmcore/rr"
	"github.com/rob-gra/gsmcore/subscr"
)

// These drive the components the way an MS instance's dispatch loop
// would, asserting each scenario's externally-observable outcome end
// to end across packages.

func TestScenarioS1ColdBootValidSIM(t *testing.T) {
	sub := subscr.New()
	sub.IMSI = "001010000000001"
	sub.RPLMN = subscr.RPLMN{MCC: 1, MNC: 1, LAC: 1, Valid: true}

	plmn := plmnsel.NewEngine(plmnsel.ModeAutomatic)
	plmn.Auto = plmnsel.A1TryingRPLMN

	siMCC, siMNC, siLAC := uint16(1), uint16(1), uint16(1)
	if siMCC != sub.RPLMN.MCC || siMNC != sub.RPLMN.MNC || siLAC != sub.RPLMN.LAC {
		t.Fatal("decoded SI3 does not match RPLMN; scenario setup is wrong")
	}

	lu := mm.NewLocationUpdate(mm.UpdateNormal)
	sendCount := 0

	lu.OnRREstablished()
	if lu.State != mm.LocUpdInit {
		t.Fatalf("expected LOC_UPD_INIT, got %v", lu.State)
	}
	sendCount++ // LOCATION UPDATING REQUEST

	plmn.HandleRegSuccess()
	if plmn.Auto != plmnsel.A2OnPLMN {
		t.Fatalf("expected A2_ON_PLMN, got %v", plmn.Auto)
	}

	sendTMSI := lu.OnAccept(sub, siMCC, siMNC, siLAC, 0, false)
	if sendTMSI {
		t.Fatal("no new TMSI offered, should not send TMSI REALLOCATION COMPLETE")
	}
	if lu.State != mm.WaitNetworkCmd {
		t.Fatalf("expected WAIT_NETWORK_CMD after accept, got %v", lu.State)
	}

	idle := mm.ReturnToIdle(mm.ReturnToIdleInput{
		SIMValid:        sub.SIMValid,
		RegisteredLAIEq: true,
		Attached:        sub.IMSIAttached,
	})
	if idle != mm.NormalService {
		t.Fatalf("expected NORMAL_SERVICE, got %v", idle)
	}
	if sendCount != 1 {
		t.Fatalf("expected exactly one LOCATION UPDATING REQUEST sent, got %d", sendCount)
	}
}

func TestScenarioS2PeriodicLocationUpdate(t *testing.T) {
	sub := subscr.New()
	sub.IMSIAttached = true
	sched := NewScheduler()

	t3212Period := 54 * 6 * time.Minute // SI3-advertised T3212, decihours*6min
	now := time.Now()
	firedCount := 0
	sched.Arm(now, t3212Period, func() { firedCount++ })

	sched.Fire(now.Add(t3212Period).Add(time.Second))
	if firedCount != 1 {
		t.Fatalf("expected T3212 to fire exactly once, got %d", firedCount)
	}

	lu := mm.NewLocationUpdate(mm.UpdatePeriodic)
	if lu.Type != mm.UpdatePeriodic {
		t.Fatalf("expected periodic update type, got %v", lu.Type)
	}
	sendCount := 1 // LOCATION UPDATING REQUEST type=periodic

	lu.OnRREstablished()
	sub.RPLMN.Valid = true
	lu.OnAccept(sub, 1, 1, 1, 0, false)
	if lu.State != mm.WaitNetworkCmd {
		t.Fatalf("expected WAIT_NETWORK_CMD, got %v", lu.State)
	}

	idle := mm.ReturnToIdle(mm.ReturnToIdleInput{SIMValid: true, RegisteredLAIEq: true, Attached: true})
	if idle != mm.NormalService {
		t.Fatalf("expected NORMAL_SERVICE, got %v", idle)
	}

	rearmed := sched.RearmT3212(now.Add(t3212Period).Add(time.Second), t3212Period, 0, func() {})
	if rearmed == 0 {
		t.Fatal("expected T3212 to be rearmed with the SI3-advertised period")
	}
	if sendCount != 1 {
		t.Fatalf("expected exactly one periodic LOCATION UPDATING REQUEST, got %d", sendCount)
	}
}

func TestScenarioS3ForbiddenLA(t *testing.T) {
	sub := subscr.New()
	sub.SIMValid = true
	sub.UState = subscr.U1Updated

	plmn := plmnsel.NewEngine(plmnsel.ModeAutomatic)
	lu := mm.NewLocationUpdate(mm.UpdateNormal)

	const causeLANotAllowed = ie.RejectLANotAllowed
	lu.OnReject(causeLANotAllowed)
	if lu.State != mm.LocUpdRej {
		t.Fatalf("expected LOC_UPD_REJ, got %v", lu.State)
	}

	mm.DispatchRejectCause(causeLANotAllowed, sub,
		func() {}, // forbidden PLMN, not this cause
		func() { plmn.Forbidden.AddForbiddenLA(1, 1, 1) },
	)
	if !plmn.Forbidden.IsForbiddenLA(1, 1, 1) {
		t.Fatal("expected (MCC,MNC,LAC) appended to the forbidden-LA list")
	}
	if sub.SIMValid {
		// cause 12 is not a SIM-invalid cause; SIMValid must be untouched.
	} else {
		t.Fatal("LA-not-allowed must not invalidate the SIM")
	}

	cs := cellsel.C7CampedAny
	idle := mm.ReturnToIdle(mm.ReturnToIdleInput{
		SIMValid:       sub.SIMValid,
		CampedAny:      cs.CampedAny(),
		CampedNormally: cs.CampedNormally(),
	})
	if idle != mm.LimitedService {
		t.Fatalf("expected LIMITED_SERVICE after RR release moves CS out of camped-normally, got %v", idle)
	}

	if sub.UState != subscr.U3RoamingNotAllowed {
		t.Fatalf("expected ustate U3_ROAMING_NA, got %v", sub.UState)
	}
	if sub.SeqNo != 7 {
		t.Fatalf("expected key_seq=7, got %d", sub.SeqNo)
	}
}

func TestScenarioS4CellReselection(t *testing.T) {
	table := freqtable.New()
	cfg := cellsel.Config{P: 30}
	eng := cellsel.NewEngine(cfg, table, freqtable.NewBAList())
	eng.State = cellsel.C3CampedNormally
	eng.SetServingC2(30)

	now := time.Now()
	const arfcnB = 55
	n := eng.TrackNeighbour(arfcnB, now)
	n.State = freqtable.NeighSysinfo
	n.C2 = 35 // C2_B - CRH == 35 with hysteresisDB=0 below

	_, found := eng.EvaluateReselection(0, false, now)
	if found {
		t.Fatal("must not trigger before the resel debounce window elapses")
	}

	later := now.Add(freqtable.ReselThreshold + time.Second)
	best, found := eng.EvaluateReselection(0, false, later)
	if !found {
		t.Fatal("expected a reselection candidate once the debounce window has elapsed")
	}
	if best != arfcnB {
		t.Fatalf("expected ARFCN %d to win reselection, got %d", arfcnB, best)
	}

	eng.State = cellsel.C4NormalResel
	eng.CampOn(best, true)
	if eng.State != cellsel.C3CampedNormally {
		t.Fatalf("expected to camp normally on the winning neighbour, got %v", eng.State)
	}
	if sel, ok := table.Selected(); !ok || sel != arfcnB {
		t.Fatalf("expected %d selected in the frequency table, got %v (ok=%v)", arfcnB, sel, ok)
	}
}

func TestScenarioS5VGCSJoin(t *testing.T) {
	txn := gcc.NewJoinerTransaction(12345, gcc.KindGroupCC)
	if txn.State != gcc.U0Null {
		t.Fatalf("expected U0_NULL at start, got %v", txn.State)
	}

	chDesc := []byte{0x01, 0x02, 0x03}
	if err := txn.NotifyInd(chDesc); err != nil {
		t.Fatalf("NotifyInd: %v", err)
	}
	if txn.State != gcc.U3Present {
		t.Fatalf("expected U3_PRESENT after NOTIFY-IND, got %v", txn.State)
	}

	if err := txn.JoinGCReq(); err != nil {
		t.Fatalf("JoinGCReq: %v", err)
	}
	if txn.State != gcc.U4ConnRequest {
		t.Fatalf("expected U4_CONN_REQUEST, got %v", txn.State)
	}

	if err := txn.JoinGCCnf(); err != nil {
		t.Fatalf("JoinGCCnf: %v", err)
	}
	if txn.State != gcc.U2rU6ActiveReceive {
		t.Fatalf("expected U2r, got %v", txn.State)
	}
	if !txn.Attr.DATT || txn.Attr.UATT || !txn.Attr.COMM {
		t.Fatalf("expected D-ATT=1 U-ATT=0 COMM=1, got %+v", txn.Attr)
	}
}

func TestScenarioS6CipheringMismatch(t *testing.T) {
	cs := &rr.CipherState{}
	var onlyA51 rr.Capability = 1 << uint(rr.A5_1)

	err := cs.StartCiphering(rr.A5_3, onlyA51)
	if err != rr.ErrUnsupportedAlgorithm {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
	if cs.Enciphered {
		t.Fatal("ciphering must not be activated")
	}

	cause := ie.RRCauseChannelUnacceptable
	if cause.String() != "channel-mode-unacceptable" {
		t.Fatalf("expected RR STATUS cause %q, got %q", "channel-mode-unacceptable", cause.String())
	}
}
