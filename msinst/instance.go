// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package msinst

import (
	"github.com/rob-gra/gsmcore/cellsel"
	"github.com/rob-gra/gsmcore/clog"
	"github.com/rob-gra/gsmcore/freqtable"
	"github.com/rob-gra/gsmcore/gcc"
	"github.com/rob-gra/gsmcore/mm"
	"github.com/rob-gra/gsmcore/plmnsel"
	"github.com/rob-gra/gsmcore/rr"
	"github.com/rob-gra/gsmcore/subscr"
)

var log = clog.NewLogger("msinst")

// Component names a FIFO event queue owner, used to address Post and to
// label queues in round-robin drain order.
type Component uint8

const (
	CompL1 Component = iota
	CompCS
	CompPLMN
	CompRR
	CompMM
	CompGCC
	numComponents
)

func (c Component) String() string {
	names := [...]string{"L1", "CS", "PLMN", "RR", "MM", "GCC"}
	if int(c) < len(names) {
		return names[c]
	}
	return "?"
}

// event is one FIFO-queued item: an opaque payload plus the handler
// that should run when it's dequeued. Binding the handler at enqueue
// time keeps the dispatch loop itself free of per-component type
// switches.
type event struct {
	payload interface{}
	handle  func(interface{})
}

// Instance is one MS's complete state: subscriber record, frequency
// table, BA list, and the PLMN/CS/RR/MM/GCC engines, plus the per-MS
// timer wheel and FIFO queues the dispatch loop drains.
type Instance struct {
	ID string

	Subscriber *subscr.Subscriber
	Table      *freqtable.Table
	BA         *freqtable.BAList

	PLMN *plmnsel.Engine
	CS   *cellsel.Engine
	RR   rr.State
	MM   mm.State

	GCC map[uint32]*gcc.Transaction

	Timers *Scheduler

	queues [numComponents][]event
}

// NewInstance wires up a fresh MS instance over the given subscriber
// record, frequency table and BA list.
func NewInstance(id string, sub *subscr.Subscriber, table *freqtable.Table, ba *freqtable.BAList, cfg cellsel.Config, plmnMode plmnsel.Mode) *Instance {
	return &Instance{
		ID:         id,
		Subscriber: sub,
		Table:      table,
		BA:         ba,
		PLMN:       plmnsel.NewEngine(plmnMode),
		CS:         cellsel.NewEngine(cfg, table, ba),
		RR:         rr.Idle,
		MM:         mm.Null,
		GCC:        make(map[uint32]*gcc.Transaction),
		Timers:     NewScheduler(),
	}
}

// Post enqueues payload onto comp's FIFO queue with the handler that
// will process it. Events posted to the same component are always
// processed in the order they were posted (spec.md §5 "All messages
// enqueued to a component are processed in FIFO order").
func (in *Instance) Post(comp Component, payload interface{}, handle func(interface{})) {
	in.queues[comp] = append(in.queues[comp], event{payload: payload, handle: handle})
}

// Pending reports whether any queue still has work, the condition the
// dispatch loop uses to decide whether it may go idle and select on
// timers (spec.md §5 "drains them round-robin until quiescent").
func (in *Instance) Pending() bool {
	for _, q := range in.queues {
		if len(q) > 0 {
			return true
		}
	}
	return false
}

// DrainOnce runs one round-robin pass over every component's queue,
// processing at most the events present at the start of the pass (so a
// handler that posts new work to another component does not get
// processed within the same pass — spec.md §5 "An event that causes a
// state change observes that change on its next enqueued event, not
// within the same dispatch"). It returns the number of events
// processed.
func (in *Instance) DrainOnce() int {
	processed := 0
	var counts [numComponents]int
	for c := range in.queues {
		counts[c] = len(in.queues[c])
	}
	for c := Component(0); c < numComponents; c++ {
		n := counts[c]
		if n == 0 {
			continue
		}
		batch := in.queues[c][:n]
		in.queues[c] = in.queues[c][n:]
		for _, ev := range batch {
			ev.handle(ev.payload)
			processed++
		}
	}
	return processed
}

// Run drains every queue to quiescence, round-robin, per spec.md §5's
// scheduling model. Handlers MUST NOT block on I/O; Run itself never
// touches the timer wheel or external I/O, leaving that to the caller's
// outer select loop once Run returns with nothing left pending.
func (in *Instance) Run() {
	for in.Pending() {
		in.DrainOnce()
	}
}
