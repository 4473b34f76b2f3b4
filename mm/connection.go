// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package mm

import "fmt"

// ConnService identifies which upper-layer protocol owns an MM
// connection record (spec.md §4.5 "MM-connection multiplexing").
type ConnService uint8

const (
	ServiceCC ConnService = iota
	ServiceSS
	ServiceSMS
)

func (s ConnService) String() string {
	switch s {
	case ServiceCC:
		return "CC"
	case ServiceSS:
		return "SS"
	case ServiceSMS:
		return "SMS"
	default:
		return "?"
	}
}

// ErrConnPending is returned when a second upper-layer establish
// request arrives while one CONN_PEND is already outstanding (spec.md
// §4.5: "rejected with cause 17").
var ErrConnPending = fmt.Errorf("mm: connection establishment already pending")

// Connection is one MM-connection record.
type Connection struct {
	Ref     uint32
	Service ConnService
	Active  bool

	// SAPI3Requested records that SMS establishment transparently asked
	// for the SAPI-3 link once the main RR connection came up (spec.md
	// §4.5).
	SAPI3Requested bool
}

// ConnectionTable manages the monotonically-increasing connection
// reference and the single-pending-establishment rule.
type ConnectionTable struct {
	nextRef     uint32
	conns       map[uint32]*Connection
	pendingRef  uint32
	hasPending  bool
}

// NewConnectionTable returns an empty table.
func NewConnectionTable() *ConnectionTable {
	return &ConnectionTable{conns: make(map[uint32]*Connection)}
}

// Establish allocates a new connection record for service, rejecting
// with ErrConnPending if one is already pending.
func (t *ConnectionTable) Establish(service ConnService) (*Connection, error) {
	if t.hasPending {
		return nil, ErrConnPending
	}
	t.nextRef++
	c := &Connection{Ref: t.nextRef, Service: service}
	if service == ServiceSMS {
		c.SAPI3Requested = true
	}
	t.conns[c.Ref] = c
	t.pendingRef = c.Ref
	t.hasPending = true
	return c, nil
}

// Activate marks the pending connection as established once the RR
// connection (and, for SMS, SAPI-3) is up.
func (t *ConnectionTable) Activate(ref uint32) {
	if c, ok := t.conns[ref]; ok {
		c.Active = true
	}
	if ref == t.pendingRef {
		t.hasPending = false
	}
}

// Release removes a connection record, clearing the pending flag if it
// was the one pending.
func (t *ConnectionTable) Release(ref uint32) {
	delete(t.conns, ref)
	if ref == t.pendingRef {
		t.hasPending = false
	}
}

// Active reports whether any connection is currently active, the
// condition MM uses to decide whether the RR connection may be torn
// down.
func (t *ConnectionTable) Active() bool {
	for _, c := range t.conns {
		if c.Active {
			return true
		}
	}
	return false
}

// Pending reports whether an establishment is outstanding.
func (t *ConnectionTable) Pending() bool { return t.hasPending }
