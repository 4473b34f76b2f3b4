// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package mm

import "github.com/rob-gra/gsmcore/subscr"

// ShouldSignalDetach reports whether IMSI DETACH INDICATION must be
// sent over the air, per spec.md §4.5: "If camped normally and the SIM
// was attached, establish RR and send IMSI DETACH INDICATION ...
// otherwise terminate the SIM attachment silently."
func ShouldSignalDetach(sub *subscr.Subscriber, campedNormally bool) bool {
	return campedNormally && sub.IMSIAttached
}

// Detach drives the IMSI-detach procedure once signalling is required.
type Detach struct {
	State State
}

// NewDetach starts the procedure in IMSI_DETACH_INIT (RR establishment
// requested, T3220 armed by the caller once RR confirms).
func NewDetach() *Detach {
	return &Detach{State: IMSIDetachInit}
}

// OnRRReleased completes the detach: the SIM attachment is cleared
// whether or not the network acknowledged in time.
func (d *Detach) OnRRReleased(sub *subscr.Subscriber) {
	sub.IMSIAttached = false
	d.State = Null
}

// Silent applies the non-signalling path directly.
func Silent(sub *subscr.Subscriber) {
	sub.IMSIAttached = false
}
