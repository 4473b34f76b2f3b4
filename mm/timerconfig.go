// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package mm

import (
	"errors"
	"time"
)

// defines the GSM 04.08 subclass 11.2 Mobility Management timer range.
// T3212 is excluded: its value is not a fixed default, it is carried in
// SI3 (decihours) and recomputed on every SI3 change (spec.md §4.5, §4.3).
const (
	T3210Min = 1 * time.Second
	T3210Max = 60 * time.Second

	T3211Min = 1 * time.Second
	T3211Max = 60 * time.Second

	T3213Min = 1 * time.Second
	T3213Max = 60 * time.Second

	T3220Min = 1 * time.Second
	T3220Max = 60 * time.Second

	T3230Min = 1 * time.Second
	T3230Max = 60 * time.Second

	T3240Min = 1 * time.Second
	T3240Max = 60 * time.Second
)

// TimerConfig defines the Mobility Management timer durations. The default
// is applied for each unspecified value. See spec.md §4.5.
type TimerConfig struct {
	// T3210 guards LOCATION UPDATING REQUEST while awaiting ACCEPT/REJECT.
	// Default 20s.
	T3210 time.Duration

	// T3211 paces the retry delay after a location-update failure.
	// Default 10s.
	T3211 time.Duration

	// T3213 paces the RR-reestablishment retry after an RA failure during
	// LOC_UPD_INIT. Default 4s.
	T3213 time.Duration

	// T3220 guards IMSI DETACH INDICATION while awaiting RR release.
	// Default 5s.
	T3220 time.Duration

	// T3230 guards a CM service request while awaiting CM SERVICE ACCEPT/
	// REJECT. Default 15s.
	T3230 time.Duration

	// T3240 guards the RR connection release after LOCATION UPDATING
	// ACCEPT/REJECT and after TMSI REALLOCATION COMPLETE.
	// Default 10s.
	T3240 time.Duration
}

// Valid applies the default (defined by 04.08) for each unspecified value
// and range-checks any value the caller did set.
func (sf *TimerConfig) Valid() error {
	if sf == nil {
		return errors.New("mm: invalid timer config pointer")
	}

	if sf.T3210 == 0 {
		sf.T3210 = 20 * time.Second
	} else if sf.T3210 < T3210Min || sf.T3210 > T3210Max {
		return errors.New("mm: T3210 out of range")
	}

	if sf.T3211 == 0 {
		sf.T3211 = 10 * time.Second
	} else if sf.T3211 < T3211Min || sf.T3211 > T3211Max {
		return errors.New("mm: T3211 out of range")
	}

	if sf.T3213 == 0 {
		sf.T3213 = 4 * time.Second
	} else if sf.T3213 < T3213Min || sf.T3213 > T3213Max {
		return errors.New("mm: T3213 out of range")
	}

	if sf.T3220 == 0 {
		sf.T3220 = 5 * time.Second
	} else if sf.T3220 < T3220Min || sf.T3220 > T3220Max {
		return errors.New("mm: T3220 out of range")
	}

	if sf.T3230 == 0 {
		sf.T3230 = 15 * time.Second
	} else if sf.T3230 < T3230Min || sf.T3230 > T3230Max {
		return errors.New("mm: T3230 out of range")
	}

	if sf.T3240 == 0 {
		sf.T3240 = 10 * time.Second
	} else if sf.T3240 < T3240Min || sf.T3240 > T3240Max {
		return errors.New("mm: T3240 out of range")
	}

	return nil
}

// DefaultTimerConfig returns the 04.08 default timer durations.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		T3210: 20 * time.Second,
		T3211: 10 * time.Second,
		T3213: 4 * time.Second,
		T3220: 5 * time.Second,
		T3230: 15 * time.Second,
		T3240: 10 * time.Second,
	}
}

// T3212Duration converts SI3's decihour-encoded periodic location-update
// timer value into a Duration. A value of 0 means the timer is disabled.
func T3212Duration(decihours uint8) time.Duration {
	return time.Duration(decihours) * 6 * time.Minute
}
