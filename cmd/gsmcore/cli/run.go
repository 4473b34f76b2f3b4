// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rob-gra/gsmcore/cellsel"
	"github.com/rob-gra/gsmcore/freqtable"
	"github.com/rob-gra/gsmcore/l1prim"
	"github.com/rob-gra/gsmcore/msinst"
	"github.com/rob-gra/gsmcore/plmnsel"
	"github.com/rob-gra/gsmcore/subscr"
)

var tracePath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a recorded L1 primitive trace through one MS instance",
	RunE:  runTrace,
}

func init() {
	runCmd.Flags().StringVar(&tracePath, "trace", "", "path to a newline-delimited JSON trace of L1 power-measurement samples")
	runCmd.MarkFlagRequired("trace")
}

// tracePM is one line of the trace file: a power measurement sample for
// an ARFCN, the simplest L1 primitive this harness can replay without a
// radio attached.
type tracePM struct {
	Arfcn l1prim.Arfcn `json:"arfcn"`
	RxLev int8         `json:"rxlev"`
}

func runTrace(cmd *cobra.Command, args []string) error {
	logger := newLogger("gsmcore")
	logger.Debug("starting trace replay from %s", tracePath)

	sub := subscr.New()
	sub.IMSI = imsiFlag

	table := freqtable.New()
	table.SetSupport(func(a l1prim.Arfcn) bool { return true })

	ba, err := freqtable.LoadBAList(baListPath)
	if err != nil {
		return fmt.Errorf("load BA list: %w", err)
	}

	inst := msinst.NewInstance("harness-ms", sub, table, ba, cellsel.Config{}, plmnsel.ModeAutomatic)

	f, err := os.Open(tracePath)
	if err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var pm tracePM
		if err := json.Unmarshal(line, &pm); err != nil {
			return fmt.Errorf("parse trace line %d: %w", n+1, err)
		}
		inst.CS.RecordPowerMeasurement(pm.Arfcn, pm.RxLev)
		n++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read trace: %w", err)
	}

	logger.Debug("replayed %d power samples", n)
	fmt.Printf("replayed %d power-measurement samples; CS state=%s\n", n, inst.CS.State)
	return ba.FlushIfDirty(baListPath)
}
