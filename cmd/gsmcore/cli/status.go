// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rob-gra/gsmcore/freqtable"
	"github.com/rob-gra/gsmcore/subscr"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print subscriber and BA-list state",
	RunE:  runStatus,
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	return t
}

func runStatus(cmd *cobra.Command, args []string) error {
	sub := subscr.New()
	sub.IMSI = imsiFlag

	ba, err := freqtable.LoadBAList(baListPath)
	if err != nil {
		return fmt.Errorf("load BA list: %w", err)
	}

	subT := newTable("SUBSCRIBER")
	subT.AppendHeader(table.Row{"FIELD", "VALUE"})
	subT.AppendRow(table.Row{"IMSI", sub.IMSI})
	subT.AppendRow(table.Row{"SIM valid", sub.SIMValid})
	subT.AppendRow(table.Row{"Update state", sub.UState})
	subT.AppendRow(table.Row{"RPLMN valid", sub.RPLMN.Valid})
	subT.Render()

	fmt.Println()

	baT := newTable("BA LIST")
	baT.AppendHeader(table.Row{"MCC", "MNC", "ARFCN COUNT"})
	for k, e := range ba.Entries() {
		count := 0
		for i := 0; i < freqtable.NumEntries; i++ {
			if e.Has(freqtable.ArfcnOf(i)) {
				count++
			}
		}
		baT.AppendRow(table.Row{k[0], k[1], count})
	}
	baT.Render()

	return nil
}
