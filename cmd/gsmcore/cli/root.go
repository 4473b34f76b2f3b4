// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package cli is the gsmcore harness's cobra command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rob-gra/gsmcore/clog"
)

var (
	version = "0.1.0"

	imsiFlag       string
	rplmnFlag      string
	baListPath     string
	forbiddenPath  string
	logLevel       string
	logFile        string
)

var rootCmd = &cobra.Command{
	Use:     "gsmcore",
	Short:   "GSM mobile-station layer-3 core harness",
	Version: version,
	Long: `gsmcore drives one MS instance's cell-selection, PLMN-selection,
RR, MM and GCC/BCC state machines against a recorded L1 primitive
trace, for development and interop testing without a radio attached.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&imsiFlag, "imsi", "", "subscriber IMSI")
	rootCmd.PersistentFlags().StringVar(&rplmnFlag, "rplmn", "", "registered PLMN as MCC:MNC:LAC")
	rootCmd.PersistentFlags().StringVar(&baListPath, "ba-list", "ba.dat", "path to the persisted BA-list file")
	rootCmd.PersistentFlags().StringVar(&forbiddenPath, "forbidden-list", "forbidden.dat", "path to the persisted forbidden-PLMN/LA list file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (rotated); empty logs to stdout")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(prefix string) clog.Clog {
	l := clog.NewLogger(prefix)
	l.LogMode(true)
	cfg := clog.ZerologConfig{Filename: logFile}
	l.SetLogProvider(clog.NewZerologProvider(prefix, cfg))
	return l
}
