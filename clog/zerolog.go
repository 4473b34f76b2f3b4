// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package clog

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// ZerologConfig configures the rotating structured-log provider used by the
// gsmcore harness. The zero value logs to stdout with no rotation.
type ZerologConfig struct {
	// Filename, when non-empty, routes output through lumberjack instead of
	// stdout.
	Filename   string
	MaxSizeMB  int // default 10
	MaxBackups int // default 5
	MaxAgeDays int // default 28
}

// zerologProvider adapts zerolog.Logger to clog.LogProvider so call sites
// never import zerolog directly, the same seam defaultLogger keeps over the
// standard library logger.
type zerologProvider struct {
	logger zerolog.Logger
}

var _ LogProvider = (*zerologProvider)(nil)

// NewZerologProvider builds a LogProvider backed by zerolog, optionally
// writing through a rotating lumberjack sink.
func NewZerologProvider(prefix string, cfg ZerologConfig) LogProvider {
	var w io.Writer = os.Stdout
	if cfg.Filename != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize == 0 {
			maxSize = 10
		}
		maxBackups := cfg.MaxBackups
		if maxBackups == 0 {
			maxBackups = 5
		}
		maxAge := cfg.MaxAgeDays
		if maxAge == 0 {
			maxAge = 28
		}
		w = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
		}
	}
	logger := zerolog.New(w).With().Timestamp().Str("component", prefix).Logger()
	return zerologProvider{logger: logger}
}

func (p zerologProvider) Critical(format string, v ...interface{}) {
	p.logger.Error().Str("level", "critical").Msg(fmt.Sprintf(format, v...))
}

func (p zerologProvider) Error(format string, v ...interface{}) {
	p.logger.Error().Msg(fmt.Sprintf(format, v...))
}

func (p zerologProvider) Warn(format string, v ...interface{}) {
	p.logger.Warn().Msg(fmt.Sprintf(format, v...))
}

func (p zerologProvider) Debug(format string, v ...interface{}) {
	p.logger.Debug().Msg(fmt.Sprintf(format, v...))
}
