// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Command gsmcore is a developer harness around the core: it loads the
// BA-list file, replays a recorded L1 power-measurement trace through one
// MS instance, and prints the resulting state. The forbidden-list path
// flag is accepted but no command reads that file. It is not the product-facing VTY/CLI the full stack would
// ship (that is explicitly out of scope); it exists so this module can
// be exercised without a phone attached.
package main

import "github.com/rob-gra/gsmcore/cmd/gsmcore/cli"

func main() {
	cli.Execute()
}
