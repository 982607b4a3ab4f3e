// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"fmt"
	"os"

	"md5view/commandline"
	"md5view/conlog"
	"md5view/viewer"
)

func main() {
	flag.Parse()
	conlog.SetPrintf(func(format string, v ...any) {
		fmt.Printf(format, v...)
	})
	conlog.SetDeveloper(commandline.Developer())
	if err := viewer.Run(viewer.FromCommandline()); err != nil {
		fmt.Fprintf(os.Stderr, "md5view: %v\n", err)
		os.Exit(1)
	}
}
