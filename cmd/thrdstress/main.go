// Package main implements the thrdstress CLI tool.
//
// thrdstress exercises the threads emulation runtime under
// contention from the command line: each subcommand hammers one
// primitive family (mutexes, condition variables, call-once,
// thread-local storage) with a configurable number of worker threads
// and reports throughput and invariant checks. The doctor subcommand
// verifies that the host runtime supports the emulation — thread
// identity extraction works and the Go version is in the supported
// range.
//
// Usage:
//
//	thrdstress mutex --workers 8 --iterations 100000
//	thrdstress cond --workers 8 --duration 2s
//	thrdstress once --workers 64
//	thrdstress tls --workers 32
//	thrdstress doctor
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/evo-i/threads/thrd"
)

func main() {
	app := &cli.App{
		Name:    "thrdstress",
		Usage:   "stress and diagnose the threads emulation runtime",
		Version: thrd.Version,
		Commands: []*cli.Command{
			mutexCommand(),
			condCommand(),
			onceCommand(),
			tlsCommand(),
			doctorCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "thrdstress:", err)
		os.Exit(1)
	}
}

// workersFlag is shared by every stress subcommand.
func workersFlag(value int) *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "workers",
		Aliases: []string{"w"},
		Value:   value,
		Usage:   "number of threads to spawn",
	}
}
