// Package main is the entry point for the schedule CLI.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata" // [time] zone must resolve on hosts without a zoneinfo database

	"github.com/runoshun/schedule/internal/app"
	"github.com/runoshun/schedule/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	rootCmd := cli.NewRootCommand(app.New, version)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
