// Package main is the entry point for the shiftmetrics CLI tool, which turns
// per-game hockey tracking exports into presence and overlap analytics.
package main

import "github.com/rinkstats/go-shift-metrics/cmd"

func main() {
	cmd.Execute()
}
