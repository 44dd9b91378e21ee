// Package main is the entry point for the riftgrade CLI tool, which scores
// League of Legends matches against historical champion cohorts.
package main

import "github.com/riftlab/riftgrade/cmd"

func main() {
	cmd.Execute()
}
