// Package main is the entry point for the hotcold CLI, which classifies NBA
// game logs into cold, average and hot performances.
package main

import "github.com/pable/go-nba-hotcold/cmd"

func main() {
	cmd.Execute()
}
