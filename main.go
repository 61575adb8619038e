package main

import "github.com/MinTTT/snapgene-history-exporter/cmd"

func main() {
	cmd.Execute() // initialize cobra commands
}
