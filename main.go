// Package main is the entry point for the veilpack CLI.
package main

import "veilpack.dev/pkg/veilpack/cmd"

func main() {
	cmd.Execute()
}
