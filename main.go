// Package main is the entry point for the vfault CLI.
package main

import "vfault.dev/pkg/vfault/cmd"

func main() {
	cmd.Execute()
}
