// Package main provides the entry point for psxcore.
// psxcore is an interpreter for the PlayStation's R3000A CPU and its
// address space.
//
// For the batch runner, use: go run ./cmd/psxsim
// For the interactive monitor, use: go run ./cmd/psxmon
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("psxcore - PlayStation R3000A CPU interpreter")
	fmt.Println("")
	fmt.Println("Usage: psxsim [options] -bios <bios.bin>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -bios      Path to the 512 KiB BIOS image")
	fmt.Println("  -exe       PS-X EXE to side-load at the shell")
	fmt.Println("  -frames    Number of frames to run")
	fmt.Println("  -config    Path to a JSON or YAML session config")
	fmt.Println("  -save      Write a save state when done")
	fmt.Println("  -icache    Model the instruction cache")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/psxsim' for the batch runner")
	fmt.Println("or 'go run ./cmd/psxmon' for the monitor.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/psxsim' instead.")
	}
}
