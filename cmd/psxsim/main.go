// Package main provides psxsim, a batch runner that boots a BIOS, optionally
// side-loads a PS-X EXE, and runs a number of frames.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/go-logr/logr/funcr"

	"github.com/sarchlab/psxcore/config"
	"github.com/sarchlab/psxcore/console"
	"github.com/sarchlab/psxcore/diag"
	"github.com/sarchlab/psxcore/emu"
	"github.com/sarchlab/psxcore/loader"
)

var (
	configPath = flag.String("config", "", "Path to a JSON or YAML session config")
	biosPath   = flag.String("bios", "", "Path to the BIOS image (overrides the config)")
	exePath    = flag.String("exe", "", "PS-X EXE to side-load once the BIOS reaches the shell")
	frames     = flag.Int("frames", 60, "Number of frames to run")
	verbose    = flag.Bool("v", false, "Verbose output")
	savePath   = flag.String("save", "", "Write a save state here when done")
	loadPath   = flag.String("load", "", "Restore a save state before running")
	useICache  = flag.Bool("icache", false, "Model the instruction cache")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.BIOSPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: psxsim [options] -bios <bios.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	os.Exit(run(cfg))
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	}

	if *biosPath != "" {
		cfg.BIOSPath = *biosPath
	}
	if *exePath != "" {
		cfg.EXEPath = *exePath
	}
	if *verbose {
		cfg.Verbose = true
	}
	if *useICache {
		cfg.ICache = true
	}

	return cfg, cfg.Validate()
}

func newSink(cfg *config.Config) diag.Sink {
	verbosity := 0
	if cfg.Verbose {
		verbosity = 2
	}

	logger := funcr.New(func(prefix, args string) {
		fmt.Fprintln(os.Stderr, prefix, args)
	}, funcr.Options{Verbosity: verbosity})

	return diag.NewLogr(logger.WithName("psx"))
}

func run(cfg *config.Config) int {
	psx, err := console.New(cfg, console.WithSink(newSink(cfg)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating console: %v\n", err)
		return 1
	}

	if *loadPath != "" {
		if err := psx.LoadState(*loadPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
			return 1
		}
	}

	if cfg.EXEPath != "" {
		exe, err := loader.LoadEXE(cfg.EXEPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading executable: %v\n", err)
			return 1
		}
		if err := psx.BootEXE(context.Background(), exe); err != nil {
			fmt.Fprintf(os.Stderr, "Error booting executable: %v\n", err)
			return 1
		}
		if cfg.Verbose {
			fmt.Printf("Loaded: %s\n", cfg.EXEPath)
			fmt.Printf("Entry point: 0x%08X\n", exe.PC)
			fmt.Printf("Text: %d bytes at 0x%08X\n", len(exe.Text), exe.TextAddr)
		}
	} else {
		psx.Start()
	}

	exitCode := 0
	for i := 0; i < *frames; i++ {
		if _, err := psx.RunFrame(); err != nil {
			fmt.Fprintf(os.Stderr, "Host fault: %v\n", err)
			exitCode = 2
			break
		}
		if psx.CPU().State() != emu.Running {
			break
		}
	}

	printStats(psx)

	if *savePath != "" {
		if err := psx.SaveState(*savePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving state: %v\n", err)
			return 1
		}
	}

	return exitCode
}

func printStats(psx *console.Console) {
	cpu := psx.CPU()
	exceptions, last := cpu.Exceptions()

	fmt.Printf("\n")
	fmt.Printf("Frames: %d\n", psx.Frames())
	fmt.Printf("Instructions executed: %d\n", cpu.InstrCount())
	fmt.Printf("Exceptions: %d (last: %s)\n", exceptions, last)
	fmt.Printf("CPU state: %s\n", cpu.State())
	fmt.Printf("PC: 0x%08X\n", cpu.PC())

	gpu := psx.GPU()
	fmt.Printf("GPUSTAT: 0x%08X\n", gpu.Status())

	if ic := psx.ICache(); ic != nil {
		stats := ic.Stats()
		fmt.Printf("\n")
		fmt.Printf("Instruction cache:\n")
		fmt.Printf("  Fetches:       %d\n", stats.Fetches)
		fmt.Printf("  Hits:          %d (%5.1f%%)\n", stats.Hits, 100.0*stats.HitRate())
		fmt.Printf("  Misses:        %d\n", stats.Misses)
		fmt.Printf("  Invalidations: %d\n", stats.Invalidations)
	}
}
