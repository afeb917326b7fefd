// Package main provides psxmon, an interactive monitor for stepping through
// BIOS code, inspecting registers and managing save states.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/sarchlab/psxcore/config"
	"github.com/sarchlab/psxcore/console"
	"github.com/sarchlab/psxcore/diag"
)

const prompt = "psx> "

var (
	configPath = flag.String("config", "", "Path to a JSON or YAML session config")
	biosPath   = flag.String("bios", "", "Path to the BIOS image (overrides the config)")
	logTail    = flag.Int("log", 0, "Print the last n diagnostic entries on exit")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *biosPath != "" {
		cfg.BIOSPath = *biosPath
	}

	log := diag.NewLog(diag.DefaultMaxEntries)
	psx, err := console.New(cfg, console.WithSink(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating console: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := session(ctx, psx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *logTail > 0 {
		for _, e := range log.Tail(*logTail) {
			fmt.Println(e)
		}
	}
}

// session reads commands from a raw-mode terminal, or line by line when
// stdin is not a terminal.
func session(ctx context.Context, psx *console.Console) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return script(ctx, NewMonitor(psx, os.Stdout), os.Stdin)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, prompt)
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}

	m := NewMonitor(psx, t)
	for {
		line, err := t.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		err = m.Exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(t, "error: %v\n", err)
		}
	}
}

// script executes one command per line from r and stops at the first error.
func script(ctx context.Context, m *Monitor, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		err := m.Exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}
