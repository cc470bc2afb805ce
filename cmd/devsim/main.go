// Command devsim loads machine descriptions and drives their IDE DMA
// interface tables.
//
// Usage:
//
//	devsim <command> [flags] <args>
//
// Commands:
//
//	inspect  Print objects, interface tables, banks and the address map
//	decode   Resolve addresses to object/bank/register
//	log      View, summarize or export a diagnostics file
//	shell    Interactive shell driving the tables
//
// Examples:
//
//	# Show a machine
//	devsim inspect machine.yaml
//
//	# Show one bank with current values
//	devsim inspect -path ide0/ide machine.yaml
//
//	# Decode addresses
//	devsim decode machine.yaml 0x1f7 0xc004
//
//	# Drive the machine, recording diagnostics
//	devsim shell -log run.dlog machine.yaml
//
//	# Show faults and violations from bm0
//	devsim log -object bm0 -severity warn run.dlog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/devmodel/devmodel-go/cmd/devsim/commands"
	"github.com/devmodel/devmodel-go/cmd/devsim/interactive"
	"github.com/devmodel/devmodel-go/pkg/diag"
	"github.com/devmodel/devmodel-go/pkg/machine"
)

const usage = `devsim - IDE DMA device model simulator

Usage:
  devsim <command> [flags] <args>

Commands:
  inspect  Print objects, interface tables, banks and the address map
  decode   Resolve addresses to object/bank/register
  log      View, summarize or export a diagnostics file
  shell    Interactive shell driving the tables

Use "devsim <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "inspect":
		runInspect(args)
	case "decode":
		runDecode(args)
	case "log":
		runLog(args)
	case "shell":
		runShell(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `devsim inspect - Print a machine

Usage:
  devsim inspect [flags] <machine.yaml>

Flags:
`)
		fs.PrintDefaults()
	}

	path := fs.String("path", "", "Limit output to an object or bank (e.g. ide0 or ide0/ide)")
	ids := fs.Bool("ids", false, "Show object IDs")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: machine file path required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.InspectOptions{Path: *path, ShowIDs: *ids}
	if err := commands.RunInspect(fs.Arg(0), opts, os.Stdout); err != nil {
		fatal(err)
	}
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `devsim decode - Resolve addresses

Usage:
  devsim decode <machine.yaml> <addr>...

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: machine file and at least one address required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunDecode(fs.Arg(0), fs.Args()[1:], os.Stdout); err != nil {
		fatal(err)
	}
}

func runLog(args []string) {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `devsim log - View a diagnostics file

Usage:
  devsim log [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	object := fs.String("object", "", "Filter by object name")
	table := fs.String("table", "", "Filter by interface table (ide_dma, ide_dma_v2, bus_master_ide)")
	kind := fs.String("kind", "", "Filter by kind (violation, fault, state, trace)")
	severity := fs.String("severity", "", "Minimum severity (debug, info, warn, error)")
	stats := fs.Bool("stats", false, "Show statistics instead of events")
	format := fs.String("export", "", "Export all events (jsonl, csv)")
	output := fs.String("o", "", "Export output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	switch {
	case *stats:
		if err := commands.RunStats(path, os.Stdout); err != nil {
			fatal(err)
		}
	case *format != "":
		if err := commands.RunExport(path, *format, *output); err != nil {
			fatal(err)
		}
	default:
		filter, err := commands.BuildFilter(*object, *table, *kind, *severity)
		if err != nil {
			fatal(err)
		}
		if err := commands.RunView(path, filter, os.Stdout); err != nil {
			fatal(err)
		}
	}
}

func runShell(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `devsim shell - Interactive shell

Usage:
  devsim shell [flags] <machine.yaml>

Flags:
`)
		fs.PrintDefaults()
	}

	logPath := fs.String("log", "", "Append diagnostics to this file (CBOR)")
	verbose := fs.Bool("v", false, "Also write diagnostics to stderr")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: machine file path required")
		fs.Usage()
		os.Exit(1)
	}

	events := &diag.MemoryLogger{}
	loggers := []diag.Logger{events}

	if *logPath != "" {
		fl, err := diag.NewFileLogger(*logPath)
		if err != nil {
			fatal(fmt.Errorf("failed to open log file: %w", err))
		}
		defer fl.Close()
		loggers = append(loggers, fl)
	}
	if *verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, diag.NewSlogAdapter(slog.New(handler)))
	}

	m, err := machine.LoadMachine(fs.Arg(0), diag.NewMultiLogger(loggers...))
	if err != nil {
		fatal(err)
	}
	for _, w := range m.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	shell, err := interactive.New(m, events)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shell.Run(ctx)
}
