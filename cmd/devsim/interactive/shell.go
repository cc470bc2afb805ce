// Package interactive provides the interactive command-line interface
// for devsim.
package interactive

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/devmodel/devmodel-go/pkg/diag"
	"github.com/devmodel/devmodel-go/pkg/iface"
	"github.com/devmodel/devmodel-go/pkg/inspect"
	"github.com/devmodel/devmodel-go/pkg/machine"
)

// Shell drives a machine's interface tables from a command line.
type Shell struct {
	machine   *machine.Machine
	events    *diag.MemoryLogger
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	rl        *readline.Instance
	out       io.Writer

	// Buffers queued on controllers, kept so transfers from memory can be shown.
	queued map[string][]byte
}

// New creates a shell with a readline prompt. events must be the logger the
// machine's devices report to; the shell prints new events after each command.
func New(m *machine.Machine, events *diag.MemoryLogger) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "devsim> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := newShell(m, events, rl.Stdout())
	s.rl = rl
	return s, nil
}

func newShell(m *machine.Machine, events *diag.MemoryLogger, out io.Writer) *Shell {
	return &Shell{
		machine:   m,
		events:    events,
		inspector: inspect.NewInspector(m),
		formatter: inspect.NewFormatter(),
		out:       out,
		queued:    make(map[string][]byte),
	}
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return
		}

		if s.Execute(line) {
			fmt.Fprintln(s.out, "Exiting...")
			return
		}
	}
}

// Execute runs one command line. It returns true when the shell should exit.
func (s *Shell) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" || strings.HasPrefix(input, "#") {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "inspect", "i":
		s.cmdInspect(args)
	case "map":
		fmt.Fprint(s.out, s.formatter.FormatMap(s.machine.Space.Mappings()))
	case "read", "r":
		s.cmdRead(args)
	case "write", "w":
		s.cmdWrite(args)
	case "dump":
		s.cmdDump(args)

	case "init":
		s.withController(args, "init <controller>", func(name string, t iface.IDEDMA, _ iface.IDEDMAV2) { t.InitDMA() })
	case "reset":
		s.withController(args, "reset <controller>", func(name string, t iface.IDEDMA, _ iface.IDEDMAV2) {
			t.HardReset()
			delete(s.queued, name)
		})
	case "ready":
		s.withController(args, "ready <controller>", func(_ string, _ iface.IDEDMA, t iface.IDEDMAV2) { t.DMAReady() })
	case "notready":
		s.withController(args, "notready <controller>", func(_ string, _ iface.IDEDMA, t iface.IDEDMAV2) { t.DMANotReady() })
	case "queue", "q":
		s.cmdQueue(args)
	case "state":
		s.cmdState(args)

	case "start":
		s.cmdStart(args)
	case "stop":
		s.cmdStop(args)
	case "addr":
		s.cmdAddr(args)
	case "xfer":
		s.cmdXfer(args)
	case "irq":
		s.cmdLine(args, "irq", func(t iface.BusMasterIDE, ch int) iface.Line { return t.Interrupt(ch) })
	case "clear":
		s.cmdLine(args, "clear", func(t iface.BusMasterIDE, ch int) iface.Line { return t.InterruptClear(ch) })

	case "step":
		s.cmdStep(args)
	case "run":
		s.cmdRun(args)
	case "events", "e":
		s.cmdEvents()

	case "quit", "exit":
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	s.flushEvents()
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
devsim Commands:
  Inspection:
    inspect [path]             - Inspect the machine (or an object/bank)
    map                        - Show the address map
    read <path|addr>           - Read a register
    write <path|addr> <val>    - Write a register
    dump <addr> <len>          - Hex dump of memory

  Controller (ide_dma, ide_dma_v2):
    init <ctrl>                - init_dma
    reset <ctrl>               - hard_reset
    ready <ctrl>               - dma_ready
    notready <ctrl>            - dma_not_ready
    queue <ctrl> <hex|len>     - Queue data (hex bytes) or an empty buffer of len bytes
    state <ctrl>               - Show controller state

  Bus master (bus_master_ide):
    start <bm> <ch> [to|from]  - Start a channel (to memory is the default)
    stop <bm> <ch>             - Stop a channel
    addr <bm> <ch> <addr>      - Set the transfer address
    xfer <bm> <ch> <drv> <len> - transfer_dma with a zero buffer
    irq <bm> <ch>              - interrupt
    clear <bm> <ch>            - interrupt_clear

  Host:
    step [n]                   - Service every controller n times (default 1)
    run                        - Step until no controller makes progress
    events                     - Show diagnostics recorded so far

  General:
    help                       - Show this help
    quit                       - Exit

  Path Format:
    object/bank/register - e.g., ide0/ide/status
    Numbers accept 0x, 0o and 0b prefixes.`)
}

func completer() *readline.PrefixCompleter {
	names := []string{
		"help", "inspect", "map", "read", "write", "dump",
		"init", "reset", "ready", "notready", "queue", "state",
		"start", "stop", "addr", "xfer", "irq", "clear",
		"step", "run", "events", "quit",
	}
	items := make([]readline.PrefixCompleterInterface, 0, len(names))
	for _, n := range names {
		items = append(items, readline.PcItem(n))
	}
	return readline.NewPrefixCompleter(items...)
}

func (s *Shell) flushEvents() {
	if s.events == nil {
		return
	}
	for _, e := range s.events.Drain() {
		printEvent(s.out, e)
	}
}

func printEvent(w io.Writer, e diag.Event) {
	switch {
	case e.StateChange != nil:
		fmt.Fprintf(w, "  [%s] %s: %s -> %s\n", e.Object, e.StateChange.Entity, orDash(e.StateChange.OldState), e.StateChange.NewState)
	default:
		op := e.Table
		if e.Operation != "" {
			op += "." + e.Operation
		}
		fmt.Fprintf(w, "  [%s] %s %s: %s\n", e.Object, e.Kind, op, e.Message)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func hexDump(w io.Writer, data []byte) {
	fmt.Fprint(w, hex.Dump(data))
}
