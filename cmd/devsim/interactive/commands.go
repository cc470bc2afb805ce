package interactive

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/devmodel/devmodel-go/pkg/iface"
	"github.com/devmodel/devmodel-go/pkg/inspect"
)

// cmdInspect handles the inspect command.
func (s *Shell) cmdInspect(args []string) {
	if len(args) == 0 {
		for _, obj := range s.machine.Registry.Objects() {
			fmt.Fprint(s.out, s.formatter.FormatObject(obj.Info()))
		}
		return
	}

	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid path: %v\n", err)
		return
	}

	if path.Bank == "" {
		info, err := s.inspector.InspectObject(path.Object)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		fmt.Fprint(s.out, s.formatter.FormatObject(info))
		return
	}

	bank, err := s.inspector.InspectBank(path.Object, path.Bank)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(s.out, s.formatter.FormatBank(bank))
}

// cmdRead handles the read command.
func (s *Shell) cmdRead(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: read <path|addr>")
		fmt.Fprintln(s.out, "  Example: read ide0/ide/status")
		return
	}

	if inspect.IsAddress(args[0]) {
		addr, _ := inspect.ParseNumber(args[0])
		v, err := s.inspector.ReadAddress(addr)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		hit, _ := s.inspector.Decode(addr)
		fmt.Fprintf(s.out, "%s = %s\n", hit.Register.Name, inspect.FormatValue(v, hit.Register.Size))
		return
	}

	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid path: %v\n", err)
		return
	}
	if path.IsPartial {
		s.cmdInspect(args)
		return
	}
	v, err := s.inspector.Read(path)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s = %#x\n", path.Register, v)
}

// cmdWrite handles the write command.
func (s *Shell) cmdWrite(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: write <path|addr> <value>")
		fmt.Fprintln(s.out, "  Example: write bm0/bmide/cmd0 0x09")
		return
	}

	value, err := inspect.ParseNumber(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid value: %v\n", err)
		return
	}

	if inspect.IsAddress(args[0]) {
		addr, _ := inspect.ParseNumber(args[0])
		if err := s.inspector.WriteAddress(addr, value); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(s.out, "OK: %#x = %#x\n", addr, value)
		return
	}

	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid path: %v\n", err)
		return
	}
	if err := s.inspector.Write(path, value); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "OK: %s = %#x\n", path, value)
}

// cmdDump prints a range of memory.
func (s *Shell) cmdDump(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: dump <addr> <len>")
		return
	}
	addr, err := inspect.ParseNumber(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid address: %v\n", err)
		return
	}
	n, err := inspect.ParseNumber(args[1])
	if err != nil || n == 0 || n > 4096 {
		fmt.Fprintln(s.out, "Invalid length: must be 1-4096")
		return
	}
	buf := make([]byte, n)
	got, err := s.machine.Memory.ReadAt(buf, int64(addr))
	if got == 0 && err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	hexDump(s.out, buf[:got])
}

// withController resolves a controller's tables through the registry.
func (s *Shell) withController(args []string, usage string, fn func(name string, v1 iface.IDEDMA, v2 iface.IDEDMAV2)) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: "+usage)
		return
	}
	obj, err := s.machine.Registry.Get(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	v1, ok1 := iface.IDEDMAOf(obj)
	v2, ok2 := iface.IDEDMAV2Of(obj)
	if !ok1 || !ok2 {
		fmt.Fprintf(s.out, "Error: %s does not publish %s and %s\n", args[0], iface.NameIDEDMA, iface.NameIDEDMAV2)
		return
	}
	fn(args[0], v1, v2)
}

// cmdQueue queues data on a controller.
func (s *Shell) cmdQueue(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: queue <controller> <hex|len>")
		return
	}
	ctrl, ok := s.machine.Controller(args[0])
	if !ok {
		fmt.Fprintf(s.out, "Error: no controller %s\n", args[0])
		return
	}

	var buf []byte
	if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
		buf = make([]byte, n)
	} else {
		buf, err = hex.DecodeString(args[1])
		if err != nil || len(buf) == 0 {
			fmt.Fprintln(s.out, "Invalid data: want a byte count or hex bytes")
			return
		}
	}
	ctrl.QueueTransfer(buf)
	s.queued[args[0]] = buf
	fmt.Fprintf(s.out, "Queued %d bytes on %s\n", len(buf), args[0])
}

// cmdState shows a controller's state.
func (s *Shell) cmdState(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: state <controller>")
		return
	}
	ctrl, ok := s.machine.Controller(args[0])
	if !ok {
		fmt.Fprintf(s.out, "Error: no controller %s\n", args[0])
		return
	}
	st := ctrl.State()
	fmt.Fprintf(s.out, "%s (channel %d, drive %d)\n", args[0], ctrl.Channel(), ctrl.Drive())
	fmt.Fprintf(s.out, "  armed:     %v\n", st.Armed)
	fmt.Fprintf(s.out, "  ready:     %v\n", st.ChannelReady)
	fmt.Fprintf(s.out, "  pending:   %d bytes\n", st.Pending)
	fmt.Fprintf(s.out, "  completed: %d\n", st.Completed)
	fmt.Fprintf(s.out, "  status:    %#02x\n", st.TaskFile[7])
	if buf, ok := s.queued[args[0]]; ok && st.Pending == 0 && st.Completed > 0 {
		fmt.Fprintln(s.out, "  last buffer:")
		hexDump(s.out, buf)
	}
}

func (s *Shell) busMasterArgs(args []string, n int, usage string) (string, int, bool) {
	if len(args) < n {
		fmt.Fprintln(s.out, "Usage: "+usage)
		return "", 0, false
	}
	if _, ok := s.machine.BusMaster(args[0]); !ok {
		fmt.Fprintf(s.out, "Error: no bus master %s\n", args[0])
		return "", 0, false
	}
	ch, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid channel: %s\n", args[1])
		return "", 0, false
	}
	return args[0], ch, true
}

// cmdStart starts a bus-master channel.
func (s *Shell) cmdStart(args []string) {
	name, ch, ok := s.busMasterArgs(args, 2, "start <bm> <channel> [to|from]")
	if !ok {
		return
	}
	toMemory := true
	if len(args) > 2 {
		switch args[2] {
		case "to":
		case "from":
			toMemory = false
		default:
			fmt.Fprintln(s.out, "Direction must be 'to' or 'from'")
			return
		}
	}
	bm, _ := s.machine.BusMaster(name)
	if err := bm.Start(ch, toMemory); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

// cmdStop stops a bus-master channel.
func (s *Shell) cmdStop(args []string) {
	name, ch, ok := s.busMasterArgs(args, 2, "stop <bm> <channel>")
	if !ok {
		return
	}
	bm, _ := s.machine.BusMaster(name)
	if err := bm.Stop(ch); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

// cmdAddr sets a channel's transfer address.
func (s *Shell) cmdAddr(args []string) {
	name, ch, ok := s.busMasterArgs(args, 3, "addr <bm> <channel> <addr>")
	if !ok {
		return
	}
	addr, err := inspect.ParseNumber(args[2])
	if err != nil || addr > 0xffffffff {
		fmt.Fprintf(s.out, "Invalid address: %s\n", args[2])
		return
	}
	bm, _ := s.machine.BusMaster(name)
	if err := bm.SetAddress(ch, uint32(addr)); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

// cmdXfer calls transfer_dma directly.
func (s *Shell) cmdXfer(args []string) {
	name, ch, ok := s.busMasterArgs(args, 4, "xfer <bm> <channel> <drive> <len>")
	if !ok {
		return
	}
	drive, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid drive: %s\n", args[2])
		return
	}
	length, err := strconv.Atoi(args[3])
	if err != nil || length > 1<<20 {
		fmt.Fprintf(s.out, "Invalid length: %s\n", args[3])
		return
	}
	t, err := s.busMasterTable(name)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	buf := make([]byte, max(length, 0))
	n := t.TransferDMA(ch, drive, buf, length)
	fmt.Fprintf(s.out, "transferred %d bytes\n", n)
}

// cmdLine raises or clears an interrupt line.
func (s *Shell) cmdLine(args []string, cmd string, fn func(iface.BusMasterIDE, int) iface.Line) {
	name, ch, ok := s.busMasterArgs(args, 2, cmd+" <bm> <channel>")
	if !ok {
		return
	}
	t, err := s.busMasterTable(name)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "line %s\n", inspect.FormatLine(fn(t, ch)))
}

func (s *Shell) busMasterTable(name string) (iface.BusMasterIDE, error) {
	impl, err := s.machine.Registry.Lookup(name, iface.NameBusMasterIDE)
	if err != nil {
		return nil, err
	}
	return impl.(iface.BusMasterIDE), nil
}

// cmdStep services the controllers.
func (s *Shell) cmdStep(args []string) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			fmt.Fprintf(s.out, "Invalid count: %s\n", args[0])
			return
		}
		n = v
	}
	var moved int
	for range n {
		moved += s.machine.Step()
	}
	fmt.Fprintf(s.out, "moved %d bytes\n", moved)
}

// cmdRun steps until nothing moves.
func (s *Shell) cmdRun(_ []string) {
	steps := s.machine.Run(1 << 16)
	fmt.Fprintf(s.out, "%d steps\n", steps)
}

// cmdEvents prints events not yet shown.
func (s *Shell) cmdEvents() {
	if s.events == nil || len(s.events.Events()) == 0 {
		fmt.Fprintln(s.out, "(no new events)")
	}
}
