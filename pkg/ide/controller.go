package ide

import (
	"github.com/devmodel/devmodel-go/pkg/diag"
	"github.com/devmodel/devmodel-go/pkg/iface"
	"github.com/devmodel/devmodel-go/pkg/regbank"
)

// ControllerBankName is the name of the ATA task file bank.
const ControllerBankName = "ide"

// ATA status bits.
const (
	ATAStatusErr  uint8 = 0x01
	ATAStatusDRQ  uint8 = 0x08
	ATAStatusDSC  uint8 = 0x10
	ATAStatusDRDY uint8 = 0x40
	ATAStatusBSY  uint8 = 0x80
)

// taskFileSize is the number of registers in the task file.
const taskFileSize = 8

// controllerBank is the ATA command block. Features and command alias error
// and status at the same offsets and are not described.
var controllerBank = regbank.MustNew(ControllerBankName, "ATA task file",
	regbank.Register{Name: "data", Description: "data port", Offset: 0, Size: 1, Flags: regbank.FlagVolatile},
	regbank.Register{Name: "error", Description: "error", Offset: 1, Size: 1, Flags: regbank.FlagReadOnly},
	regbank.Register{Name: "sector_count", Description: "sector count", Offset: 2, Size: 1, Reset: 0x01},
	regbank.Register{Name: "lba_low", Description: "LBA bits 0-7", Offset: 3, Size: 1, Reset: 0x01},
	regbank.Register{Name: "lba_mid", Description: "LBA bits 8-15", Offset: 4, Size: 1},
	regbank.Register{Name: "lba_high", Description: "LBA bits 16-23", Offset: 5, Size: 1},
	regbank.Register{Name: "device", Description: "device/head", Offset: 6, Size: 1},
	regbank.Register{Name: "status", Description: "status", Offset: 7, Size: 1, Reset: uint64(ATAStatusDRDY | ATAStatusDSC), Flags: regbank.FlagReadOnly | regbank.FlagVolatile},
)

// ControllerBank returns the task file bank descriptor.
func ControllerBank() *regbank.Bank {
	return controllerBank
}

// State is a comparable snapshot of a controller.
type State struct {
	// Armed is set by InitDMA and cleared when a transfer completes.
	Armed bool

	// ChannelReady tracks the last DMAReady/DMANotReady notification.
	ChannelReady bool

	// Pending is the number of queued bytes not yet transferred.
	Pending int

	// Completed counts transfers finished since the last reset.
	Completed int

	// TaskFile holds the task file registers indexed by offset.
	TaskFile [taskFileSize]uint8
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	Channel int
	Drive   int

	// BusMaster moves the controller's data. It can also be set later with
	// SetBusMaster.
	BusMaster iface.BusMasterIDE

	// Reporter receives diagnostics. May be nil.
	Reporter *diag.Reporter
}

// Controller is an IDE controller serving one channel/drive pair.
type Controller struct {
	channel   int
	drive     int
	busMaster iface.BusMasterIDE
	diag      *diag.Reporter

	state State
	queue []byte
	done  int
}

// NewController creates a controller in its post-reset state.
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		channel:   cfg.Channel,
		drive:     cfg.Drive,
		busMaster: cfg.BusMaster,
		diag:      cfg.Reporter,
	}
	c.reset()
	return c
}

// Channel returns the channel the controller serves.
func (c *Controller) Channel() int { return c.channel }

// Drive returns the drive the controller serves.
func (c *Controller) Drive() int { return c.drive }

// SetBusMaster sets the bus-master peer.
func (c *Controller) SetBusMaster(bm iface.BusMasterIDE) {
	c.busMaster = bm
}

// SetReporter replaces the diagnostics reporter.
func (c *Controller) SetReporter(r *diag.Reporter) {
	c.diag = r
}

// InitDMA implements iface.IDEDMA. Calling it while armed changes nothing.
func (c *Controller) InitDMA() {
	if c.state.Armed {
		return
	}
	c.state.Armed = true
	c.diag.StateChange("dma", "idle", "armed")
}

// HardReset implements iface.IDEDMA and iface.IDEDMAV2.
func (c *Controller) HardReset() {
	c.reset()
	c.diag.StateChange("controller", "", "reset")
}

// DMAReady implements iface.IDEDMAV2.
func (c *Controller) DMAReady() {
	if c.state.ChannelReady {
		return
	}
	c.state.ChannelReady = true
	c.diag.StateChange("channel", "not_ready", "ready")
}

// DMANotReady implements iface.IDEDMAV2.
func (c *Controller) DMANotReady() {
	if !c.state.ChannelReady {
		return
	}
	c.state.ChannelReady = false
	c.diag.StateChange("channel", "ready", "not_ready")
}

// QueueTransfer queues buf for the next DMA session, replacing anything still
// pending. The bus master reads from buf for transfers to memory and fills it
// for transfers from memory; the caller must not touch buf until the
// transfer completes.
func (c *Controller) QueueTransfer(buf []byte) {
	c.queue = buf
	c.done = 0
	c.state.Pending = len(buf)
	if len(buf) > 0 {
		c.state.TaskFile[7] = (c.state.TaskFile[7] | ATAStatusDRQ) &^ ATAStatusErr
	}
}

// Service runs one bus-master transaction for the queued data and returns the
// bytes moved. A partial transfer leaves the remainder pending for the next
// call. When the last byte moves, the channel interrupt is raised and the
// controller disarms.
func (c *Controller) Service() int {
	if !c.state.Armed || !c.state.ChannelReady || c.state.Pending == 0 || c.busMaster == nil {
		return 0
	}

	rest := c.queue[c.done:]
	n := c.busMaster.TransferDMA(c.channel, c.drive, rest, len(rest))
	if n <= 0 {
		return 0
	}
	if n > len(rest) {
		c.diag.Violation(iface.NameBusMasterIDE, "transfer_dma", c.channel, c.drive,
			"bus master reported %d bytes for a %d byte request", n, len(rest))
		n = len(rest)
	}

	c.done += n
	c.state.Pending -= n
	if c.state.Pending == 0 {
		c.complete()
	}
	return n
}

// Acknowledge clears the channel interrupt after the host has handled a
// completion and returns the resulting line.
func (c *Controller) Acknowledge() iface.Line {
	if c.busMaster == nil {
		return iface.LineInvalid
	}
	return c.busMaster.InterruptClear(c.channel)
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	return c.state
}

// ReadRegister implements memspace.RegisterAccessor.
func (c *Controller) ReadRegister(bank, register string) (uint64, bool) {
	idx, ok := taskFileIndex(bank, register)
	if !ok {
		return 0, false
	}
	return uint64(c.state.TaskFile[idx]), true
}

// WriteRegister implements memspace.RegisterAccessor.
func (c *Controller) WriteRegister(bank, register string, value uint64) bool {
	idx, ok := taskFileIndex(bank, register)
	if !ok {
		return false
	}
	c.state.TaskFile[idx] = uint8(value)
	return true
}

func (c *Controller) complete() {
	c.queue = nil
	c.done = 0
	c.state.Armed = false
	c.state.Completed++
	c.state.TaskFile[7] &^= ATAStatusDRQ | ATAStatusBSY
	c.diag.StateChange("dma", "armed", "complete")
	c.busMaster.Interrupt(c.channel)
}

func (c *Controller) reset() {
	c.queue = nil
	c.done = 0
	c.state = State{}
	for _, r := range controllerBank.Registers() {
		c.state.TaskFile[r.Offset] = uint8(r.Reset)
	}
}

func taskFileIndex(bank, register string) (uint64, bool) {
	if bank != ControllerBankName {
		return 0, false
	}
	r, ok := controllerBank.Register(register)
	if !ok || r.Offset >= taskFileSize {
		return 0, false
	}
	return r.Offset, true
}

// Compile-time interface satisfaction checks.
var (
	_ iface.IDEDMA   = (*Controller)(nil)
	_ iface.IDEDMAV2 = (*Controller)(nil)
)
