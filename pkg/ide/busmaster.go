package ide

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/devmodel/devmodel-go/pkg/diag"
	"github.com/devmodel/devmodel-go/pkg/iface"
	"github.com/devmodel/devmodel-go/pkg/regbank"
)

// Channel layout.
const (
	Channels         = 2
	DrivesPerChannel = 2
)

// BusMasterBankName is the name of the bus-master register bank.
const BusMasterBankName = "bmide"

// Command register bits.
const (
	// CmdStart starts the channel's DMA engine.
	CmdStart uint8 = 0x01

	// CmdToMemory selects device-to-memory transfers (a disk read).
	CmdToMemory uint8 = 0x08
)

// Status register bits.
const (
	StatusActive    uint8 = 0x01
	StatusError     uint8 = 0x02
	StatusInterrupt uint8 = 0x04
	StatusDrive0DMA uint8 = 0x20
	StatusDrive1DMA uint8 = 0x40
)

// ErrInvalidChannel is returned by configuration methods for an unknown
// channel/drive pair.
var ErrInvalidChannel = errors.New("invalid IDE channel or drive")

// busMasterBank follows the PIIX layout: one 8-byte block per channel.
var busMasterBank = regbank.MustNew(BusMasterBankName, "bus master IDE",
	regbank.Register{Name: "cmd0", Description: "channel 0 command", Offset: 0x0, Size: 1},
	regbank.Register{Name: "status0", Description: "channel 0 status", Offset: 0x2, Size: 1, Flags: regbank.FlagVolatile},
	regbank.Register{Name: "prd0", Description: "channel 0 transfer address", Offset: 0x4, Size: 4},
	regbank.Register{Name: "cmd1", Description: "channel 1 command", Offset: 0x8, Size: 1},
	regbank.Register{Name: "status1", Description: "channel 1 status", Offset: 0xa, Size: 1, Flags: regbank.FlagVolatile},
	regbank.Register{Name: "prd1", Description: "channel 1 transfer address", Offset: 0xc, Size: 4},
)

// BusMasterBank returns the bus-master register bank descriptor.
func BusMasterBank() *regbank.Bank {
	return busMasterBank
}

// Memory is the DMA target.
type Memory interface {
	io.ReaderAt
	io.WriterAt
}

// BusMasterConfig configures a BusMaster.
type BusMasterConfig struct {
	// Memory is the transfer target. Transfers fail without it.
	Memory Memory

	// Burst caps the bytes moved per TransferDMA call. 0 means no cap.
	Burst int

	// Reporter receives diagnostics. May be nil.
	Reporter *diag.Reporter
}

type busChannel struct {
	cmd    uint8
	status uint8
	addr   uint32
	cursor uint64
	line   iface.Line
	peers  [DrivesPerChannel]iface.IDEDMAV2
}

// BusMaster is a two-channel bus-master IDE function.
type BusMaster struct {
	memory   Memory
	burst    int
	channels [Channels]busChannel
	diag     *diag.Reporter
}

// NewBusMaster creates a bus master in its power-on state.
func NewBusMaster(cfg BusMasterConfig) *BusMaster {
	return &BusMaster{
		memory: cfg.Memory,
		burst:  cfg.Burst,
		diag:   cfg.Reporter,
	}
}

// SetReporter replaces the diagnostics reporter.
func (b *BusMaster) SetReporter(r *diag.Reporter) {
	b.diag = r
}

// Attach connects the controller serving a channel/drive pair. Start and stop
// of the channel are forwarded to it as DMAReady and DMANotReady.
func (b *BusMaster) Attach(channel, drive int, peer iface.IDEDMAV2) error {
	if !validDrive(channel, drive) {
		return fmt.Errorf("%w: channel %d drive %d", ErrInvalidChannel, channel, drive)
	}
	b.channels[channel].peers[drive] = peer
	return nil
}

// Reset returns every channel to its power-on state. Attached peers are kept.
func (b *BusMaster) Reset() {
	for i := range b.channels {
		peers := b.channels[i].peers
		b.channels[i] = busChannel{peers: peers}
	}
}

// TransferDMA implements iface.BusMasterIDE.
func (b *BusMaster) TransferDMA(channel, drive int, buf []byte, length int) int {
	if !validDrive(channel, drive) {
		b.diag.Violation(iface.NameBusMasterIDE, "transfer_dma", channel, drive,
			"unknown channel/drive pair %d/%d", channel, drive)
		return 0
	}
	if length <= 0 {
		return 0
	}

	ch := &b.channels[channel]
	if ch.cmd&CmdStart == 0 {
		return 0
	}

	n := min(length, len(buf))
	if b.burst > 0 {
		n = min(n, b.burst)
	}
	if n == 0 {
		return 0
	}
	if b.memory == nil {
		b.fault(channel, errors.New("no memory attached"))
		return 0
	}

	addr := int64(ch.addr) + int64(ch.cursor)
	var err error
	if ch.cmd&CmdToMemory != 0 {
		_, err = b.memory.WriteAt(buf[:n], addr)
	} else {
		var got int
		got, err = b.memory.ReadAt(buf[:n], addr)
		if errors.Is(err, io.EOF) && got > 0 {
			n, err = got, nil
		}
	}
	if err != nil {
		b.fault(channel, fmt.Errorf("transfer of %d bytes at %#x: %w", n, addr, err))
		return 0
	}

	ch.cursor += uint64(n)
	return n
}

// Interrupt implements iface.BusMasterIDE.
func (b *BusMaster) Interrupt(channel int) iface.Line {
	if !validChannel(channel) {
		b.diag.Violation(iface.NameBusMasterIDE, "interrupt", channel, -1, "unknown channel %d", channel)
		return iface.LineInvalid
	}
	ch := &b.channels[channel]
	ch.line = iface.LineHigh
	ch.status |= StatusInterrupt
	return ch.line
}

// InterruptClear implements iface.BusMasterIDE.
func (b *BusMaster) InterruptClear(channel int) iface.Line {
	if !validChannel(channel) {
		b.diag.Violation(iface.NameBusMasterIDE, "interrupt_clear", channel, -1, "unknown channel %d", channel)
		return iface.LineInvalid
	}
	ch := &b.channels[channel]
	ch.line = iface.LineLow
	ch.status &^= StatusInterrupt
	return ch.line
}

// Start starts a channel's DMA engine in the given direction.
func (b *BusMaster) Start(channel int, toMemory bool) error {
	if !validChannel(channel) {
		return fmt.Errorf("%w: channel %d", ErrInvalidChannel, channel)
	}
	cmd := CmdStart
	if toMemory {
		cmd |= CmdToMemory
	}
	b.writeCommand(channel, cmd)
	return nil
}

// Stop stops a channel's DMA engine.
func (b *BusMaster) Stop(channel int) error {
	if !validChannel(channel) {
		return fmt.Errorf("%w: channel %d", ErrInvalidChannel, channel)
	}
	b.writeCommand(channel, b.channels[channel].cmd&^CmdStart)
	return nil
}

// SetAddress sets the memory address a channel transfers to or from.
// The address is dword aligned, as on the real hardware.
func (b *BusMaster) SetAddress(channel int, addr uint32) error {
	if !validChannel(channel) {
		return fmt.Errorf("%w: channel %d", ErrInvalidChannel, channel)
	}
	b.channels[channel].addr = addr &^ 3
	return nil
}

// Line returns a channel's interrupt line without changing it.
func (b *BusMaster) Line(channel int) iface.Line {
	if !validChannel(channel) {
		return iface.LineInvalid
	}
	return b.channels[channel].line
}

// Transferred returns the bytes moved on a channel since it was last started.
func (b *BusMaster) Transferred(channel int) uint64 {
	if !validChannel(channel) {
		return 0
	}
	return b.channels[channel].cursor
}

// ReadRegister implements memspace.RegisterAccessor.
func (b *BusMaster) ReadRegister(bank, register string) (uint64, bool) {
	channel, field, ok := b.decode(bank, register)
	if !ok {
		return 0, false
	}
	ch := &b.channels[channel]
	switch field {
	case "cmd":
		return uint64(ch.cmd), true
	case "status":
		return uint64(ch.status), true
	default:
		return uint64(ch.addr), true
	}
}

// WriteRegister implements memspace.RegisterAccessor.
// Status bits for interrupt and error are write-one-to-clear.
func (b *BusMaster) WriteRegister(bank, register string, value uint64) bool {
	channel, field, ok := b.decode(bank, register)
	if !ok {
		return false
	}
	ch := &b.channels[channel]
	switch field {
	case "cmd":
		b.writeCommand(channel, uint8(value)&(CmdStart|CmdToMemory))
	case "status":
		v := uint8(value)
		ch.status &^= v & StatusError
		if v&StatusInterrupt != 0 {
			b.InterruptClear(channel)
		}
		capable := StatusDrive0DMA | StatusDrive1DMA
		ch.status = ch.status&^capable | v&capable
	default:
		ch.addr = uint32(value) &^ 3
	}
	return true
}

func (b *BusMaster) writeCommand(channel int, cmd uint8) {
	ch := &b.channels[channel]
	old := ch.cmd
	ch.cmd = cmd

	switch {
	case old&CmdStart == 0 && cmd&CmdStart != 0:
		ch.cursor = 0
		ch.status |= StatusActive
		b.diag.StateChange(channelName(channel), "stopped", "running")
		for _, peer := range ch.peers {
			if peer != nil {
				peer.DMAReady()
			}
		}
	case old&CmdStart != 0 && cmd&CmdStart == 0:
		ch.status &^= StatusActive
		b.diag.StateChange(channelName(channel), "running", "stopped")
		for _, peer := range ch.peers {
			if peer != nil {
				peer.DMANotReady()
			}
		}
	}
}

func (b *BusMaster) fault(channel int, err error) {
	b.channels[channel].status |= StatusError
	b.diag.Fault(iface.NameBusMasterIDE, "transfer_dma", channel, err)
}

// decode splits "cmd1" into channel 1 and field "cmd".
func (b *BusMaster) decode(bank, register string) (int, string, bool) {
	if bank != BusMasterBankName {
		return 0, "", false
	}
	if _, ok := busMasterBank.Register(register); !ok {
		return 0, "", false
	}
	last := len(register) - 1
	channel, err := strconv.Atoi(register[last:])
	if err != nil || !validChannel(channel) {
		return 0, "", false
	}
	return channel, register[:last], true
}

func channelName(channel int) string {
	return "channel" + strconv.Itoa(channel)
}

func validChannel(channel int) bool {
	return channel >= 0 && channel < Channels
}

func validDrive(channel, drive int) bool {
	return validChannel(channel) && drive >= 0 && drive < DrivesPerChannel
}

// Compile-time interface satisfaction check.
var _ iface.BusMasterIDE = (*BusMaster)(nil)
