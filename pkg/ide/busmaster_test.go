package ide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmodel/devmodel-go/pkg/diag"
	"github.com/devmodel/devmodel-go/pkg/iface"
	"github.com/devmodel/devmodel-go/pkg/iface/mocks"
	"github.com/devmodel/devmodel-go/pkg/memspace"
	"github.com/devmodel/devmodel-go/pkg/object"
)

func newTestBusMaster(t *testing.T, burst int) (*BusMaster, *memspace.Memory, *diag.MemoryLogger) {
	t.Helper()
	mem := memspace.NewMemory(256)
	logs := &diag.MemoryLogger{}
	bm := NewBusMaster(BusMasterConfig{
		Memory:   mem,
		Burst:    burst,
		Reporter: diag.NewReporter(logs, "id", "bm"),
	})
	logs.Drain()
	return bm, mem, logs
}

func TestBusMasterBankValid(t *testing.T) {
	require.NoError(t, BusMasterBank().Validate())
	assert.Equal(t, uint64(16), BusMasterBank().Span())
}

func TestTransferDMANonPositiveLength(t *testing.T) {
	bm, mem, logs := newTestBusMaster(t, 0)
	require.NoError(t, bm.Start(0, true))
	logs.Drain()

	buf := []byte{1, 2, 3, 4}
	for _, length := range []int{0, -1, -100} {
		assert.Equal(t, 0, bm.TransferDMA(0, 0, buf, length))
	}
	assert.Equal(t, uint64(0), bm.Transferred(0))
	assert.Empty(t, logs.Events())

	got := make([]byte, 4)
	_, err := mem.ReadAt(got, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, got)
}

func TestTransferDMAUnknownChannel(t *testing.T) {
	tests := []struct {
		name           string
		channel, drive int
	}{
		{"negative channel", -1, 0},
		{"channel too high", Channels, 0},
		{"negative drive", 0, -1},
		{"drive too high", 1, DrivesPerChannel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, _, logs := newTestBusMaster(t, 0)
			n := bm.TransferDMA(tt.channel, tt.drive, make([]byte, 8), 8)
			assert.Equal(t, 0, n)

			events := logs.Events()
			require.Len(t, events, 1)
			assert.Equal(t, diag.KindContractViolation, events[0].Kind)
			assert.Equal(t, iface.NameBusMasterIDE, events[0].Table)
			assert.Equal(t, "transfer_dma", events[0].Operation)
		})
	}
}

func TestTransferDMAStoppedEngine(t *testing.T) {
	bm, _, logs := newTestBusMaster(t, 0)
	assert.Equal(t, 0, bm.TransferDMA(0, 0, make([]byte, 8), 8))
	assert.Empty(t, logs.Events())
}

func TestTransferDMAToMemory(t *testing.T) {
	bm, mem, _ := newTestBusMaster(t, 0)
	require.NoError(t, bm.SetAddress(1, 0x40))
	require.NoError(t, bm.Start(1, true))

	n := bm.TransferDMA(1, 1, []byte("hello"), 5)
	assert.Equal(t, 5, n)
	assert.Equal(t, uint64(5), bm.Transferred(1))

	got := make([]byte, 5)
	_, err := mem.ReadAt(got, 0x40)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestTransferDMAFromMemory(t *testing.T) {
	bm, mem, _ := newTestBusMaster(t, 0)
	_, err := mem.WriteAt([]byte("abcdef"), 0x20)
	require.NoError(t, err)
	require.NoError(t, bm.SetAddress(0, 0x20))
	require.NoError(t, bm.Start(0, false))

	buf := make([]byte, 6)
	assert.Equal(t, 6, bm.TransferDMA(0, 0, buf, len(buf)))
	assert.Equal(t, "abcdef", string(buf))
}

func TestTransferDMAPartial(t *testing.T) {
	bm, mem, _ := newTestBusMaster(t, 4)
	require.NoError(t, bm.Start(0, true))

	data := []byte("0123456789")
	var moved []int
	for off := 0; off < len(data); {
		n := bm.TransferDMA(0, 0, data[off:], len(data)-off)
		require.Positive(t, n)
		moved = append(moved, n)
		off += n
	}
	assert.Equal(t, []int{4, 4, 2}, moved)

	got := make([]byte, len(data))
	_, err := mem.ReadAt(got, 0)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestTransferDMALengthShorterThanBuffer(t *testing.T) {
	bm, _, _ := newTestBusMaster(t, 0)
	require.NoError(t, bm.Start(0, true))
	assert.Equal(t, 3, bm.TransferDMA(0, 0, make([]byte, 10), 3))
}

func TestTransferDMAMemoryFault(t *testing.T) {
	bm, _, logs := newTestBusMaster(t, 0)
	require.NoError(t, bm.SetAddress(0, 0xfc))
	require.NoError(t, bm.Start(0, true))
	logs.Drain()

	assert.Equal(t, 0, bm.TransferDMA(0, 0, make([]byte, 8), 8))

	events := logs.Events()
	require.Len(t, events, 1)
	assert.Equal(t, diag.KindFault, events[0].Kind)

	status, ok := bm.ReadRegister(BusMasterBankName, "status0")
	require.True(t, ok)
	assert.NotZero(t, uint8(status)&StatusError)
}

func TestInterruptLines(t *testing.T) {
	bm, _, _ := newTestBusMaster(t, 0)

	assert.Equal(t, iface.LineLow, bm.Line(0))
	assert.Equal(t, iface.LineHigh, bm.Interrupt(0))
	assert.Equal(t, iface.LineHigh, bm.Interrupt(0))
	assert.Equal(t, iface.LineHigh, bm.Line(0))
	assert.Equal(t, iface.LineLow, bm.Line(1))

	assert.Equal(t, iface.LineLow, bm.InterruptClear(0))
	assert.Equal(t, iface.LineLow, bm.InterruptClear(0))
	assert.Equal(t, iface.LineLow, bm.Line(0))
}

func TestInterruptUnknownChannel(t *testing.T) {
	bm, _, logs := newTestBusMaster(t, 0)

	assert.Equal(t, iface.LineInvalid, bm.Interrupt(2))
	assert.Equal(t, iface.LineInvalid, bm.InterruptClear(-1))
	assert.Equal(t, iface.LineInvalid, bm.Line(7))

	events := logs.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "interrupt", events[0].Operation)
	assert.Equal(t, "interrupt_clear", events[1].Operation)
	assert.Nil(t, events[0].Drive)
}

func TestStartStopNotifiesPeers(t *testing.T) {
	bm, _, _ := newTestBusMaster(t, 0)

	master := mocks.NewIDEDMAV2(t)
	slave := mocks.NewIDEDMAV2(t)
	other := mocks.NewIDEDMAV2(t)
	require.NoError(t, bm.Attach(0, 0, master))
	require.NoError(t, bm.Attach(0, 1, slave))
	require.NoError(t, bm.Attach(1, 0, other))

	master.On("DMAReady").Return().Once()
	slave.On("DMAReady").Return().Once()
	require.NoError(t, bm.Start(0, false))
	// Already running: no second notification.
	require.NoError(t, bm.Start(0, false))

	master.On("DMANotReady").Return().Once()
	slave.On("DMANotReady").Return().Once()
	require.NoError(t, bm.Stop(0))
	require.NoError(t, bm.Stop(0))

	other.AssertNotCalled(t, "DMAReady")
}

func TestAttachInvalid(t *testing.T) {
	bm, _, _ := newTestBusMaster(t, 0)
	err := bm.Attach(2, 0, mocks.NewIDEDMAV2(t))
	assert.ErrorIs(t, err, ErrInvalidChannel)
	assert.ErrorIs(t, bm.Start(-1, true), ErrInvalidChannel)
	assert.ErrorIs(t, bm.Stop(5), ErrInvalidChannel)
	assert.ErrorIs(t, bm.SetAddress(2, 0), ErrInvalidChannel)
}

func TestBusMasterRegisters(t *testing.T) {
	bm, _, _ := newTestBusMaster(t, 0)
	peer := mocks.NewIDEDMAV2(t)
	require.NoError(t, bm.Attach(1, 0, peer))

	peer.On("DMAReady").Return().Once()
	require.True(t, bm.WriteRegister(BusMasterBankName, "cmd1", uint64(CmdStart|CmdToMemory|0x80)))

	cmd, ok := bm.ReadRegister(BusMasterBankName, "cmd1")
	require.True(t, ok)
	assert.Equal(t, uint64(CmdStart|CmdToMemory), cmd)

	status, ok := bm.ReadRegister(BusMasterBankName, "status1")
	require.True(t, ok)
	assert.Equal(t, uint64(StatusActive), status)

	require.True(t, bm.WriteRegister(BusMasterBankName, "prd1", 0x1003))
	addr, ok := bm.ReadRegister(BusMasterBankName, "prd1")
	require.True(t, ok)
	assert.Equal(t, uint64(0x1000), addr)

	_, ok = bm.ReadRegister(BusMasterBankName, "bogus")
	assert.False(t, ok)
	_, ok = bm.ReadRegister("ide", "cmd0")
	assert.False(t, ok)
}

func TestBusMasterStatusWriteOneToClear(t *testing.T) {
	bm, _, _ := newTestBusMaster(t, 0)
	bm.Interrupt(0)

	require.True(t, bm.WriteRegister(BusMasterBankName, "status0", uint64(StatusDrive0DMA)))
	status, _ := bm.ReadRegister(BusMasterBankName, "status0")
	assert.Equal(t, uint64(StatusInterrupt|StatusDrive0DMA), status)
	assert.Equal(t, iface.LineHigh, bm.Line(0))

	require.True(t, bm.WriteRegister(BusMasterBankName, "status0", uint64(StatusInterrupt|StatusDrive0DMA)))
	status, _ = bm.ReadRegister(BusMasterBankName, "status0")
	assert.Equal(t, uint64(StatusDrive0DMA), status)
	assert.Equal(t, iface.LineLow, bm.Line(0))
}

func TestBusMasterReset(t *testing.T) {
	bm, _, _ := newTestBusMaster(t, 0)
	peer := mocks.NewIDEDMAV2(t)
	require.NoError(t, bm.Attach(0, 0, peer))

	peer.On("DMAReady").Return().Twice()
	require.NoError(t, bm.Start(0, true))
	bm.Interrupt(0)

	bm.Reset()
	assert.Equal(t, iface.LineLow, bm.Line(0))
	cmd, _ := bm.ReadRegister(BusMasterBankName, "cmd0")
	assert.Zero(t, cmd)

	// The peer survives the reset.
	require.NoError(t, bm.Start(0, true))
}

func TestBusMasterThroughAddressSpace(t *testing.T) {
	bm, _, _ := newTestBusMaster(t, 0)
	obj := object.New("bm0", "bus-master-ide")
	require.NoError(t, obj.AddBank(BusMasterBank()))

	space := memspace.NewSpace()
	require.NoError(t, space.Map(0xc000, obj, BusMasterBankName, bm))

	require.NoError(t, space.Write(0xc004, 0x2000))
	v, err := space.Read(0xc004)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x2000), v)

	require.NoError(t, space.Write(0xc000, uint64(CmdStart)))
	v, err = space.Read(0xc002)
	require.NoError(t, err)
	assert.Equal(t, uint64(StatusActive), v)
}
