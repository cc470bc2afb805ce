package iface

// Stable table names used for runtime lookup.
const (
	NameIDEDMA       = "ide_dma"
	NameIDEDMAV2     = "ide_dma_v2"
	NameBusMasterIDE = "bus_master_ide"
)

// IDEDMA is the original IDE DMA table.
type IDEDMA interface {
	// InitDMA prepares the device for a DMA session. Calling it again before
	// HardReset re-arms the device without corrupting state.
	InitDMA()

	// HardReset returns the device to its power-on DMA state. It always
	// succeeds and is safe at any point, including before InitDMA.
	HardReset()
}

// IDEDMAV2 is the edge-notification IDE DMA table.
type IDEDMAV2 interface {
	// DMAReady tells the device the shared DMA channel became available.
	// A repeated notification without an intervening DMANotReady is a no-op.
	DMAReady()

	// DMANotReady tells the device the shared DMA channel became unavailable.
	DMANotReady()

	// HardReset returns the device to its power-on DMA state.
	HardReset()
}

// BusMasterIDE is implemented by the bus-master peer that moves data on behalf
// of an IDE controller.
type BusMasterIDE interface {
	// TransferDMA moves up to length bytes between buf and memory for the
	// channel/drive pair and returns the bytes actually moved. A short count
	// is not an error; the caller re-issues for the remainder. An unknown
	// channel/drive pair or length <= 0 returns 0.
	TransferDMA(channel, drive int, buf []byte, length int) int

	// Interrupt raises the channel interrupt line and returns its state.
	Interrupt(channel int) Line

	// InterruptClear lowers the channel interrupt line and returns its state.
	InterruptClear(channel int) Line
}

// Line is the state of an interrupt line as reported by BusMasterIDE.
type Line uint8

const (
	// LineLow means the line is deasserted.
	LineLow Line = iota

	// LineHigh means the line is asserted.
	LineHigh

	// LineInvalid is returned for an unknown channel; no line changed.
	LineInvalid
)

// String returns the line state name.
func (l Line) String() string {
	switch l {
	case LineLow:
		return "low"
	case LineHigh:
		return "high"
	default:
		return "invalid"
	}
}
