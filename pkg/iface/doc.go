// Package iface defines the device interface tables a simulated device may
// publish for the host and its peers.
//
// # Tables
//
// Each table is a closed set of operations identified by a stable name:
//
//	ide_dma         InitDMA, HardReset
//	ide_dma_v2      DMAReady, DMANotReady, HardReset
//	bus_master_ide  TransferDMA, Interrupt, InterruptClear
//
// Tables are capabilities, not a hierarchy. ide_dma_v2 is a distinct table
// and a device that implements it need not implement ide_dma. A device may
// publish any number of tables; the device itself is the method receiver.
//
// # Lookup
//
// Objects expose tables through Provider. The typed accessors resolve a name
// and assert the Go interface in one step:
//
//	if bm, ok := iface.BusMasterIDEOf(obj); ok {
//	    n := bm.TransferDMA(0, 0, buf, len(buf))
//	}
//
// # Failure semantics
//
// Table operations never return errors. They either succeed, are no-ops, or
// encode failure in their return value (0 bytes transferred, LineInvalid).
// Deeper faults go to the device's diagnostics logger.
package iface
