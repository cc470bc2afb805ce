// Package ide provides reference device models for the IDE DMA interface
// tables.
//
// BusMaster implements bus_master_ide: it moves bytes between a controller's
// buffer and simulated memory and drives the per-channel interrupt lines.
// Controller implements ide_dma and ide_dma_v2: it is armed by InitDMA,
// learns about channel availability through DMAReady/DMANotReady, and pumps
// queued data through its bus-master peer one burst per host step.
//
//	mem := memspace.NewMemory(64 << 10)
//	bm := ide.NewBusMaster(ide.BusMasterConfig{Memory: mem, Burst: 512})
//	ctrl := ide.NewController(ide.ControllerConfig{Channel: 0, Drive: 0, BusMaster: bm})
//	_ = bm.Attach(0, 0, ctrl)
//
//	ctrl.InitDMA()
//	ctrl.QueueTransfer(sector)
//	bm.SetAddress(0, 0x1000)
//	bm.Start(0, true) // notifies ctrl.DMAReady
//	for ctrl.Service() > 0 {
//	}
//
// # Concurrency
//
// Devices in this package hold no locks. The host guarantees at most one
// in-flight call per object: every operation is a synchronous call that
// completes within the calling step. A host that drives devices from several
// goroutines must serialize calls per object at its own boundary.
//
// # Failure reporting
//
// Table operations never return errors. An unknown channel/drive pair yields
// 0 bytes or iface.LineInvalid and a contract-violation event; a memory fault
// yields 0 bytes and a fault event. Events go to the diag.Reporter given in
// the device config.
package ide
