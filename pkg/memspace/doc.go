// Package memspace is the host's address-decoding component.
//
// A Space maps register banks at base addresses and resolves an address to
// the object, bank and register that decode it. Reads and writes are
// dispatched to the owning device through RegisterAccessor; the register
// flags decide what the bus sees (write-only registers read as zero, writes
// to read-only registers are rejected).
//
// Memory is a flat byte-addressed RAM used as the target of bus-master DMA.
package memspace
