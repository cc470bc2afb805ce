// Package diag carries device diagnostics out of the simulation core.
//
// Interface-table operations never return errors. When a device sees a
// contract violation (an unknown channel/drive pair) or an operational fault
// (a failed memory access), it reports an Event to a Logger and encodes the
// failure in its return value. Devices never print; the host decides where
// events go.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	logger := diag.NewSlogAdapter(slog.Default())
//
//	// For later analysis: write to a CBOR file
//	fileLogger, _ := diag.NewFileLogger("/tmp/machine.dlog")
//
//	// Both
//	logger := diag.NewMultiLogger(diag.NewSlogAdapter(slog.Default()), fileLogger)
//
// Devices wrap the logger in a Reporter that stamps the object identity:
//
//	r := diag.NewReporter(logger, obj.ID().String(), obj.Name())
//	r.Violation(iface.NameBusMasterIDE, "transfer_dma", ch, drive, "unknown channel")
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys, using the
// .dlog extension. Reader streams them back with an optional Filter.
package diag
