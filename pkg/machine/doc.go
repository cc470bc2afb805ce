// Package machine loads machine descriptions and builds them into a registry
// of device objects, an address space and simulated memory.
//
// A machine file is YAML:
//
//	version: "1.0"
//	memory: 65536
//	objects:
//	  - name: bm0
//	    kind: bus-master-ide
//	    burst: 512
//	  - name: ide0
//	    kind: ide-controller
//	    channel: 0
//	    drive: 0
//	    bus_master: bm0
//	banks:
//	  - object: ide0
//	    bank: [scratch, "", [[r, "", 0, 1, 0, []]]]
//	mappings:
//	  - {object: bm0, bank: bmide, base: 0xc000}
//	  - {object: ide0, bank: ide, base: 0x1f0}
//
// Every object is checked against the device manifest of the file's format
// version (package version).
package machine
