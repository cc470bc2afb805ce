// Package object implements device objects and the host's object registry.
//
// An Object owns zero or more register banks and publishes zero or more
// interface tables under their stable names. The Registry maps object names
// and IDs to objects and resolves (object, table) pairs:
//
//	reg := object.NewRegistry()
//	obj := object.New("bmide0", "bus-master-ide")
//	_ = obj.AddBank(bank)
//	_ = obj.Publish(iface.NameBusMasterIDE, busMaster)
//	_ = reg.Add(obj)
//
//	impl, err := reg.Lookup("bmide0", iface.NameBusMasterIDE)
//
// Objects are configured before the simulation runs and are not
// synchronized. The Registry is the host-side boundary and is safe for
// concurrent use.
package object
