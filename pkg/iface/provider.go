package iface

// Provider is implemented by objects that publish interface tables.
// The returned value is a non-owning reference valid for the object's lifetime.
type Provider interface {
	Interface(name string) (any, bool)
}

// IDEDMAOf looks up the ide_dma table on p.
func IDEDMAOf(p Provider) (IDEDMA, bool) {
	return lookupAs[IDEDMA](p, NameIDEDMA)
}

// IDEDMAV2Of looks up the ide_dma_v2 table on p.
func IDEDMAV2Of(p Provider) (IDEDMAV2, bool) {
	return lookupAs[IDEDMAV2](p, NameIDEDMAV2)
}

// BusMasterIDEOf looks up the bus_master_ide table on p.
func BusMasterIDEOf(p Provider) (BusMasterIDE, bool) {
	return lookupAs[BusMasterIDE](p, NameBusMasterIDE)
}

func lookupAs[T any](p Provider, name string) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}
	impl, ok := p.Interface(name)
	if !ok {
		return zero, false
	}
	t, ok := impl.(T)
	return t, ok
}
