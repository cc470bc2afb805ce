package object

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmodel/devmodel-go/pkg/iface"
	"github.com/devmodel/devmodel-go/pkg/iface/mocks"
	"github.com/devmodel/devmodel-go/pkg/regbank"
)

// controllerStub implements both IDE DMA tables.
type controllerStub struct{ armed, ready bool }

func (c *controllerStub) InitDMA()     { c.armed = true }
func (c *controllerStub) HardReset()   { *c = controllerStub{} }
func (c *controllerStub) DMAReady()    { c.ready = true }
func (c *controllerStub) DMANotReady() { c.ready = false }

func TestObjectBanks(t *testing.T) {
	obj := New("ide0", "ide-controller")

	bank := regbank.MustNew("ide", "", regbank.Register{Name: "data", Size: 2})
	require.NoError(t, obj.AddBank(bank))

	got, err := obj.Bank("ide")
	require.NoError(t, err)
	assert.Same(t, bank, got)

	assert.ErrorIs(t, obj.AddBank(regbank.MustNew("ide", "")), ErrDuplicateBank)
	assert.ErrorIs(t, obj.AddBank(nil), ErrNilBank)

	_, err = obj.Bank("missing")
	assert.ErrorIs(t, err, ErrBankNotFound)

	t.Run("ValidatesOnPublish", func(t *testing.T) {
		placeholder := regbank.MustNew("scratch", "", regbank.Register{Name: "r"})
		assert.ErrorIs(t, obj.AddBank(placeholder), regbank.ErrZeroSize)
		assert.Len(t, obj.Banks(), 1)
	})
}

func TestObjectPublish(t *testing.T) {
	obj := New("ide0", "ide-controller")
	ctrl := &controllerStub{}

	require.NoError(t, obj.Publish(iface.NameIDEDMAV2, ctrl))
	assert.ErrorIs(t, obj.Publish(iface.NameIDEDMAV2, ctrl), ErrDuplicateTable)
	assert.ErrorIs(t, obj.Publish(iface.NameBusMasterIDE, ctrl), iface.ErrNotImplemented)
	assert.ErrorIs(t, obj.Publish("floppy_dma", ctrl), iface.ErrUnknownTable)

	// ide_dma is independent of ide_dma_v2.
	assert.False(t, obj.HasTable(iface.NameIDEDMA))
	_, ok := iface.IDEDMAOf(obj)
	assert.False(t, ok)

	v2, ok := iface.IDEDMAV2Of(obj)
	require.True(t, ok)
	v2.DMAReady()
	assert.True(t, ctrl.ready)
}

func TestObjectPublishImplemented(t *testing.T) {
	obj := New("ide0", "ide-controller")

	names, err := obj.PublishImplemented(&controllerStub{})
	require.NoError(t, err)
	assert.Equal(t, []string{iface.NameIDEDMA, iface.NameIDEDMAV2}, names)
	assert.Equal(t, names, obj.Tables())
}

func TestObjectPublishImplementedAllOrNothing(t *testing.T) {
	obj := New("ide0", "ide-controller")
	first := &controllerStub{}
	require.NoError(t, obj.Publish(iface.NameIDEDMAV2, first))

	// ide_dma comes first in the catalog and is free; ide_dma_v2 is taken.
	_, err := obj.PublishImplemented(&controllerStub{})
	assert.ErrorIs(t, err, ErrDuplicateTable)

	assert.False(t, obj.HasTable(iface.NameIDEDMA))
	assert.Equal(t, []string{iface.NameIDEDMAV2}, obj.Tables())
	impl, ok := obj.Interface(iface.NameIDEDMAV2)
	require.True(t, ok)
	assert.Same(t, first, impl)
}

func TestObjectInfo(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	obj := NewWithID(id, "bmide0", "bus-master-ide")
	require.NoError(t, obj.Publish(iface.NameBusMasterIDE, mocks.NewBusMasterIDE(t)))
	require.NoError(t, obj.AddBank(regbank.MustNew("bmide", "",
		regbank.Register{Name: "cmd0", Size: 1},
		regbank.Register{Name: "prd0", Offset: 4, Size: 4},
	)))

	info := obj.Info()
	assert.Equal(t, id.String(), info.ID)
	assert.Equal(t, "bus-master-ide", info.Kind)
	assert.Equal(t, []string{iface.NameBusMasterIDE}, info.Tables)
	assert.Equal(t, []BankInfo{{Name: "bmide", Registers: 2, Span: 8}}, info.Banks)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	ide := New("ide0", "ide-controller")
	require.NoError(t, ide.Publish(iface.NameIDEDMAV2, &controllerStub{}))
	bm := New("bmide0", "bus-master-ide")
	require.NoError(t, bm.Publish(iface.NameBusMasterIDE, mocks.NewBusMasterIDE(t)))

	require.NoError(t, reg.Add(ide))
	require.NoError(t, reg.Add(bm))
	assert.Equal(t, 2, reg.Len())

	t.Run("Duplicates", func(t *testing.T) {
		assert.ErrorIs(t, reg.Add(New("ide0", "other")), ErrDuplicateObject)
		assert.ErrorIs(t, reg.Add(NewWithID(ide.ID(), "ide1", "other")), ErrDuplicateObject)
		assert.ErrorIs(t, reg.Add(nil), ErrNilObject)
		assert.ErrorIs(t, reg.Add(New("", "x")), ErrEmptyObjectName)
	})

	t.Run("Get", func(t *testing.T) {
		got, err := reg.Get("ide0")
		require.NoError(t, err)
		assert.Same(t, ide, got)

		got, err = reg.GetByID(bm.ID())
		require.NoError(t, err)
		assert.Same(t, bm, got)

		_, err = reg.Get("nope")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("Lookup", func(t *testing.T) {
		impl, err := reg.Lookup("bmide0", iface.NameBusMasterIDE)
		require.NoError(t, err)
		assert.Implements(t, (*iface.BusMasterIDE)(nil), impl)

		_, err = reg.Lookup("bmide0", iface.NameIDEDMA)
		assert.ErrorIs(t, err, ErrTableNotPublished)

		_, err = reg.Lookup("nope", iface.NameIDEDMA)
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("Objects", func(t *testing.T) {
		objs := reg.Objects()
		require.Len(t, objs, 2)
		assert.Equal(t, "bmide0", objs[0].Name())
		assert.Equal(t, "ide0", objs[1].Name())

		found := reg.FindWithTable(iface.NameIDEDMAV2)
		require.Len(t, found, 1)
		assert.Equal(t, "ide0", found[0].Name())
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, reg.Remove("ide0"))
		assert.ErrorIs(t, reg.Remove("ide0"), ErrObjectNotFound)
		_, err := reg.GetByID(ide.ID())
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})
}
