package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeRunne/burgershop/internal/domain/menu"
	"github.com/CodeRunne/burgershop/internal/domain/order"
)

func testOrder(t *testing.T, customer order.Identity) order.Order {
	t.Helper()
	o, err := order.New([]order.LineItem{{Kind: menu.CheeseBurger, Quantity: 1}}, customer)
	require.NoError(t, err)
	return o
}

func TestMemory_NextIDIsCount(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), id)

	require.NoError(t, m.Insert(ctx, 0, testOrder(t, "alice")))

	id, err = m.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id)
}

func TestMemory_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Insert(ctx, 0, testOrder(t, "alice")))
	err := m.Insert(ctx, 0, testOrder(t, "bob"))

	var dupErr *DuplicateIDError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, uint32(0), dupErr.ID)

	// The failed insert must not have touched either view.
	entries, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, order.Identity("alice"), entries[0].Order.Customer)
}

func TestMemory_GetNotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ViewsAgree(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first := testOrder(t, "alice")
	second := testOrder(t, "bob")
	require.NoError(t, m.Insert(ctx, 0, first))
	require.NoError(t, m.Insert(ctx, 1, second))

	entries, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, entry := range entries {
		got, err := m.Get(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.Order, got)
	}
}

func TestMemory_ListEmptyIsNil(t *testing.T) {
	m := NewMemory()

	entries, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestMemory_ListCreationOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	customers := []order.Identity{"a", "b", "c"}
	for i, c := range customers {
		require.NoError(t, m.Insert(ctx, uint32(i), testOrder(t, c)))
	}

	entries, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, uint32(i), entry.ID)
		assert.Equal(t, customers[i], entry.Order.Customer)
	}
}

func TestMemory_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Insert(ctx, 0, testOrder(t, "alice")))

	entries, err := m.List(ctx)
	require.NoError(t, err)
	entries[0].Order.Customer = "mallory"

	again, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, order.Identity("alice"), again[0].Order.Customer)
}
