package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeRunne/burgershop/internal/domain/menu"
	"github.com/CodeRunne/burgershop/internal/domain/order"
	"github.com/CodeRunne/burgershop/internal/ledger"
)

func TestTransferRecordJSON(t *testing.T) {
	rec := NewTransfer("alice", "shop", 34)

	var got struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		Transfer struct {
			From  string `json:"from"`
			To    string `json:"to"`
			Value uint64 `json:"value"`
		} `json:"transfer"`
	}
	require.NoError(t, json.Unmarshal(rec.JSON(), &got))

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, string(TypeTransfer), got.Type)
	assert.Equal(t, "alice", got.Transfer.From)
	assert.Equal(t, "shop", got.Transfer.To)
	assert.Equal(t, uint64(34), got.Transfer.Value)
}

func TestReadRecordJSON(t *testing.T) {
	o, err := order.New([]order.LineItem{{Kind: menu.CheeseBurger, Quantity: 1}}, "alice")
	require.NoError(t, err)

	single := NewSingleOrderRead(o)
	var gotSingle struct {
		Type  string `json:"type"`
		Order struct {
			Customer   string `json:"customer"`
			TotalPrice uint64 `json:"total_price"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(single.JSON(), &gotSingle))
	assert.Equal(t, string(TypeSingleOrderRead), gotSingle.Type)
	assert.Equal(t, "alice", gotSingle.Order.Customer)
	assert.Equal(t, uint64(12), gotSingle.Order.TotalPrice)

	all := NewAllOrdersRead([]ledger.Entry{{ID: 0, Order: o}})
	var gotAll struct {
		Type   string `json:"type"`
		Orders []struct {
			ID uint32 `json:"id"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(all.JSON(), &gotAll))
	assert.Equal(t, string(TypeAllOrdersRead), gotAll.Type)
	require.Len(t, gotAll.Orders, 1)
}

func TestRecordIDsAreUnique(t *testing.T) {
	first := NewShopCreated()
	second := NewShopCreated()
	assert.NotEqual(t, first.ID, second.ID)
}
