package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBank_DepositAndTransfer(t *testing.T) {
	ctx := context.Background()
	bank := NewMemoryBank()

	require.NoError(t, bank.Deposit(ctx, "alice", 100))
	require.NoError(t, bank.Transfer(ctx, "alice", "shop", 40))

	assert.Equal(t, uint64(60), bank.Balance("alice"))
	assert.Equal(t, uint64(40), bank.Balance("shop"))
}

func TestMemoryBank_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	bank := NewMemoryBank()

	require.NoError(t, bank.Deposit(ctx, "alice", 10))
	err := bank.Transfer(ctx, "alice", "shop", 11)

	var ifErr *InsufficientFundsError
	require.ErrorAs(t, err, &ifErr)
	assert.Equal(t, uint64(11), ifErr.Need)
	assert.Equal(t, uint64(10), ifErr.Have)

	// A failed transfer changes no balances.
	assert.Equal(t, uint64(10), bank.Balance("alice"))
	assert.Equal(t, uint64(0), bank.Balance("shop"))
}
