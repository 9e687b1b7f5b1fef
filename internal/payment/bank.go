package payment

import (
	"context"
	"sync"

	"github.com/CodeRunne/burgershop/internal/domain/menu"
	"github.com/CodeRunne/burgershop/internal/domain/order"
)

var _ Gateway = (*MemoryBank)(nil)

// MemoryBank is an in-process Gateway keeping balances in a map. It serves
// development and tests; balances start at zero unless seeded.
type MemoryBank struct {
	mu       sync.Mutex
	balances map[order.Identity]uint64
}

// NewMemoryBank returns a bank with no accounts.
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{
		balances: make(map[order.Identity]uint64),
	}
}

func (b *MemoryBank) Deposit(_ context.Context, account order.Identity, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sum, err := menu.CheckedAdd(b.balances[account], amount)
	if err != nil {
		return err
	}
	b.balances[account] = sum
	return nil
}

func (b *MemoryBank) Transfer(_ context.Context, from, to order.Identity, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	have := b.balances[from]
	if have < amount {
		return &InsufficientFundsError{Account: from, Need: amount, Have: have}
	}
	sum, err := menu.CheckedAdd(b.balances[to], amount)
	if err != nil {
		return err
	}
	b.balances[from] = have - amount
	b.balances[to] = sum
	return nil
}

// Balance reports the current balance of an account.
func (b *MemoryBank) Balance(account order.Identity) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account]
}
