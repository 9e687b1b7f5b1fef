// Package payment abstracts the value-transfer primitive the settlement
// workflow relies on. The shop core only sees shop.Env; this package backs
// the HTTP host's implementation of it.
package payment

import (
	"context"
	"fmt"

	"github.com/CodeRunne/burgershop/internal/domain/order"
)

// InsufficientFundsError indicates a transfer exceeding the source balance.
type InsufficientFundsError struct {
	Account order.Identity
	Need    uint64
	Have    uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("account %s holds %d, transfer needs %d", e.Account, e.Have, e.Need)
}

// Gateway moves value between accounts, in the payment system's smallest
// unit. Real deployments implement it against their settlement rail.
type Gateway interface {
	// Deposit credits an account. It models value arriving attached to a
	// call.
	Deposit(ctx context.Context, account order.Identity, amount uint64) error
	// Transfer moves amount from one account to another, failing without
	// any balance change when funds are insufficient.
	Transfer(ctx context.Context, from, to order.Identity, amount uint64) error
}
