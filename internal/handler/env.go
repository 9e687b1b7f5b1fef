package handler

import (
	"context"

	"github.com/CodeRunne/burgershop/internal/domain/menu"
	"github.com/CodeRunne/burgershop/internal/domain/order"
	"github.com/CodeRunne/burgershop/internal/payment"
	"github.com/CodeRunne/burgershop/internal/shop"
)

type callerKey struct{}

type attachedValueKey struct{}

// WithCaller stores the authenticated caller identity on the context.
func WithCaller(ctx context.Context, id order.Identity) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

// CallerFrom extracts the caller identity set by the security middleware.
func CallerFrom(ctx context.Context) order.Identity {
	id, _ := ctx.Value(callerKey{}).(order.Identity)
	return id
}

// WithAttachedValue stores the payment amount attached to the current call.
func WithAttachedValue(ctx context.Context, amount uint64) context.Context {
	return context.WithValue(ctx, attachedValueKey{}, amount)
}

// AttachedValueFrom extracts the attached payment amount, zero if none.
func AttachedValueFrom(ctx context.Context) uint64 {
	amount, _ := ctx.Value(attachedValueKey{}).(uint64)
	return amount
}

var _ shop.Env = (*HostEnv)(nil)

// HostEnv implements shop.Env for the HTTP host: the caller identity and the
// attached value travel on the request context, and transfers settle through
// the payment gateway.
type HostEnv struct {
	shopAccount order.Identity
	holding     order.Identity
	bank        payment.Gateway
}

// NewHostEnv builds the host environment around a payment gateway. holding
// is the account that receives value attached to incoming calls before it is
// paid out to the shop.
func NewHostEnv(shopAccount, holding order.Identity, bank payment.Gateway) *HostEnv {
	return &HostEnv{
		shopAccount: shopAccount,
		holding:     holding,
		bank:        bank,
	}
}

func (e *HostEnv) Caller(ctx context.Context) order.Identity {
	return CallerFrom(ctx)
}

func (e *HostEnv) ShopAccount() order.Identity {
	return e.shopAccount
}

func (e *HostEnv) TransferredValue(ctx context.Context) uint64 {
	return AttachedValueFrom(ctx)
}

// Transfer settles amount price units to dest. The value attached to the
// call lands in the holding account first, then moves out in one step; the
// workflow has already verified the attached value equals the scaled amount.
func (e *HostEnv) Transfer(ctx context.Context, dest order.Identity, amount uint64) error {
	scaled, err := menu.CheckedMul(amount, shop.PaymentScale)
	if err != nil {
		return err
	}
	if err := e.bank.Deposit(ctx, e.holding, scaled); err != nil {
		return err
	}
	return e.bank.Transfer(ctx, e.holding, dest, scaled)
}
