// Package shop implements the burger shop's settlement workflow and queries.
//
// The workflow is all-or-nothing: an order is committed to the ledger only
// after the external payment transfer succeeds, and no state is touched on
// any failure path. The only effectful step that can fail for external
// reasons is Env.Transfer.
package shop

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/CodeRunne/burgershop/internal/domain/menu"
	"github.com/CodeRunne/burgershop/internal/domain/order"
	"github.com/CodeRunne/burgershop/internal/ledger"
	"github.com/CodeRunne/burgershop/internal/notify"
)

// PaymentScale converts a price-unit amount into the payment system's
// smallest unit. Payment comparison happens in smallest units.
const PaymentScale uint64 = 1_000_000_000_000

// ErrSelfDealing rejects orders placed by the shop's own account.
var ErrSelfDealing = errors.New("shop cannot order from itself")

// PaymentMismatchError reports an attached payment that differs from the
// exact required amount. Over- and underpayment are both rejected: the shop
// makes no change and grants no partial credit.
type PaymentMismatchError struct {
	TotalPrice uint64 // in price units
	Required   uint64 // in payment smallest units
	Attached   uint64 // in payment smallest units
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("please pay the complete amount, which is %d (got %d, want %d in payment units)",
		e.TotalPrice, e.Attached, e.Required)
}

// PaymentFailedError wraps a failed external transfer. The ledger is
// untouched when it is returned, so the caller may safely retry.
type PaymentFailedError struct {
	Err error
}

func (e *PaymentFailedError) Error() string {
	return "payment transfer failed: " + e.Err.Error()
}

func (e *PaymentFailedError) Unwrap() error {
	return e.Err
}

// Env is the narrow interface to the hosting environment: caller identity,
// the value attached to the current call, and the payment transfer
// primitive. Implementations are injected; the shop never assumes a
// particular payment technology.
type Env interface {
	// Caller returns the identity the current call originates from.
	Caller(ctx context.Context) order.Identity
	// ShopAccount returns the shop's own account identity.
	ShopAccount() order.Identity
	// TransferredValue returns the payment attached to the current call,
	// in the payment system's smallest unit.
	TransferredValue(ctx context.Context) uint64
	// Transfer moves amount (in price units) from the shop's holding
	// balance to dest.
	Transfer(ctx context.Context, dest order.Identity, amount uint64) error
}

// Option configures a Shop.
type Option func(*Shop)

// WithCommitCounter records every committed order on the given counter.
func WithCommitCounter(c metric.Int64Counter) Option {
	return func(s *Shop) {
		s.committed = c
	}
}

// Shop orchestrates order intake, payment settlement, and queries over the
// ledger.
type Shop struct {
	env     Env
	ledger  ledger.Ledger
	emitter notify.Emitter
	lg      *zap.Logger

	committed metric.Int64Counter

	// commitMu serializes the NextID/Insert pair so ids stay dense and
	// unique under concurrent callers.
	commitMu sync.Mutex
}

// New initializes the shop over an empty (or previously populated) ledger
// and emits a shop-created record.
func New(env Env, led ledger.Ledger, emitter notify.Emitter, lg *zap.Logger, opts ...Option) *Shop {
	s := &Shop{
		env:     env,
		ledger:  led,
		emitter: emitter,
		lg:      lg,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.emitter.Emit(context.Background(), notify.NewShopCreated())
	return s
}

// TakeOrderAndPayment runs the settlement workflow: validate the request,
// price it, verify the attached payment matches the total exactly, execute
// the transfer, and only then commit the paid order to the ledger.
func (s *Shop) TakeOrderAndPayment(ctx context.Context, items []order.LineItem) (order.Order, error) {
	caller := s.env.Caller(ctx)
	if caller == s.env.ShopAccount() {
		return order.Order{}, ErrSelfDealing
	}

	o, err := order.New(items, caller)
	if err != nil {
		return order.Order{}, err
	}

	required, err := menu.CheckedMul(o.TotalPrice, PaymentScale)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "scale total to payment units")
	}

	attached := s.env.TransferredValue(ctx)
	if attached != required {
		return order.Order{}, &PaymentMismatchError{
			TotalPrice: o.TotalPrice,
			Required:   required,
			Attached:   attached,
		}
	}

	s.lg.Debug("payment verified",
		zap.String("customer", string(caller)),
		zap.Uint64("total_price", o.TotalPrice),
		zap.Uint64("attached", attached),
	)

	// The single external side effect. Nothing is persisted before it
	// succeeds, so a failure leaves the ledger byte-for-byte unchanged.
	if err := s.env.Transfer(ctx, s.env.ShopAccount(), o.TotalPrice); err != nil {
		return order.Order{}, &PaymentFailedError{Err: err}
	}

	committed, err := s.commit(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	s.emitter.Emit(ctx, notify.NewTransfer(committed.Customer, s.env.ShopAccount(), committed.TotalPrice))
	if s.committed != nil {
		s.committed.Add(ctx, 1)
	}

	s.lg.Info("order committed",
		zap.Uint32("order_id", committed.ID),
		zap.String("customer", string(committed.Customer)),
		zap.Uint64("total_price", committed.TotalPrice),
	)
	return committed, nil
}

// commit assigns the next id and inserts the paid order under one critical
// section, keeping id assignment atomic with the insert.
func (s *Shop) commit(ctx context.Context, o order.Order) (order.Order, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	id, err := s.ledger.NextID(ctx)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "assign order id")
	}
	o.ID = id
	o.MarkPaid()

	if err := s.ledger.Insert(ctx, id, o); err != nil {
		return order.Order{}, errors.Wrap(err, "insert order")
	}
	return o, nil
}

// GetSingleOrder returns the committed order stored under id and emits a
// read record. A missing id surfaces as ledger.ErrNotFound.
func (s *Shop) GetSingleOrder(ctx context.Context, id uint32) (order.Order, error) {
	o, err := s.ledger.Get(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	s.emitter.Emit(ctx, notify.NewSingleOrderRead(o))
	return o, nil
}

// GetOrders returns all committed orders in creation order. An empty ledger
// yields a nil slice and no read record is emitted for it.
func (s *Shop) GetOrders(ctx context.Context) ([]ledger.Entry, error) {
	entries, err := s.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	s.emitter.Emit(ctx, notify.NewAllOrdersRead(entries))
	return entries, nil
}
