// Package notify emits structured records for shop activity.
//
// Emission is best effort: the settlement workflow never fails because a
// record could not be delivered, so Emit returns nothing and sinks handle
// their own errors.
package notify

import (
	"context"
	"time"

	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/CodeRunne/burgershop/internal/domain/order"
	"github.com/CodeRunne/burgershop/internal/ledger"
)

// Type discriminates record payloads.
type Type string

const (
	TypeShopCreated     Type = "shop_created"
	TypeTransfer        Type = "transfer"
	TypeSingleOrderRead Type = "single_order_read"
	TypeAllOrdersRead   Type = "all_orders_read"
)

// Transfer describes a completed payment movement.
type Transfer struct {
	From  order.Identity
	To    order.Identity
	Value uint64
}

// Record is one emitted notification. Exactly one payload field is set,
// matching Type.
type Record struct {
	ID   string
	Type Type
	At   time.Time

	Transfer *Transfer
	Order    *order.Order
	Entries  []ledger.Entry
}

// Emitter delivers records to a sink.
type Emitter interface {
	Emit(ctx context.Context, rec Record)
}

func newRecord(t Type) Record {
	return Record{
		ID:   uuid.New().String(),
		Type: t,
		At:   time.Now().UTC(),
	}
}

// NewShopCreated records initialization of an empty shop and ledger.
func NewShopCreated() Record {
	return newRecord(TypeShopCreated)
}

// NewTransfer records a successful payment from a customer to the shop.
func NewTransfer(from, to order.Identity, value uint64) Record {
	rec := newRecord(TypeTransfer)
	rec.Transfer = &Transfer{From: from, To: to, Value: value}
	return rec
}

// NewSingleOrderRead records a point query returning the given order.
func NewSingleOrderRead(o order.Order) Record {
	rec := newRecord(TypeSingleOrderRead)
	rec.Order = &o
	return rec
}

// NewAllOrdersRead records a list query returning the given entries.
func NewAllOrdersRead(entries []ledger.Entry) Record {
	rec := newRecord(TypeAllOrdersRead)
	rec.Entries = entries
	return rec
}

// Encode writes the record's wire representation.
func (r Record) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(r.ID)
	e.FieldStart("type")
	e.Str(string(r.Type))
	e.FieldStart("at")
	e.Str(r.At.Format(time.RFC3339Nano))

	switch {
	case r.Transfer != nil:
		e.FieldStart("transfer")
		e.ObjStart()
		e.FieldStart("from")
		e.Str(string(r.Transfer.From))
		e.FieldStart("to")
		e.Str(string(r.Transfer.To))
		e.FieldStart("value")
		e.UInt64(r.Transfer.Value)
		e.ObjEnd()
	case r.Order != nil:
		e.FieldStart("order")
		r.Order.Encode(e)
	case r.Entries != nil:
		e.FieldStart("orders")
		e.ArrStart()
		for _, entry := range r.Entries {
			entry.Encode(e)
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

// JSON returns the encoded record.
func (r Record) JSON() []byte {
	var e jx.Encoder
	r.Encode(&e)
	return e.Bytes()
}
