package order

import (
	"github.com/go-faster/jx"
)

// Encode writes the order's wire representation.
func (o Order) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.UInt32(o.ID)
	e.FieldStart("items")
	e.ArrStart()
	for _, item := range o.Items {
		item.Encode(e)
	}
	e.ArrEnd()
	e.FieldStart("customer")
	e.Str(string(o.Customer))
	e.FieldStart("total_price")
	e.UInt64(o.TotalPrice)
	e.FieldStart("paid")
	e.Bool(o.Paid)
	e.ObjEnd()
}

// Encode writes the line item's wire representation.
func (li LineItem) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("kind")
	e.Str(li.Kind.String())
	e.FieldStart("quantity")
	e.UInt32(li.Quantity)
	e.ObjEnd()
}
