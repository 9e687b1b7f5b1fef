package ledger

import (
	"github.com/go-faster/jx"
)

// Encode writes the entry's wire representation.
func (en Entry) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.UInt32(en.ID)
	e.FieldStart("order")
	en.Order.Encode(e)
	e.ObjEnd()
}
