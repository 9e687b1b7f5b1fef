// Package order defines the order entity and its lifecycle.
package order

import (
	"fmt"

	"github.com/go-faster/errors"

	"github.com/CodeRunne/burgershop/internal/domain/menu"
)

// ErrEmptyOrder is returned when an order is submitted with no line items.
var ErrEmptyOrder = errors.New("order has no items")

// InvalidQuantityError indicates a line item with a zero quantity.
type InvalidQuantityError struct {
	Kind menu.Kind
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for %s", e.Kind)
}

// Identity is an opaque handle identifying a customer or account in the
// surrounding environment.
type Identity string

// LineItem is one position of an order: a burger kind and how many of it.
type LineItem struct {
	Kind     menu.Kind `json:"kind"`
	Quantity uint32    `json:"quantity"`
}

// LinePrice is the item's unit price times its quantity, overflow-checked.
func (li LineItem) LinePrice() (uint64, error) {
	return menu.LinePrice(li.Kind, li.Quantity)
}

// Order is a priced customer request. TotalPrice is fixed at construction
// and never recomputed; ID is assigned by the ledger on commit and Paid flips
// to true exactly once, as the final step of a successful settlement.
type Order struct {
	ID         uint32     `json:"id"`
	Items      []LineItem `json:"items"`
	Customer   Identity   `json:"customer"`
	TotalPrice uint64     `json:"total_price"`
	Paid       bool       `json:"paid"`
}

// New validates the item list, prices it, and returns an unpaid order without
// an assigned id. Empty item lists, zero quantities, and price overflow are
// rejected before any Order value exists.
func New(items []LineItem, customer Identity) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	total := uint64(0)
	for _, item := range items {
		if item.Quantity == 0 {
			return Order{}, &InvalidQuantityError{Kind: item.Kind}
		}
		line, err := item.LinePrice()
		if err != nil {
			return Order{}, errors.Wrapf(err, "price %s", item.Kind)
		}
		total, err = menu.CheckedAdd(total, line)
		if err != nil {
			return Order{}, errors.Wrap(err, "sum line prices")
		}
	}

	return Order{
		Items:      items,
		Customer:   customer,
		TotalPrice: total,
		Paid:       false,
	}, nil
}

// MarkPaid flips the order into its terminal paid state. There is no way
// back to unpaid.
func (o *Order) MarkPaid() {
	o.Paid = true
}
