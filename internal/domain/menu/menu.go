// Package menu defines the fixed burger catalog and the pricing rules over it.
//
// Prices are held in whole price units (the shop's smallest currency unit).
// All arithmetic is overflow-checked: pricing fails with ErrOverflow instead
// of wrapping around.
package menu

import (
	"math/bits"
	"strconv"

	"github.com/go-faster/errors"
)

// ErrOverflow is returned when a price calculation exceeds the uint64 range.
var ErrOverflow = errors.New("price overflow")

// UnknownKindError indicates a burger kind outside the fixed catalog.
type UnknownKindError struct {
	Name string
}

func (e *UnknownKindError) Error() string {
	return "unknown burger kind " + strconv.Quote(e.Name)
}

// Kind identifies one of the burgers sold in the shop. The set is closed:
// new kinds are added here, together with their unit price.
type Kind uint8

const (
	CheeseBurger Kind = iota
	ChickenBurger
	VeggieBurger
)

// Kinds lists every kind in the catalog, in menu order.
var Kinds = []Kind{CheeseBurger, ChickenBurger, VeggieBurger}

// UnitPrice returns the fixed price of a single burger of this kind.
func (k Kind) UnitPrice() uint64 {
	switch k {
	case CheeseBurger:
		return 12
	case ChickenBurger:
		return 15
	case VeggieBurger:
		return 10
	default:
		panic("menu: unit price for unknown kind")
	}
}

// Valid reports whether k is part of the catalog.
func (k Kind) Valid() bool {
	return k <= VeggieBurger
}

func (k Kind) String() string {
	switch k {
	case CheeseBurger:
		return "cheese_burger"
	case ChickenBurger:
		return "chicken_burger"
	case VeggieBurger:
		return "veggie_burger"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, &UnknownKindError{Name: k.String()}
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind maps a wire name back to a catalog kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "cheese_burger":
		return CheeseBurger, nil
	case "chicken_burger":
		return ChickenBurger, nil
	case "veggie_burger":
		return VeggieBurger, nil
	default:
		return 0, &UnknownKindError{Name: name}
	}
}

// LinePrice returns unit price times quantity, failing with ErrOverflow when
// the product does not fit in uint64.
func LinePrice(k Kind, quantity uint32) (uint64, error) {
	hi, lo := bits.Mul64(k.UnitPrice(), uint64(quantity))
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// CheckedMul multiplies two amounts with overflow detection. It backs both
// running order totals and the conversion into payment base units.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// CheckedAdd adds two amounts with overflow detection.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}
