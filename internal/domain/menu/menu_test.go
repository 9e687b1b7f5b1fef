package menu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitPrices(t *testing.T) {
	assert.Equal(t, uint64(12), CheeseBurger.UnitPrice())
	assert.Equal(t, uint64(15), ChickenBurger.UnitPrice())
	assert.Equal(t, uint64(10), VeggieBurger.UnitPrice())
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, kind := range Kinds {
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
}

func TestParseKindUnknown(t *testing.T) {
	_, err := ParseKind("fish_burger")

	var ukErr *UnknownKindError
	require.ErrorAs(t, err, &ukErr)
	assert.Equal(t, "fish_burger", ukErr.Name)
}

func TestLinePrice(t *testing.T) {
	price, err := LinePrice(CheeseBurger, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(24), price)

	price, err = LinePrice(VeggieBurger, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), price)
}

func TestLinePriceDeterministic(t *testing.T) {
	first, err := LinePrice(ChickenBurger, 7)
	require.NoError(t, err)
	second, err := LinePrice(ChickenBurger, 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCheckedMulOverflow(t *testing.T) {
	_, err := CheckedMul(math.MaxUint64, 2)
	require.ErrorIs(t, err, ErrOverflow)

	product, err := CheckedMul(math.MaxUint64, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), product)
}

func TestCheckedAddOverflow(t *testing.T) {
	_, err := CheckedAdd(math.MaxUint64, 1)
	require.ErrorIs(t, err, ErrOverflow)

	sum, err := CheckedAdd(math.MaxUint64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)
}

func TestKindText(t *testing.T) {
	text, err := CheeseBurger.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "cheese_burger", string(text))

	var kind Kind
	require.NoError(t, kind.UnmarshalText([]byte("veggie_burger")))
	assert.Equal(t, VeggieBurger, kind)

	require.Error(t, kind.UnmarshalText([]byte("nope")))
}
