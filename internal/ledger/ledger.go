// Package ledger defines the durable store of committed orders.
//
// The ledger keeps two synchronized views over one logical set: an append log
// in creation order for enumeration, and an id index for point lookup. Ids
// are assigned as the current order count, so they are dense and unique as
// long as NextID and Insert are not interleaved with another commit. Callers
// that run concurrently must hold a single critical section around the
// NextID/Insert pair; the settlement workflow does exactly that.
package ledger

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/CodeRunne/burgershop/internal/domain/order"
)

// ErrNotFound is returned when a point lookup misses.
var ErrNotFound = errors.New("order not found")

// DuplicateIDError indicates an insert with an id that is already present.
// Correct id assignment never produces it; it is a defensive invariant check.
type DuplicateIDError struct {
	ID uint32
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("order id %d already exists", e.ID)
}

// Entry is one committed order together with its ledger id.
type Entry struct {
	ID    uint32      `json:"id"`
	Order order.Order `json:"order"`
}

// Ledger is the persistence contract for committed orders.
type Ledger interface {
	// NextID returns the id the next committed order will receive: the
	// count of orders currently stored.
	NextID(ctx context.Context) (uint32, error)
	// Insert adds the order under the given id to both views. It fails
	// with a DuplicateIDError if the id is already taken.
	Insert(ctx context.Context, id uint32, o order.Order) error
	// Get returns the order stored under id, or ErrNotFound.
	Get(ctx context.Context, id uint32) (order.Order, error)
	// List returns all stored orders in creation order. An empty ledger
	// yields a nil slice, not an error.
	List(ctx context.Context) ([]Entry, error)
}
