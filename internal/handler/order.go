package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/CodeRunne/burgershop/internal/domain/menu"
	"github.com/CodeRunne/burgershop/internal/domain/order"
	"github.com/CodeRunne/burgershop/internal/ledger"
	"github.com/CodeRunne/burgershop/internal/shop"
)

// PaymentHeader carries the payment attached to an order call, as a decimal
// string in the payment system's smallest unit.
const PaymentHeader = "X-Payment-Amount"

const maxBodySize = 1 << 20

// placeOrder handles POST /api/orders: decode the item list, attach the
// payment amount from the header, and run the settlement workflow.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}

	items, err := decodePlaceOrder(body)
	if err != nil {
		var ukErr *menu.UnknownKindError
		if errors.As(err, &ukErr) {
			writeError(w, http.StatusUnprocessableEntity, ukErr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	attached, err := strconv.ParseUint(r.Header.Get(PaymentHeader), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, PaymentHeader+" header must be a payment amount in smallest units")
		return
	}

	ctx := WithAttachedValue(r.Context(), attached)
	o, err := h.shop.TakeOrderAndPayment(ctx, items)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	var e jx.Encoder
	o.Encode(&e)
	writeJSON(w, http.StatusCreated, &e)
}

// getOrder handles GET /api/orders/{id}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "order id must be an unsigned integer")
		return
	}

	o, err := h.shop.GetSingleOrder(r.Context(), uint32(id))
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var e jx.Encoder
	o.Encode(&e)
	writeJSON(w, http.StatusOK, &e)
}

// listOrders handles GET /api/orders. An empty ledger yields 204 No Content,
// keeping "no orders yet" distinct from an error.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	entries, err := h.shop.GetOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for _, entry := range entries {
		entry.Encode(&e)
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, &e)
}

// mapOrderError converts settlement errors to HTTP responses.
func mapOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shop.ErrSelfDealing),
		errors.Is(err, order.ErrEmptyOrder):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, menu.ErrOverflow):
		writeError(w, http.StatusUnprocessableEntity, "order total exceeds the representable price range")
	default:
		var (
			iqErr *order.InvalidQuantityError
			pmErr *shop.PaymentMismatchError
			pfErr *shop.PaymentFailedError
		)
		switch {
		case errors.As(err, &iqErr):
			writeError(w, http.StatusUnprocessableEntity, iqErr.Error())
		case errors.As(err, &pmErr):
			writeError(w, http.StatusPaymentRequired, pmErr.Error())
		case errors.As(err, &pfErr):
			writeError(w, http.StatusPaymentRequired, pfErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}

func decodePlaceOrder(data []byte) ([]order.LineItem, error) {
	d := jx.DecodeBytes(data)

	var items []order.LineItem
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "items" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			item, err := decodeLineItem(d)
			if err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return items, nil
}

func decodeLineItem(d *jx.Decoder) (order.LineItem, error) {
	var item order.LineItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "kind":
			name, err := d.Str()
			if err != nil {
				return err
			}
			kind, err := menu.ParseKind(name)
			if err != nil {
				return err
			}
			item.Kind = kind
			return nil
		case "quantity":
			quantity, err := d.UInt32()
			if err != nil {
				return err
			}
			item.Quantity = quantity
			return nil
		default:
			return d.Skip()
		}
	})
	return item, err
}
