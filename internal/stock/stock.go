// Package stock holds the rule every stock mutation goes through: validate the
// requested quantity, apply the delta, then re-evaluate the product's alert.
// Callers run it inside the same database transaction that writes their
// ledger or order-item row.
package stock

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Direction int

const (
	Increase Direction = iota + 1
	Decrease
)

func DirectionFor(t model.TransactionType) Direction {
	if t == model.TransactionSale {
		return Decrease
	}
	return Increase
}

// Store is the transaction-scoped persistence the rule needs.
type Store interface {
	// GetProduct returns nil, nil when the product does not exist.
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	// AdjustQuantity adds delta to the stock counter unless the result would be
	// negative. It reports false when the guard rejected the update.
	AdjustQuantity(ctx context.Context, id int64, delta int) (newQuantity int, ok bool, err error)
	UpsertOpenAlert(ctx context.Context, productID int64, stockLevel int) error
	ResolveOpenAlerts(ctx context.Context, productID int64) error
}

var ErrInvalidQuantity = apperror.Validation("Quantity must be greater than zero.")

func ErrInsufficientStock(productName string) *apperror.Error {
	return apperror.Validation("Not enough stock for %s.", productName)
}

func ErrProductNotFound(id int64) *apperror.Error {
	return apperror.NotFound("Product %d not found.", id)
}

// AlertAction is the outcome of comparing stock with the threshold.
type AlertAction int

const (
	AlertResolve AlertAction = iota
	AlertRaise
)

func EvaluateAlert(quantity, threshold int) AlertAction {
	if quantity < threshold {
		return AlertRaise
	}
	return AlertResolve
}

// Check validates a mutation against the current stock without touching it.
func Check(current int, dir Direction, quantity int, productName string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if dir == Decrease && current < quantity {
		return ErrInsufficientStock(productName)
	}
	return nil
}

// Apply mutates the stock of productID by quantity in direction dir and
// re-evaluates its alert. The returned product carries the new quantity.
func Apply(ctx context.Context, s Store, productID int64, dir Direction, quantity int) (*model.Product, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}
	if p == nil {
		return nil, ErrProductNotFound(productID)
	}
	if err := Check(p.QuantityInStock, dir, quantity, p.Name); err != nil {
		return nil, err
	}

	delta := quantity
	if dir == Decrease {
		delta = -quantity
	}
	newQty, ok, err := s.AdjustQuantity(ctx, productID, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust stock of product %d: %w", productID, err)
	}
	if !ok {
		// Another writer committed a sale between the read and the update.
		return nil, ErrInsufficientStock(p.Name)
	}
	p.QuantityInStock = newQty

	if err := Reconcile(ctx, s, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Reconcile brings the open alert of p in line with its current stock.
func Reconcile(ctx context.Context, s Store, p *model.Product) error {
	switch EvaluateAlert(p.QuantityInStock, p.ThresholdLevel) {
	case AlertRaise:
		if err := s.UpsertOpenAlert(ctx, p.ID, p.QuantityInStock); err != nil {
			return fmt.Errorf("raise stock alert for product %d: %w", p.ID, err)
		}
	default:
		if err := s.ResolveOpenAlerts(ctx, p.ID); err != nil {
			return fmt.Errorf("resolve stock alerts for product %d: %w", p.ID, err)
		}
	}
	return nil
}
