package repository

import (
	"context"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
)

// ProductRepository reads catalog products and applies sale effects.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// RecordSale decrements inventory by quantity (floored at zero)
	// and increments the sold counter by the same quantity.
	RecordSale(ctx context.Context, productID int64, quantity int) error
}
