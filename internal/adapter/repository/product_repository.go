package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	domainRepo "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
)

type productRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product

	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get product",
			zap.Int64("product_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// RecordSale applies the sale in a single statement so concurrent
// fulfillments cannot interleave a read-modify-write. Inventory floors
// at zero for backordered sales.
func (r *productRepository) RecordSale(ctx context.Context, productID int64, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"inventory":  gorm.Expr("GREATEST(inventory - ?, 0)", quantity),
			"total_sold": gorm.Expr("total_sold + ?", quantity),
		})

	if result.Error != nil {
		r.logger.Error("Failed to record product sale",
			zap.Int64("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Error(result.Error))
		return fmt.Errorf("failed to record product sale: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found: %d", productID)
	}

	return nil
}
