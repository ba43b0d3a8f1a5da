package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"certimport-backend/importer"
	"certimport-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const insertBatchSize = 100

// ProductStore is the gorm-backed persistence used by the import pipeline.
type ProductStore struct {
	DB *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{DB: db}
}

// ExistingProductIDs returns every stored product code, soft-deleted rows
// included, since the unique index still covers them.
func (s *ProductStore) ExistingProductIDs(ctx context.Context) ([]string, error) {
	var codes []string
	if err := s.DB.WithContext(ctx).Unscoped().Model(&models.Product{}).Pluck("product_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// ActiveConsultantIDs returns the lowercase ids of consultants flagged active.
func (s *ProductStore) ActiveConsultantIDs(ctx context.Context) ([]string, error) {
	var raw []string
	if err := s.DB.WithContext(ctx).Model(&models.Consultant{}).Where("active = ?", true).Pluck("id", &raw).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		ids = append(ids, parsed.String())
	}
	return ids, nil
}

// BulkInsertProducts inserts all products in one transaction. Any failure
// rolls the whole batch back.
func (s *ProductStore) BulkInsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(products, insertBatchSize).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %v", importer.ErrDuplicateProduct, err)
		}
		return err
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
