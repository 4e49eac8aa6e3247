package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository, for
// running the catalog against sqlite or postgres instead of the flat file.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product, rejecting duplicate SKUs up front so the
// caller gets the same typed conflict on every backend.
func (r *GORMProductRepository) Create(product *models.Product) error {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("sku = ?", product.SKU).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check SKU uniqueness: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("product with SKU %s: %w", product.SKU, ErrDuplicateSKU)
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database. Save is used because
// the caller always hands over a fully merged record, and a struct update
// would skip zero values like stock=0 or is_active=false.
func (r *GORMProductRepository) Update(product *models.Product) error {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product existence: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	if err := r.db.Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
