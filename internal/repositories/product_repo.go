package repositories

import (
	"errors"

	"catalog/internal/models"
)

// Typed failures surfaced by every ProductRepository implementation. Callers
// match them with errors.Is and map them to not-found / conflict semantics.
var (
	ErrNotFound     = errors.New("product not found")
	ErrDuplicateSKU = errors.New("sku already exists")
)

// ProductRepository defines the interface for product data access.
//
// Create must reject a product whose SKU is already present with
// ErrDuplicateSKU and leave the store unmodified. Update and Delete must
// report an absent id with ErrNotFound.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
