package repositories

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"

	"catalog/internal/models"
)

// FileProductRepository persists the whole catalog as a single JSON file.
// Every operation reloads the file and mutations rewrite it in full; there is
// no indexing and no partial read or write. A single mutex serialises the
// read-modify-write cycles so concurrent requests cannot lose updates.
type FileProductRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileProductRepository creates a repository backed by the file at path.
// The file does not need to exist yet; a missing file reads as an empty
// catalog.
func NewFileProductRepository(path string) *FileProductRepository {
	return &FileProductRepository{path: path}
}

// load reads the full collection. An absent, unreadable or corrupt file is
// treated as an empty catalog; that policy is deliberate so a fresh deploy
// starts serving without a seed file, and anything unexpected is logged.
func (r *FileProductRepository) load() []models.Product {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Could not read catalog file %s, treating as empty: %v", r.path, err)
		}
		return []models.Product{}
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		log.Printf("Could not decode catalog file %s, treating as empty: %v", r.path, err)
		return []models.Product{}
	}
	return products
}

// save rewrites the full collection. Unlike load, a save failure is a hard
// error and always propagates.
func (r *FileProductRepository) save(products []models.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file %s: %w", r.path, err)
	}
	return nil
}

// GetAll returns the full catalog.
func (r *FileProductRepository) GetAll() ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(), nil
}

// GetByID returns a product by its ID.
func (r *FileProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.load() {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
}

// Create appends a new product after checking its SKU against the full set.
// On a duplicate SKU the file is left untouched.
func (r *FileProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load()
	for _, p := range products {
		if p.SKU == product.SKU {
			return fmt.Errorf("product with SKU %s: %w", product.SKU, ErrDuplicateSKU)
		}
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	return r.save(append(products, *product))
}

// Update replaces an existing product in place.
func (r *FileProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load()
	for i, p := range products {
		if p.ID == product.ID {
			products[i] = *product
			return r.save(products)
		}
	}
	return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
}

// Delete removes a product by its ID and rewrites the collection.
func (r *FileProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load()
	for i, p := range products {
		if p.ID == id {
			return r.save(append(products[:i], products[i+1:]...))
		}
	}
	return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
}
