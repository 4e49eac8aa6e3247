package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/validation"
	"catalog/pkg/rabbitmq"
)

// QueryParams are the knobs for a catalog search.
type QueryParams struct {
	Name        string
	SortByPrice bool
	Order       string
	Limit       int
	Offset      int
}

// QueryResult is one page of products plus the total number of matches
// before pagination.
type QueryResult struct {
	Total    int
	Products []models.Product
}

// ProductService handles business logic related to products: the search
// pipeline, validated create/update/delete and best-effort event publishing.
type ProductService struct {
	repo     repositories.ProductRepository
	engine   *validation.Engine
	mqClient *rabbitmq.Client
}

// NewProductService creates a new ProductService. mqClient may be nil, in
// which case no events are published.
func NewProductService(repo repositories.ProductRepository, engine *validation.Engine, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:     repo,
		engine:   engine,
		mqClient: mqClient,
	}
}

// GetAllProducts retrieves the full, unfiltered catalog.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// SearchProducts loads the catalog and runs the query pipeline over it.
func (s *ProductService) SearchProducts(params QueryParams) (*QueryResult, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return Query(products, params)
}

// Query runs the search pipeline over an in-memory collection, in fixed
// order: name filter, total count, price sort, pagination.
//
// An explicit name search that matches nothing is an error, not an empty
// page: the caller asked for something specific and gets a typed not-found
// carrying the term. Total always reflects the post-filter, pre-pagination
// count, whether or not a name filter was applied.
func Query(products []models.Product, params QueryParams) (*QueryResult, error) {
	// Work on a copy so sorting never reorders the caller's slice.
	products = append([]models.Product(nil), products...)

	if needle := strings.ToLower(strings.TrimSpace(params.Name)); needle != "" {
		filtered := products[:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), needle) {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			return nil, fmt.Errorf("no product matching name %q: %w", params.Name, repositories.ErrNotFound)
		}
		products = filtered
	}

	total := len(products)

	if params.SortByPrice {
		desc := params.Order == "desc"
		sort.SliceStable(products, func(i, j int) bool {
			if desc {
				return products[i].Price > products[j].Price
			}
			return products[i].Price < products[j].Price
		})
	}

	limit := params.Limit
	if limit < 1 {
		limit = 1
	} else if limit > 100 {
		limit = 100
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > len(products) {
		offset = len(products)
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}

	return &QueryResult{Total: total, Products: products[offset:end]}, nil
}

// CreateProduct fills in server-side defaults, validates the record and
// persists it through the store.
func (s *ProductService) CreateProduct(product *models.Product) (*models.Product, error) {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Seller.ID == "" {
		product.Seller.ID = uuid.New().String()
	}
	if product.Currency == "" {
		product.Currency = models.DefaultCurrency
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	if err := s.engine.ValidateNew(product); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	s.publishEvent("product.created", product)
	return product, nil
}

// UpdateProduct merges a partial update onto the stored record, re-validates
// the result and persists it.
func (s *ProductService) UpdateProduct(id string, patch *models.ProductUpdate) (*models.Product, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	merged, err := s.engine.ValidateUpdate(existing, patch)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(merged); err != nil {
		return nil, err
	}

	s.publishEvent("product.updated", merged)
	return merged, nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.publishEvent("product.deleted", map[string]string{"id": id})
	return nil
}

// publishEvent sends a product lifecycle event. Publishing is best-effort:
// a missing client or a broker failure never fails the API call.
func (s *ProductService) publishEvent(eventType string, payload interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event payload: %v", eventType, err)
		return
	}
	if err := s.mqClient.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
