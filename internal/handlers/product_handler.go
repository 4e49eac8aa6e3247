package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/internal/validation"
)

const productIDLength = 36

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// The by-name route must be registered before the :id route so it is not
// swallowed by the parameter match.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/by-name", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// productPage is the response shape of a catalog search.
type productPage struct {
	Total    int                      `json:"total"`
	Products []models.ProductResponse `json:"products"`
}

// HandleGetProducts returns the full unfiltered, unpaginated catalog.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(toResponses(products))
}

// HandleSearchProducts filters, sorts and paginates the catalog.
// A name search with no match is a 404, not an empty page.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	params := services.QueryParams{
		Name:        c.Query("name"),
		SortByPrice: c.QueryBool("sort_by_price"),
		Order:       c.Query("order", "asc"),
		Limit:       c.QueryInt("limit", 10),
		Offset:      c.QueryInt("offset", 0),
	}

	result, err := h.service.SearchProducts(params)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("No product found matching name=%s", params.Name),
			})
		}
		log.Printf("Error searching products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not search products",
			"error":   err.Error(),
		})
	}

	return c.JSON(productPage{
		Total:    result.Total,
		Products: toResponses(result.Products),
	})
}

// HandleGetProductByID retrieves a single product by its UUID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if len(id) != productIDLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Product ID must be %d characters", productIDLength),
		})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", id),
			})
		}
		log.Printf("Error getting product by ID %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(models.NewProductResponse(*product))
}

// HandleCreateProduct validates and persists a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	created, err := h.service.CreateProduct(&product)
	if err != nil {
		return h.mapMutationError(c, err, "create")
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewProductResponse(*created))
}

// HandleUpdateProduct applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if len(id) != productIDLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Product ID must be %d characters", productIDLength),
		})
	}

	var patch models.ProductUpdate
	if err := c.BodyParser(&patch); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	updated, err := h.service.UpdateProduct(id, &patch)
	if err != nil {
		return h.mapMutationError(c, err, "update")
	}
	return c.JSON(models.NewProductResponse(*updated))
}

// HandleDeleteProduct removes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if len(id) != productIDLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Product ID must be %d characters", productIDLength),
		})
	}

	if err := h.service.DeleteProduct(id); err != nil {
		return h.mapMutationError(c, err, "delete")
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// mapMutationError translates the service error taxonomy to HTTP statuses:
// validation failures to 422, duplicate SKUs to 409, missing records to 404.
func (h *ProductHandler) mapMutationError(c *fiber.Ctx, err error, op string) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		errorMessages := make(map[string]string, len(verr.Fields))
		for _, fe := range verr.Fields {
			errorMessages[fe.Field] = fe.Message
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	if errors.Is(err, repositories.ErrDuplicateSKU) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "A product with this SKU already exists",
			"error":   err.Error(),
		})
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
			"error":   err.Error(),
		})
	}
	log.Printf("Error during product %s: %v", op, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": fmt.Sprintf("Could not %s product", op),
		"error":   err.Error(),
	})
}

func toResponses(products []models.Product) []models.ProductResponse {
	responses := make([]models.ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, models.NewProductResponse(p))
	}
	return responses
}
