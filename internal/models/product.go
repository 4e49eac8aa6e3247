package models

import (
	"math"
	"time"
)

// DefaultCurrency is the only currency the catalog trades in.
const DefaultCurrency = "INR"

// Seller is the merchant a product is sold by. The email domain must belong
// to the configured allow-list (checked by the seller_domain validator).
type Seller struct {
	ID      string `json:"seller_id" gorm:"type:varchar(36)" validate:"omitempty,uuid"`
	Name    string `json:"name" validate:"required,min=4"`
	Website string `json:"website" validate:"required,url"`
	Email   string `json:"email" validate:"required,email,seller_domain"`
}

// Dimensions holds the physical size of a product in centimetres.
type Dimensions struct {
	Length float64 `json:"length" validate:"required,gt=0"`
	Width  float64 `json:"width" validate:"required,gt=0"`
	Height float64 `json:"height" validate:"required,gt=0"`
}

// Product represents a catalog record.
// The SKU format (a '-' separator plus a trailing 3-digit segment, e.g.
// XIAO-359GB-001) is enforced by the custom sku validator.
type Product struct {
	ID              string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name            string     `json:"name" validate:"required,min=4,max=100"`
	SKU             string     `json:"sku" gorm:"uniqueIndex;type:varchar(30)" validate:"required,min=6,max=30,sku"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Brand           string     `json:"brand"`
	Price           int        `json:"price" validate:"gte=0"`
	Currency        string     `json:"currency" validate:"omitempty,oneof=INR"`
	DiscountPercent int        `json:"discount_percent" validate:"gte=0,lte=100"`
	Stock           int        `json:"stock" validate:"gte=0"`
	IsActive        bool       `json:"is_active"`
	Rating          float64    `json:"rating"`
	Tags            []string   `json:"tags,omitempty" gorm:"serializer:json" validate:"omitempty,max=10"`
	ImageURLs       []string   `json:"image_urls,omitempty" gorm:"serializer:json" validate:"omitempty,min=1,dive,url"`
	Dimensions      Dimensions `json:"dimensions_cm" gorm:"embedded;embeddedPrefix:dim_" validate:"required"`
	Seller          Seller     `json:"seller" gorm:"embedded;embeddedPrefix:seller_" validate:"required"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Derived holds the attributes computed from a valid product.
// They are calculated on the way out and never stored.
type Derived struct {
	PriceAfterDiscount float64 `json:"price_after_discount"`
	Volume             float64 `json:"volume"`
}

// ComputeDerived returns the derived attributes of the product.
func (p *Product) ComputeDerived() Derived {
	return Derived{
		PriceAfterDiscount: round2(float64(p.Price) * (1 - float64(p.DiscountPercent)/100)),
		Volume:             round2(p.Dimensions.Length * p.Dimensions.Width * p.Dimensions.Height),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ProductResponse is a Product plus its derived attributes, used on the wire.
type ProductResponse struct {
	Product
	Derived
}

// NewProductResponse attaches the derived attributes to a product for serialization.
func NewProductResponse(p Product) ProductResponse {
	return ProductResponse{Product: p, Derived: p.ComputeDerived()}
}
