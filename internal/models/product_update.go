package models

// SellerUpdate carries a partial seller change. Nil fields are left untouched.
type SellerUpdate struct {
	Name    *string `json:"name" validate:"omitempty,min=4"`
	Website *string `json:"website" validate:"omitempty,url"`
	Email   *string `json:"email" validate:"omitempty,email,seller_domain"`
}

// DimensionsUpdate carries a partial dimensions change.
type DimensionsUpdate struct {
	Length *float64 `json:"length" validate:"omitempty,gt=0"`
	Width  *float64 `json:"width" validate:"omitempty,gt=0"`
	Height *float64 `json:"height" validate:"omitempty,gt=0"`
}

// ProductUpdate carries a partial product change. Nil fields are left
// untouched on merge. The id, sku and created_at fields are immutable once a
// product exists and are deliberately absent here.
type ProductUpdate struct {
	Name            *string           `json:"name" validate:"omitempty,min=4,max=100"`
	Description     *string           `json:"description"`
	Category        *string           `json:"category"`
	Brand           *string           `json:"brand"`
	Price           *int              `json:"price" validate:"omitempty,gte=0"`
	Currency        *string           `json:"currency" validate:"omitempty,oneof=INR"`
	DiscountPercent *int              `json:"discount_percent" validate:"omitempty,gte=0,lte=100"`
	Stock           *int              `json:"stock" validate:"omitempty,gte=0"`
	IsActive        *bool             `json:"is_active"`
	Rating          *float64          `json:"rating"`
	Tags            []string          `json:"tags" validate:"omitempty,max=10"`
	ImageURLs       []string          `json:"image_urls" validate:"omitempty,min=1,dive,url"`
	Dimensions      *DimensionsUpdate `json:"dimensions_cm"`
	Seller          *SellerUpdate     `json:"seller"`
}

// ApplyTo merges the update onto a copy of the given product and returns the
// merged record. The receiver and the original product are not modified.
func (u *ProductUpdate) ApplyTo(p Product) Product {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Brand != nil {
		p.Brand = *u.Brand
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Currency != nil {
		p.Currency = *u.Currency
	}
	if u.DiscountPercent != nil {
		p.DiscountPercent = *u.DiscountPercent
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	if u.Tags != nil {
		p.Tags = u.Tags
	}
	if u.ImageURLs != nil {
		p.ImageURLs = u.ImageURLs
	}
	if u.Dimensions != nil {
		if u.Dimensions.Length != nil {
			p.Dimensions.Length = *u.Dimensions.Length
		}
		if u.Dimensions.Width != nil {
			p.Dimensions.Width = *u.Dimensions.Width
		}
		if u.Dimensions.Height != nil {
			p.Dimensions.Height = *u.Dimensions.Height
		}
	}
	if u.Seller != nil {
		if u.Seller.Name != nil {
			p.Seller.Name = *u.Seller.Name
		}
		if u.Seller.Website != nil {
			p.Seller.Website = *u.Seller.Website
		}
		if u.Seller.Email != nil {
			p.Seller.Email = *u.Seller.Email
		}
	}
	return p
}
