// Package transport defines request and response DTOs for the products API.
package transport

import "time"

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	AgentID             string                 `json:"agentId" validate:"required,uuid"`
	Name                string                 `json:"name" validate:"required,min=1,max=255"`
	Description         string                 `json:"description" validate:"max=500"`
	DetailedDescription string                 `json:"detailedDescription" validate:"max=5000"`
	Price               *float64               `json:"price" validate:"omitempty,gte=0"`
	Currency            string                 `json:"currency" validate:"omitempty,len=3"`
	ImageURL            string                 `json:"imageUrl" validate:"omitempty,url"`
	Category            string                 `json:"category" validate:"max=100"`
	Features            []string               `json:"features"`
	Specifications      map[string]interface{} `json:"specifications"`
	StockStatus         string                 `json:"stockStatus" validate:"omitempty,oneof=in_stock low_stock out_of_stock preorder"`
	SKU                 string                 `json:"sku" validate:"max=100"`
	IsFeatured          bool                   `json:"isFeatured"`
	IsActive            *bool                  `json:"isActive"`
}

// UpdateProductRequest is the payload for partially updating a product.
type UpdateProductRequest struct {
	Name                *string                `json:"name" validate:"omitempty,min=1,max=255"`
	Description         *string                `json:"description" validate:"omitempty,max=500"`
	DetailedDescription *string                `json:"detailedDescription" validate:"omitempty,max=5000"`
	Price               *float64               `json:"price" validate:"omitempty,gte=0"`
	Currency            *string                `json:"currency" validate:"omitempty,len=3"`
	ImageURL            *string                `json:"imageUrl" validate:"omitempty,url"`
	Category            *string                `json:"category" validate:"omitempty,max=100"`
	Features            []string               `json:"features"`
	Specifications      map[string]interface{} `json:"specifications"`
	StockStatus         *string                `json:"stockStatus" validate:"omitempty,oneof=in_stock low_stock out_of_stock preorder"`
	SKU                 *string                `json:"sku" validate:"omitempty,max=100"`
	IsFeatured          *bool                  `json:"isFeatured"`
	IsActive            *bool                  `json:"isActive"`
}

// ProductResponse describes a product.
type ProductResponse struct {
	ID                  string                 `json:"id"`
	AgentID             string                 `json:"agentId"`
	Name                string                 `json:"name"`
	Description         string                 `json:"description,omitempty"`
	DetailedDescription string                 `json:"detailedDescription,omitempty"`
	Price               *float64               `json:"price,omitempty"`
	Currency            string                 `json:"currency"`
	ImageURL            string                 `json:"imageUrl,omitempty"`
	Category            string                 `json:"category,omitempty"`
	Features            []string               `json:"features"`
	Specifications      map[string]interface{} `json:"specifications"`
	StockStatus         string                 `json:"stockStatus"`
	SKU                 string                 `json:"sku,omitempty"`
	IsFeatured          bool                   `json:"isFeatured"`
	IsActive            bool                   `json:"isActive"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

// UploadImageResponse is returned after a successful image upload.
type UploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
}
