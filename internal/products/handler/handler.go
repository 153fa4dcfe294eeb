// Package handler exposes the products HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"convosell_backend/internal/products/repository"
	"convosell_backend/internal/products/service"
	"convosell_backend/internal/products/transport"
	"convosell_backend/platform/httpkit"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Handler serves the products endpoints.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
	log      *logger.Logger
}

// New creates the products handler.
func New(svc *service.Service, validate *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, validate: validate, log: log}
}

// Create handles POST /products.
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	var req transport.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	agentID, _ := uuid.Parse(req.AgentID)
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product, err := h.svc.Create(c.Request.Context(), identity.UserID(), repository.CreateParams{
		AgentID:             agentID,
		Name:                req.Name,
		Description:         req.Description,
		DetailedDescription: req.DetailedDescription,
		Price:               req.Price,
		Currency:            req.Currency,
		ImageURL:            req.ImageURL,
		Category:            req.Category,
		Features:            req.Features,
		Specifications:      req.Specifications,
		StockStatus:         req.StockStatus,
		SKU:                 req.SKU,
		IsFeatured:          req.IsFeatured,
		IsActive:            isActive,
	})
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusCreated, toProductResponse(product))
}

// List handles GET /agents/:id/products.
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}
	activeOnly := c.Query("active") == "true"

	products, err := h.svc.List(c.Request.Context(), identity.UserID(), agentID, activeOnly)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	responses := make([]transport.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, toProductResponse(&products[i]))
	}
	httpkit.OK(c, http.StatusOK, responses)
}

// Get handles GET /agents/:id/products/:productID.
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}

	product, err := h.svc.Get(c.Request.Context(), identity.UserID(), agentID, productID)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, toProductResponse(product))
}

// Update handles PATCH /agents/:id/products/:productID.
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}

	var req transport.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	product, err := h.svc.Update(c.Request.Context(), identity.UserID(), repository.UpdateParams{
		AgentID:             agentID,
		ID:                  productID,
		Name:                req.Name,
		Description:         req.Description,
		DetailedDescription: req.DetailedDescription,
		Price:               req.Price,
		Currency:            req.Currency,
		ImageURL:            req.ImageURL,
		Category:            req.Category,
		Features:            req.Features,
		Specifications:      req.Specifications,
		StockStatus:         req.StockStatus,
		SKU:                 req.SKU,
		IsFeatured:          req.IsFeatured,
		IsActive:            req.IsActive,
	})
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /agents/:id/products/:productID.
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), agentID, productID); err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, gin.H{"message": "product deleted"})
}

// UploadImage handles POST /products/upload-image (multipart form).
func (h *Handler) UploadImage(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.PostForm("agentId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "image file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "failed to read image file", nil)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	imageURL, err := h.svc.UploadImage(c.Request.Context(), identity.UserID(), agentID,
		fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, transport.UploadImageResponse{ImageURL: imageURL})
}

func toProductResponse(p *repository.Product) transport.ProductResponse {
	return transport.ProductResponse{
		ID:                  p.ID.String(),
		AgentID:             p.AgentID.String(),
		Name:                p.Name,
		Description:         p.Description,
		DetailedDescription: p.DetailedDescription,
		Price:               p.Price,
		Currency:            p.Currency,
		ImageURL:            p.ImageURL,
		Category:            p.Category,
		Features:            p.Features,
		Specifications:      p.Specifications,
		StockStatus:         p.StockStatus,
		SKU:                 p.SKU,
		IsFeatured:          p.IsFeatured,
		IsActive:            p.IsActive,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
