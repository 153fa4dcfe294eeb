// Package service implements product catalog management.
package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"convosell_backend/internal/adapters/storage"
	"convosell_backend/internal/products/repository"
	"convosell_backend/platform/apperr"
	"convosell_backend/platform/logger"
)

// DefaultCurrency is used when a product is created without one.
const DefaultCurrency = "USD"

// DefaultStockStatus is the implicit availability of a new product.
const DefaultStockStatus = "in_stock"

// AgentGuard verifies that a user owns an agent before touching its catalog.
type AgentGuard interface {
	OwnsAgent(ctx context.Context, ownerID, agentID uuid.UUID) error
}

// StorageConfig provides the bucket name for product images.
type StorageConfig interface {
	GetMinioBucketProductImages() string
}

// Service implements product CRUD and image uploads, scoped by agent ownership.
type Service struct {
	repo    *repository.Repository
	guard   AgentGuard
	storage storage.Service // nil when MinIO is not configured
	bucket  string
	log     *logger.Logger
}

// New creates the products service. store may be nil when object storage is
// not configured; image uploads are then rejected with Unavailable.
func New(repo *repository.Repository, guard AgentGuard, store storage.Service, cfg StorageConfig, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		guard:   guard,
		storage: store,
		bucket:  cfg.GetMinioBucketProductImages(),
		log:     log,
	}
}

// Create adds a product to an agent's catalog.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params repository.CreateParams) (*repository.Product, error) {
	if err := s.guard.OwnsAgent(ctx, ownerID, params.AgentID); err != nil {
		return nil, err
	}

	if params.Currency == "" {
		params.Currency = DefaultCurrency
	}
	if params.StockStatus == "" {
		params.StockStatus = DefaultStockStatus
	}
	if params.Features == nil {
		params.Features = []string{}
	}
	if params.Specifications == nil {
		params.Specifications = map[string]interface{}{}
	}

	product, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	s.log.Info("product created", "product_id", product.ID, "agent_id", product.AgentID)
	return product, nil
}

// Get returns a product after verifying agent ownership.
func (s *Service) Get(ctx context.Context, ownerID, agentID, id uuid.UUID) (*repository.Product, error) {
	if err := s.guard.OwnsAgent(ctx, ownerID, agentID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, agentID, id)
}

// List returns an agent's products after verifying ownership.
func (s *Service) List(ctx context.Context, ownerID, agentID uuid.UUID, activeOnly bool) ([]repository.Product, error) {
	if err := s.guard.OwnsAgent(ctx, ownerID, agentID); err != nil {
		return nil, err
	}
	return s.repo.ListByAgent(ctx, agentID, activeOnly)
}

// Update applies a partial update after verifying ownership.
func (s *Service) Update(ctx context.Context, ownerID uuid.UUID, params repository.UpdateParams) (*repository.Product, error) {
	if err := s.guard.OwnsAgent(ctx, ownerID, params.AgentID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, params)
}

// Delete removes a product after verifying ownership.
func (s *Service) Delete(ctx context.Context, ownerID, agentID, id uuid.UUID) error {
	if err := s.guard.OwnsAgent(ctx, ownerID, agentID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, agentID, id)
}

// UploadImage stores a product image and returns a presigned URL for it.
func (s *Service) UploadImage(ctx context.Context, ownerID, agentID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	if s.storage == nil {
		return "", apperr.Unavailable("object storage is not configured")
	}
	if err := s.guard.OwnsAgent(ctx, ownerID, agentID); err != nil {
		return "", err
	}
	if err := s.storage.ValidateImageUpload(contentType, size); err != nil {
		return "", apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}

	folder := fmt.Sprintf("agents/%s", agentID)
	fileKey, err := s.storage.UploadFile(ctx, s.bucket, folder, fileName, contentType, reader, size)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnavailable, "failed to store image", err)
	}

	presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, fileKey)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnavailable, "failed to generate image url", err)
	}

	s.log.Info("product image uploaded", "agent_id", agentID, "file_key", fileKey)
	return presigned.URL, nil
}
