package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakmart/shopcore/internal/domain"
	"github.com/oakmart/shopcore/internal/repository"
	apperrors "github.com/oakmart/shopcore/pkg/errors"
)

// nonSlugRe matches any character that is not a lowercase letter, digit, or hyphen.
var nonSlugRe = regexp.MustCompile(`[^a-z0-9-]+`)

// ProductService implements the business logic for catalog operations.
type ProductService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		logger:     logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Slug        string
	Description string
	CategoryID  *string
	Status      string
	Price       int64
	Currency    string
	Stock       int
	ImageURL    string
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Slug        *string
	Description *string
	CategoryID  *string
	Status      *string
	Price       *int64
	Currency    *string
	Stock       *int
	ImageURL    *string
}

// CreateProduct creates a new product with the given input.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}

	status := input.Status
	if status == "" {
		status = domain.ProductStatusDraft
	}
	if !domain.IsValidProductStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", status, strings.Join(domain.ValidProductStatuses(), ", ")))
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("verify category: %w", err)
		}
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(input.Name)
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Status:      status,
		Price:       input.Price,
		Currency:    currency,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Rating:      0,
		ReviewCount: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// GetProductBySlug retrieves a product by its slug.
func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return product, nil
}

// ListProducts returns a filtered, paginated list of products.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct applies partial updates to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
	}

	if input.Slug != nil {
		product.Slug = Slugify(*input.Slug)
	}

	if input.Description != nil {
		product.Description = *input.Description
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("verify category: %w", err)
		}
		product.CategoryID = input.CategoryID
	}

	if input.Status != nil {
		if !domain.IsValidProductStatus(*input.Status) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", *input.Status, strings.Join(domain.ValidProductStatuses(), ", ")))
		}
		product.Status = *input.Status
	}

	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		product.Price = *input.Price
	}

	if input.Currency != nil {
		product.Currency = *input.Currency
	}

	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperrors.InvalidInput("stock must not be negative")
		}
		product.Stock = *input.Stock
	}

	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", product.ID))

	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return nil
}

// Slugify converts a name into a URL-friendly slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = nonSlugRe.ReplaceAllString(slug, "")
	return strings.Trim(slug, "-")
}
