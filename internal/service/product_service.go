package service

import (
	"context"
	"fmt"

	"stockroom/internal/domain"
	"stockroom/internal/repository"
	"stockroom/internal/validation"
)

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, form validation.Form) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, id int64, form validation.Form) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, activeOnly bool, category string) ([]*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{
		productRepo: productRepo,
	}
}

// Create validates the raw form and inserts the normalized draft.
// A validation failure is returned as validation.FieldErrors and never
// reaches the repository.
func (s *productService) Create(ctx context.Context, form validation.Form) (*domain.Product, error) {
	draft, fieldErrs := validation.ValidateProduct(form)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	product, err := s.productRepo.Insert(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Get retrieves a single product by ID
func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Update validates the raw form and overwrites the identified product.
// Returns repository.ErrProductNotFound if the id does not exist.
func (s *productService) Update(ctx context.Context, id int64, form validation.Form) (*domain.Product, error) {
	draft, fieldErrs := validation.ValidateProduct(form)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	product, err := s.productRepo.Update(ctx, id, draft)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a single product by ID
func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return err
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// List returns all products newest first, with the optional active and
// category filters applied as in-memory predicates over the listed rows.
func (s *productService) List(ctx context.Context, activeOnly bool, category string) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if activeOnly {
		products = domain.FilterActive(products)
	}
	if category != "" {
		products = domain.FilterByCategory(products, category)
	}

	return products, nil
}
