package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/repository"
	"stockroom/internal/validation"
)

// Mock repository for testing
type mockProductRepository struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[int64]*domain.Product),
	}
}

func (m *mockProductRepository) Insert(ctx context.Context, draft *validation.Draft) (*domain.Product, error) {
	m.nextID++
	now := time.Now()
	product := &domain.Product{
		ID:          m.nextID,
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		Quantity:    draft.Quantity,
		Category:    draft.Category,
		IsActive:    draft.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.products[product.ID] = product
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) Update(ctx context.Context, id int64, draft *validation.Draft) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	product.Name = draft.Name
	product.Description = draft.Description
	product.Price = draft.Price
	product.Quantity = draft.Quantity
	product.Category = draft.Category
	product.IsActive = draft.IsActive
	product.UpdatedAt = time.Now()
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		copied := *p
		products = append(products, &copied)
	}
	// Newest first, id as tiebreak, matching the store's ordering contract
	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].ID > products[j].ID
	})
	return products, nil
}

func widgetForm() validation.Form {
	return validation.Form{
		"name":     "Widget",
		"price":    "9.99",
		"quantity": "5",
		"category": "tools",
	}
}

func TestCreate_WidgetScenario(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo)
	ctx := context.Background()

	// No is_active flag submitted
	product, err := svc.Create(ctx, widgetForm())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if product.IsActive {
		t.Error("is_active should resolve to false when the flag is absent")
	}
	if domain.FormatPrice(product) != "9.99" {
		t.Errorf("price = %s, want 9.99", domain.FormatPrice(product))
	}
	if product.ID == 0 {
		t.Error("id was not assigned")
	}
	if product.CreatedAt.IsZero() || product.UpdatedAt.IsZero() {
		t.Error("timestamps were not set")
	}
}

func TestCreate_InvalidFormCreatesNoRecord(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, validation.Form{
		"name":     "",
		"price":    "-1",
		"quantity": "5",
		"category": "tools",
	})

	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if _, ok := fieldErrs["name"]; !ok {
		t.Error("missing name error")
	}
	if _, ok := fieldErrs["price"]; !ok {
		t.Error("missing price error")
	}

	if len(repo.products) != 0 {
		t.Errorf("validation failure reached the store: %d records", len(repo.products))
	}
}

func TestUpdate_IsIdempotentExceptUpdatedAt(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, widgetForm())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first, err := svc.Update(ctx, created.ID, widgetForm())
	if err != nil {
		t.Fatalf("first Update failed: %v", err)
	}

	second, err := svc.Update(ctx, created.ID, widgetForm())
	if err != nil {
		t.Fatalf("second Update failed: %v", err)
	}

	if second.ID != first.ID {
		t.Error("id changed across updates")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("created_at changed across updates")
	}
	if second.Name != first.Name || second.Quantity != first.Quantity ||
		second.Category != first.Category || second.IsActive != first.IsActive ||
		!second.Price.Equal(first.Price) {
		t.Error("repeated update with identical input changed fields")
	}
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Error("updated_at went backwards")
	}
}

func TestUpdate_MissingIDReturnsNotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepository())

	_, err := svc.Update(context.Background(), 42, widgetForm())
	if !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdate_InvalidFormNeverReachesStore(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, widgetForm())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	form := widgetForm()
	form["quantity"] = "-5"
	_, err = svc.Update(ctx, created.ID, form)

	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}

	unchanged, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if unchanged.Quantity != 5 {
		t.Errorf("quantity = %d after failed update, want 5", unchanged.Quantity)
	}
}

func TestDelete_MissingIDReturnsNotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepository())

	err := svc.Delete(context.Background(), 42)
	if !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestDelete_ThenGetReturnsNotFound(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, widgetForm())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err = svc.Get(ctx, created.ID)
	if !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound after delete, got %v", err)
	}
}

func TestList_Filters(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo)
	ctx := context.Background()

	forms := []validation.Form{
		{"name": "A", "price": "1.00", "quantity": "1", "category": "tools", "is_active": "true"},
		{"name": "B", "price": "2.00", "quantity": "2", "category": "tools"},
		{"name": "C", "price": "3.00", "quantity": "3", "category": "garden", "is_active": "true"},
	}
	for _, form := range forms {
		if _, err := svc.Create(ctx, form); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := svc.List(ctx, false, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d products, want 3", len(all))
	}

	active, err := svc.List(ctx, true, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("got %d active products, want 2", len(active))
	}

	activeTools, err := svc.List(ctx, true, "tools")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(activeTools) != 1 || activeTools[0].Name != "A" {
		t.Errorf("active tools filter returned %d products", len(activeTools))
	}

	// Inactive products stay fully queryable and editable
	var inactive *domain.Product
	for _, p := range all {
		if p.Name == "B" {
			inactive = p
		}
	}
	if inactive == nil {
		t.Fatal("inactive product missing from unfiltered list")
	}
	form := validation.Form{"name": "B2", "price": "2.50", "quantity": "2", "category": "tools"}
	if _, err := svc.Update(ctx, inactive.ID, form); err != nil {
		t.Errorf("inactive product could not be updated: %v", err)
	}
}
