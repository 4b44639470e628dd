package service

import (
	"context"
	"errors"
	"fmt"

	"august/internal/domain"
	"august/internal/pagination"
	"august/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

var ErrInvalidInput = errors.New("invalid input")

// ErrNoCategory категория с таким именем не существует (ошибка валидации
// при создании/обновлении товара, в отличие от 404 на фильтре списка)
var ErrNoCategory = errors.New("category does not exist")

// ProductInput данные для создания/обновления товара
type ProductInput struct {
	Name        string
	Description string
	Price       int64
	Stock       int64
	Category    string
}

// CatalogService инкапсулирует бизнес-логику каталога: товары, категории,
// постраничные выборки
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	tx         repository.TxManager
}

func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository, tx repository.TxManager) *CatalogService {
	return &CatalogService{products: products, categories: categories, tx: tx}
}

func (in ProductInput) validate() error {
	if in.Name == "" || in.Category == "" || in.Price < 0 || in.Stock < 0 {
		return ErrInvalidInput
	}
	return nil
}

// CreateProduct создаёт товар; категория должна существовать
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var created *domain.Product
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		cat, err := s.categories.CategoryByName(ctx, in.Category)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoCategory
		}
		if err != nil {
			return err
		}
		p := domain.Product{
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			Stock:       in.Stock,
			Category:    *cat,
		}
		if err := s.products.CreateProduct(ctx, &p); err != nil {
			return err
		}
		created = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateProduct обновляет товар, при необходимости переводя его
// в другую категорию
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	var updated *domain.Product
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.ProductByID(ctx, id)
		if err != nil {
			return fmt.Errorf("product %s: %w", id, err)
		}
		cat, err := s.categories.CategoryByName(ctx, in.Category)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoCategory
		}
		if err != nil {
			return err
		}
		p.Name = in.Name
		p.Description = in.Description
		p.Price = in.Price
		p.Stock = in.Stock
		p.Category = *cat
		if err := s.products.UpdateProduct(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.products.ProductByID(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.products.DeleteProduct(ctx, id)
}

// ListProducts страница каталога; при токене продолжения фильтры
// игнорируются, позиция целиком закодирована в токене
func (s *CatalogService) ListProducts(ctx context.Context, category string, pageSize int, after string) (*pagination.Page[domain.Product], error) {
	if after == "" && category != "" {
		// не возвращаем молча пустую страницу по опечатке в имени категории
		if _, err := s.categories.CategoryByName(ctx, category); err != nil {
			return nil, fmt.Errorf("category %q: %w", category, err)
		}
	}
	return s.products.ListProducts(ctx, repository.ProductListQuery{
		Category: category,
		PageSize: pagination.ClampPageSize(pageSize, defaultPageSize, maxPageSize),
		After:    after,
	})
}

// SearchProducts товары с ценой в [minPrice, maxPrice], по возрастанию цены
func (s *CatalogService) SearchProducts(ctx context.Context, minPrice, maxPrice int64, pageSize int, after string) (*pagination.Page[domain.Product], error) {
	if minPrice < 0 || maxPrice < minPrice {
		return nil, ErrInvalidInput
	}
	return s.products.SearchProducts(ctx, repository.ProductSearchQuery{
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		PageSize: pagination.ClampPageSize(pageSize, defaultPageSize, maxPageSize),
		After:    after,
	})
}

// CategoryNames имена всех категорий
func (s *CatalogService) CategoryNames(ctx context.Context) ([]string, error) {
	return s.categories.CategoryNames(ctx)
}
