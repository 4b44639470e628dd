package repository

import (
	"context"
	"errors"

	"august/internal/domain"
	"august/internal/pagination"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists нарушение уникальности (email, имя категории, имя товара)
var ErrAlreadyExists = errors.New("already exists")

// ErrConflict конкурентное изменение или нарушение ссылочной целостности;
// вызывающая сторона может повторить запрос
var ErrConflict = errors.New("conflict")

// ProductListQuery параметры постраничного списка товаров.
// Непустой After отменяет остальные фильтры: токен сам кодирует позицию.
type ProductListQuery struct {
	Category string // имя категории, пустое = все товары
	PageSize int
	After    string
}

// ProductSearchQuery выборка по диапазону цены, сортировка по цене
type ProductSearchQuery struct {
	MinPrice int64
	MaxPrice int64
	PageSize int
	After    string
}

// OrderListQuery постраничный список заказов покупателя
type OrderListQuery struct {
	CustomerID string
	PageSize   int
	After      string
}

// CustomerRepository интерфейс репозитория покупателей
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id string) error
	DeleteAllCustomers(ctx context.Context) error
}

// CategoryRepository интерфейс репозитория категорий
type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	CategoryByName(ctx context.Context, name string) (*domain.Category, error)
	CategoryNames(ctx context.Context) ([]string, error)
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	ProductByID(ctx context.Context, id string) (*domain.Product, error)
	ProductByName(ctx context.Context, name string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	AdjustStock(ctx context.Context, id string, delta int64) error
	DeleteProduct(ctx context.Context, id string) error
	DeleteAllProducts(ctx context.Context) error
	ListProducts(ctx context.Context, q ProductListQuery) (*pagination.Page[domain.Product], error)
	SearchProducts(ctx context.Context, q ProductSearchQuery) (*pagination.Page[domain.Product], error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
	OrderByID(ctx context.Context, id string) (*domain.Order, error)
	CartByCustomer(ctx context.Context, customerID string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, o *domain.Order) error
	UpsertItem(ctx context.Context, orderID, productID string, quantity int64) error
	ListOrdersByCustomer(ctx context.Context, q OrderListQuery) (*pagination.Page[domain.Order], error)
	DeleteAllOrders(ctx context.Context) error
}

// TxManager абстракция транзакции хранилища. Замыкание выполняется в одной
// атомарной единице: ошибка откатывает все изменения.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
