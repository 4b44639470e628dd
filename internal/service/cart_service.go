package service

import (
	"context"
	"errors"
	"fmt"

	"august/internal/domain"
	"august/internal/repository"
)

// ErrNoProduct товар с таким именем не существует
var ErrNoProduct = errors.New("product does not exist")

// CartService управляет корзиной: ленивое создание, слияние позиций.
// Остаток на складе здесь не проверяется и не резервируется — корзина
// оптимистична, контроль происходит при оформлении заказа.
type CartService struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	tx        repository.TxManager
}

func NewCartService(customers repository.CustomerRepository, products repository.ProductRepository, orders repository.OrderRepository, tx repository.TxManager) *CartService {
	return &CartService{customers: customers, products: products, orders: orders, tx: tx}
}

// GetOrCreateCart возвращает корзину покупателя, создавая её при первом
// обращении. Идемпотентна: транзакция сериализует конкурентные вызовы,
// корзина создаётся ровно один раз.
func (s *CartService) GetOrCreateCart(ctx context.Context, customerID string) (*domain.Order, error) {
	if customerID == "" {
		return nil, ErrInvalidInput
	}
	var cart *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		cart, err = s.getOrCreateCart(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// getOrCreateCart должен вызываться внутри транзакции
func (s *CartService) getOrCreateCart(ctx context.Context, customerID string) (*domain.Order, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer %s: %w", customerID, err)
	}
	cart, err := s.orders.CartByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	cart = &domain.Order{
		Customer: *customer,
		Status:   domain.StatusCart,
		Items:    []domain.OrderItem{},
		Payment:  map[string]string{},
	}
	if err := s.orders.CreateOrder(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem кладёт товар в корзину по имени; повторное добавление того же
// товара наращивает количество существующей позиции, а не создаёт новую
func (s *CartService) AddItem(ctx context.Context, customerID, productName string, quantity int64) (*domain.Order, error) {
	if customerID == "" || productName == "" || quantity <= 0 {
		return nil, ErrInvalidInput
	}
	var cart *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		product, err := s.products.ProductByName(ctx, productName)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoProduct
		}
		if err != nil {
			return err
		}
		c, err := s.getOrCreateCart(ctx, customerID)
		if err != nil {
			return err
		}
		if err := s.orders.UpsertItem(ctx, c.ID, product.ID, quantity); err != nil {
			return err
		}
		// перечитываем корзину и освежаем её сумму; каноничный total всё
		// равно пересчитывается при оформлении заказа
		c, err = s.orders.OrderByID(ctx, c.ID)
		if err != nil {
			return err
		}
		c.Total = c.ItemTotal()
		if err := s.orders.UpdateOrder(ctx, c); err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}
