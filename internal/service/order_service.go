package service

import (
	"context"
	"errors"
	"fmt"

	"august/internal/domain"
	"august/internal/repository"
)

var (
	// ErrInvalidTransition запрошенный статус не является единственным
	// допустимым преемником текущего
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrPaymentLocked платёжные данные можно менять только у корзины
	ErrPaymentLocked = errors.New("can not update payment information after an order has been placed")

	ErrNotEnoughStock = errors.New("not enough stock")

	ErrEmptyOrder = errors.New("can not checkout an order with no items")
)

// OrderUpdate запрошенное изменение заказа. Nil-поля не трогаются:
// запрос без статуса — это проверка перехода вхолостую.
type OrderUpdate struct {
	Status  *domain.OrderStatus
	Payment map[string]string
}

// OrderService машина состояний заказа и транзакция оформления
type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	tx       repository.TxManager
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, tx repository.TxManager) *OrderService {
	return &OrderService{orders: orders, products: products, tx: tx}
}

// Get возвращает заказ по id
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.OrderByID(ctx, id)
}

// Update применяет изменение статуса и/или платёжных данных.
// Переход в "processing" возможен только через оформление заказа.
func (s *OrderService) Update(ctx context.Context, id string, upd OrderUpdate) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *upd.Status)
	}
	if upd.Status != nil && *upd.Status == domain.StatusProcessing {
		return s.Checkout(ctx, id, upd.Payment)
	}

	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.OrderByID(ctx, id)
		if err != nil {
			return fmt.Errorf("order %s: %w", id, err)
		}
		if upd.Status != nil && !domain.CanTransition(o.Status, *upd.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, *upd.Status)
		}
		if upd.Payment != nil && o.Status != domain.StatusCart {
			return ErrPaymentLocked
		}
		if upd.Status != nil {
			o.Status = *upd.Status
		}
		if upd.Payment != nil {
			o.Payment = upd.Payment
		}
		if err := s.orders.UpdateOrder(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Checkout атомарно превращает корзину в заказ "processing": проверяет
// остатки по всем позициям, списывает их и пересчитывает сумму по ценам
// на момент фиксации. Любая ошибка откатывает транзакцию целиком —
// частичное списание не наблюдаемо.
func (s *OrderService) Checkout(ctx context.Context, id string, payment map[string]string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	var placed *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.OrderByID(ctx, id)
		if err != nil {
			return fmt.Errorf("order %s: %w", id, err)
		}
		if !domain.CanTransition(o.Status, domain.StatusProcessing) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, domain.StatusProcessing)
		}
		if len(o.Items) == 0 {
			return ErrEmptyOrder
		}

		// сначала полная проверка, потом изменения
		for _, it := range o.Items {
			if it.Product.Stock < it.Quantity {
				return fmt.Errorf("product %s: %w", it.Product.Name, ErrNotEnoughStock)
			}
		}
		for _, it := range o.Items {
			if err := s.products.AdjustStock(ctx, it.Product.ID, -it.Quantity); err != nil {
				return err
			}
		}

		o.Total = o.ItemTotal()
		o.Status = domain.StatusProcessing
		if payment != nil {
			o.Payment = payment
		}
		if err := s.orders.UpdateOrder(ctx, o); err != nil {
			return err
		}
		// перечитываем, чтобы позиции отражали списанные остатки
		placed, err = s.orders.OrderByID(ctx, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}
