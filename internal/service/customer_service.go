package service

import (
	"context"
	"fmt"

	"august/internal/domain"
	"august/internal/pagination"
	"august/internal/repository"
)

// CustomerInput данные для создания/обновления покупателя
type CustomerInput struct {
	Name    string
	Email   string
	Address domain.Address
}

// CustomerService бизнес-логика вокруг покупателей и истории их заказов
type CustomerService struct {
	customers repository.CustomerRepository
	orders    repository.OrderRepository
}

func NewCustomerService(customers repository.CustomerRepository, orders repository.OrderRepository) *CustomerService {
	return &CustomerService{customers: customers, orders: orders}
}

func (in CustomerInput) validate() error {
	if in.Name == "" || in.Email == "" {
		return ErrInvalidInput
	}
	return nil
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := domain.Customer{Name: in.Name, Email: in.Email, Address: in.Address}
	if err := s.customers.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.customers.GetByID(ctx, id)
}

func (s *CustomerService) Update(ctx context.Context, id string, in CustomerInput) (*domain.Customer, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := domain.Customer{ID: id, Name: in.Name, Email: in.Email, Address: in.Address}
	if err := s.customers.Update(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.customers.Delete(ctx, id)
}

// Orders страница заказов покупателя (вместе с корзиной, если она есть)
func (s *CustomerService) Orders(ctx context.Context, customerID string, pageSize int, after string) (*pagination.Page[domain.Order], error) {
	if customerID == "" {
		return nil, ErrInvalidInput
	}
	if after == "" {
		if _, err := s.customers.GetByID(ctx, customerID); err != nil {
			return nil, fmt.Errorf("customer %s: %w", customerID, err)
		}
	}
	return s.orders.ListOrdersByCustomer(ctx, repository.OrderListQuery{
		CustomerID: customerID,
		PageSize:   pagination.ClampPageSize(pageSize, defaultPageSize, maxPageSize),
		After:      after,
	})
}
