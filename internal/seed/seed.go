package seed

import (
	"context"
	"errors"
	"time"

	"august/internal/domain"
	"august/internal/repository"
)

// демо-данные, на которых работают примеры и тесты API

var categories = []domain.Category{
	{Name: "electronics", Description: "Bargain electronics!"},
	{Name: "books", Description: "Bargain books!"},
	{Name: "movies", Description: "Bargain movies!"},
}

type seedProduct struct {
	name        string
	price       int64
	description string
	stock       int64
	category    string
}

var products = []seedProduct{
	{"iPhone", 10000, "Apple flagship phone", 100, "electronics"},
	{"Drone", 9000, "Fly and let people wonder if you are filming them!", 1, "electronics"},
	{"Signature Box III", 300000, "Latest box by Hooli!", 1000, "electronics"},
	{"Raspberry Pi", 3000, "A tiny computer", 5, "electronics"},
	{"For Whom the Bell Tolls", 899, "A book by Ernest Hemingway", 10, "books"},
	{"Getting Started with Fauna", 1999, "A book by Fauna, Inc.", 0, "books"},
	{"The Godfather", 1299, "A movie by Francis Ford Coppola", 10, "movies"},
	{"The Godfather II", 1299, "A movie by Francis Ford Coppola", 10, "movies"},
	{"The Godfather III", 1299, "A movie by Francis Ford Coppola", 10, "movies"},
}

var demoCustomer = domain.Customer{
	Name:  "Valued Customer",
	Email: "fake@fauna.com",
	Address: domain.Address{
		Street:     "123 Main St",
		City:       "San Francisco",
		State:      "CA",
		PostalCode: "12345",
		Country:    "United States",
	},
}

// Store объединяет репозитории, которые нужны загрузчику демо-данных
type Store interface {
	repository.CustomerRepository
	repository.CategoryRepository
	repository.ProductRepository
	repository.OrderRepository
	repository.TxManager
}

// Init сбрасывает историю заказов и покупателей и досоздаёт недостающие
// категории, товары, демо-покупателя и по одному заказу в каждом статусе.
// Идемпотентна, выполняется одной транзакцией.
func Init(ctx context.Context, store Store) error {
	return store.WithTransaction(ctx, func(ctx context.Context) error {
		// история очищается, каталог переиспользуется
		if err := store.DeleteAllOrders(ctx); err != nil {
			return err
		}
		if err := store.DeleteAllCustomers(ctx); err != nil {
			return err
		}

		for _, c := range categories {
			if _, err := store.CategoryByName(ctx, c.Name); err == nil {
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			cat := c
			if err := store.CreateCategory(ctx, &cat); err != nil {
				return err
			}
		}

		for _, sp := range products {
			existing, err := store.ProductByName(ctx, sp.name)
			if err == nil {
				existing.Stock = sp.stock
				if err := store.UpdateProduct(ctx, existing); err != nil {
					return err
				}
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			cat, err := store.CategoryByName(ctx, sp.category)
			if err != nil {
				return err
			}
			p := domain.Product{
				Name:        sp.name,
				Description: sp.description,
				Price:       sp.price,
				Stock:       sp.stock,
				Category:    *cat,
			}
			if err := store.CreateProduct(ctx, &p); err != nil {
				return err
			}
		}

		customer := demoCustomer
		if err := store.Create(ctx, &customer); err != nil {
			return err
		}

		drone, err := store.ProductByName(ctx, "Drone")
		if err != nil {
			return err
		}
		statuses := []domain.OrderStatus{
			domain.StatusCart, domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered,
		}
		for i, status := range statuses {
			o := domain.Order{
				Customer:  customer,
				CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Millisecond),
				Status:    status,
				Total:     drone.Price,
				Items:     []domain.OrderItem{{Product: *drone, Quantity: 1}},
				Payment:   map[string]string{},
			}
			if err := store.CreateOrder(ctx, &o); err != nil {
				return err
			}
		}
		return nil
	})
}
