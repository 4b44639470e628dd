package domain

import "time"

// Address почтовый адрес покупателя
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Customer представляет покупателя магазина
type Customer struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address Address `json:"address"`
}

// Category категория товаров, имя уникально
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Product товар каталога. Цена в минорных единицах валюты.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Stock       int64    `json:"stock"`
	Category    Category `json:"category"`
}

// OrderItem позиция в заказе
type OrderItem struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
}

// Order сущность заказа. Корзина — это заказ в статусе "cart".
type Order struct {
	ID        string            `json:"id"`
	Customer  Customer          `json:"customer"`
	CreatedAt time.Time         `json:"createdAt"`
	Status    OrderStatus       `json:"status"`
	Total     int64             `json:"total"`
	Items     []OrderItem       `json:"items"`
	Payment   map[string]string `json:"payment"`
}

// ItemTotal сумма заказа по текущим ценам позиций
func (o *Order) ItemTotal() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.Product.Price * it.Quantity
	}
	return total
}
