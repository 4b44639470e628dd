package service

import (
	"context"
	"errors"
	"testing"

	"august/internal/repository"
)

func TestGetOrCreateCart_Idempotent(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	customer := e.mustCustomer(t, "idem@example.com")

	first, err := e.carts.GetOrCreateCart(ctx, customer.ID)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := e.carts.GetOrCreateCart(ctx, customer.ID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("second call created another cart: %s vs %s", first.ID, second.ID)
	}
}

func TestGetOrCreateCart_UnknownCustomer(t *testing.T) {
	e := setup(t)
	if _, err := e.carts.GetOrCreateCart(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	customer := e.mustCustomer(t, "nope@example.com")
	if _, err := e.carts.AddItem(ctx, customer.ID, "No Such Product", 1); !errors.Is(err, ErrNoProduct) {
		t.Fatalf("expected no product error, got %v", err)
	}
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	customer := e.mustCustomer(t, "qty@example.com")
	if _, err := e.carts.AddItem(ctx, customer.ID, "iPhone", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAddItem_RefreshesCartTotal(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	e.mustCategory(t, "electronics")
	e.mustProduct(t, "Widget", 250, 10)
	e.mustProduct(t, "Gadget", 1000, 10)
	customer := e.mustCustomer(t, "total@example.com")

	cart, err := e.carts.AddItem(ctx, customer.ID, "Widget", 2)
	if err != nil {
		t.Fatal(err)
	}
	if cart.Total != 500 {
		t.Fatalf("expected total 500, got %d", cart.Total)
	}
	cart, err = e.carts.AddItem(ctx, customer.ID, "Gadget", 1)
	if err != nil {
		t.Fatal(err)
	}
	if cart.Total != 1500 {
		t.Fatalf("expected total 1500, got %d", cart.Total)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected two line items, got %d", len(cart.Items))
	}
}

func TestAddItem_NoStockCheckInCart(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	e.mustCategory(t, "electronics")
	e.mustProduct(t, "SoldOut", 100, 0)
	customer := e.mustCustomer(t, "optimist@example.com")

	// корзина оптимистична: остаток проверяется только при оформлении
	cart, err := e.carts.AddItem(ctx, customer.ID, "SoldOut", 3)
	if err != nil {
		t.Fatalf("add out-of-stock item to cart: %v", err)
	}
	if _, err := e.orders.Checkout(ctx, cart.ID, nil); !errors.Is(err, ErrNotEnoughStock) {
		t.Fatalf("expected not enough stock at checkout, got %v", err)
	}
}
