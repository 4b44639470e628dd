package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"august/internal/domain"
	"august/internal/pagination"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustCategory(t *testing.T, store *Store, name string) domain.Category {
	t.Helper()
	c := domain.Category{Name: name, Description: "test category"}
	if err := store.CreateCategory(context.Background(), &c); err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func mustProduct(t *testing.T, store *Store, name string, price, stock int64, cat domain.Category) domain.Product {
	t.Helper()
	p := domain.Product{Name: name, Description: "test product", Price: price, Stock: stock, Category: cat}
	if err := store.CreateProduct(context.Background(), &p); err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

func mustCustomer(t *testing.T, store *Store, email string) domain.Customer {
	t.Helper()
	c := domain.Customer{
		Name:  "John",
		Email: email,
		Address: domain.Address{
			Street: "1 Main St", City: "Springfield", State: "IL",
			PostalCode: "62701", Country: "US",
		},
	}
	if err := store.Create(context.Background(), &c); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return c
}

func TestSQLiteStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	cat := mustCategory(t, store, "electronics")

	p := mustProduct(t, store, "Widget", 100, 5, cat)
	if p.ID == "" {
		t.Fatalf("no id")
	}

	got, err := store.ProductByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get by id: %v", err)
	}
	if got.Category.Name != "electronics" {
		t.Fatalf("category not joined: %+v", got.Category)
	}

	got, err = store.ProductByName(ctx, "Widget")
	if err != nil || got.ID != p.ID {
		t.Fatalf("get by name: %v", err)
	}

	p.Price = 120
	if err := store.UpdateProduct(ctx, &p); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := store.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.ProductByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSQLiteStore_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	mustCustomer(t, store, "a@example.com")

	dup := domain.Customer{Name: "Jane", Email: "a@example.com"}
	if err := store.Create(ctx, &dup); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected already exists for duplicate email, got %v", err)
	}

	mustCategory(t, store, "books")
	c := domain.Category{Name: "books", Description: "again"}
	if err := store.CreateCategory(ctx, &c); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected already exists for duplicate category, got %v", err)
	}
}

func TestSQLiteStore_SingleCartPerCustomer(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	customer := mustCustomer(t, store, "cart@example.com")

	cart := domain.Order{Customer: customer, Status: domain.StatusCart}
	if err := store.CreateOrder(ctx, &cart); err != nil {
		t.Fatalf("create cart: %v", err)
	}
	second := domain.Order{Customer: customer, Status: domain.StatusCart}
	if err := store.CreateOrder(ctx, &second); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected unique cart violation, got %v", err)
	}

	// заказы в других статусах не ограничены
	placed := domain.Order{Customer: customer, Status: domain.StatusProcessing}
	if err := store.CreateOrder(ctx, &placed); err != nil {
		t.Fatalf("create processing order: %v", err)
	}
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	cat := mustCategory(t, store, "electronics")
	p := mustProduct(t, store, "Widget", 100, 5, cat)

	wantErr := errors.New("boom")
	err := store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := store.AdjustStock(ctx, p.ID, -3); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected propagated error, got %v", err)
	}

	got, err := store.ProductByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("stock leaked out of aborted transaction: %v", got.Stock)
	}
}

func TestUpsertItem_MergesQuantity(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	cat := mustCategory(t, store, "electronics")
	p := mustProduct(t, store, "Widget", 100, 5, cat)
	customer := mustCustomer(t, store, "merge@example.com")

	cart := domain.Order{Customer: customer, Status: domain.StatusCart}
	if err := store.CreateOrder(ctx, &cart); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertItem(ctx, cart.ID, p.ID, 2); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertItem(ctx, cart.ID, p.ID, 1); err != nil {
		t.Fatal(err)
	}

	got, err := store.OrderByID(ctx, cart.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected one merged line item, got %d", len(got.Items))
	}
	if got.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", got.Items[0].Quantity)
	}
}

func TestListProducts_PaginationIsExhaustive(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	electronics := mustCategory(t, store, "electronics")
	books := mustCategory(t, store, "books")
	names := []string{"A", "B", "C", "D", "E"}
	for i, n := range names {
		cat := electronics
		if i%2 == 1 {
			cat = books
		}
		mustProduct(t, store, n, int64(100+i), 1, cat)
	}

	seen := map[string]bool{}
	after := ""
	pages := 0
	for {
		page, err := store.ListProducts(ctx, ProductListQuery{PageSize: 2, After: after})
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		for _, p := range page.Data {
			if seen[p.Name] {
				t.Fatalf("product %s returned twice", p.Name)
			}
			seen[p.Name] = true
		}
		pages++
		if page.After == nil {
			break
		}
		after = *page.After
	}
	if len(seen) != len(names) {
		t.Fatalf("pagination dropped products: saw %d of %d", len(seen), len(names))
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}

	// фильтр по категории
	page, err := store.ListProducts(ctx, ProductListQuery{Category: "books", PageSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Data) != 2 || page.After != nil {
		t.Fatalf("category filter returned %d items", len(page.Data))
	}
	for _, p := range page.Data {
		if p.Category.Name != "books" {
			t.Fatalf("wrong category: %s", p.Category.Name)
		}
	}
}

func TestSearchProducts_OrderedByPrice(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	cat := mustCategory(t, store, "electronics")
	mustProduct(t, store, "Cheap", 100, 1, cat)
	mustProduct(t, store, "Mid", 500, 1, cat)
	mustProduct(t, store, "Costly", 900, 1, cat)
	mustProduct(t, store, "Outside", 2000, 1, cat)

	var got []domain.Product
	after := ""
	for {
		page, err := store.SearchProducts(ctx, ProductSearchQuery{MinPrice: 0, MaxPrice: 1000, PageSize: 2, After: after})
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, page.Data...)
		if page.After == nil {
			break
		}
		after = *page.After
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 products in range, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Price > got[i].Price {
			t.Fatalf("not sorted by price: %v", got)
		}
	}
}

func TestListQueries_RejectForgedCursorSize(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	cat := mustCategory(t, store, "electronics")
	mustProduct(t, store, "Widget", 100, 1, cat)
	customer := mustCustomer(t, store, "forged@example.com")
	o := domain.Order{Customer: customer, Status: domain.StatusCart}
	if err := store.CreateOrder(ctx, &o); err != nil {
		t.Fatal(err)
	}

	// токен подделан вручную: размер страницы нулевой или отрицательный
	for _, size := range []int{0, -3} {
		token, err := pagination.EncodeToken(map[string]any{"id": "", "n": size})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := store.ListProducts(ctx, ProductListQuery{After: token}); !errors.Is(err, pagination.ErrBadToken) {
			t.Fatalf("ListProducts size %d: expected bad token, got %v", size, err)
		}
		if _, err := store.SearchProducts(ctx, ProductSearchQuery{After: token}); !errors.Is(err, pagination.ErrBadToken) {
			t.Fatalf("SearchProducts size %d: expected bad token, got %v", size, err)
		}
		if _, err := store.ListOrdersByCustomer(ctx, OrderListQuery{After: token}); !errors.Is(err, pagination.ErrBadToken) {
			t.Fatalf("ListOrdersByCustomer size %d: expected bad token, got %v", size, err)
		}
	}

	// токен без поля размера трактуется так же
	token, err := pagination.EncodeToken(map[string]any{"c": "electronics", "id": "zzz"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.ListProducts(ctx, ProductListQuery{After: token}); !errors.Is(err, pagination.ErrBadToken) {
		t.Fatalf("missing size field: expected bad token, got %v", err)
	}
}

func TestListOrdersByCustomer_Pagination(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	customer := mustCustomer(t, store, "orders@example.com")

	statuses := []domain.OrderStatus{
		domain.StatusCart, domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered,
	}
	for _, st := range statuses {
		o := domain.Order{Customer: customer, Status: st}
		if err := store.CreateOrder(ctx, &o); err != nil {
			t.Fatal(err)
		}
	}

	seen := 0
	after := ""
	for {
		page, err := store.ListOrdersByCustomer(ctx, OrderListQuery{CustomerID: customer.ID, PageSize: 3, After: after})
		if err != nil {
			t.Fatal(err)
		}
		seen += len(page.Data)
		if page.After == nil {
			break
		}
		after = *page.After
	}
	if seen != len(statuses) {
		t.Fatalf("expected %d orders, got %d", len(statuses), seen)
	}
}
