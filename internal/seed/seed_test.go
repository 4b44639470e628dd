package seed

import (
	"context"
	"path/filepath"
	"testing"

	"august/internal/repository"
)

func TestInit_Idempotent(t *testing.T) {
	store, err := repository.Open(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := Init(ctx, store); err != nil {
		t.Fatalf("first init: %v", err)
	}

	// покупатель "тратит" единственный дрон
	drone, err := store.ProductByName(ctx, "Drone")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AdjustStock(ctx, drone.ID, -1); err != nil {
		t.Fatal(err)
	}

	if err := Init(ctx, store); err != nil {
		t.Fatalf("second init: %v", err)
	}

	names, err := store.CategoryNames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 categories, got %v", names)
	}

	drone, err = store.ProductByName(ctx, "Drone")
	if err != nil {
		t.Fatal(err)
	}
	if drone.Stock != 1 {
		t.Fatalf("expected drone stock reset to 1, got %d", drone.Stock)
	}

	customer, err := store.GetByEmail(ctx, "fake@fauna.com")
	if err != nil {
		t.Fatalf("demo customer: %v", err)
	}

	page, err := store.ListOrdersByCustomer(ctx, repository.OrderListQuery{CustomerID: customer.ID, PageSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Data) != 4 {
		t.Fatalf("expected 4 demo orders, got %d", len(page.Data))
	}
	seen := map[string]bool{}
	for _, o := range page.Data {
		seen[string(o.Status)] = true
	}
	for _, want := range []string{"cart", "processing", "shipped", "delivered"} {
		if !seen[want] {
			t.Fatalf("missing demo order in status %q (have %v)", want, seen)
		}
	}
}
