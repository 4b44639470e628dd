package service

import (
	"context"
	"errors"
	"testing"

	"august/internal/repository"
)

func TestCreateProduct_UnknownCategory(t *testing.T) {
	e := setup(t)
	_, err := e.catalog.CreateProduct(context.Background(), ProductInput{
		Name: "Widget", Description: "test", Price: 100, Stock: 1, Category: "nope",
	})
	if !errors.Is(err, ErrNoCategory) {
		t.Fatalf("expected no category error, got %v", err)
	}
}

func TestCreateProduct_DuplicateName(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	e.mustCategory(t, "electronics")
	e.mustProduct(t, "Widget", 100, 1)
	_, err := e.catalog.CreateProduct(ctx, ProductInput{
		Name: "Widget", Description: "again", Price: 200, Stock: 2, Category: "electronics",
	})
	if !errors.Is(err, repository.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestUpdateProduct_SwitchesCategory(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	e.mustCategory(t, "electronics")
	e.mustCategory(t, "books")
	p := e.mustProduct(t, "Reader", 100, 1)

	updated, err := e.catalog.UpdateProduct(ctx, p.ID, ProductInput{
		Name: "Reader", Description: "now a book", Price: 150, Stock: 2, Category: "books",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Category.Name != "books" || updated.Price != 150 {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestUpdateProduct_UnknownProduct(t *testing.T) {
	e := setup(t)
	e.mustCategory(t, "electronics")
	_, err := e.catalog.UpdateProduct(context.Background(), "missing", ProductInput{
		Name: "X", Description: "d", Price: 1, Stock: 1, Category: "electronics",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListProducts_UnknownCategoryIsNotFound(t *testing.T) {
	e := setup(t)
	// опечатка в имени категории не маскируется пустой страницей
	if _, err := e.catalog.ListProducts(context.Background(), "eletcronics", 10, ""); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListProducts_CursorOverridesFilters(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	e.mustCategory(t, "electronics")
	for _, n := range []string{"A", "B", "C"} {
		e.mustProduct(t, n, 100, 1)
	}

	page, err := e.catalog.ListProducts(ctx, "electronics", 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if page.After == nil {
		t.Fatalf("expected continuation token")
	}
	// с токеном фильтры не рассматриваются вовсе, даже заведомо битые
	next, err := e.catalog.ListProducts(ctx, "no-such-category", 0, *page.After)
	if err != nil {
		t.Fatalf("cursor page: %v", err)
	}
	if len(next.Data) != 1 || next.After != nil {
		t.Fatalf("expected final page with 1 item, got %d", len(next.Data))
	}
}

func TestSearchProducts_InvalidRange(t *testing.T) {
	e := setup(t)
	if _, err := e.catalog.SearchProducts(context.Background(), 100, 50, 10, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSearchProducts_InclusiveBounds(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	e.mustCategory(t, "electronics")
	e.mustProduct(t, "Low", 100, 1)
	e.mustProduct(t, "High", 200, 1)
	e.mustProduct(t, "Above", 201, 1)

	page, err := e.catalog.SearchProducts(ctx, 100, 200, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected inclusive range [100,200] to match 2, got %d", len(page.Data))
	}
}

func TestCategoryNames(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	e.mustCategory(t, "movies")
	e.mustCategory(t, "books")
	names, err := e.catalog.CategoryNames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "books" || names[1] != "movies" {
		t.Fatalf("unexpected names: %v", names)
	}
}
