package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"august/internal/config"
	httpapi "august/internal/http"
	"august/internal/repository"
	"august/internal/seed"
	"august/internal/service"

	_ "august/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := repository.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if cfg.Seed {
		if err := seed.Init(context.Background(), store); err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Print("seed data loaded")
	}

	catalogSvc := service.NewCatalogService(store, store, store)
	customersSvc := service.NewCustomerService(store, store)
	cartsSvc := service.NewCartService(store, store, store, store)
	ordersSvc := service.NewOrderService(store, store, store)

	srv := httpapi.NewServer(catalogSvc, customersSvc, cartsSvc, ordersSvc)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
