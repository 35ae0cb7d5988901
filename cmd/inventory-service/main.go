package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	inventoryservice "github.com/jcmexdev/orders-service/internal/inventory-service"
	"github.com/jcmexdev/orders-service/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger(getEnv("LOG_LEVEL", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := getEnv("HTTP_ADDR", ":3333")
	srv := &http.Server{
		Addr:              addr,
		Handler:           inventoryservice.NewServer(catalog()...).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("inventory service HTTP running", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}

func catalog() []inventoryservice.Product {
	return []inventoryservice.Product{
		{ID: "3f1c2b4a-7d8e-4f90-a1b2-c3d4e5f60001", Name: "Ceramic Mug", Price: decimal.RequireFromString("49.90"), Stock: 120},
		{ID: "3f1c2b4a-7d8e-4f90-a1b2-c3d4e5f60002", Name: "Dinner Plate", Price: decimal.RequireFromString("29.90"), Stock: 80},
		{ID: "3f1c2b4a-7d8e-4f90-a1b2-c3d4e5f60003", Name: "Glass Tumbler", Price: decimal.RequireFromString("15.50"), Stock: 200},
		{ID: "3f1c2b4a-7d8e-4f90-a1b2-c3d4e5f60004", Name: "Cutlery Set", Price: decimal.RequireFromString("119.00"), Stock: 25},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
