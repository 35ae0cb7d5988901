package main

import (
	"time"

	"github.com/jcmexdev/orders-service/internal/order-service/domain"
)

// devCustomers seeds the in-memory store and an empty Postgres customers table.
func devCustomers() []domain.Customer {
	now := time.Now().UTC()
	return []domain.Customer{
		{ID: "0b6f4c1e-5d7a-4a63-9f0e-2f3f9a7c1a01", Name: "Ana Souza", Email: "ana.souza@example.com", ZipCode: "09030310", CreatedAt: now, UpdatedAt: now},
		{ID: "5a2e9b7d-3c41-4f8e-8d6a-7b1c2e3f4a02", Name: "Bruno Lima", Email: "bruno.lima@example.com", ZipCode: "22041001", CreatedAt: now, UpdatedAt: now},
		{ID: "9c8d7e6f-1a2b-4c3d-8e9f-0a1b2c3d4e03", Name: "Carla Dias", Email: "carla.dias@example.com", ZipCode: "30130010", CreatedAt: now, UpdatedAt: now},
	}
}
