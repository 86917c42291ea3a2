// Package apptest arma un entorno en memoria con datos base para las pruebas de casos de uso.
package apptest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/internal/infrastructure/memory"
)

// Actores frecuentes en pruebas.
var (
	Seller = entity.NewActor(entity.RoleSeller, "Luis")
	Admin  = entity.NewActor(entity.RoleAdmin, "Marta")
	Master = entity.NewActor(entity.RoleMaster, "Ana")
)

// Env store en memoria con un cliente, un almacén y dos productos con 100 piezas cada uno.
// Los datos base se insertan sin bitácora.
type Env struct {
	Store       *memory.Store
	ClientID    string
	WarehouseID string
	BeerID      string // precio 50, costo 30
	WaterID     string // precio 20, costo 8
}

// NewEnv crea el entorno base.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	e := &Env{
		Store:       memory.New(),
		ClientID:    uuid.New().String(),
		WarehouseID: uuid.New().String(),
		BeerID:      uuid.New().String(),
		WaterID:     uuid.New().String(),
	}
	now := time.Now().UTC()
	err := e.Store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		if err := r.Clients.Create(ctx, &entity.Client{
			ID: e.ClientID, Name: "Stand Norte", Zone: "Zona VIP", Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		if err := r.Warehouses.Create(ctx, &entity.Warehouse{ID: e.WarehouseID, Name: "Almacén Central", CreatedAt: now}); err != nil {
			return err
		}
		products := []entity.Product{
			{ID: e.BeerID, Name: "Cerveza Clara", Category: "Cerveza", Price: decimal.NewFromInt(50), PurchasePrice: decimal.NewFromInt(30)},
			{ID: e.WaterID, Name: "Agua 600ml", Category: "Agua", Price: decimal.NewFromInt(20), PurchasePrice: decimal.NewFromInt(8)},
		}
		for i := range products {
			p := products[i]
			p.CreatedAt, p.UpdatedAt = now, now
			if err := r.Products.Create(ctx, &p); err != nil {
				return err
			}
			if err := r.Stock.Upsert(ctx, &entity.Stock{ProductID: p.ID, WarehouseID: e.WarehouseID, Quantity: 100, UpdatedAt: now}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return e
}

// AddClient inserta otro cliente sin bitácora.
func (e *Env) AddClient(t *testing.T, name, zone string) string {
	t.Helper()
	id := uuid.New().String()
	err := e.Store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		return r.Clients.Create(ctx, &entity.Client{ID: id, Name: name, Zone: zone, Balance: decimal.Zero, CreatedAt: time.Now().UTC()})
	})
	require.NoError(t, err)
	return id
}

// Client relee un cliente.
func (e *Env) Client(t *testing.T, id string) *entity.Client {
	t.Helper()
	c, err := e.Store.Repos().Clients.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

// Stock existencia actual del producto en el almacén base.
func (e *Env) Stock(t *testing.T, productID string) int {
	t.Helper()
	s, err := e.Store.Repos().Stock.Get(context.Background(), productID, e.WarehouseID)
	require.NoError(t, err)
	if s == nil {
		return 0
	}
	return s.Quantity
}

// AuditEntries bitácora completa, más reciente primero.
func (e *Env) AuditEntries(t *testing.T) []*entity.AuditEntry {
	t.Helper()
	list, err := e.Store.Repos().Audit.List(context.Background(), repository.AuditFilter{})
	require.NoError(t, err)
	return list
}
