package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/internal/infrastructure/memory"
)

func seedClient(t *testing.T, s *memory.Store, id string) {
	t.Helper()
	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		return r.Clients.Create(ctx, &entity.Client{ID: id, Name: "Stand " + id, Balance: decimal.Zero, CreatedAt: time.Now()})
	})
	require.NoError(t, err)
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	s := memory.New()
	seedClient(t, s, "c1")

	c, err := s.Repos().Clients.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Stand c1", c.Name)
}

func TestRun_ErrorDescartaCambios(t *testing.T) {
	s := memory.New()
	seedClient(t, s, "c1")
	boom := errors.New("boom")

	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		c, _ := r.Clients.GetForUpdate(ctx, "c1")
		c.Balance = decimal.NewFromInt(500)
		require.NoError(t, r.Clients.Update(ctx, c))
		return boom
	})
	require.ErrorIs(t, err, boom)

	c, _ := s.Repos().Clients.GetByID(context.Background(), "c1")
	assert.True(t, c.Balance.IsZero())
}

func TestRun_FallaInyectadaEsStorageUnavailable(t *testing.T) {
	s := memory.New()
	s.InjectFault("clients.create", errors.New("disco lleno"))

	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		return r.Clients.Create(ctx, &entity.Client{ID: "c1"})
	})
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))

	s.InjectFault("clients.create", nil)
	seedClient(t, s, "c1")
}

func TestRun_FallaEnCommit(t *testing.T) {
	s := memory.New()
	s.InjectFault("commit", errors.New("conexión perdida"))
	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		return r.Clients.Create(ctx, &entity.Client{ID: "c1"})
	})
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))

	c, _ := s.Repos().Clients.GetByID(context.Background(), "c1")
	assert.Nil(t, c)
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, func(context.Context, repository.Repos) error { return nil })
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
}

func TestOrderRepo_FolioConsecutivoYUnico(t *testing.T) {
	s := memory.New()
	seedClient(t, s, "c1")
	ctx := context.Background()

	f1, err := s.Repos().Orders.NextFolio(ctx)
	require.NoError(t, err)
	f2, _ := s.Repos().Orders.NextFolio(ctx)
	assert.Equal(t, "ORD-0001", f1)
	assert.Equal(t, "ORD-0002", f2)

	err = s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Orders.Create(ctx, &entity.Order{ID: "o1", Folio: f1, ClientID: "c1"}); err != nil {
			return err
		}
		return r.Orders.Create(ctx, &entity.Order{ID: "o2", Folio: f1, ClientID: "c1"})
	})
	assert.True(t, errors.Is(err, domain.ErrConstraintViolation))
}

func TestSaleRepo_CopiasIndependientes(t *testing.T) {
	s := memory.New()
	seedClient(t, s, "c1")
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		return r.Sales.Create(ctx, &entity.Sale{
			ID: "s1", ClientID: "c1", Status: entity.SaleCompleted,
			Items: []entity.SaleItem{{ProductID: "p1", Quantity: 2}},
		})
	}))

	got, _ := s.Repos().Sales.GetByID(ctx, "s1")
	got.Items[0].Quantity = 99

	again, _ := s.Repos().Sales.GetByID(ctx, "s1")
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestStockRepo_RequiereProductoYAlmacen(t *testing.T) {
	s := memory.New()
	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		return r.Stock.Upsert(ctx, &entity.Stock{ProductID: "x", WarehouseID: "y", Quantity: 1})
	})
	assert.True(t, errors.Is(err, domain.ErrConstraintViolation))
}

func TestWarehouseRepo_NombreUnico(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	err := s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "Central"}); err != nil {
			return err
		}
		return r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w2", Name: "central"})
	})
	assert.True(t, errors.Is(err, domain.ErrConstraintViolation))
	list, _ := s.Repos().Warehouses.List(ctx)
	assert.Empty(t, list)
}
