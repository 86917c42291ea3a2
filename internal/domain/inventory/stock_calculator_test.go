package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

func TestApplyDelta_Entrada(t *testing.T) {
	s := &entity.Stock{ProductID: "p", WarehouseID: "w", Quantity: 5}
	require.NoError(t, ApplyDelta(s, 20))
	assert.Equal(t, 25, s.Quantity)
}

func TestApplyDelta_HastaCero(t *testing.T) {
	s := &entity.Stock{Quantity: 5}
	require.NoError(t, ApplyDelta(s, -5))
	assert.Equal(t, 0, s.Quantity)
}

func TestApplyDelta_NegativoRechazado(t *testing.T) {
	s := &entity.Stock{ProductID: "p", WarehouseID: "w", Quantity: 5}
	err := ApplyDelta(s, -8)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var detail *domain.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, 5, detail.Available)
	assert.Equal(t, 8, detail.Requested)
	assert.Equal(t, 5, s.Quantity, "la existencia no debe cambiar")
}

func TestAdjustmentType(t *testing.T) {
	assert.Equal(t, entity.MovementRestock, AdjustmentType(3))
	assert.Equal(t, entity.MovementAdjustment, AdjustmentType(-3))
}
