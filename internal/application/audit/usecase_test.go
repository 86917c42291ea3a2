package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmvdigital/pos-feria-2026/internal/application/apptest"
	"github.com/bmvdigital/pos-feria-2026/internal/application/audit"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

func record(t *testing.T, env *apptest.Env, actor entity.Actor, event, desc string) *entity.AuditEntry {
	t.Helper()
	var entry *entity.AuditEntry
	err := env.Store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		var err error
		entry, err = audit.Record(ctx, r.Audit, actor, event, desc, audit.Metadata{"k": "v"})
		return err
	})
	require.NoError(t, err)
	return entry
}

func TestRecord_GuardaActorYMetadatos(t *testing.T) {
	env := apptest.NewEnv(t)

	entry := record(t, env, apptest.Seller, entity.EventNewSale, "Venta de prueba")
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, entity.RoleSeller, entry.ActorRole)
	assert.Equal(t, "Luis", entry.ActorName)
	assert.False(t, entry.CreatedAt.IsZero())

	stored, err := env.Store.Repos().Audit.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "v", stored.Metadata["k"])
}

func TestRecord_FallaEsAlmacenamientoNoDisponible(t *testing.T) {
	env := apptest.NewEnv(t)
	env.Store.InjectFault("audit.create", errors.New("disco lleno"))

	err := env.Store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		_, err := audit.Record(ctx, r.Audit, apptest.Seller, entity.EventNewSale, "x", nil)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), entity.EventNewSale)
}

func TestList_SoloMasterYAdministrador(t *testing.T) {
	env := apptest.NewEnv(t)
	uc := audit.NewAuditUseCase(env.Store, env.Store.Repos().Audit)
	record(t, env, apptest.Seller, entity.EventNewSale, "Venta a Stand Norte")
	record(t, env, apptest.Admin, entity.EventRestock, "Entrada de cerveza")
	ctx := context.Background()

	_, err := uc.List(ctx, apptest.Seller, repository.AuditFilter{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.EventTypes(ctx, entity.NewActor(entity.RolePromoter, "Pepe"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := uc.List(ctx, apptest.Admin, repository.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, entity.EventRestock, list.Entries[0].EventType)

	list, err = uc.List(ctx, apptest.Master, repository.AuditFilter{Search: "stand norte"})
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)

	types, err := uc.EventTypes(ctx, apptest.Master)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{entity.EventNewSale, entity.EventRestock}, types)
}

func TestList_TotalCuentaTodasLasPaginas(t *testing.T) {
	env := apptest.NewEnv(t)
	uc := audit.NewAuditUseCase(env.Store, env.Store.Repos().Audit)
	for i := 0; i < 5; i++ {
		record(t, env, apptest.Seller, entity.EventNewSale, "Venta de mostrador")
	}
	record(t, env, apptest.Admin, entity.EventRestock, "Entrada de hielo")
	ctx := context.Background()

	list, err := uc.List(ctx, apptest.Master, repository.AuditFilter{EventType: entity.EventNewSale, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, list.Entries, 2)
	assert.Equal(t, 5, list.Page.Total)
	assert.Equal(t, 2, list.Page.Limit)
	assert.Equal(t, 2, list.Page.Offset)

	list, err = uc.List(ctx, apptest.Master, repository.AuditFilter{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Empty(t, list.Entries)
	assert.Equal(t, 6, list.Page.Total)
}

func TestDelete_SoloMasterYQuedaRegistro(t *testing.T) {
	env := apptest.NewEnv(t)
	uc := audit.NewAuditUseCase(env.Store, env.Store.Repos().Audit)
	entry := record(t, env, apptest.Seller, entity.EventNewSale, "Venta")
	ctx := context.Background()

	assert.ErrorIs(t, uc.Delete(ctx, apptest.Admin, entry.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, apptest.Master, entry.ID))

	got, err := env.Store.Repos().Audit.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	deletions, err := env.Store.Repos().Audit.ListDeletions(ctx)
	require.NoError(t, err)
	require.Len(t, deletions, 1)
	assert.Equal(t, entry.ID, deletions[0].AuditEntryID)
	assert.Equal(t, "Ana", deletions[0].DeletedByName)
	assert.Equal(t, "Venta", deletions[0].Snapshot.Description)

	assert.ErrorIs(t, uc.Delete(ctx, apptest.Master, entry.ID), domain.ErrNotFound)
}

func TestDelete_FallaDelCanalConservaEntrada(t *testing.T) {
	env := apptest.NewEnv(t)
	uc := audit.NewAuditUseCase(env.Store, env.Store.Repos().Audit)
	entry := record(t, env, apptest.Seller, entity.EventNewSale, "Venta")
	env.Store.InjectFault("audit.deletion", errors.New("timeout"))

	err := uc.Delete(context.Background(), apptest.Master, entry.ID)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	got, err := env.Store.Repos().Audit.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
