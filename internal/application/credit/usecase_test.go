package credit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmvdigital/pos-feria-2026/internal/application/apptest"
	"github.com/bmvdigital/pos-feria-2026/internal/application/credit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/ledger"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

func newUseCase(t *testing.T, policy ledger.Policy) (*credit.CreditUseCase, *apptest.Env) {
	t.Helper()
	env := apptest.NewEnv(t)
	return credit.NewCreditUseCase(env.Store, env.Store.Repos(), policy, logger.Nop()), env
}

// withDebt deja al cliente con saldo y una venta a crédito registrada, sin bitácora.
func withDebt(t *testing.T, env *apptest.Env, clientID string, amount int64) string {
	t.Helper()
	saleID := uuid.New().String()
	err := env.Store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		c, err := r.Clients.GetForUpdate(ctx, clientID)
		if err != nil {
			return err
		}
		c.Balance = c.Balance.Add(decimal.NewFromInt(amount))
		c.CreditsCount++
		if err := r.Clients.Update(ctx, c); err != nil {
			return err
		}
		return r.Sales.Create(ctx, &entity.Sale{
			ID:            saleID,
			ClientID:      clientID,
			WarehouseID:   env.WarehouseID,
			TotalAmount:   decimal.NewFromInt(amount),
			PaymentMethod: entity.PaymentCredit,
			Status:        entity.SaleCompleted,
			CreatedAt:     time.Now().UTC().Add(-time.Minute),
		})
	})
	require.NoError(t, err)
	return saleID
}

func TestRegisterClient(t *testing.T) {
	uc, env := newUseCase(t, ledger.DefaultPolicy())

	resp, err := uc.RegisterClient(context.Background(), apptest.Admin, dto.CreateClientRequest{Name: "  Tacos Don Beto ", Zone: "Zona A"})
	require.NoError(t, err)
	assert.Equal(t, "Tacos Don Beto", resp.Name)
	assert.True(t, resp.Balance.IsZero())
	assert.Equal(t, 0, resp.CreditsCount)
	assert.True(t, resp.CanBuyCredit)

	entries := env.AuditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.EventClientCreated, entries[0].EventType)

	_, err = uc.RegisterClient(context.Background(), apptest.Admin, dto.CreateClientRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateClient_NoTocaSaldo(t *testing.T) {
	uc, env := newUseCase(t, ledger.DefaultPolicy())
	withDebt(t, env, env.ClientID, 75)

	phone := "555-0101"
	resp, err := uc.UpdateClient(context.Background(), apptest.Admin, env.ClientID, dto.UpdateClientRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, resp.Phone)
	assert.True(t, decimal.NewFromInt(75).Equal(resp.Balance))
	assert.Equal(t, 1, resp.CreditsCount)

	entries := env.AuditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.EventClientUpdated, entries[0].EventType)
	assert.Equal(t, []string{"phone"}, entries[0].Metadata["fields"])

	_, err = uc.UpdateClient(context.Background(), apptest.Admin, "no-existe", dto.UpdateClientRequest{Phone: &phone})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterPayment_AbonoParcial(t *testing.T) {
	uc, env := newUseCase(t, ledger.DefaultPolicy())
	withDebt(t, env, env.ClientID, 150)

	resp, err := uc.RegisterPayment(context.Background(), apptest.Seller, env.ClientID,
		dto.RegisterPaymentRequest{Amount: decimal.NewFromInt(60), Notes: "primer abono"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(90).Equal(resp.NewBalance))
	assert.Equal(t, entity.PaymentMethodCash, resp.Method)

	entries := env.AuditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.EventClientPayment, entries[0].EventType)
	assert.Equal(t, "150.00", entries[0].Metadata["previous_balance"])
	assert.Equal(t, "90.00", entries[0].Metadata["new_balance"])
}

func TestRegisterPayment_MontoInvalido(t *testing.T) {
	uc, env := newUseCase(t, ledger.DefaultPolicy())
	withDebt(t, env, env.ClientID, 100)
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := uc.RegisterPayment(ctx, apptest.Seller, env.ClientID, dto.RegisterPaymentRequest{Amount: amount})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
	_, err := uc.RegisterPayment(ctx, apptest.Seller, "no-existe", dto.RegisterPaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, env.AuditEntries(t))
}

func TestRegisterPayment_FraccionDeCentavoRechazada(t *testing.T) {
	uc, env := newUseCase(t, ledger.DefaultPolicy())
	withDebt(t, env, env.ClientID, 50)
	ctx := context.Background()

	_, err := uc.RegisterPayment(ctx, apptest.Seller, env.ClientID,
		dto.RegisterPaymentRequest{Amount: decimal.RequireFromString("49.995")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Equal(t, "50.00", env.Client(t, env.ClientID).Balance.StringFixed(2))
	assert.Empty(t, env.AuditEntries(t))

	resp, err := uc.RegisterPayment(ctx, apptest.Seller, env.ClientID,
		dto.RegisterPaymentRequest{Amount: decimal.RequireFromString("49.990")})
	require.NoError(t, err)
	assert.Equal(t, "49.99", resp.Amount.String())
	assert.Equal(t, "0.01", resp.NewBalance.String())

	rec, err := uc.Receivables(ctx)
	require.NoError(t, err)
	require.Len(t, rec.Debtors, 1)
	assert.Equal(t, "0.01", rec.Total.StringFixed(2))
}

func TestRegisterPayment_SobrepagoRechazado(t *testing.T) {
	uc, env := newUseCase(t, ledger.DefaultPolicy())
	withDebt(t, env, env.ClientID, 100)

	_, err := uc.RegisterPayment(context.Background(), apptest.Seller, env.ClientID,
		dto.RegisterPaymentRequest{Amount: decimal.NewFromInt(120)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	var over *domain.OverpaymentError
	require.True(t, errors.As(err, &over))
	assert.True(t, decimal.NewFromInt(100).Equal(over.Balance))

	c := env.Client(t, env.ClientID)
	assert.True(t, decimal.NewFromInt(100).Equal(c.Balance))
	payments, err := env.Store.Repos().Payments.ListByClient(context.Background(), env.ClientID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestRegisterPayment_SobrepagoAjustado(t *testing.T) {
	policy := ledger.DefaultPolicy()
	policy.Overpayment = ledger.OverpaymentClamp
	uc, env := newUseCase(t, policy)
	withDebt(t, env, env.ClientID, 100)

	resp, err := uc.RegisterPayment(context.Background(), apptest.Seller, env.ClientID,
		dto.RegisterPaymentRequest{Amount: decimal.NewFromInt(120)})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Amount))
	assert.True(t, resp.NewBalance.IsZero())

	entries := env.AuditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "120.00", entries[0].Metadata["requested"])

	// Sin saldo no hay nada que abonar.
	_, err = uc.RegisterPayment(context.Background(), apptest.Seller, env.ClientID,
		dto.RegisterPaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestRegisterPayment_FallaDeBitacora(t *testing.T) {
	uc, env := newUseCase(t, ledger.DefaultPolicy())
	withDebt(t, env, env.ClientID, 100)
	env.Store.InjectFault("audit.create", errors.New("timeout"))

	_, err := uc.RegisterPayment(context.Background(), apptest.Seller, env.ClientID,
		dto.RegisterPaymentRequest{Amount: decimal.NewFromInt(40)})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	env.Store.InjectFault("audit.create", nil)
	assert.True(t, decimal.NewFromInt(100).Equal(env.Client(t, env.ClientID).Balance))
}

func TestStatement_CargosYAbonos(t *testing.T) {
	uc, env := newUseCase(t, ledger.DefaultPolicy())
	ctx := context.Background()
	saleID := withDebt(t, env, env.ClientID, 100)

	_, err := uc.RegisterPayment(ctx, apptest.Seller, env.ClientID, dto.RegisterPaymentRequest{Amount: decimal.NewFromInt(30)})
	require.NoError(t, err)

	st, err := uc.Statement(ctx, env.ClientID)
	require.NoError(t, err)
	require.Len(t, st.Lines, 2)
	assert.Equal(t, dto.StatementPayment, st.Lines[0].Type)
	assert.Equal(t, dto.StatementCharge, st.Lines[1].Type)
	assert.Equal(t, saleID, st.Lines[1].ReferenceID)
	assert.True(t, decimal.NewFromInt(100).Equal(st.Charges))
	assert.True(t, decimal.NewFromInt(30).Equal(st.Paid))
	assert.True(t, decimal.NewFromInt(70).Equal(st.Client.Balance))

	_, err = uc.Statement(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceivables_OrdenPorSaldo(t *testing.T) {
	uc, env := newUseCase(t, ledger.DefaultPolicy())
	other := env.AddClient(t, "Elotes Lupita", "Zona B")
	env.AddClient(t, "Sin deuda", "")
	withDebt(t, env, env.ClientID, 50)
	withDebt(t, env, other, 120)

	rec, err := uc.Receivables(context.Background())
	require.NoError(t, err)
	require.Len(t, rec.Debtors, 2)
	assert.Equal(t, other, rec.Debtors[0].ClientID)
	assert.True(t, decimal.NewFromInt(170).Equal(rec.Total))
}

func TestCanExtendCredit(t *testing.T) {
	uc, env := newUseCase(t, ledger.Policy{CreditLimit: 1})
	ctx := context.Background()

	ok, err := uc.CanExtendCredit(ctx, env.ClientID)
	require.NoError(t, err)
	assert.True(t, ok)

	withDebt(t, env, env.ClientID, 10)
	ok, err = uc.CanExtendCredit(ctx, env.ClientID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = uc.CanExtendCredit(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
