// Package credit administra clientes, su saldo y el límite de ventas a crédito.
package credit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bmvdigital/pos-feria-2026/internal/application/audit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/ledger"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
	"github.com/bmvdigital/pos-feria-2026/pkg/money"
)

// CreditUseCase clientes, abonos y estado de cuenta. Toda mutación de saldo o créditos
// bloquea la fila del cliente en la transacción del comando.
type CreditUseCase struct {
	txRunner repository.TxRunner
	reads    repository.Repos
	policy   ledger.Policy
	log      *logger.Logger
}

// NewCreditUseCase construye el caso de uso.
func NewCreditUseCase(txRunner repository.TxRunner, reads repository.Repos, policy ledger.Policy, log *logger.Logger) *CreditUseCase {
	return &CreditUseCase{txRunner: txRunner, reads: reads, policy: policy.Normalize(), log: log.Component("credit")}
}

// RegisterClient da de alta un cliente con saldo 0 y 0 créditos.
func (uc *CreditUseCase) RegisterClient(ctx context.Context, actor entity.Actor, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	client := &entity.Client{
		ID:           uuid.New().String(),
		Name:         name,
		Zone:         strings.TrimSpace(in.Zone),
		BusinessType: strings.TrimSpace(in.BusinessType),
		ContactName:  strings.TrimSpace(in.ContactName),
		Phone:        strings.TrimSpace(in.Phone),
		Balance:      decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Clients.Create(ctx, client); err != nil {
			return err
		}
		_, err := audit.Record(ctx, r.Audit, actor, entity.EventClientCreated,
			fmt.Sprintf("Alta de cliente %s (%s)", client.Name, zoneLabel(client.Zone)),
			audit.Metadata{"client_id": client.ID, "client": client.Name, "zone": client.Zone})
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.ToClientResponse(client, uc.policy.CanExtendCredit(client)), nil
}

// UpdateClient edita datos de contacto. Saldo y créditos quedan intactos.
func (uc *CreditUseCase) UpdateClient(ctx context.Context, actor entity.Actor, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	var client *entity.Client
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		client, err = r.Clients.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		changed := []string{}
		apply := func(dst *string, v *string, field string) {
			if v != nil && strings.TrimSpace(*v) != *dst {
				*dst = strings.TrimSpace(*v)
				changed = append(changed, field)
			}
		}
		apply(&client.Name, in.Name, "name")
		apply(&client.Zone, in.Zone, "zone")
		apply(&client.BusinessType, in.BusinessType, "business_type")
		apply(&client.ContactName, in.ContactName, "contact_name")
		apply(&client.Phone, in.Phone, "phone")
		client.UpdatedAt = time.Now().UTC()
		if err := r.Clients.Update(ctx, client); err != nil {
			return err
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventClientUpdated,
			"Edición de cliente "+client.Name,
			audit.Metadata{"client_id": client.ID, "client": client.Name, "fields": changed})
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.ToClientResponse(client, uc.policy.CanExtendCredit(client)), nil
}

// GetClient obtiene un cliente.
func (uc *CreditUseCase) GetClient(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.reads.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToClientResponse(c, uc.policy.CanExtendCredit(c)), nil
}

// ListClients lista clientes por nombre.
func (uc *CreditUseCase) ListClients(ctx context.Context, search string, page dto.PageRequest) ([]*dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.reads.Clients.List(ctx, repository.ClientFilter{Search: search, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ToClientResponse(c, uc.policy.CanExtendCredit(c)))
	}
	return out, nil
}

// CanExtendCredit indica si el cliente puede recibir otra venta a crédito.
func (uc *CreditUseCase) CanExtendCredit(ctx context.Context, clientID string) (bool, error) {
	c, err := uc.reads.Clients.GetByID(ctx, clientID)
	if err != nil {
		return false, err
	}
	if c == nil {
		return false, domain.ErrNotFound
	}
	return uc.policy.CanExtendCredit(c), nil
}

// RegisterPayment aplica un abono al saldo del cliente y lo registra.
func (uc *CreditUseCase) RegisterPayment(ctx context.Context, actor entity.Actor, clientID string, in dto.RegisterPaymentRequest) (*dto.PaymentResponse, error) {
	amount, ok := money.Cents(in.Amount)
	if !ok || !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	in.Amount = amount
	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = entity.PaymentMethodCash
	}

	var payment *entity.Payment
	var newBalance decimal.Decimal
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		client, err := r.Clients.GetForUpdate(ctx, clientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		previous := client.Balance
		applied, err := uc.policy.ApplyPayment(client, in.Amount)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		client.UpdatedAt = now
		if err := r.Clients.Update(ctx, client); err != nil {
			return err
		}
		payment = &entity.Payment{
			ID:        uuid.New().String(),
			ClientID:  client.ID,
			Amount:    applied,
			Method:    method,
			Notes:     in.Notes,
			CreatedAt: now,
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}
		newBalance = client.Balance
		md := audit.Metadata{
			"payment_id":       payment.ID,
			"client_id":        client.ID,
			"client":           client.Name,
			"amount":           applied.StringFixed(2),
			"method":           method,
			"previous_balance": previous.StringFixed(2),
			"new_balance":      client.Balance.StringFixed(2),
		}
		if !applied.Equal(in.Amount) {
			md["requested"] = in.Amount.StringFixed(2)
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventClientPayment,
			fmt.Sprintf("Abono de %s de %s", money.Format(applied), client.Name), md)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("client_id", clientID).Str("amount", in.Amount.String()).Msg("abono rechazado")
		return nil, err
	}
	uc.log.Info().Str("client_id", clientID).Str("payment_id", payment.ID).
		Str("amount", payment.Amount.StringFixed(2)).Msg("abono registrado")
	return &dto.PaymentResponse{
		ID:         payment.ID,
		ClientID:   payment.ClientID,
		Amount:     payment.Amount,
		Method:     payment.Method,
		Notes:      payment.Notes,
		NewBalance: newBalance,
		CreatedAt:  payment.CreatedAt,
	}, nil
}

// Statement historial del cliente: ventas a crédito (CARGO) y abonos (ABONO), más reciente primero.
// Las ventas eliminadas no aparecen; las canceladas sí, con su estado.
func (uc *CreditUseCase) Statement(ctx context.Context, clientID string) (*dto.ClientStatementResponse, error) {
	client, err := uc.reads.Clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	sales, err := uc.reads.Sales.List(ctx, repository.SaleFilter{ClientID: clientID, PaymentMethod: entity.PaymentCredit})
	if err != nil {
		return nil, err
	}
	payments, err := uc.reads.Payments.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	out := &dto.ClientStatementResponse{
		Client:  dto.ToClientResponse(client, uc.policy.CanExtendCredit(client)),
		Charges: decimal.Zero,
		Paid:    decimal.Zero,
		Lines:   make([]dto.StatementLine, 0, len(sales)+len(payments)),
	}
	for _, s := range sales {
		out.Lines = append(out.Lines, dto.StatementLine{
			Type:        dto.StatementCharge,
			ReferenceID: s.ID,
			Amount:      s.TotalAmount,
			Status:      s.Status,
			Date:        s.CreatedAt,
		})
		if s.Status == entity.SaleCompleted {
			out.Charges = out.Charges.Add(s.TotalAmount)
		}
	}
	for _, p := range payments {
		out.Lines = append(out.Lines, dto.StatementLine{
			Type:        dto.StatementPayment,
			ReferenceID: p.ID,
			Amount:      p.Amount,
			Notes:       p.Notes,
			Date:        p.CreatedAt,
		})
		out.Paid = out.Paid.Add(p.Amount)
	}
	sort.SliceStable(out.Lines, func(i, j int) bool { return out.Lines[i].Date.After(out.Lines[j].Date) })
	return out, nil
}

// Receivables clientes con saldo pendiente, de mayor a menor, y el total por cobrar.
func (uc *CreditUseCase) Receivables(ctx context.Context) (*dto.ReceivablesResponse, error) {
	debtors, err := uc.reads.Clients.List(ctx, repository.ClientFilter{WithDebtOnly: true})
	if err != nil {
		return nil, err
	}
	out := &dto.ReceivablesResponse{Total: decimal.Zero, Debtors: make([]dto.DebtorResponse, 0, len(debtors))}
	for _, c := range debtors {
		out.Total = out.Total.Add(c.Balance)
		out.Debtors = append(out.Debtors, dto.DebtorResponse{ClientID: c.ID, Name: c.Name, Zone: c.Zone, Balance: c.Balance})
	}
	return out, nil
}

func zoneLabel(zone string) string {
	if zone == "" {
		return "Sin Zona"
	}
	return zone
}
