package repository

import "context"

// Repos agrupa los repositorios de la unidad de trabajo. Dentro de TxRunner.Run
// todos están atados a la misma transacción.
type Repos struct {
	Clients    ClientRepository
	Products   ProductRepository
	Warehouses WarehouseRepository
	Stock      StockRepository
	Movements  StockMovementRepository
	Orders     OrderRepository
	Sales      SaleRepository
	Payments   PaymentRepository
	Audit      AuditRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
