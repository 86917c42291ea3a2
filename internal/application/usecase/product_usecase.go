package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bmvdigital/pos-feria-2026/internal/application/audit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
	"github.com/bmvdigital/pos-feria-2026/pkg/money"
)

// ProductUseCase ciclo de vida del catálogo. El stock se maneja vía ajustes y ventas.
type ProductUseCase struct {
	txRunner repository.TxRunner
	reads    repository.Repos
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner repository.TxRunner, reads repository.Repos, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, reads: reads, log: log.Component("products")}
}

// Create crea el producto y una fila de stock en cero por cada almacén, todo en una transacción.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	price, err := productAmount(in.Price)
	if err != nil {
		return nil, err
	}
	purchasePrice, err := productAmount(in.PurchasePrice)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		Category:      strings.TrimSpace(in.Category),
		Presentation:  strings.TrimSpace(in.Presentation),
		Description:   in.Description,
		Price:         price,
		PurchasePrice: purchasePrice,
		Color:         in.Color,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		warehouses, err := r.Warehouses.List(ctx)
		if err != nil {
			return err
		}
		for _, w := range warehouses {
			if err := r.Stock.Upsert(ctx, &entity.Stock{ProductID: product.ID, WarehouseID: w.ID, UpdatedAt: now}); err != nil {
				return err
			}
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventProductCreated,
			fmt.Sprintf("Alta de %s (%s) a %s", product.Name, product.Category, money.Format(product.Price)),
			audit.Metadata{
				"product_id":     product.ID,
				"product":        product.Name,
				"category":       product.Category,
				"price":          product.Price.StringFixed(2),
				"purchase_price": product.PurchasePrice.StringFixed(2),
				"warehouses":     len(warehouses),
			})
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("product", product.Name).Msg("alta de producto rechazada")
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("product", product.Name).Msg("producto creado")
	return dto.ToProductResponse(product), nil
}

// Update edita precio, costo y datos descriptivos.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var err error
	if in.Price, err = optionalAmount(in.Price); err != nil {
		return nil, err
	}
	if in.PurchasePrice, err = optionalAmount(in.PurchasePrice); err != nil {
		return nil, err
	}
	in.Name = trimmed(in.Name)
	in.Category = trimmed(in.Category)
	in.Presentation = trimmed(in.Presentation)
	if in.Name != nil && *in.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	var product *entity.Product
	err = uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		product, err = r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		changes := audit.Metadata{}
		setString(&product.Name, in.Name, "name", changes)
		setString(&product.Category, in.Category, "category", changes)
		setString(&product.Presentation, in.Presentation, "presentation", changes)
		setString(&product.Description, in.Description, "description", changes)
		setString(&product.Color, in.Color, "color", changes)
		setDecimal(&product.Price, in.Price, "price", changes)
		setDecimal(&product.PurchasePrice, in.PurchasePrice, "purchase_price", changes)
		product.UpdatedAt = time.Now().UTC()

		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventProductUpdated,
			"Edición de "+product.Name, audit.Metadata{
				"product_id": product.ID,
				"product":    product.Name,
				"changes":    changes,
			})
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", id).Msg("edición de producto rechazada")
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// Delete elimina un producto sin referencias (solo Master). Sus filas de stock se eliminan con él.
func (uc *ProductUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.IsMaster() {
		return domain.ErrForbidden
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		product, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		referenced, err := r.Products.IsReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("%w: el producto %s tiene movimientos, pedidos o ventas", domain.ErrConstraintViolation, product.Name)
		}
		if err := r.Stock.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := r.Products.Delete(ctx, id); err != nil {
			return err
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventProductDeleted,
			"Eliminación de "+product.Name, audit.Metadata{
				"product_id": product.ID,
				"product":    product.Name,
			})
		return err
	})
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.reads.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(p), nil
}

// List lista productos por nombre, con búsqueda y filtro de categoría opcionales.
func (uc *ProductUseCase) List(ctx context.Context, search, category string) ([]*dto.ProductResponse, error) {
	list, err := uc.reads.Products.List(ctx, search, category)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}

// productAmount valida un precio: no negativo y sin fracciones de centavo.
func productAmount(v decimal.Decimal) (decimal.Decimal, error) {
	cents, ok := money.Cents(v)
	if !ok || cents.IsNegative() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return cents, nil
}

func optionalAmount(v *decimal.Decimal) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	cents, err := productAmount(*v)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func setString(dst *string, v *string, key string, changes audit.Metadata) {
	if v == nil || *v == *dst {
		return
	}
	changes[key] = map[string]any{"from": *dst, "to": *v}
	*dst = *v
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal, key string, changes audit.Metadata) {
	if v == nil || v.Equal(*dst) {
		return
	}
	changes[key] = map[string]any{"from": dst.StringFixed(2), "to": v.StringFixed(2)}
	*dst = *v
}
