package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, company_id, warehouse_id, sku, is_part, quantity, updated_at`

// Get obtiene la fila de stock de un SKU en una bodega. nil si no existe.
func (r *StockRepo) Get(companyID, warehouseID, sku string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE company_id = $1 AND warehouse_id = $2 AND sku = $3`
	return r.scanOne(query, companyID, warehouseID, sku)
}

// GetForUpdate obtiene la fila y la bloquea para update (SELECT FOR UPDATE). nil si no existe.
func (r *StockRepo) GetForUpdate(companyID, warehouseID, sku string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE company_id = $1 AND warehouse_id = $2 AND sku = $3
		FOR UPDATE`
	return r.scanOne(query, companyID, warehouseID, sku)
}

func (r *StockRepo) scanOne(query string, args ...any) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.CompanyID, &s.WarehouseID, &s.SKU, &s.IsPart, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por empresa, bodega y SKU).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	if stock.ID == "" {
		stock.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock (id, company_id, warehouse_id, sku, is_part, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (company_id, warehouse_id, sku)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.CompanyID, stock.WarehouseID, stock.SKU, stock.IsPart, stock.Quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// EnsureRow inserta una fila placeholder en cantidad 0 si no existe.
// Contrato tolerante a carreras: la colisión con una creación concurrente de
// la misma fila no es error. El DO NOTHING va dirigido a la clave única
// (company, bodega, SKU) y solo a ella: dentro de una tx abierta un error
// capturado la dejaría abortada, así que el "swallow" se expresa en el INSERT.
// Cualquier otro error se propaga.
func (r *StockRepo) EnsureRow(companyID, warehouseID, sku string, isPart bool) error {
	query := `
		INSERT INTO stock (id, company_id, warehouse_id, sku, is_part, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, now())
		ON CONFLICT (company_id, warehouse_id, sku) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query,
		uuid.New().String(), companyID, warehouseID, sku, isPart,
	)
	if err != nil {
		return fmt.Errorf("ensure stock row: %w", err)
	}
	return nil
}
