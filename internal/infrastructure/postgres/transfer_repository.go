package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Columnas ordenables del listado. Todo lo que no esté aquí cae al default.
var transferSortColumns = map[string]string{
	"created_at":          "t.created_at",
	"status":              "t.status",
	"from_warehouse_name": "fw.name",
	"to_warehouse_name":   "tw.name",
	"item_count":          "item_count",
	"total_quantity":      "total_quantity",
}

// Create persiste la cabecera de un traslado pendiente.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, company_id, from_warehouse_id, to_warehouse_id, status, reference, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.CompanyID, transfer.FromWarehouseID, transfer.ToWarehouseID,
		transfer.Status, transfer.Reference, transfer.CreatedBy, transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// CreateItems persiste las líneas de un traslado.
func (r *TransferRepo) CreateItems(items []*entity.TransferItem) error {
	query := `
		INSERT INTO transfer_items (id, transfer_id, company_id, sku, device_id, is_part, quantity, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, item := range items {
		_, err := r.q.Exec(context.Background(), query,
			item.ID, item.TransferID, item.CompanyID, item.SKU, item.DeviceID,
			item.IsPart, item.Quantity, item.Status, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert transfer item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la cabecera de un traslado. nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `
		SELECT id, company_id, from_warehouse_id, to_warehouse_id, status, reference, created_by, completed_by, completed_at, created_at, updated_at
		FROM transfers WHERE id = $1`
	var t entity.Transfer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.CompanyID, &t.FromWarehouseID, &t.ToWarehouseID, &t.Status,
		&t.Reference, &t.CreatedBy, &t.CompletedBy, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &t, nil
}

// GetDetail obtiene el traslado con nombres de bodegas, agregados e items
// decorados con serial/IMEI del dispositivo. nil si no existe.
func (r *TransferRepo) GetDetail(id string) (*repository.TransferDetail, error) {
	query := `
		SELECT t.id, t.company_id, t.from_warehouse_id, t.to_warehouse_id, t.status, t.reference,
		       t.created_by, t.completed_by, t.completed_at, t.created_at, t.updated_at,
		       fw.name, tw.name,
		       COALESCE(agg.item_count, 0), COALESCE(agg.total_quantity, 0)
		FROM transfers t
		JOIN warehouses fw ON fw.id = t.from_warehouse_id
		JOIN warehouses tw ON tw.id = t.to_warehouse_id
		LEFT JOIN (
			SELECT transfer_id, COUNT(*) AS item_count, SUM(quantity) AS total_quantity
			FROM transfer_items GROUP BY transfer_id
		) agg ON agg.transfer_id = t.id
		WHERE t.id = $1`
	var d repository.TransferDetail
	t := &d.Transfer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.CompanyID, &t.FromWarehouseID, &t.ToWarehouseID, &t.Status, &t.Reference,
		&t.CreatedBy, &t.CompletedBy, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
		&d.FromWarehouseName, &d.ToWarehouseName, &d.ItemCount, &d.TotalQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer detail: %w", err)
	}

	itemsQuery := `
		SELECT ti.id, ti.transfer_id, ti.company_id, ti.sku, ti.device_id, ti.is_part, ti.quantity, ti.status, ti.created_at,
		       d.serial, d.imei
		FROM transfer_items ti
		LEFT JOIN devices d ON d.id = ti.device_id
		WHERE ti.transfer_id = $1
		ORDER BY ti.created_at, ti.id`
	rows, err := r.q.Query(context.Background(), itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it repository.TransferItemDetail
		if err := rows.Scan(
			&it.Item.ID, &it.Item.TransferID, &it.Item.CompanyID, &it.Item.SKU, &it.Item.DeviceID,
			&it.Item.IsPart, &it.Item.Quantity, &it.Item.Status, &it.Item.CreatedAt,
			&it.DeviceSerial, &it.DeviceIMEI,
		); err != nil {
			return nil, fmt.Errorf("scan transfer item: %w", err)
		}
		d.Items = append(d.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListItems lista las líneas de un traslado.
func (r *TransferRepo) ListItems(transferID string) ([]*entity.TransferItem, error) {
	query := `
		SELECT id, transfer_id, company_id, sku, device_id, is_part, quantity, status, created_at
		FROM transfer_items WHERE transfer_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransferItem
	for rows.Next() {
		var it entity.TransferItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.CompanyID, &it.SKU, &it.DeviceID,
			&it.IsPart, &it.Quantity, &it.Status, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista traslados con filtros, orden con whitelist de columnas y
// paginación. El total viene como columna window para evitar una segunda
// query; una página más allá de la última no trae filas y reporta total 0.
func (r *TransferRepo) List(filter repository.TransferFilter) ([]*repository.TransferRow, int, error) {
	query := `
		SELECT t.id, t.company_id, t.from_warehouse_id, t.to_warehouse_id, t.status, t.reference,
		       t.created_by, t.completed_by, t.completed_at, t.created_at, t.updated_at,
		       fw.name, tw.name,
		       COALESCE(agg.item_count, 0) AS item_count,
		       COALESCE(agg.total_quantity, 0) AS total_quantity,
		       COUNT(*) OVER() AS total
		FROM transfers t
		JOIN warehouses fw ON fw.id = t.from_warehouse_id
		JOIN warehouses tw ON tw.id = t.to_warehouse_id
		LEFT JOIN (
			SELECT transfer_id, COUNT(*) AS item_count, SUM(quantity) AS total_quantity
			FROM transfer_items GROUP BY transfer_id
		) agg ON agg.transfer_id = t.id
		WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.CompanyID != "" {
		query += fmt.Sprintf(" AND t.company_id = $%d", pos)
		args = append(args, filter.CompanyID)
		pos++
	}
	if filter.FromWarehouseID != "" {
		query += fmt.Sprintf(" AND t.from_warehouse_id = $%d", pos)
		args = append(args, filter.FromWarehouseID)
		pos++
	}
	if filter.ToWarehouseID != "" {
		query += fmt.Sprintf(" AND t.to_warehouse_id = $%d", pos)
		args = append(args, filter.ToWarehouseID)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND t.status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.CreatedFrom != nil {
		query += fmt.Sprintf(" AND t.created_at >= $%d", pos)
		args = append(args, *filter.CreatedFrom)
		pos++
	}
	if filter.CreatedTo != nil {
		query += fmt.Sprintf(" AND t.created_at <= $%d", pos)
		args = append(args, *filter.CreatedTo)
		pos++
	}

	sortColumn, ok := transferSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "t.created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sortColumn, direction, pos, pos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var list []*repository.TransferRow
	total := 0
	for rows.Next() {
		var row repository.TransferRow
		t := &row.Transfer
		if err := rows.Scan(
			&t.ID, &t.CompanyID, &t.FromWarehouseID, &t.ToWarehouseID, &t.Status, &t.Reference,
			&t.CreatedBy, &t.CompletedBy, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
			&row.FromWarehouseName, &row.ToWarehouseName, &row.ItemCount, &row.TotalQuantity, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan transfer row: %w", err)
		}
		list = append(list, &row)
	}
	return list, total, rows.Err()
}

// Summary arma los contadores del dashboard de traslados.
func (r *TransferRepo) Summary(companyID string) (*repository.TransferSummary, error) {
	ctx := context.Background()
	var s repository.TransferSummary

	countsQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'completed')
		FROM transfers WHERE company_id = $1`
	if err := r.q.QueryRow(ctx, countsQuery, companyID).Scan(&s.Total, &s.Pending, &s.Completed); err != nil {
		return nil, fmt.Errorf("summary counts: %w", err)
	}

	// Items "en tránsito" = cantidades de items cuyos traslados siguen pendientes.
	inTransitQuery := `
		SELECT COALESCE(SUM(ti.quantity), 0)
		FROM transfer_items ti
		JOIN transfers t ON t.id = ti.transfer_id
		WHERE t.company_id = $1 AND t.status = 'pending'`
	if err := r.q.QueryRow(ctx, inTransitQuery, companyID).Scan(&s.ItemsInTransit); err != nil {
		return nil, fmt.Errorf("summary in transit: %w", err)
	}

	warehousesQuery := `
		SELECT w.id, w.name,
		       COUNT(*) FILTER (WHERE t.from_warehouse_id = w.id) AS outbound,
		       COUNT(*) FILTER (WHERE t.to_warehouse_id = w.id)   AS inbound
		FROM warehouses w
		JOIN transfers t ON (t.from_warehouse_id = w.id OR t.to_warehouse_id = w.id)
		WHERE w.company_id = $1 AND t.company_id = $1
		GROUP BY w.id, w.name
		ORDER BY w.name`
	rows, err := r.q.Query(ctx, warehousesQuery, companyID)
	if err != nil {
		return nil, fmt.Errorf("summary warehouses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var wc repository.WarehouseTransferCount
		if err := rows.Scan(&wc.WarehouseID, &wc.WarehouseName, &wc.Outbound, &wc.Inbound); err != nil {
			return nil, fmt.Errorf("scan summary warehouse: %w", err)
		}
		s.Warehouses = append(s.Warehouses, wc)
	}
	return &s, rows.Err()
}

// MarkCompleted marca el traslado (y sus items) como completados. Son dos
// UPDATE que deben compartir suerte: ejecutar dentro de una tx.
func (r *TransferRepo) MarkCompleted(id, completedBy string, completedAt time.Time) error {
	ctx := context.Background()
	query := `
		UPDATE transfers
		SET status = $2, completed_by = $3, completed_at = $4, updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, entity.TransferStatusCompleted, completedBy, completedAt)
	if err != nil {
		return fmt.Errorf("mark transfer completed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("mark transfer completed: traslado %s no existe", id)
	}
	_, err = r.q.Exec(ctx, `UPDATE transfer_items SET status = $2 WHERE transfer_id = $1`,
		id, entity.TransferStatusCompleted)
	if err != nil {
		return fmt.Errorf("mark items completed: %w", err)
	}
	return nil
}

// DeleteWithItems borra items y luego la cabecera. Ejecutar dentro de una tx.
func (r *TransferRepo) DeleteWithItems(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM transfer_items WHERE transfer_id = $1`, id); err != nil {
		return fmt.Errorf("delete transfer items: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM transfers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	return nil
}
