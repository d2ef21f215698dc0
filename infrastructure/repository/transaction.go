// Package repository contains the data-access implementations.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vfg2006/sales-analytics-api/infrastructure/database"
)

const (
	salesTable    = "sales s"
	productsTable = "products"
	clientsTable  = "clients"
)

// SaleJoinRow is one row of the sales/products/clients equi-join, kept in
// wire form (dates and amounts as text) so the loader controls normalization.
type SaleJoinRow struct {
	SaleID       int64
	SaleDate     string
	ProductName  string
	Category     string
	UnitPrice    string
	CustomerName string
	City         sql.NullString
	Quantity     int
	Amount       string
}

type TransactionRepository interface {
	ListJoinedSales(ctx context.Context) ([]*SaleJoinRow, error)
	CountSales(ctx context.Context) (int, error)
	CountProducts(ctx context.Context) (int, error)
	CountClients(ctx context.Context) (int, error)
}

type transactionRepository struct {
	conn *database.Connection
}

func NewTransactionRepository(conn *database.Connection) TransactionRepository {
	return &transactionRepository{
		conn: conn,
	}
}

// saleDateColumn keeps the date in ISO text form across drivers. SQLite
// already stores DATE columns as text, postgres needs the cast.
func (r *transactionRepository) saleDateColumn() string {
	if r.conn.Driver() == database.DriverPostgres {
		return "to_char(s.sale_date, 'YYYY-MM-DD') AS sale_date"
	}
	return "s.sale_date"
}

func (r *transactionRepository) ListJoinedSales(ctx context.Context) ([]*SaleJoinRow, error) {
	query, args, err := r.conn.Builder().
		Select(
			"s.sale_id",
			r.saleDateColumn(),
			"p.name AS product_name",
			"p.category",
			"p.price AS unit_price",
			"c.name AS customer_name",
			"c.city",
			"s.quantity",
			"s.amount",
		).
		From(salesTable).
		Join("products p ON s.product_id = p.product_id").
		Join("clients c ON s.client_id = c.client_id").
		OrderBy("s.sale_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the join query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute the join query: %w", err)
	}
	defer rows.Close()

	joined := make([]*SaleJoinRow, 0)
	for rows.Next() {
		row := &SaleJoinRow{}
		err := rows.Scan(
			&row.SaleID,
			&row.SaleDate,
			&row.ProductName,
			&row.Category,
			&row.UnitPrice,
			&row.CustomerName,
			&row.City,
			&row.Quantity,
			&row.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan joined sale row: %w", err)
		}
		joined = append(joined, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error while iterating joined sale rows: %w", err)
	}

	return joined, nil
}

func (r *transactionRepository) CountSales(ctx context.Context) (int, error) {
	return r.countTable(ctx, "sales")
}

func (r *transactionRepository) CountProducts(ctx context.Context) (int, error) {
	return r.countTable(ctx, productsTable)
}

func (r *transactionRepository) CountClients(ctx context.Context) (int, error) {
	return r.countTable(ctx, clientsTable)
}

func (r *transactionRepository) countTable(ctx context.Context, table string) (int, error) {
	query, args, err := r.conn.Builder().
		Select("COUNT(*)").
		From(table).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build the count query: %w", err)
	}

	var count int
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}

	return count, nil
}
