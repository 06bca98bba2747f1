// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kiranakart/forecast/internal/domain"
	"github.com/kiranakart/forecast/internal/repository"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

var _ repository.SalesRepository = (*salesRepository)(nil)

// GetSalesHistory returns the full sales history ordered by date. The feature
// engine depends on per-product date order.
func (r *salesRepository) GetSalesHistory(ctx context.Context) ([]domain.SaleRecord, error) {
	query := `
		SELECT sale_date, product_name, category, season_affinity,
		       quantity_sold, price, cost_price, discount_percent, final_price
		FROM sales
		ORDER BY sale_date, product_name
	`

	records := make([]domain.SaleRecord, 0, 1024)
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to fetch sales history: %w", err)
	}
	return records, nil
}

// GetCurrentStock returns on-hand stock per product from the products table.
func (r *salesRepository) GetCurrentStock(ctx context.Context) (domain.StockLevels, error) {
	query := `SELECT product_name, current_stock FROM products`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current stock: %w", err)
	}
	defer rows.Close()

	stock := make(domain.StockLevels)
	for rows.Next() {
		var name string
		var qty int
		if err := rows.Scan(&name, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		stock[name] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading stock rows: %w", err)
	}
	return stock, nil
}

// InsertSales bulk-inserts sale records inside one transaction. Used by the
// CSV import command.
func (r *salesRepository) InsertSales(ctx context.Context, records []domain.SaleRecord) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO sales (
				sale_date, product_name, category, season_affinity,
				quantity_sold, price, cost_price, discount_percent, final_price, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			_, err := stmt.ExecContext(
				ctx,
				rec.SaleDate,
				rec.ProductName,
				rec.Category,
				rec.SeasonAffinity,
				rec.QuantitySold,
				rec.Price,
				rec.CostPrice,
				rec.DiscountPercent,
				rec.FinalPrice,
				time.Now(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert sale record: %w", err)
			}
		}

		return nil
	})
}
