// internal/repository/sales_repository.go
package repository

import (
	"context"

	"github.com/kiranakart/forecast/internal/domain"
)

// SalesRepository provides the sales history and stock levels a forecast run
// needs. Backed by Postgres in the service and by CSV in the CLI and tests.
type SalesRepository interface {
	GetSalesHistory(ctx context.Context) ([]domain.SaleRecord, error)
	GetCurrentStock(ctx context.Context) (domain.StockLevels, error)
}
