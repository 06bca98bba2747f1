package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSalesCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSalesHistory(t *testing.T) {
	path := writeSalesCSV(t, `sale_date,product_name,category,season_affinity,quantity_sold,price,cost_price,discount_percent,final_price
2025-03-01,Amul Milk 500ml,Dairy,all,42,30,24,2.5,29.25
2025-03-02,Amul Milk 500ml,Dairy,all,38,30,24,0,30
`)
	repo := NewCSVSalesRepository(path)
	records, err := repo.GetSalesHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), first.SaleDate)
	assert.Equal(t, "Amul Milk 500ml", first.ProductName)
	assert.Equal(t, "Dairy", first.Category)
	assert.Equal(t, 42.0, first.QuantitySold)
	assert.Equal(t, 2.5, first.DiscountPercent)
	assert.Equal(t, 29.25, first.FinalPrice)
}

func TestCSVSalesHistoryReordersColumns(t *testing.T) {
	path := writeSalesCSV(t, `product_name,sale_date,final_price,category,season_affinity,quantity_sold,price,cost_price,discount_percent
Amul Milk 500ml,2025-03-01,30,Dairy,all,42,30,24,0
`)
	repo := NewCSVSalesRepository(path)
	records, err := repo.GetSalesHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 42.0, records[0].QuantitySold)
}

func TestCSVSalesHistoryMissingColumn(t *testing.T) {
	path := writeSalesCSV(t, `sale_date,product_name
2025-03-01,Amul Milk 500ml
`)
	repo := NewCSVSalesRepository(path)
	_, err := repo.GetSalesHistory(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}

func TestCSVSalesHistoryBadRow(t *testing.T) {
	path := writeSalesCSV(t, `sale_date,product_name,category,season_affinity,quantity_sold,price,cost_price,discount_percent,final_price
2025-03-01,Amul Milk 500ml,Dairy,all,not-a-number,30,24,0,30
`)
	repo := NewCSVSalesRepository(path)
	_, err := repo.GetSalesHistory(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCSVSalesHistoryMissingFile(t *testing.T) {
	repo := NewCSVSalesRepository("/nonexistent/sales.csv")
	_, err := repo.GetSalesHistory(context.Background())
	assert.Error(t, err)
}

func TestCSVCurrentStockEmpty(t *testing.T) {
	repo := NewCSVSalesRepository("unused.csv")
	stock, err := repo.GetCurrentStock(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stock)
}
