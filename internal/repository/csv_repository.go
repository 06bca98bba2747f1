// internal/repository/csv_repository.go
package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/kiranakart/forecast/internal/domain"
)

// csvSalesRepository reads sales history from a CSV export. Stock levels are
// not part of the export and come back empty.
type csvSalesRepository struct {
	path string
}

func NewCSVSalesRepository(path string) SalesRepository {
	return &csvSalesRepository{path: path}
}

// Columns the sales export must carry. Order in the file does not matter;
// the header row is mapped by name.
var requiredColumns = []string{
	"sale_date", "product_name", "category", "season_affinity",
	"quantity_sold", "price", "cost_price", "discount_percent", "final_price",
}

func (r *csvSalesRepository) GetSalesHistory(ctx context.Context) ([]domain.SaleRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed opening sales file %s: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed reading sales header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("sales file %s missing column %q", r.path, col)
		}
	}

	records := make([]domain.SaleRecord, 0, 1024)
	line := 1
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed reading sales row: %w", err)
		}
		line++

		rec, err := parseSaleRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("sales file %s line %d: %w", r.path, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *csvSalesRepository) GetCurrentStock(ctx context.Context) (domain.StockLevels, error) {
	return domain.StockLevels{}, nil
}

func parseSaleRow(row []string, index map[string]int) (domain.SaleRecord, error) {
	field := func(name string) string { return row[index[name]] }

	date, err := time.ParseInLocation("2006-01-02", field("sale_date"), time.UTC)
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("bad sale_date %q: %w", field("sale_date"), err)
	}

	numbers := map[string]float64{}
	for _, col := range []string{"quantity_sold", "price", "cost_price", "discount_percent", "final_price"} {
		v, err := strconv.ParseFloat(field(col), 64)
		if err != nil {
			return domain.SaleRecord{}, fmt.Errorf("bad %s %q: %w", col, field(col), err)
		}
		numbers[col] = v
	}

	return domain.SaleRecord{
		SaleDate:        date,
		ProductName:     field("product_name"),
		Category:        field("category"),
		SeasonAffinity:  field("season_affinity"),
		QuantitySold:    numbers["quantity_sold"],
		Price:           numbers["price"],
		CostPrice:       numbers["cost_price"],
		DiscountPercent: numbers["discount_percent"],
		FinalPrice:      numbers["final_price"],
	}, nil
}
