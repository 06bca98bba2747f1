// internal/forecast/engine.go
package forecast

import (
	"fmt"

	"github.com/kiranakart/forecast/internal/calendar"
	"github.com/kiranakart/forecast/internal/domain"
	"github.com/kiranakart/forecast/internal/features"
	"github.com/kiranakart/forecast/internal/model"
	"github.com/kiranakart/forecast/pkg/logger"
)

// MaxHorizonDays bounds how far ahead a single run may forecast.
const MaxHorizonDays = 30

// ErrNoHistory is returned when a forecast is requested with no sales data.
var ErrNoHistory = fmt.Errorf("no historical sales data available")

// Engine runs the forecasting pipeline: feature build, future projection,
// ensemble prediction. An Engine is stateless apart from its projector and
// safe for concurrent use when the oracle's rand source is not shared.
type Engine struct {
	projector *Projector
}

func NewEngine(oracle *calendar.Oracle) *Engine {
	return &Engine{projector: NewProjector(oracle)}
}

// Generate forecasts demand for numDays days past the last date in history,
// for every product present in history.
func (e *Engine) Generate(history []domain.SaleRecord, numDays int, bundle *model.Bundle) ([]domain.ForecastRow, error) {
	if numDays < 1 || numDays > MaxHorizonDays {
		return nil, fmt.Errorf("num_days must be between 1 and %d, got %d", MaxHorizonDays, numDays)
	}
	if len(history) == 0 {
		return nil, ErrNoHistory
	}
	if bundle == nil {
		return nil, fmt.Errorf("model bundle not loaded")
	}

	master := domain.BuildProductMaster(history)
	histRows := features.BuildFeatures(history)
	lastDate := histRows[len(histRows)-1].Date

	futureRows := e.projector.ProjectFuture(lastDate, numDays, master, histRows)

	columns := bundle.Columns()
	if columns == nil {
		columns = features.Columns()
		logger.Log.Warn().Int("count", len(columns)).Msg("bundle has no feature columns, using generated list")
	}

	rows := predictRows(bundle, futureRows, columns)

	logger.Log.Info().
		Int("products", len(master)).
		Int("days", numDays).
		Int("predictions", len(rows)).
		Str("last_data_date", lastDate.Format("2006-01-02")).
		Msg("forecast generated")
	return rows, nil
}
