package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
)

// DailyTemperature is one row of a numbered daily series.
type DailyTemperature struct {
	Day         int
	Date        time.Time
	Temperature float64 // NaN when the cell was blank
}

// ReadDailySeries reads a "date;temperature" file whose date column is a day
// number starting at 1, and dates each row as start + (day - 1).
func ReadDailySeries(r io.Reader, start time.Time) ([]DailyTemperature, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoData
	}

	dateCol, tempCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case "date":
			dateCol = i
		case "temperature":
			tempCol = i
		}
	}
	if dateCol < 0 || tempCol < 0 {
		return nil, fmt.Errorf("expected date and temperature columns, got %v", records[0])
	}

	out := make([]DailyTemperature, 0, len(records)-1)
	for n, rec := range records[1:] {
		if len(rec) <= max(dateCol, tempCol) {
			continue
		}
		day, err := strconv.Atoi(strings.TrimSpace(rec[dateCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse day %q: %w", n+2, rec[dateCol], err)
		}
		temp, ok := ParseDecimal(rec[tempCol])
		if !ok {
			return nil, fmt.Errorf("row %d: parse temperature %q", n+2, rec[tempCol])
		}
		out = append(out, DailyTemperature{Day: day, Date: start.AddDate(0, 0, day-1), Temperature: temp})
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

// WriteDailyMeans writes "date,temperature" rows with one decimal.
func WriteDailyMeans(w io.Writer, means []domain.DailyMean) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "temperature"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range means {
		if err := cw.Write([]string{m.Date, strconv.FormatFloat(m.Temperature, 'f', 1, 64)}); err != nil {
			return fmt.Errorf("write %s: %w", m.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
