package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
)

// ErrNoData is returned when a file holds no usable rows.
var ErrNoData = errors.New("no data rows")

// ProfileOptions controls how a simulation export is read.
type ProfileOptions struct {
	// SkipRows > 0 selects the headerless layout: that many leading rows are
	// discarded and columns are labelled "Day 1".."Day n". Zero reads the
	// first row as the header.
	SkipRows int
	// Start dates the time labels. Zero means domain.DefaultSimulationStart.
	Start time.Time
}

// ReadProfileFile reads a simulation export from disk, detecting its encoding.
func ReadProfileFile(path string, opts ProfileOptions) (domain.Profile, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Profile{}, "", fmt.Errorf("read profile: %w", err)
	}
	text, enc, err := DecodeText(data)
	if err != nil {
		return domain.Profile{}, "", fmt.Errorf("read profile %s: %w", path, err)
	}
	p, err := ReadProfileTable(strings.NewReader(text), opts)
	if err != nil {
		return domain.Profile{}, enc, fmt.Errorf("read profile %s: %w", path, err)
	}
	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p, enc, nil
}

// ReadProfileTable parses a semicolon separated temperature-depth table. The
// first column is depth; every further column is one time step. Rows without
// a numeric depth are dropped and blank or non-numeric temperatures become NaN.
func ReadProfileTable(r io.Reader, opts ProfileOptions) (domain.Profile, error) {
	start := opts.Start
	if start.IsZero() {
		start = domain.DefaultSimulationStart
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return domain.Profile{}, fmt.Errorf("parse csv: %w", err)
	}

	var header []string
	switch {
	case opts.SkipRows > 0:
		if opts.SkipRows >= len(records) {
			return domain.Profile{}, ErrNoData
		}
		records = records[opts.SkipRows:]
	case len(records) == 0:
		return domain.Profile{}, ErrNoData
	default:
		header, records = records[0], records[1:]
	}

	width := 0
	for _, rec := range records {
		width = max(width, len(rec)-1)
	}
	if header != nil {
		width = max(width, len(header)-1)
	}
	width = trimBlankTrailingColumns(header, records, width)

	var depths []float64
	columns := make([][]float64, width)
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		depth, ok := ParseDecimal(rec[0])
		if !ok || math.IsNaN(depth) {
			continue
		}
		depths = append(depths, depth)
		for c := range width {
			v := math.NaN()
			if c+1 < len(rec) {
				v, _ = ParseDecimal(rec[c+1])
			}
			columns[c] = append(columns[c], v)
		}
	}
	if len(depths) == 0 {
		return domain.Profile{}, ErrNoData
	}

	labels := domain.DayLabels(width)
	if header != nil {
		for c := range width {
			labels[c] = ""
			if c+1 < len(header) {
				labels[c] = strings.TrimSpace(header[c+1])
			}
		}
	}

	p := domain.Profile{Depths: depths, Columns: make([]domain.TemperatureColumn, width)}
	for c := range width {
		p.Columns[c] = domain.TemperatureColumn{
			Label: domain.NewTimeLabel(labels[c], c, start),
			Temps: columns[c],
		}
	}
	return p, nil
}

// trimBlankTrailingColumns drops trailing columns produced by a trailing
// delimiter: no header label and no value in any row.
func trimBlankTrailingColumns(header []string, records [][]string, width int) int {
	for width > 0 {
		c := width // record index of the last temperature column
		if c < len(header) && strings.TrimSpace(header[c]) != "" {
			return width
		}
		for _, rec := range records {
			if c < len(rec) && strings.TrimSpace(rec[c]) != "" {
				return width
			}
		}
		width--
	}
	return width
}
