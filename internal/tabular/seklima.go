package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const seklimaFooterMarker = "Data er gyldig"

// ProcessSeklima converts a seklima daily export into "date;temperature"
// rows, where date is a running day number from 1 and temperature is the
// fourth column copied verbatim. The header row, blank rows, "//" comment rows
// and the licence footer are skipped. It returns the number of days written.
func ProcessSeklima(r io.Reader, w io.Writer) (int, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("process seklima: %w", ErrNoData)
		}
		return 0, fmt.Errorf("read header: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"date", "temperature"}); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	days := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return days, fmt.Errorf("read row %d: %w", days+1, err)
		}
		if skipSeklimaRow(row) || len(row) < 4 {
			continue
		}
		days++
		if err := cw.Write([]string{strconv.Itoa(days), row[3]}); err != nil {
			return days, fmt.Errorf("write day %d: %w", days, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return days, fmt.Errorf("write csv: %w", err)
	}
	return days, nil
}

func skipSeklimaRow(row []string) bool {
	if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
		return true
	}
	first := row[0]
	return strings.HasPrefix(strings.TrimSpace(first), "//") || strings.Contains(first, seklimaFooterMarker)
}
