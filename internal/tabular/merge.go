package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// MergeResult reports which inputs were merged.
type MergeResult struct {
	Merged  []string
	Skipped []string
	Rows    int
}

// Merge concatenates daily CSV exports, sorts them by date, drops exact
// duplicate rows and replaces the date with a running day number from 1.
// Missing inputs are logged and skipped. The output is semicolon separated
// with decimal commas.
func Merge(paths []string, w io.Writer, logger *slog.Logger) (MergeResult, error) {
	var (
		res    MergeResult
		merged dataframe.DataFrame
	)

	for _, path := range paths {
		df, err := readFrame(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("merge input not found, skipping", "file", path)
			res.Skipped = append(res.Skipped, path)
			continue
		}
		if err != nil {
			return res, err
		}

		if len(res.Merged) == 0 {
			merged = df
		} else {
			merged = merged.RBind(df)
			if merged.Err != nil {
				return res, fmt.Errorf("append %s: %w", path, merged.Err)
			}
		}
		res.Merged = append(res.Merged, path)
	}

	if len(res.Merged) == 0 {
		return res, fmt.Errorf("merge: %w: none of %d inputs could be read", ErrNoData, len(paths))
	}
	if !slices.Contains(merged.Names(), "date") {
		return res, fmt.Errorf("merge: missing date column in %v", merged.Names())
	}

	merged = merged.Arrange(dataframe.Sort("date"))
	if merged.Err != nil {
		return res, fmt.Errorf("sort by date: %w", merged.Err)
	}
	merged = dropDuplicateRows(merged)

	days := make([]int, merged.Nrow())
	for i := range days {
		days[i] = i + 1
	}
	merged = merged.Mutate(series.New(days, series.Int, "date"))
	if merged.Err != nil {
		return res, fmt.Errorf("renumber dates: %w", merged.Err)
	}

	if err := writeSemicolon(w, merged.Records()); err != nil {
		return res, err
	}
	res.Rows = merged.Nrow()
	return res, nil
}

func readFrame(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", path, df.Err)
	}
	return df, nil
}

// dropDuplicateRows keeps the first occurrence of every distinct row.
func dropDuplicateRows(df dataframe.DataFrame) dataframe.DataFrame {
	records := df.Records()
	seen := make(map[string]struct{}, len(records))
	keep := make([]int, 0, len(records))
	for i, rec := range records[1:] {
		key := strings.Join(rec, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == df.Nrow() {
		return df
	}
	return df.Subset(keep)
}

// writeSemicolon writes a header plus rows with ';' delimiters and decimal commas.
func writeSemicolon(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	for i, rec := range records {
		out := rec
		if i > 0 {
			out = make([]string, len(rec))
			for j, cell := range rec {
				if cell == "NaN" {
					cell = ""
				}
				out[j] = commaDecimal(cell)
			}
		}
		if err := cw.Write(out); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
