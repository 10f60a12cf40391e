// Package csvstore archives hourly forecasts on disk: a snapshot of every
// distinct forecast document, an append-only table of all downloaded periods,
// and a cleaned table holding only the latest forecast of each period.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
)

// Header is the column row of the data and clean tables.
var Header = []string{"From", "To", "Min Precip. (mm)", "Avg Precip. (mm)", "Max Precip. (mm)", "Temp. (C)"}

// Store writes forecasts for one location under dir. File names start with
// name, e.g. "Flornes_Hourly_Data.csv".
type Store struct {
	dir    string
	name   string
	logger *slog.Logger
}

// New creates a store. The directory is created on first Load.
func New(dir, name string, logger *slog.Logger) *Store {
	return &Store{dir: dir, name: name, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (s *Store) Name() string { return "csv" }

// DataPath is the append-only table of every downloaded period.
func (s *Store) DataPath() string {
	return filepath.Join(s.dir, s.name+"_Hourly_Data.csv")
}

// CleanPath is the table with one row per period, the latest forecast winning.
func (s *Store) CleanPath() string {
	return filepath.Join(s.dir, s.name+"_Hourly_Data_Clean.csv")
}

// SnapshotPath is where the raw document of a forecast is kept.
func (s *Store) SnapshotPath(f domain.Forecast) string {
	return filepath.Join(s.dir, s.name+"_Hourly_Forecast_"+f.UpdateStamp()+".xml")
}

// Load archives the forecast: snapshot, append, then rebuild the clean table.
// A snapshot that already exists for the same update time is left as is.
func (s *Store) Load(_ context.Context, f domain.Forecast) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create forecast dir: %w", err)
	}
	if err := s.writeSnapshot(f); err != nil {
		return err
	}
	if err := s.appendEntries(f.Entries); err != nil {
		return err
	}
	n, err := s.rebuildClean()
	if err != nil {
		return err
	}
	s.logger.Info("forecast archived",
		"location", f.Location,
		"last_update", f.LastUpdate,
		"appended", len(f.Entries),
		"periods", n,
	)
	return nil
}

// Clean reads the clean table.
func (s *Store) Clean() ([]domain.ForecastEntry, error) {
	return ReadEntries(s.CleanPath())
}

func (s *Store) writeSnapshot(f domain.Forecast) error {
	if len(f.Raw) == 0 {
		return nil
	}
	path := s.SnapshotPath(f)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		s.logger.Debug("forecast snapshot exists", "file", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if _, err := file.Write(f.Raw); err != nil {
		file.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	return file.Close()
}

func (s *Store) appendEntries(entries []domain.ForecastEntry) error {
	file, err := os.OpenFile(s.DataPath(), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open forecast data: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat forecast data: %w", err)
	}

	w := csv.NewWriter(file)
	if info.Size() == 0 {
		_ = w.Write(Header)
	}
	for _, e := range entries {
		_ = w.Write(entryRecord(e))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return fmt.Errorf("append forecast data: %w", err)
	}
	return file.Close()
}

func (s *Store) rebuildClean() (int, error) {
	all, err := ReadEntries(s.DataPath())
	if err != nil {
		return 0, err
	}
	clean := domain.DedupeForecastEntries(all)
	if err := replaceFile(s.CleanPath(), func(w io.Writer) error {
		return WriteEntries(w, clean)
	}); err != nil {
		return 0, err
	}
	return len(clean), nil
}

// replaceFile writes path through a temporary file in the same directory, so
// readers see either the previous or the complete new table.
func replaceFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadEntries reads a forecast table written by the store.
func ReadEntries(path string) ([]domain.ForecastEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open forecast table: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(Header)

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read forecast header: %w", err)
	}

	var entries []domain.ForecastEntry
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read forecast table: %w", err)
		}
		e, err := parseRecord(rec)
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes a header and one row per entry.
func WriteEntries(w io.Writer, entries []domain.ForecastEntry) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(Header)
	for _, e := range entries {
		_ = cw.Write(entryRecord(e))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write forecast table: %w", err)
	}
	return nil
}

func entryRecord(e domain.ForecastEntry) []string {
	return []string{
		e.From,
		e.To,
		formatFloat(e.MinPrecip),
		formatFloat(e.AvgPrecip),
		formatFloat(e.MaxPrecip),
		formatFloat(e.Temperature),
	}
}

func parseRecord(rec []string) (domain.ForecastEntry, error) {
	e := domain.ForecastEntry{From: rec[0], To: rec[1]}
	targets := []*float64{&e.MinPrecip, &e.AvgPrecip, &e.MaxPrecip, &e.Temperature}
	for i, dst := range targets {
		v, err := strconv.ParseFloat(rec[i+2], 64)
		if err != nil {
			return domain.ForecastEntry{}, fmt.Errorf("parse %s %q: %w", Header[i+2], rec[i+2], err)
		}
		*dst = v
	}
	return e, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
