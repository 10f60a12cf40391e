package tabular

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/frost-depth-toolkit/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDecodeText(t *testing.T) {
	t.Run("utf-8", func(t *testing.T) {
		text, enc, err := DecodeText([]byte("Dybde;T (°C)"))
		require.NoError(t, err)
		assert.Equal(t, EncodingUTF8, enc)
		assert.Equal(t, "Dybde;T (°C)", text)
	})

	t.Run("utf-8 with bom", func(t *testing.T) {
		text, enc, err := DecodeText([]byte("\xef\xbb\xbfdate;temperature"))
		require.NoError(t, err)
		assert.Equal(t, EncodingUTF8, enc)
		assert.Equal(t, "date;temperature", text)
	})

	t.Run("windows-1252 fallback", func(t *testing.T) {
		text, enc, err := DecodeText([]byte("T (\xb0C);\xd8ygarden"))
		require.NoError(t, err)
		assert.Equal(t, EncodingWindows1252, enc)
		assert.Equal(t, "T (°C);Øygarden", text)
	})
}

func TestParseDecimal(t *testing.T) {
	v, ok := ParseDecimal(" -1,25 ")
	assert.True(t, ok)
	assert.Equal(t, -1.25, v)

	v, ok = ParseDecimal("3.5")
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	v, ok = ParseDecimal("")
	assert.True(t, ok)
	assert.True(t, math.IsNaN(v))

	_, ok = ParseDecimal("n/a")
	assert.False(t, ok)

	for _, s := range []string{"-inf", "+Inf", "infinity", "NaN", "1e999"} {
		v, ok = ParseDecimal(s)
		assert.False(t, ok, s)
		assert.True(t, math.IsNaN(v), s)
	}
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "-0,5", FormatDecimal(-0.5))
	assert.Equal(t, "12", FormatDecimal(12))
	assert.Equal(t, "", FormatDecimal(math.NaN()))
}

func TestReadProfileTable_Header(t *testing.T) {
	input := "Depth (m);1 days;2 yrs;\n" +
		"0;-2;1;\n" +
		"1;-1,0;2;\n" +
		"2;1;3;\n" +
		"3;2;;\n" +
		"bottom;;;\n"

	p, err := ReadProfileTable(strings.NewReader(input), ProfileOptions{})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2, 3}, p.Depths)
	require.Len(t, p.Columns, 2)

	assert.Equal(t, "1 days", p.Columns[0].Label.Raw)
	assert.Equal(t, time.Date(1995, 1, 2, 0, 0, 0, 0, time.UTC), p.Columns[0].Label.Date)
	assert.Equal(t, []float64{-2, -1, 1, 2}, p.Columns[0].Temps)

	assert.InDelta(t, 730, p.Columns[1].Label.Days, 1e-9)
	assert.Equal(t, []float64{1, 2, 3}, p.Columns[1].Temps[:3])
	assert.True(t, math.IsNaN(p.Columns[1].Temps[3]))

	points, err := domain.ExtractFrostPoints(p)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, points[0].Depth, 1e-12)
	assert.False(t, points[1].Frozen)
}

func TestReadProfileTable_SkipRows(t *testing.T) {
	input := "% Model: channel\n% Version 6.1\n0;1,5;-1\n0,5;2;1\n"
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	p, err := ReadProfileTable(strings.NewReader(input), ProfileOptions{SkipRows: 2, Start: start})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.5}, p.Depths)
	require.Len(t, p.Columns, 2)
	assert.Equal(t, "Day 1", p.Columns[0].Label.Raw)
	assert.Equal(t, "Day 2", p.Columns[1].Label.Raw)
	assert.Equal(t, time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), p.Columns[1].Label.Date)
	assert.Equal(t, []float64{-1, 1}, p.Columns[1].Temps)
}

func TestReadProfileTable_NoData(t *testing.T) {
	_, err := ReadProfileTable(strings.NewReader(""), ProfileOptions{})
	require.ErrorIs(t, err, ErrNoData)

	_, err = ReadProfileTable(strings.NewReader("Depth;1 days\nx;1\n"), ProfileOptions{})
	require.ErrorIs(t, err, ErrNoData)

	_, err = ReadProfileTable(strings.NewReader("a\nb\n"), ProfileOptions{SkipRows: 2})
	require.ErrorIs(t, err, ErrNoData)
}

func TestReadProfileFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "profile_x=5.0.csv", "Dybde;T (\xb0C) 1 days\n0;-1\n1;1\n")

	p, enc, err := ReadProfileFile(path, ProfileOptions{})
	require.NoError(t, err)
	assert.Equal(t, EncodingWindows1252, enc)
	assert.Equal(t, "profile_x=5.0", p.Name)
	assert.Equal(t, "T (°C) 1 days", p.Columns[0].Label.Raw)
	assert.InDelta(t, 1, p.Columns[0].Label.Days, 1e-9)

	_, _, err = ReadProfileFile(filepath.Join(dir, "missing.csv"), ProfileOptions{})
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "2015.csv", "date,temperature\n2015-01-02,1.5\n2015-01-01,-0.5\n")
	b := writeFile(t, dir, "2016.csv", "date,temperature\n2015-01-02,1.5\n2015-01-03,2\n")

	var out bytes.Buffer
	res, err := Merge([]string{a, filepath.Join(dir, "missing.csv"), b}, &out, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{a, b}, res.Merged)
	assert.Equal(t, []string{filepath.Join(dir, "missing.csv")}, res.Skipped)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, "date;temperature\n1;-0,5\n2;1,5\n3;2\n", out.String())
}

func TestMerge_NoInputs(t *testing.T) {
	var out bytes.Buffer
	_, err := Merge([]string{filepath.Join(t.TempDir(), "nope.csv")}, &out, discardLogger())
	require.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, out.String())
}

func TestMerge_MissingDateColumn(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "day,temperature\n1,2\n")

	var out bytes.Buffer
	_, err := Merge([]string{a}, &out, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
}

func TestProcessSeklima(t *testing.T) {
	input := "Navn;Stasjon;Tid(norsk normaltid);Middeltemperatur (døgn)\n" +
		"Bergen - Flesland;SN50500;01.01.1995;-1,2\n" +
		"\n" +
		"// comment row;;;\n" +
		"Bergen - Flesland;SN50500;02.01.1995;0,4\n" +
		"short;row\n" +
		"Data er gyldig per 01.02.2025 (CC BY 4.0), Meteorologisk institutt (MET);;;\n"

	var out bytes.Buffer
	n, err := ProcessSeklima(strings.NewReader(input), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "date;temperature\n1;-1,2\n2;0,4\n", out.String())

	_, err = ProcessSeklima(strings.NewReader(""), &out)
	require.ErrorIs(t, err, ErrNoData)
}

func TestReadDailySeries(t *testing.T) {
	input := "date;temperature\n1;-1,5\n2;\n3;2,25\n"
	start := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)

	rows, err := ReadDailySeries(strings.NewReader(input), start)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, DailyTemperature{Day: 1, Date: start, Temperature: -1.5}, rows[0])
	assert.True(t, math.IsNaN(rows[1].Temperature))
	assert.Equal(t, time.Date(1995, 1, 3, 0, 0, 0, 0, time.UTC), rows[2].Date)

	_, err = ReadDailySeries(strings.NewReader("day;temp\n1;2\n"), start)
	require.Error(t, err)

	_, err = ReadDailySeries(strings.NewReader("date;temperature\nx;2\n"), start)
	require.Error(t, err)
}

func TestWriteDailyMeans(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteDailyMeans(&out, []domain.DailyMean{
		{Date: "2014-01-01", Temperature: -0.8},
		{Date: "2014-01-02", Temperature: 4},
	}))
	assert.Equal(t, "date,temperature\n2014-01-01,-0.8\n2014-01-02,4.0\n", out.String())
}
