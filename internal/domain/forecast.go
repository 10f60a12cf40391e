package domain

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawForecast is an unparsed hourly forecast document as served by yr.no.
type RawForecast struct {
	Location  string
	Body      []byte
	FetchedAt time.Time
}

// ForecastEntry is one hourly period of a forecast. From and To keep the
// upstream local-time notation and together identify the period.
type ForecastEntry struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	MinPrecip   float64 `json:"min_precip_mm"`
	AvgPrecip   float64 `json:"avg_precip_mm"`
	MaxPrecip   float64 `json:"max_precip_mm"`
	Temperature float64 `json:"temperature_c"`
}

// Key identifies the forecast period.
func (e ForecastEntry) Key() string {
	return e.From + "|" + e.To
}

// Forecast is a parsed forecast document.
type Forecast struct {
	Location   string          `json:"location"`
	LastUpdate string          `json:"last_update"`
	FetchedAt  time.Time       `json:"fetched_at"`
	Entries    []ForecastEntry `json:"entries"`
	Raw        []byte          `json:"-"`
}

// UpdateStamp is LastUpdate made safe for file names ("2024-01-02T10.00.00").
func (f Forecast) UpdateStamp() string {
	return strings.ReplaceAll(f.LastUpdate, ":", ".")
}

type yrDocument struct {
	LastUpdate string   `xml:"meta>lastupdate"`
	Times      []yrTime `xml:"forecast>tabular>time"`
}

type yrTime struct {
	From          string `xml:"from,attr"`
	To            string `xml:"to,attr"`
	Precipitation *struct {
		Min   *string `xml:"minvalue,attr"`
		Value string  `xml:"value,attr"`
		Max   *string `xml:"maxvalue,attr"`
	} `xml:"precipitation"`
	Temperature *struct {
		Value string `xml:"value,attr"`
	} `xml:"temperature"`
}

// ParseForecast decodes a yr.no hourly forecast document. A period without
// both a minimum and a maximum precipitation value gets 0 for both.
func ParseForecast(raw RawForecast) (Forecast, error) {
	var doc yrDocument
	if err := xml.Unmarshal(raw.Body, &doc); err != nil {
		return Forecast{}, fmt.Errorf("decode forecast xml: %w", err)
	}
	if strings.TrimSpace(doc.LastUpdate) == "" {
		return Forecast{}, fmt.Errorf("decode forecast xml: missing meta/lastupdate")
	}

	f := Forecast{
		Location:   raw.Location,
		LastUpdate: strings.TrimSpace(doc.LastUpdate),
		FetchedAt:  raw.FetchedAt,
		Entries:    make([]ForecastEntry, 0, len(doc.Times)),
		Raw:        raw.Body,
	}
	if f.FetchedAt.IsZero() {
		f.FetchedAt = Now()
	}

	for i, t := range doc.Times {
		entry, err := parseForecastTime(t)
		if err != nil {
			return Forecast{}, fmt.Errorf("forecast period %d (%s): %w", i+1, t.From, err)
		}
		f.Entries = append(f.Entries, entry)
	}
	return f, nil
}

func parseForecastTime(t yrTime) (ForecastEntry, error) {
	if t.Precipitation == nil {
		return ForecastEntry{}, fmt.Errorf("missing precipitation")
	}
	if t.Temperature == nil {
		return ForecastEntry{}, fmt.Errorf("missing temperature")
	}

	entry := ForecastEntry{From: t.From, To: t.To}
	var err error
	if entry.AvgPrecip, err = parseValue("precipitation", t.Precipitation.Value); err != nil {
		return ForecastEntry{}, err
	}
	if entry.Temperature, err = parseValue("temperature", t.Temperature.Value); err != nil {
		return ForecastEntry{}, err
	}
	if t.Precipitation.Min != nil && t.Precipitation.Max != nil {
		if entry.MinPrecip, err = parseValue("minvalue", *t.Precipitation.Min); err != nil {
			return ForecastEntry{}, err
		}
		if entry.MaxPrecip, err = parseValue("maxvalue", *t.Precipitation.Max); err != nil {
			return ForecastEntry{}, err
		}
	}
	return entry, nil
}

func parseValue(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, s, err)
	}
	return v, nil
}

// DedupeForecastEntries drops repeated periods, keeping the last occurrence of
// each. Survivors stay in the order of their last occurrence.
func DedupeForecastEntries(entries []ForecastEntry) []ForecastEntry {
	last := make(map[string]int, len(entries))
	for i, e := range entries {
		last[e.Key()] = i
	}
	out := make([]ForecastEntry, 0, len(last))
	for i, e := range entries {
		if last[e.Key()] == i {
			out = append(out, e)
		}
	}
	return out
}

// LatestEntries returns the trailing n entries.
func LatestEntries(entries []ForecastEntry, n int) []ForecastEntry {
	if n <= 0 {
		return nil
	}
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
