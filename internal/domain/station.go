package domain

import "context"

// Source is a weather station registered with frost.met.no.
type Source struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Municipality string `json:"municipality"`
}

// SourceFinder resolves the station that serves a municipality.
type SourceFinder interface {
	FindSource(ctx context.Context, municipality string) (Source, error)
}
