package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// GPSCoordinates is a WGS84 point.
type GPSCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is a single place search hit.
type Place struct {
	Position       int             `json:"position,omitempty"`
	Title          string          `json:"title,omitempty"`
	Address        string          `json:"address,omitempty"`
	Rating         float64         `json:"rating,omitempty"`
	Reviews        int             `json:"reviews,omitempty"`
	Type           string          `json:"type,omitempty"`
	Thumbnail      string          `json:"thumbnail,omitempty"`
	PlaceID        string          `json:"place_id,omitempty"`
	GPSCoordinates *GPSCoordinates `json:"gps_coordinates,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	Source         string          `json:"source,omitempty"`
}

// PlaceQuery is the explore request body.
type PlaceQuery struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

// Normalize trims surrounding whitespace from both fields.
func (q PlaceQuery) Normalize() PlaceQuery {
	return PlaceQuery{
		Query:    strings.TrimSpace(q.Query),
		Location: strings.TrimSpace(q.Location),
	}
}

// Validate requires a query of at least 2 characters and a non-empty location.
func (q PlaceQuery) Validate() error {
	q = q.Normalize()
	if utf8.RuneCountInString(q.Query) < 2 {
		return &ValidationError{Field: "query", Message: "must be at least 2 characters"}
	}
	if utf8.RuneCountInString(q.Location) < 1 {
		return &ValidationError{Field: "location", Message: "is required"}
	}
	return nil
}

// PlaceSearchResult is the explore response payload.
type PlaceSearchResult struct {
	Places []Place `json:"places"`
}

// SourceInfo describes a place provider.
type SourceInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// ProviderResult is what one provider returned during a fan-out search.
type ProviderResult struct {
	Places   []Place
	Source   SourceInfo
	Duration time.Duration
	Error    error
}
