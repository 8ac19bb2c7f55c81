package httpapi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

type modelDTO struct {
	Service string `json:"service"`
	Model   string `json:"model"`
	APIKey  bool   `json:"apiKey"`
}

func (m modelDTO) toDomain() domain.EmbeddingModel {
	return domain.EmbeddingModel{Service: domain.Service(m.Service), Model: m.Model, APIKey: m.APIKey}
}

type documentDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (d documentDTO) toDomain() domain.Document {
	return domain.Document{ID: d.ID, Name: d.Name}
}

type playgroundDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Created       timestamp `json:"created"`
	Service       string    `json:"service"`
	Model         string    `json:"model"`
	DocumentNames []string  `json:"documentNames"`
}

func (p playgroundDTO) toDomain() domain.Playground {
	return domain.Playground{
		ID:            p.ID,
		Title:         p.Title,
		Created:       time.Time(p.Created),
		Service:       domain.Service(p.Service),
		Model:         p.Model,
		DocumentNames: p.DocumentNames,
	}
}

type newPlaygroundRequest struct {
	Service   string   `json:"service"`
	Documents []string `json:"documents"`
}

type renameRequest struct {
	NewTitle string `json:"new_title"`
}

type pointDTO struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

func (p pointDTO) toDomain() domain.Point {
	return domain.Point{ID: p.ID, X: p.X, Y: p.Y, Z: p.Z}
}

type chunkDTO struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type queryRequest struct {
	Text string `json:"text"`
}

type queryDTO struct {
	ID      string   `json:"id"`
	Point   pointDTO `json:"point"`
	Results []string `json:"results"`
	Text    string   `json:"text"`
}

func (q queryDTO) toDomain() domain.Query {
	return domain.Query{ID: q.ID, Text: q.Text, Point: q.Point.toDomain(), Results: q.Results}
}

func convert[D any, T any](in []D, fn func(D) T) []T {
	out := make([]T, len(in))
	for i, d := range in {
		out[i] = fn(d)
	}
	return out
}

// timestamp accepts RFC 3339 and the zone-less ISO 8601 form the backend
// emits for naive datetimes, which is read as UTC.
type timestamp time.Time

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		*t = timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", s)
}
