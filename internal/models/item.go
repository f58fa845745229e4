package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item represents one playable title from the synced catalog
type Item struct {
	ID            uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Title         string    `json:"title" gorm:"type:text;not null;column:title" validate:"required"`
	Genres        string    `json:"genres" gorm:"type:text;not null;column:genres"` // comma-separated
	Duration      int64     `json:"duration" gorm:"type:integer;not null;column:duration" validate:"required,gt=0"` // seconds
	ContentRating string    `json:"content_rating,omitempty" gorm:"type:text;column:content_rating"`
	Summary       string    `json:"summary,omitempty" gorm:"type:text;column:summary"`
	Year          *int      `json:"year,omitempty" gorm:"type:integer;column:year"`
	ArtworkRef    string    `json:"artwork_ref,omitempty" gorm:"type:text;column:artwork_ref"`
	SourceRef     string    `json:"source_ref" gorm:"type:text;not null;uniqueIndex;column:source_ref"` // external library id
	CreatedAt     time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewItem creates a new Item with generated UUID and timestamp
func NewItem(title, genres string, duration int64, sourceRef string) *Item {
	return &Item{
		ID:        uuid.New(),
		Title:     title,
		Genres:    genres,
		Duration:  duration,
		SourceRef: sourceRef,
		CreatedAt: time.Now().UTC(),
	}
}

// GenreList returns the item's genres as trimmed lowercase tokens
func (i *Item) GenreList() []string {
	if i.Genres == "" {
		return nil
	}
	parts := strings.Split(i.Genres, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		g := strings.ToLower(strings.TrimSpace(p))
		if g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// HasGenre reports whether the item carries the given genre (case-insensitive)
func (i *Item) HasGenre(genre string) bool {
	want := strings.ToLower(strings.TrimSpace(genre))
	for _, g := range i.GenreList() {
		if g == want {
			return true
		}
	}
	return false
}

// DurationString returns duration in HH:MM:SS format
func (i *Item) DurationString() string {
	hours := i.Duration / 3600
	minutes := (i.Duration % 3600) / 60
	seconds := i.Duration % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
