package models

import (
	"strings"
	"time"
)

// ChannelKind distinguishes how a channel selects its items
type ChannelKind string

const (
	// ChannelKindGenre selects items whose genres intersect the channel's genre set
	ChannelKindGenre ChannelKind = "genre"

	// ChannelKindSeasonal selects items by keyword/genre match inside a calendar window
	ChannelKindSeasonal ChannelKind = "seasonal"
)

// Channel represents a programming lane with exactly one classification rule.
// Genre channels are derived from the catalog's genres; seasonal channels are
// stored rows with a month window, keyword set and rating filter.
type Channel struct {
	ID          string      `json:"id" gorm:"type:text;primaryKey;column:id"` // slug
	Name        string      `json:"name" gorm:"type:text;not null;uniqueIndex;column:name" validate:"required,min=1,max=255"`
	Kind        ChannelKind `json:"kind" gorm:"type:text;not null;column:kind" validate:"oneof=genre seasonal"`
	Number      int         `json:"number" gorm:"type:integer;not null;column:number"`
	Genres      string      `json:"genres,omitempty" gorm:"type:text;column:genres"`   // comma-separated genre set
	Keywords    string      `json:"keywords,omitempty" gorm:"type:text;column:keywords"` // comma-separated, seasonal only
	StartMonth  int         `json:"start_month,omitempty" gorm:"type:integer;column:start_month"` // 1-12, seasonal only
	EndMonth    int         `json:"end_month,omitempty" gorm:"type:integer;column:end_month"`     // 1-12, may be < StartMonth (year wrap)
	Ratings     string      `json:"ratings,omitempty" gorm:"type:text;column:ratings"` // comma-separated allowed ratings, empty = any
	CreatedAt   time.Time   `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewGenreChannel creates a channel that airs everything in a single genre
func NewGenreChannel(name string, number int) *Channel {
	return &Channel{
		ID:        Slugify(name),
		Name:      name,
		Kind:      ChannelKindGenre,
		Number:    number,
		Genres:    strings.ToLower(name),
		CreatedAt: time.Now().UTC(),
	}
}

// GenreList returns the channel's configured genre set as lowercase tokens
func (c *Channel) GenreList() []string {
	return splitList(c.Genres)
}

// KeywordList returns the channel's seasonal keywords as lowercase tokens
func (c *Channel) KeywordList() []string {
	return splitList(c.Keywords)
}

// RatingList returns the channel's allowed content ratings, uppercased.
// An empty list means any rating is allowed.
func (c *Channel) RatingList() []string {
	if c.Ratings == "" {
		return nil
	}
	parts := strings.Split(c.Ratings, ",")
	ratings := make([]string, 0, len(parts))
	for _, p := range parts {
		r := strings.ToUpper(strings.TrimSpace(p))
		if r != "" {
			ratings = append(ratings, r)
		}
	}
	return ratings
}

// ActiveAt reports whether the channel is active at the given time.
// Genre channels are always active; seasonal channels only inside their
// month window, which may wrap the year boundary (e.g. Nov-Jan).
func (c *Channel) ActiveAt(t time.Time) bool {
	if c.Kind != ChannelKindSeasonal {
		return true
	}
	month := int(t.UTC().Month())
	if c.StartMonth <= c.EndMonth {
		return month >= c.StartMonth && month <= c.EndMonth
	}
	return month >= c.StartMonth || month <= c.EndMonth
}

// Slugify converts a display name to a stable channel identifier
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.ToLower(strings.TrimSpace(p))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
