// Package schedule implements the channel schedule engine: classifying
// catalog items into channels, packing gapless slot sequences, storing and
// querying generated schedules, and deciding when to reshuffle.
package schedule

import (
	"strings"
	"time"

	"github.com/netpersona/popcorn/internal/catalog"
	"github.com/netpersona/popcorn/internal/guide"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// Assignment pairs a channel with the items that may air on it
type Assignment struct {
	Channel *models.Channel
	Items   []*models.Item
}

// Classify assigns catalog items to channels for the given instant.
//
// Genre channels are derived from the snapshot's distinct genres; every item
// carrying a genre lands on that genre's channel. Seasonal channels come from
// the stored channel list and only participate while the instant falls inside
// their calendar window. An item may appear on any number of channels.
//
// Pure function over (snapshot, channels, at): the same inputs always produce
// the same assignments, in stable channel order.
func Classify(snapshot *catalog.Snapshot, channels []*models.Channel, at time.Time) []Assignment {
	assignments := make([]Assignment, 0, len(channels))

	// One channel per distinct catalog genre, in sorted order
	for _, genre := range snapshot.Genres() {
		ch := models.NewGenreChannel(catalog.DisplayGenre(genre), guide.NumberFor(catalog.DisplayGenre(genre)))
		assignments = append(assignments, Assignment{
			Channel: ch,
			Items:   matchGenre(snapshot.Items(), ch.GenreList()),
		})
	}

	for _, ch := range channels {
		if ch.Kind != models.ChannelKindSeasonal {
			continue
		}
		if !ch.ActiveAt(at) {
			continue
		}
		items := matchSeasonal(snapshot.Items(), ch)
		if len(items) == 0 {
			logger.Log.Warn().
				Str("channel_id", ch.ID).
				Str("channel_name", ch.Name).
				Msg("Seasonal channel matched no items")
		}
		assignments = append(assignments, Assignment{Channel: ch, Items: items})
	}

	return assignments
}

// matchGenre returns items whose genres intersect the channel's genre set
func matchGenre(items []*models.Item, genres []string) []*models.Item {
	var matched []*models.Item
	for _, item := range items {
		if intersects(item.GenreList(), genres) {
			matched = append(matched, item)
		}
	}
	return matched
}

// matchSeasonal returns items matching a seasonal channel's rule: a keyword
// appears as a case-insensitive substring of the title or summary, or the
// item's genres intersect the channel's genre filter; and the content rating
// is allowed. Unrated items pass any rating filter.
func matchSeasonal(items []*models.Item, ch *models.Channel) []*models.Item {
	genres := ch.GenreList()
	keywords := ch.KeywordList()
	ratings := ch.RatingList()

	var matched []*models.Item
	for _, item := range items {
		if !matchesSeasonalRule(item, genres, keywords) {
			continue
		}
		if !ratingAllowed(item.ContentRating, ratings) {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

func matchesSeasonalRule(item *models.Item, genres, keywords []string) bool {
	if intersects(item.GenreList(), genres) {
		return true
	}
	title := strings.ToLower(item.Title)
	summary := strings.ToLower(item.Summary)
	for _, kw := range keywords {
		if strings.Contains(title, kw) || (summary != "" && strings.Contains(summary, kw)) {
			return true
		}
	}
	return false
}

func ratingAllowed(rating string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	if rating == "" {
		// Unrated items are not excluded by a rating filter
		return true
	}
	upper := strings.ToUpper(strings.TrimSpace(rating))
	for _, a := range allowed {
		if upper == a {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
