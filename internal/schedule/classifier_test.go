package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpersona/popcorn/internal/catalog"
	"github.com/netpersona/popcorn/internal/models"
)

func seasonalChannel(name string, startMonth, endMonth int, keywords, genres, ratings string) *models.Channel {
	return &models.Channel{
		ID:         models.Slugify(name),
		Name:       name,
		Kind:       models.ChannelKindSeasonal,
		StartMonth: startMonth,
		EndMonth:   endMonth,
		Keywords:   keywords,
		Genres:     genres,
		Ratings:    ratings,
	}
}

func namedItem(title, genres, rating, summary string) *models.Item {
	item := models.NewItem(title, genres, 5400, "lib://"+models.Slugify(title))
	item.ContentRating = rating
	item.Summary = summary
	return item
}

func assignmentFor(assignments []Assignment, channelID string) *Assignment {
	for i := range assignments {
		if assignments[i].Channel.ID == channelID {
			return &assignments[i]
		}
	}
	return nil
}

func TestClassify(t *testing.T) {
	october := time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("derives one channel per distinct catalog genre", func(t *testing.T) {
		snapshot := catalog.NewSnapshot([]*models.Item{
			namedItem("Die Hard", "action,thriller", "R", ""),
			namedItem("Airplane!", "comedy", "PG", ""),
			namedItem("Alien", "horror,sci-fi", "R", ""),
		})

		assignments := Classify(snapshot, nil, october)
		require.Len(t, assignments, 5)

		// Sorted genre order: action, comedy, horror, sci-fi, thriller
		assert.Equal(t, "action", assignments[0].Channel.ID)
		assert.Equal(t, models.ChannelKindGenre, assignments[0].Channel.Kind)

		action := assignmentFor(assignments, "action")
		require.NotNil(t, action)
		require.Len(t, action.Items, 1)
		assert.Equal(t, "Die Hard", action.Items[0].Title)
	})

	t.Run("multi-genre items land on every matching channel", func(t *testing.T) {
		snapshot := catalog.NewSnapshot([]*models.Item{
			namedItem("Alien", "horror,sci-fi", "R", ""),
		})

		assignments := Classify(snapshot, nil, october)
		horror := assignmentFor(assignments, "horror")
		scifi := assignmentFor(assignments, "sci-fi")
		require.NotNil(t, horror)
		require.NotNil(t, scifi)
		assert.Len(t, horror.Items, 1)
		assert.Len(t, scifi.Items, 1)
	})

	t.Run("seasonal channel participates inside its window", func(t *testing.T) {
		ch := seasonalChannel("Scary Halloween", 9, 11, "halloween,haunted", "horror", "")
		snapshot := catalog.NewSnapshot([]*models.Item{
			namedItem("Halloween", "horror", "R", ""),
		})

		assignments := Classify(snapshot, []*models.Channel{ch}, october)
		seasonal := assignmentFor(assignments, "scary-halloween")
		require.NotNil(t, seasonal)
		assert.Len(t, seasonal.Items, 1)
	})

	t.Run("seasonal channel is absent outside its window", func(t *testing.T) {
		ch := seasonalChannel("Scary Halloween", 9, 11, "halloween", "horror", "")
		december := time.Date(2024, 12, 15, 12, 0, 0, 0, time.UTC)
		snapshot := catalog.NewSnapshot([]*models.Item{
			namedItem("Halloween", "horror", "R", ""),
		})

		assignments := Classify(snapshot, []*models.Channel{ch}, december)
		assert.Nil(t, assignmentFor(assignments, "scary-halloween"))
	})

	t.Run("window wrapping the year boundary stays active in January", func(t *testing.T) {
		ch := seasonalChannel("Christmas", 11, 1, "christmas,santa", "", "")
		january := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
		snapshot := catalog.NewSnapshot([]*models.Item{
			namedItem("Jingle All the Way", "comedy", "PG", "Santa toy chase"),
		})

		assignments := Classify(snapshot, []*models.Channel{ch}, january)
		christmas := assignmentFor(assignments, "christmas")
		require.NotNil(t, christmas)
		assert.Len(t, christmas.Items, 1)
	})

	t.Run("keywords match title and summary case-insensitively", func(t *testing.T) {
		ch := seasonalChannel("Christmas", 11, 1, "christmas,santa", "", "")
		december := time.Date(2024, 12, 15, 12, 0, 0, 0, time.UTC)
		snapshot := catalog.NewSnapshot([]*models.Item{
			namedItem("A Christmas Carol", "drama", "PG", ""),
			namedItem("Bad Santa", "comedy", "R", ""),
			namedItem("Holiday Inn", "musical", "", "A SANTA suit finale"),
			namedItem("Die Hard", "action", "R", "A cop fights terrorists in a tower"),
		})

		assignments := Classify(snapshot, []*models.Channel{ch}, december)
		christmas := assignmentFor(assignments, "christmas")
		require.NotNil(t, christmas)
		assert.Len(t, christmas.Items, 3)
	})

	t.Run("rating filter excludes disallowed ratings but passes unrated", func(t *testing.T) {
		ch := seasonalChannel("Cozy Halloween", 9, 11, "halloween", "", "G,PG,PG-13")
		snapshot := catalog.NewSnapshot([]*models.Item{
			namedItem("Halloweentown", "family", "PG", ""),
			namedItem("Halloween", "horror", "R", ""),
			namedItem("Halloween Shorts", "animation", "", ""),
		})

		assignments := Classify(snapshot, []*models.Channel{ch}, october)
		cozy := assignmentFor(assignments, "cozy-halloween")
		require.NotNil(t, cozy)
		require.Len(t, cozy.Items, 2)
		for _, item := range cozy.Items {
			assert.NotEqual(t, "Halloween", item.Title)
		}
	})

	t.Run("identical inputs classify identically", func(t *testing.T) {
		ch := seasonalChannel("Scary Halloween", 9, 11, "halloween", "horror", "")
		snapshot := catalog.NewSnapshot([]*models.Item{
			namedItem("Halloween", "horror", "R", ""),
			namedItem("Alien", "horror,sci-fi", "R", ""),
		})

		first := Classify(snapshot, []*models.Channel{ch}, october)
		second := Classify(snapshot, []*models.Channel{ch}, october)
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Channel.ID, second[i].Channel.ID)
			assert.Equal(t, len(first[i].Items), len(second[i].Items))
		}
	})
}
