package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewGenreChannel(t *testing.T) {
	ch := NewGenreChannel("Sci-Fi", 209)

	assert.Equal(t, "sci-fi", ch.ID)
	assert.Equal(t, "Sci-Fi", ch.Name)
	assert.Equal(t, ChannelKindGenre, ch.Kind)
	assert.Equal(t, 209, ch.Number)
	assert.Equal(t, []string{"sci-fi"}, ch.GenreList())
}

func TestActiveAt(t *testing.T) {
	t.Run("genre channels are always active", func(t *testing.T) {
		ch := NewGenreChannel("Action", 201)
		assert.True(t, ch.ActiveAt(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("seasonal window within one year", func(t *testing.T) {
		ch := &Channel{Kind: ChannelKindSeasonal, StartMonth: 9, EndMonth: 11}

		assert.True(t, ch.ActiveAt(time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)))
		assert.True(t, ch.ActiveAt(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, ch.ActiveAt(time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC)))
		assert.False(t, ch.ActiveAt(time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)))
		assert.False(t, ch.ActiveAt(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("seasonal window wrapping the year boundary", func(t *testing.T) {
		ch := &Channel{Kind: ChannelKindSeasonal, StartMonth: 11, EndMonth: 1}

		assert.True(t, ch.ActiveAt(time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)))
		assert.True(t, ch.ActiveAt(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
		assert.True(t, ch.ActiveAt(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)))
		assert.False(t, ch.ActiveAt(time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC)))
		assert.False(t, ch.ActiveAt(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	})
}

func TestChannelLists(t *testing.T) {
	ch := &Channel{
		Genres:   "Horror, Thriller",
		Keywords: "halloween, Friday the 13th,",
		Ratings:  "pg-13, r",
	}

	assert.Equal(t, []string{"horror", "thriller"}, ch.GenreList())
	assert.Equal(t, []string{"halloween", "friday the 13th"}, ch.KeywordList())
	assert.Equal(t, []string{"PG-13", "R"}, ch.RatingList())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "cozy-halloween", Slugify("Cozy Halloween"))
	assert.Equal(t, "action", Slugify(" Action "))
	assert.Equal(t, "sci-fi", Slugify("Sci-Fi"))
}

func TestFrequencyWindow(t *testing.T) {
	assert.Equal(t, 24*time.Hour, FrequencyWindow(FrequencyDaily))
	assert.Equal(t, 7*24*time.Hour, FrequencyWindow(FrequencyWeekly))
	assert.Equal(t, 30*24*time.Hour, FrequencyWindow(FrequencyMonthly))
	assert.Equal(t, 7*24*time.Hour, FrequencyWindow("fortnightly"))
}

func TestValidFrequency(t *testing.T) {
	assert.True(t, ValidFrequency(FrequencyDaily))
	assert.True(t, ValidFrequency(FrequencyWeekly))
	assert.True(t, ValidFrequency(FrequencyMonthly))
	assert.False(t, ValidFrequency("hourly"))
	assert.False(t, ValidFrequency(""))
}
