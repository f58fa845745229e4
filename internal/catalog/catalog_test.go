package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpersona/popcorn/internal/models"
)

func TestSnapshotGenres(t *testing.T) {
	snapshot := NewSnapshot([]*models.Item{
		models.NewItem("Die Hard", "Action,Thriller", 7200, "lib://die-hard"),
		models.NewItem("Speed", "action", 6300, "lib://speed"),
		models.NewItem("Alien", "horror,sci-fi", 6960, "lib://alien"),
		models.NewItem("Home Movie", "", 600, "lib://home-movie"),
	})

	assert.Equal(t, []string{"action", "horror", "sci-fi", "thriller"}, snapshot.Genres())
	assert.Equal(t, 4, snapshot.Len())
}

func TestSnapshotImmutability(t *testing.T) {
	items := []*models.Item{
		models.NewItem("Die Hard", "action", 7200, "lib://die-hard"),
	}
	snapshot := NewSnapshot(items)

	items[0] = nil
	require.NotNil(t, snapshot.Items()[0])
	assert.Equal(t, "Die Hard", snapshot.Items()[0].Title)
}

func TestTake(t *testing.T) {
	t.Run("wraps the source items in a snapshot", func(t *testing.T) {
		source := &StaticSource{ItemList: []*models.Item{
			models.NewItem("Die Hard", "action", 7200, "lib://die-hard"),
		}}

		snapshot, err := Take(context.Background(), source)
		require.NoError(t, err)
		assert.Equal(t, 1, snapshot.Len())
	})

	t.Run("source failures propagate", func(t *testing.T) {
		source := &StaticSource{Err: errors.New("library offline")}

		_, err := Take(context.Background(), source)
		assert.Error(t, err)
	})
}

func TestDisplayGenre(t *testing.T) {
	assert.Equal(t, "Action", DisplayGenre("action"))
	assert.Equal(t, "Sci-Fi", DisplayGenre("sci-fi"))
	assert.Equal(t, "Film Noir", DisplayGenre("film noir"))
}
