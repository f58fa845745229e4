// Package catalog defines the boundary to the external media library: a
// Source supplies items, and a Snapshot is the immutable point-in-time view
// the schedule engine works from during one generation pass.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/models"
)

// ErrUnavailable indicates the media library could not be reached.
// The reshuffle scheduler treats this as transient and keeps serving the
// previous schedules.
var ErrUnavailable = errors.New("catalog unavailable")

// IsUnavailable checks if the error is a catalog availability error
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Source supplies the item catalog from the external media library
type Source interface {
	Fetch(ctx context.Context) ([]*models.Item, error)
}

// Snapshot is an immutable point-in-time view of the catalog
type Snapshot struct {
	items []*models.Item
}

// NewSnapshot creates a snapshot over the given items
func NewSnapshot(items []*models.Item) *Snapshot {
	copied := make([]*models.Item, len(items))
	copy(copied, items)
	return &Snapshot{items: copied}
}

// Take fetches the catalog from a source and wraps it in a snapshot
func Take(ctx context.Context, source Source) (*Snapshot, error) {
	items, err := source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take catalog snapshot: %w", err)
	}
	return NewSnapshot(items), nil
}

// Items returns the snapshot's items
func (s *Snapshot) Items() []*models.Item {
	return s.items
}

// Len returns the number of items in the snapshot
func (s *Snapshot) Len() int {
	return len(s.items)
}

// Genres returns the sorted set of distinct genres across the snapshot,
// lowercased. Genre channels are derived from this set.
func (s *Snapshot) Genres() []string {
	seen := make(map[string]bool)
	for _, item := range s.items {
		for _, g := range item.GenreList() {
			seen[g] = true
		}
	}
	genres := make([]string, 0, len(seen))
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// LibrarySource reads the catalog from the synced item table. The external
// library pushes items wholesale through the sync API; the engine only ever
// consumes this local copy.
type LibrarySource struct {
	repos *db.Repositories
}

// NewLibrarySource creates a source backed by the item repository
func NewLibrarySource(repos *db.Repositories) *LibrarySource {
	return &LibrarySource{repos: repos}
}

// Fetch returns all synced items. Database failures surface as ErrUnavailable
// so the reshuffle scheduler degrades to stale-serving.
func (s *LibrarySource) Fetch(ctx context.Context) ([]*models.Item, error) {
	items, err := s.repos.Items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	return items, nil
}

// StaticSource serves a fixed item list, for tests and seeding
type StaticSource struct {
	ItemList []*models.Item
	Err      error
}

// Fetch returns the configured items or error
func (s *StaticSource) Fetch(_ context.Context) ([]*models.Item, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.ItemList, nil
}

// DisplayGenre converts a lowercase genre token to its display form,
// e.g. "sci-fi" -> "Sci-Fi"
func DisplayGenre(genre string) string {
	parts := strings.FieldsFunc(genre, func(r rune) bool { return r == ' ' || r == '-' })
	seps := make([]rune, 0, len(genre))
	for _, r := range genre {
		if r == ' ' || r == '-' {
			seps = append(seps, r)
		}
	}
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
		if i < len(seps) {
			b.WriteRune(seps[i])
		}
	}
	return b.String()
}
