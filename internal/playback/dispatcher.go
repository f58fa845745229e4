// Package playback hands a resolved program off to a player.
package playback

import (
	"context"

	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// Request asks a player to start an item at a resume position
type Request struct {
	ChannelID   string
	ViewerID    string
	Item        *models.Item
	SeekSeconds int64
}

// Dispatcher starts playback of a program on behalf of a viewer
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) error
}

// LogDispatcher records playback requests without driving a real player.
// It stands in until a media-server client is wired up.
type LogDispatcher struct{}

// NewLogDispatcher creates a logging dispatcher
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

// Dispatch logs the playback request
func (d *LogDispatcher) Dispatch(ctx context.Context, req Request) error {
	event := logger.Log.Info().
		Str("channel_id", req.ChannelID).
		Int64("seek_seconds", req.SeekSeconds)
	if req.ViewerID != "" {
		event = event.Str("viewer_id", req.ViewerID)
	}
	if req.Item != nil {
		event = event.Str("item_id", req.Item.ID.String()).Str("title", req.Item.Title)
	}
	event.Msg("Playback dispatched")
	return nil
}
