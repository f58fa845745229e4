package guide

import (
	"fmt"
	"strings"

	"github.com/netpersona/popcorn/internal/models"
)

// Playlist renders the channel lineup as an M3U playlist for IPTV clients
func Playlist(baseURL string, schedules []*models.Schedule) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")

	for _, schedule := range schedules {
		number := NumberFor(schedule.ChannelName)
		fmt.Fprintf(&b, "#EXTINF:-1 tvg-id=\"%d\" tvg-name=\"%s\" tvg-chno=\"%d\",%s\n",
			number, schedule.ChannelName, number, schedule.ChannelName)
		fmt.Fprintf(&b, "%s/api/channels/%s/play\n", baseURL, schedule.ChannelID)
	}

	return b.String()
}
