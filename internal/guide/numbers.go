// Package guide renders the tuner-facing artifacts for the channel lineup:
// HDHomeRun discovery documents, an M3U playlist, and an XMLTV program guide.
package guide

// channelNumbers maps channel names to their fixed tuner numbers. Unlisted
// channels fall back to DefaultNumber so a new genre never collides with a
// curated slot.
var channelNumbers = map[string]int{
	"Action":          201,
	"Adventure":       202,
	"Animation":       301,
	"Comedy":          203,
	"Crime":           204,
	"Documentary":     501,
	"Drama":           205,
	"Family":          302,
	"Fantasy":         206,
	"History":         502,
	"Horror":          666,
	"Music":           401,
	"Mystery":         207,
	"Romance":         208,
	"Sci-Fi":          209,
	"Thriller":        210,
	"War":             211,
	"Western":         212,
	"Cozy Halloween":  810,
	"Scary Halloween": 613,
	"Christmas":       812,
}

// DefaultNumber is assigned to channels without a curated slot
const DefaultNumber = 999

// NumberFor returns the tuner number for a channel name
func NumberFor(name string) int {
	if n, ok := channelNumbers[name]; ok {
		return n
	}
	return DefaultNumber
}
