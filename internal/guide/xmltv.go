package guide

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/netpersona/popcorn/internal/models"
)

// EPGDays is how many days of programmes the XMLTV guide covers
const EPGDays = 7

// xmltvTimeLayout is the XMLTV timestamp format; the space before the zone
// offset is required by common guide consumers
const xmltvTimeLayout = "20060102150405 -0700"

type xmltvTV struct {
	XMLName       xml.Name         `xml:"tv"`
	GeneratorName string           `xml:"generator-info-name,attr"`
	GeneratorURL  string           `xml:"generator-info-url,attr"`
	Channels      []xmltvChannel   `xml:"channel"`
	Programmes    []xmltvProgramme `xml:"programme"`
}

type xmltvChannel struct {
	ID           string   `xml:"id,attr"`
	DisplayNames []string `xml:"display-name"`
}

type xmltvProgramme struct {
	Start    string          `xml:"start,attr"`
	Stop     string          `xml:"stop,attr"`
	Channel  string          `xml:"channel,attr"`
	Title    xmltvText       `xml:"title"`
	Desc     *xmltvText      `xml:"desc,omitempty"`
	Category *xmltvText      `xml:"category,omitempty"`
	Date     string          `xml:"date,omitempty"`
	Rating   *xmltvRating    `xml:"rating,omitempty"`
	Icon     *xmltvIcon      `xml:"icon,omitempty"`
	Length   *xmltvLength    `xml:"length,omitempty"`
}

type xmltvText struct {
	Lang string `xml:"lang,attr"`
	Text string `xml:",chardata"`
}

type xmltvRating struct {
	System string `xml:"system,attr,omitempty"`
	Value  string `xml:"value"`
}

type xmltvIcon struct {
	Src string `xml:"src,attr"`
}

type xmltvLength struct {
	Units string `xml:"units,attr"`
	Value string `xml:",chardata"`
}

// EPG renders an XMLTV program guide covering EPGDays days from the given
// instant. Each channel's slot sequence repeats from its epoch anchor, so
// programmes tile the window without gaps.
func EPG(schedules []*models.Schedule, from time.Time) ([]byte, error) {
	from = from.UTC().Truncate(24 * time.Hour)
	until := from.Add(EPGDays * 24 * time.Hour)

	tv := xmltvTV{
		GeneratorName: "Popcorn",
		GeneratorURL:  "https://github.com/netpersona/popcorn",
	}

	for _, schedule := range schedules {
		number := NumberFor(schedule.ChannelName)
		id := fmt.Sprintf("%d", number)

		tv.Channels = append(tv.Channels, xmltvChannel{
			ID:           id,
			DisplayNames: []string{schedule.ChannelName, id},
		})

		tv.Programmes = append(tv.Programmes, programmes(schedule, id, from, until)...)
	}

	out, err := xml.MarshalIndent(tv, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render EPG: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// programmes unrolls one channel's repeating slot sequence across the window
func programmes(schedule *models.Schedule, channelID string, from, until time.Time) []xmltvProgramme {
	if schedule.Empty() {
		return nil
	}

	// Rewind to the start of the cycle containing the window's left edge
	period := time.Duration(schedule.TotalSeconds) * time.Second
	elapsed := from.Sub(schedule.EpochAnchor.UTC())
	cycles := elapsed / period
	if elapsed < 0 {
		cycles--
	}
	cursor := schedule.EpochAnchor.UTC().Add(cycles * period)

	var out []xmltvProgramme
	for cursor.Before(until) {
		for _, slot := range schedule.Slots {
			start := cursor.Add(time.Duration(slot.StartOffset) * time.Second)
			stop := start.Add(time.Duration(slot.Duration) * time.Second)
			if !stop.After(from) {
				continue
			}
			if !start.Before(until) {
				break
			}
			out = append(out, programme(slot, channelID, start, stop))
		}
		cursor = cursor.Add(period)
	}
	return out
}

func programme(slot *models.Slot, channelID string, start, stop time.Time) xmltvProgramme {
	p := xmltvProgramme{
		Start:   start.Format(xmltvTimeLayout),
		Stop:    stop.Format(xmltvTimeLayout),
		Channel: channelID,
		Title:   xmltvText{Lang: "en", Text: "Off Air"},
	}

	item := slot.Item
	if item == nil {
		return p
	}

	p.Title = xmltvText{Lang: "en", Text: item.Title}
	if item.Summary != "" {
		p.Desc = &xmltvText{Lang: "en", Text: item.Summary}
	}
	if item.Genres != "" {
		p.Category = &xmltvText{Lang: "en", Text: item.Genres}
	}
	if item.Year != nil {
		p.Date = fmt.Sprintf("%d", *item.Year)
	}
	if item.ContentRating != "" {
		p.Rating = &xmltvRating{System: "MPAA", Value: item.ContentRating}
	}
	if item.ArtworkRef != "" {
		p.Icon = &xmltvIcon{Src: item.ArtworkRef}
	}
	if item.Duration > 0 {
		p.Length = &xmltvLength{Units: "minutes", Value: fmt.Sprintf("%d", item.Duration/60)}
	}
	return p
}
