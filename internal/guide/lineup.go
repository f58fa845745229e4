package guide

import (
	"fmt"

	"github.com/netpersona/popcorn/internal/models"
)

// DiscoverDocument is the HDHomeRun device discovery payload. Tuner clients
// use it to auto-detect the service as a network tuner.
type DiscoverDocument struct {
	FriendlyName    string `json:"FriendlyName"`
	Manufacturer    string `json:"Manufacturer"`
	ModelNumber     string `json:"ModelNumber"`
	FirmwareName    string `json:"FirmwareName"`
	TunerCount      int    `json:"TunerCount"`
	FirmwareVersion string `json:"FirmwareVersion"`
	DeviceID        string `json:"DeviceID"`
	DeviceAuth      string `json:"DeviceAuth"`
	BaseURL         string `json:"BaseURL"`
	LineupURL       string `json:"LineupURL"`
}

// LineupEntry is one channel in the HDHomeRun lineup
type LineupEntry struct {
	GuideNumber string `json:"GuideNumber"`
	GuideName   string `json:"GuideName"`
	URL         string `json:"URL"`
}

// LineupStatus reports the channel scan status. The lineup is always
// complete since channels are generated, not scanned.
type LineupStatus struct {
	ScanInProgress int      `json:"ScanInProgress"`
	ScanPossible   int      `json:"ScanPossible"`
	Source         string   `json:"Source"`
	SourceList     []string `json:"SourceList"`
}

// Discover builds the device discovery document for the given base URL
func Discover(baseURL string) DiscoverDocument {
	return DiscoverDocument{
		FriendlyName:    "Popcorn TV",
		Manufacturer:    "Popcorn",
		ModelNumber:     "HDHR-Popcorn",
		FirmwareName:    "hdhomerun_popcorn",
		TunerCount:      10,
		FirmwareVersion: "1.0.0",
		DeviceID:        "POPCORN01",
		DeviceAuth:      "popcorn",
		BaseURL:         baseURL,
		LineupURL:       baseURL + "/lineup.json",
	}
}

// Lineup builds the channel lineup from the current schedule set
func Lineup(baseURL string, schedules []*models.Schedule) []LineupEntry {
	lineup := make([]LineupEntry, 0, len(schedules))
	for _, schedule := range schedules {
		number := NumberFor(schedule.ChannelName)
		lineup = append(lineup, LineupEntry{
			GuideNumber: fmt.Sprintf("%d", number),
			GuideName:   schedule.ChannelName,
			URL:         fmt.Sprintf("%s/api/channels/%s/play", baseURL, schedule.ChannelID),
		})
	}
	return lineup
}

// Status returns the lineup scan status
func Status() LineupStatus {
	return LineupStatus{
		ScanInProgress: 0,
		ScanPossible:   1,
		Source:         "Cable",
		SourceList:     []string{"Cable"},
	}
}
