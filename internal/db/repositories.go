package db

// Repositories provides access to all database repositories
type Repositories struct {
	Items       *ItemRepository
	Channels    *ChannelRepository
	Schedules   *ScheduleRepository
	Settings    *SettingsRepository
	ViewerPrefs *ViewerPreferenceRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Items:       NewItemRepository(db),
		Channels:    NewChannelRepository(db),
		Schedules:   NewScheduleRepository(db),
		Settings:    NewSettingsRepository(db),
		ViewerPrefs: NewViewerPreferenceRepository(db),
	}
}
