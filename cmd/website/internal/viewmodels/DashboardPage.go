package viewmodels

type DashboardPage struct {
	BaseViewModel

	ConfigID           uint
	CoupleName         string
	RelationshipStart  string
	CustomPhrase       string
	BackgroundMusicURL string
	Photos             []DashboardPhoto
	StorageEnabled     bool

	SaveButtonClass   string
	RemoveButtonClass string
	ExportButtonClass string
}

type DashboardPhoto struct {
	URL          string
	ThumbnailURL string
	Caption      string
}
