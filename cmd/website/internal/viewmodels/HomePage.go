package viewmodels

import (
	"github.com/adampresley/couplestory/pkg/carousel"
	"github.com/adampresley/couplestory/pkg/counter"
)

type HomePage struct {
	BaseViewModel

	IsConfigured       bool
	CoupleName         string
	BackgroundMusicURL string
	Carousel           carousel.Snapshot
	Counter            counter.View
	Photos             []HomePagePhoto
}

type HomePagePhoto struct {
	Index    int
	URL      string
	Caption  string
	IsActive bool
	Progress float64
}
