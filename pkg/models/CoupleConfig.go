package models

import (
	"errors"
	"time"

	"github.com/adampresley/couplestory/pkg/carousel"
	"github.com/adampresley/couplestory/pkg/counter"
)

var (
	ErrConfigNotFound = errors.New("couple config not found")
)

/*
CoupleConfig is the single settings record behind the story page.
RelationshipStart is kept exactly as entered in the dashboard.
*/
type CoupleConfig struct {
	BaseModel

	CoupleName         string  `db:"couple_name" json:"couple_name"`
	RelationshipStart  string  `db:"relationship_start" json:"relationship_start"`
	CustomPhrase       string  `db:"custom_phrase" json:"custom_phrase"`
	BackgroundMusicURL string  `db:"background_music_url" json:"background_music_url"`
	Photos             []Photo `db:"-" json:"photos"`
}

/*
CoupleConfigRequest is the body accepted by create and update. ID is only
honoured by the HTTP layer to choose between the two.
*/
type CoupleConfigRequest struct {
	ID                 *uint            `json:"id,omitempty"`
	CoupleName         string           `json:"couple_name"`
	RelationshipStart  string           `json:"relationship_start"`
	CustomPhrase       string           `json:"custom_phrase"`
	BackgroundMusicURL string           `json:"background_music_url"`
	Photos             []PhotoReference `json:"photos"`
}

type PhotoReference struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

/*
StartDate parses RelationshipStart in loc. An empty value yields nil.
*/
func (c *CoupleConfig) StartDate(loc *time.Location) (*time.Time, error) {
	if c == nil {
		return nil, nil
	}

	return counter.ParseStartDate(c.RelationshipStart, loc)
}

/*
CarouselPhotos returns the photos in display order for the story carousel.
A nil config has no photos.
*/
func (c *CoupleConfig) CarouselPhotos() []carousel.Photo {
	if c == nil {
		return []carousel.Photo{}
	}

	result := make([]carousel.Photo, 0, len(c.Photos))

	for _, p := range c.Photos {
		result = append(result, carousel.Photo{
			URL:     p.URL,
			Caption: p.Caption,
		})
	}

	return result
}

func (c *CoupleConfig) DisplayName() string {
	if c == nil || c.CoupleName == "" {
		return carousel.DefaultCoupleName
	}

	return c.CoupleName
}

func (c *CoupleConfig) PhotoURLs() []string {
	result := []string{}

	if c == nil {
		return result
	}

	for _, p := range c.Photos {
		result = append(result, p.URL)
	}

	return result
}
