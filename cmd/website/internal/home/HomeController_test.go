package home

import (
	"testing"
	"time"

	"github.com/adampresley/couplestory/cmd/website/internal/viewmodels"
	"github.com/adampresley/couplestory/pkg/carousel"
	"github.com/adampresley/couplestory/pkg/counter"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestBuildStory_Unconfigured(t *testing.T) {
	viewData := viewmodels.HomePage{}

	BuildStory(&viewData, nil, time.UTC, now)

	assert.False(t, viewData.IsConfigured)
	assert.Equal(t, carousel.DefaultCoupleName, viewData.CoupleName)
	assert.False(t, viewData.Counter.Configured)
	assert.Equal(t, counter.NotConfigured, viewData.Counter.Prompt)
	assert.True(t, viewData.Carousel.Empty)
	assert.Empty(t, viewData.Photos)
}

func TestBuildStory_Configured(t *testing.T) {
	viewData := viewmodels.HomePage{}

	config := &models.CoupleConfig{
		CoupleName:         "Ana & Leo",
		RelationshipStart:  "2023-01-10T12:00",
		CustomPhrase:       "and counting",
		BackgroundMusicURL: "/media/music/uploads/song.mp3",
		Photos: []models.Photo{
			{URL: "/media/photos/uploads/a.jpg", Caption: "first"},
			{URL: "/media/photos/uploads/b.jpg"},
		},
	}

	BuildStory(&viewData, config, time.UTC, now)

	assert.True(t, viewData.IsConfigured)
	assert.Equal(t, "Ana & Leo", viewData.CoupleName)
	assert.Equal(t, "/media/music/uploads/song.mp3", viewData.BackgroundMusicURL)

	require.True(t, viewData.Counter.Configured)
	assert.Equal(t, counter.Breakdown{Years: 1, Months: 2}, viewData.Counter.Breakdown)
	assert.Equal(t, "and counting", viewData.Counter.CustomPhrase)

	assert.Equal(t, 2, viewData.Carousel.Count)
	assert.Equal(t, "Ana & Leo", viewData.Carousel.CoupleName)
	require.Len(t, viewData.Photos, 2)
	assert.True(t, viewData.Photos[0].IsActive)
	assert.False(t, viewData.Photos[1].IsActive)
	assert.Equal(t, "first", viewData.Photos[0].Caption)
}

func TestBuildStory_InvalidStartDateShowsPrompt(t *testing.T) {
	viewData := viewmodels.HomePage{}

	BuildStory(&viewData, &models.CoupleConfig{RelationshipStart: "someday"}, time.UTC, now)

	assert.True(t, viewData.IsConfigured)
	assert.False(t, viewData.Counter.Configured)
}
