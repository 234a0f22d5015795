package main

import (
	"fmt"
	"strings"

	"github.com/adampresley/couplestory/pkg/counter"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/storyclient"
	"github.com/charmbracelet/lipgloss"
)

var (
	primary = lipgloss.Color("#FF6B6B")
	muted   = lipgloss.Color("#9CA3AF")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	labelStyle   = lipgloss.NewStyle().Foreground(muted).Width(14)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1)
)

func renderNotConfigured() string {
	return warningStyle.Render("The story has not been set up yet. Use `storyctl set` to start.")
}

func renderConfig(config *models.CoupleConfig) string {
	lines := []string{
		titleStyle.Render("♥ " + config.DisplayName()),
		field("Together since", valueOrDash(config.RelationshipStart)),
		field("Phrase", valueOrDash(config.CustomPhrase)),
		field("Music", valueOrDash(config.BackgroundMusicURL)),
		field("Photos", fmt.Sprintf("%d", len(config.Photos))),
	}

	for index, photo := range config.Photos {
		line := fmt.Sprintf("  %d. %s", index+1, photo.URL)

		if photo.Caption != "" {
			line += mutedStyle.Render(" (" + photo.Caption + ")")
		}

		lines = append(lines, line)
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderCounter(view counter.View) string {
	if !view.Configured {
		return warningStyle.Render(view.Prompt)
	}

	lines := []string{
		titleStyle.Render("Together"),
		view.DateLine(),
		mutedStyle.Render(view.TimeLine()),
	}

	if view.CustomPhrase != "" {
		lines = append(lines, "", fmt.Sprintf("%q", view.CustomPhrase))
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderUpload(filename string, result storyclient.UploadResult) string {
	if result.IsMock {
		message := "storage not available, using a placeholder"

		if result.Error != "" {
			message = result.Error
		}

		return warningStyle.Render(fmt.Sprintf("%s: %s", filename, message)) + "\n" + result.FileURL
	}

	return successStyle.Render(filename+" uploaded") + "\n" + result.FileURL
}

func field(label, value string) string {
	return labelStyle.Render(label) + value
}

func valueOrDash(value string) string {
	if value == "" {
		return mutedStyle.Render("-")
	}

	return value
}
