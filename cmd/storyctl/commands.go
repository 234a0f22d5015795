package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/adampresley/couplestory/cmd/storyctl/internal/cliconfig"
	"github.com/adampresley/couplestory/pkg/counter"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/storyclient"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
	serverURL  string
	logLevel   string
}

func rootCmd() *cobra.Command {
	options := &globalOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Manage a couple story page from the terminal",
		Long: `storyctl talks to a running story server. It can show and change the
story settings, upload photos and music, and follow the together counter.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&options.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&options.serverURL, "server", "", "Story server base URL")
	cmd.PersistentFlags().StringVar(&options.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		showCmd(options),
		setCmd(options),
		uploadCmd(options),
		counterCmd(options),
		versionCmd(),
	)

	return cmd
}

/*
setup loads the config, applies flag overrides, installs the logger and
builds a client.
*/
func setup(options *globalOptions) (*storyclient.Client, error) {
	config, err := cliconfig.Load(options.configPath)

	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if options.serverURL != "" {
		config.Server.BaseURL = options.serverURL
	}

	if options.logLevel != "" {
		config.LogLevel = options.logLevel
	}

	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))
	slog.SetDefault(logger.With("app", appName))

	return storyclient.New(storyclient.Config{
		BaseURL:        config.Server.BaseURL,
		CacheTTL:       config.CacheTTL,
		RequestTimeout: config.Server.RequestTimeout,
		UploadTimeout:  config.Server.UploadTimeout,
	}), nil
}

func showCmd(options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current story settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := setup(options)

			if err != nil {
				return err
			}

			configs := client.List(cmd.Context())

			if len(configs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderNotConfigured())
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderConfig(&configs[0]))
			return nil
		},
	}
}

type setOptions struct {
	name   string
	start  string
	phrase string
	music  string
}

func setCmd(options *globalOptions) *cobra.Command {
	values := &setOptions{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change story settings. Only the flags given are changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := setup(options)

			if err != nil {
				return err
			}

			flags := cmd.Flags()

			if !flags.Changed("name") && !flags.Changed("start") && !flags.Changed("phrase") && !flags.Changed("music") {
				return fmt.Errorf("nothing to change, pass at least one of --name, --start, --phrase or --music")
			}

			if flags.Changed("start") {
				if _, err = counter.ParseStartDate(values.start, time.Local); err != nil {
					return err
				}
			}

			existing := currentConfig(cmd.Context(), client)
			request := requestFrom(existing)

			if flags.Changed("name") {
				request.CoupleName = values.name
			}

			if flags.Changed("start") {
				request.RelationshipStart = values.start
			}

			if flags.Changed("phrase") {
				request.CustomPhrase = values.phrase
			}

			if flags.Changed("music") {
				request.BackgroundMusicURL = values.music
			}

			saved, err := save(cmd.Context(), client, existing, request)

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Story saved."))
			fmt.Fprintln(cmd.OutOrStdout(), renderConfig(saved))
			return nil
		},
	}

	cmd.Flags().StringVar(&values.name, "name", "", "Couple name")
	cmd.Flags().StringVar(&values.start, "start", "", "Relationship start, e.g. 2023-01-10T12:00")
	cmd.Flags().StringVar(&values.phrase, "phrase", "", "Custom phrase shown under the counter")
	cmd.Flags().StringVar(&values.music, "music", "", "Background music URL")

	return cmd
}

func uploadCmd(options *globalOptions) *cobra.Command {
	var (
		add     bool
		caption string
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a photo or song",
		Long: `Upload a photo or song to the story server. With --add, a photo is
appended to the story and a song becomes the background music.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := setup(options)

			if err != nil {
				return err
			}

			f, err := os.Open(args[0])

			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}

			defer f.Close()

			filename := filepath.Base(args[0])
			result, err := client.Upload(cmd.Context(), filename, f)

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderUpload(filename, result))

			if !add {
				return nil
			}

			existing := currentConfig(cmd.Context(), client)
			request := requestFrom(existing)

			if isAudio(filename) {
				request.BackgroundMusicURL = result.FileURL
			} else {
				request.Photos = append(request.Photos, models.PhotoReference{URL: result.FileURL, Caption: caption})
			}

			if _, err = save(cmd.Context(), client, existing, request); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Added to the story."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&add, "add", false, "Add the upload to the story")
	cmd.Flags().StringVar(&caption, "caption", "", "Caption for an added photo")

	return cmd
}

func counterCmd(options *globalOptions) *cobra.Command {
	var (
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Show how long you have been together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := setup(options)

			if err != nil {
				return err
			}

			if !watch {
				view, err := client.Counter(cmd.Context())

				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderCounter(view))
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watchCounter(ctx, client, cmd, time.Second)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep updating every second until interrupted")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}

/*
watchCounter prints the counter every interval. A failed fetch is reported
and retried on the next tick.
*/
func watchCounter(ctx context.Context, client *storyclient.Client, cmd *cobra.Command, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		view, err := client.Counter(ctx)

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(err.Error()))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), renderCounter(view))
		}

		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
		}
	}
}

func currentConfig(ctx context.Context, client *storyclient.Client) *models.CoupleConfig {
	configs := client.List(ctx)

	if len(configs) == 0 {
		return nil
	}

	return &configs[0]
}

func requestFrom(config *models.CoupleConfig) models.CoupleConfigRequest {
	request := models.CoupleConfigRequest{
		Photos: []models.PhotoReference{},
	}

	if config == nil {
		return request
	}

	request.CoupleName = config.CoupleName
	request.RelationshipStart = config.RelationshipStart
	request.CustomPhrase = config.CustomPhrase
	request.BackgroundMusicURL = config.BackgroundMusicURL

	for _, photo := range config.Photos {
		request.Photos = append(request.Photos, models.PhotoReference{URL: photo.URL, Caption: photo.Caption})
	}

	return request
}

func save(ctx context.Context, client *storyclient.Client, existing *models.CoupleConfig, request models.CoupleConfigRequest) (*models.CoupleConfig, error) {
	if existing != nil {
		return client.Update(ctx, existing.ID, request)
	}

	return client.Create(ctx, request)
}

func isAudio(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3", ".wav", ".ogg":
		return true
	}

	return false
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug

	case "info":
		return slog.LevelInfo

	case "error":
		return slog.LevelError

	default:
		return slog.LevelWarn
	}
}
