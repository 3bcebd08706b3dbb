package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/press-rouch/twitter-archive-parser/internal/downloader"
	"github.com/press-rouch/twitter-archive-parser/pkg/config"
	"github.com/press-rouch/twitter-archive-parser/pkg/logger"
	"github.com/press-rouch/twitter-archive-parser/pkg/ratelimit"
	"github.com/press-rouch/twitter-archive-parser/pkg/schema"
	"github.com/press-rouch/twitter-archive-parser/pkg/scraper"
	"github.com/press-rouch/twitter-archive-parser/pkg/storage"
	"github.com/press-rouch/twitter-archive-parser/pkg/twitter"
)

var (
	cfg *config.Config

	configFile        string
	logLevel          string
	requestsPerMinute int
)

var rootCmd = &cobra.Command{
	Use:   "twitterarchive",
	Short: "Supplement an exported Twitter archive with full metadata and media",
	Long: `twitterarchive fills the gaps in an exported Twitter archive. The export
only carries identifiers for likes and follows; this tool fetches the full
records through the guest API and downloads the referenced media.

Runs are resumable: results are checkpointed next to the archive, and a
rerun only fetches what is still missing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := map[string]interface{}{}
		if cmd.Flags().Changed("log-level") {
			flags["log-level"] = logLevel
		}
		if cmd.Flags().Changed("requests-per-minute") {
			flags["requests-per-minute"] = requestsPerMinute
		}

		loaded, err := config.Load(configFile, flags)
		if err != nil {
			return err
		}
		cfg = loaded
		return logger.Initialize(&cfg.Logging)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default searches for .twitterarchive.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&requestsPerMinute, "requests-per-minute", 60, "API request pacing, 0 disables")

	rootCmd.AddCommand(likesCmd)
	rootCmd.AddCommand(followsCmd)
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.WithError(err).Error("command failed")
		return err
	}
	return nil
}

// newScraper builds the full request pipeline for a run: token discovery,
// guest session, adaptive query engine, and the media downloader rooted
// at the archive directory.
func newScraper(archiveDir string, withMedia bool) (*scraper.Scraper, error) {
	log := logger.GetLogger()

	client := twitter.NewClient(
		cfg.Twitter.APIBase,
		cfg.Twitter.UserAgent,
		cfg.Twitter.HTTPTimeout,
		ratelimit.ForRate(cfg.RateLimit.RequestsPerMinute),
		log,
	)

	log.Info("discovering API credentials")
	discovered, err := client.Discover(cfg.Twitter.BootstrapURL)
	if err != nil {
		return nil, err
	}
	client.SetBearer(discovered.Bearer)

	if err := client.EnsureGuestToken(); err != nil {
		return nil, err
	}

	store, err := schema.NewStore(filepath.Join(archiveDir, cfg.Twitter.SchemaDir), log)
	if err != nil {
		return nil, err
	}
	engine := twitter.NewEngine(client, store, discovered.QueryIDs,
		cfg.Twitter.GraphQLBase, cfg.Twitter.SchemaRetryLimit, log)

	var media scraper.MediaFetcher
	if withMedia {
		manager, err := storage.NewManager(filepath.Join(archiveDir, cfg.Media.Directory))
		if err != nil {
			return nil, err
		}
		media = downloader.New(manager, &cfg.Media, log)
	}

	return scraper.New(engine, media, log), nil
}
