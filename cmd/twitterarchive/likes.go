package main

import (
	"github.com/spf13/cobra"

	"github.com/press-rouch/twitter-archive-parser/pkg/scraper"
)

var (
	likesSkipMetadata bool
	likesSkipImages   bool
	likesSkipVideos   bool
)

var likesCmd = &cobra.Command{
	Use:   "likes <archive-dir>",
	Short: "Fetch full metadata and media for liked tweets",
	Long: `likes reads data/like.js from the extracted archive, fetches the full
record of every liked tweet, and downloads attached images and videos.
Results accumulate in likes.json next to the archive; tweets that no
longer exist are recorded so reruns skip them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archiveDir := args[0]

		withMedia := !likesSkipImages || !likesSkipVideos
		s, err := newScraper(archiveDir, withMedia)
		if err != nil {
			return err
		}

		return s.RunLikes(cmd.Context(), scraper.LikesOptions{
			ArchiveDir:   archiveDir,
			SkipMetadata: likesSkipMetadata,
			SkipImages:   likesSkipImages,
			SkipVideos:   likesSkipVideos,
		})
	},
}

func init() {
	likesCmd.Flags().BoolVar(&likesSkipMetadata, "skip-metadata", false, "skip tweet fetching, only download media for existing results")
	likesCmd.Flags().BoolVar(&likesSkipImages, "skip-images", false, "skip the image download stage")
	likesCmd.Flags().BoolVar(&likesSkipVideos, "skip-videos", false, "skip the video download stage")
}
