package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/press-rouch/twitter-archive-parser/pkg/scraper"
)

var (
	followsFollowing bool
	followsFollower  bool
)

var followsCmd = &cobra.Command{
	Use:   "follows <archive-dir>",
	Short: "Fetch account metadata for followed and follower accounts",
	Long: `follows reads data/following.js and data/follower.js from the extracted
archive and fetches each account's full record. Both lists share the
accounts.json checkpoint, so an account appearing in both is fetched once.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !followsFollowing && !followsFollower {
			return fmt.Errorf("nothing to do: pass --following, --follower, or both")
		}

		s, err := newScraper(args[0], false)
		if err != nil {
			return err
		}

		return s.RunFollows(cmd.Context(), scraper.FollowsOptions{
			ArchiveDir: args[0],
			Following:  followsFollowing,
			Follower:   followsFollower,
		})
	},
}

func init() {
	followsCmd.Flags().BoolVar(&followsFollowing, "following", false, "process accounts you follow")
	followsCmd.Flags().BoolVar(&followsFollower, "follower", false, "process accounts following you")
}
