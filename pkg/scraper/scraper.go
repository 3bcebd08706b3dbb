package scraper

import (
	"context"
	"path/filepath"

	"github.com/press-rouch/twitter-archive-parser/pkg/archive"
	"github.com/press-rouch/twitter-archive-parser/pkg/logger"
	"github.com/press-rouch/twitter-archive-parser/pkg/twitter"
)

// QueryEngine issues named GraphQL queries for single identifiers
type QueryEngine interface {
	Fetch(name, idVariable, id string) ([]byte, error)
}

// MediaFetcher downloads one media URL into the output directory
type MediaFetcher interface {
	Fetch(url string) error
}

// Scraper walks identifier lists from an exported archive, fetches what
// the archive omits, and checkpoints results so reruns pick up where the
// last run stopped. All work is sequential.
type Scraper struct {
	engine QueryEngine
	media  MediaFetcher
	logger logger.Logger
}

// New creates a scraper. media may be nil when no media stage will run.
func New(engine QueryEngine, media MediaFetcher, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{engine: engine, media: media, logger: log}
}

// LikesOptions configures a likes run
type LikesOptions struct {
	// ArchiveDir is the root of the extracted archive
	ArchiveDir string
	// SkipMetadata skips tweet fetching and goes straight to media
	SkipMetadata bool
	// SkipImages skips the image download stage
	SkipImages bool
	// SkipVideos skips the video download stage
	SkipVideos bool
}

// RunLikes fetches full metadata and media for the archive's liked
// tweets. Progress is saved to likes.json whether the run completes, hits
// a fatal error, or is interrupted; an interrupt also skips the media
// stages.
func (s *Scraper) RunLikes(ctx context.Context, opts LikesOptions) error {
	resultsPath := filepath.Join(opts.ArchiveDir, archive.LikesFile)
	results, err := archive.LoadResults(resultsPath)
	if err != nil {
		return err
	}

	if !opts.SkipMetadata {
		contents, err := archive.ReadDataFile(filepath.Join(opts.ArchiveDir, "data", "like.js"))
		if err != nil {
			return err
		}
		ids := archive.TweetIDs(contents)
		s.logger.InfoWithFields("processing liked tweets", map[string]interface{}{
			"total":   len(ids),
			"settled": len(results),
		})

		fetchErr := s.FetchTweets(ctx, ids, results)
		if saveErr := archive.SaveResults(resultsPath, results); saveErr != nil {
			s.logger.WithError(saveErr).Error("failed to save results")
			if fetchErr == nil {
				fetchErr = saveErr
			}
		}
		if fetchErr != nil {
			return fetchErr
		}
		s.logger.InfoWithFields("tweet metadata complete", map[string]interface{}{
			"fetched":    len(results),
			"tombstones": results.Tombstones(),
		})
	}

	if !opts.SkipImages && s.media != nil {
		if err := s.downloadImages(ctx, results); err != nil {
			return err
		}
	}
	if !opts.SkipVideos && s.media != nil {
		if err := s.downloadVideos(ctx, results); err != nil {
			return err
		}
	}
	return nil
}

// FollowsOptions configures a follows run
type FollowsOptions struct {
	// ArchiveDir is the root of the extracted archive
	ArchiveDir string
	// Following processes data/following.js
	Following bool
	// Follower processes data/follower.js
	Follower bool
}

// RunFollows fetches account metadata for followed and follower accounts.
// Both lists accumulate into the same accounts.json checkpoint.
func (s *Scraper) RunFollows(ctx context.Context, opts FollowsOptions) error {
	resultsPath := filepath.Join(opts.ArchiveDir, archive.AccountsFile)
	results, err := archive.LoadResults(resultsPath)
	if err != nil {
		return err
	}

	var ids []string
	files := map[string]bool{"following.js": opts.Following, "follower.js": opts.Follower}
	for _, name := range []string{"following.js", "follower.js"} {
		if !files[name] {
			continue
		}
		contents, err := archive.ReadDataFile(filepath.Join(opts.ArchiveDir, "data", name))
		if err != nil {
			return err
		}
		ids = append(ids, archive.AccountIDs(contents)...)
	}
	s.logger.InfoWithFields("processing accounts", map[string]interface{}{
		"total":   len(ids),
		"settled": len(results),
	})

	fetchErr := s.FetchAccounts(ctx, ids, results)
	if saveErr := archive.SaveResults(resultsPath, results); saveErr != nil {
		s.logger.WithError(saveErr).Error("failed to save results")
		if fetchErr == nil {
			fetchErr = saveErr
		}
	}
	if fetchErr != nil {
		return fetchErr
	}

	s.logger.InfoWithFields("account metadata complete", map[string]interface{}{
		"fetched":    len(results),
		"tombstones": results.Tombstones(),
	})
	return nil
}

// FetchTweets fetches every identifier not already settled in results,
// recording full records and tombstones alike. It stops early on a fatal
// error or context cancellation; results accumulates either way.
func (s *Scraper) FetchTweets(ctx context.Context, ids []string, results archive.ResultMap) error {
	return s.fetchAll(ctx, ids, results, func(id string) (twitter.Record, error) {
		body, err := s.engine.Fetch(twitter.QueryTweetDetail, twitter.VarFocalTweetID, id)
		if err != nil {
			return nil, err
		}
		return twitter.NormalizeTweet(body, id)
	})
}

// FetchAccounts is FetchTweets for account identifiers
func (s *Scraper) FetchAccounts(ctx context.Context, ids []string, results archive.ResultMap) error {
	return s.fetchAll(ctx, ids, results, func(id string) (twitter.Record, error) {
		body, err := s.engine.Fetch(twitter.QueryUserByRestID, twitter.VarUserID, id)
		if err != nil {
			return nil, err
		}
		return twitter.NormalizeUser(body)
	})
}

func (s *Scraper) fetchAll(ctx context.Context, ids []string, results archive.ResultMap, fetch func(id string) (twitter.Record, error)) error {
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("interrupted, saving progress")
			return err
		}
		if results.Has(id) {
			continue
		}

		rec, err := fetch(id)
		switch classify(err) {
		case OutcomeFatal:
			s.logger.WithError(err).WithField("id", id).Error("unrecoverable error, stopping")
			return err
		case OutcomeSkipped:
			s.logger.WarnWithFields("skipping item", map[string]interface{}{
				"id":    id,
				"error": err.Error(),
			})
			continue
		}

		results[id] = rec
		if rec == nil {
			s.logger.WithField("id", id).Info("item no longer exists, recorded tombstone")
		} else {
			s.logger.DebugWithFields("item fetched", map[string]interface{}{
				"id":       id,
				"progress": i + 1,
				"total":    len(ids),
			})
		}
	}
	return nil
}

// downloadImages fetches every image attached to the fetched tweets.
// Individual failures are logged and do not stop the stage.
func (s *Scraper) downloadImages(ctx context.Context, results archive.ResultMap) error {
	count := 0
	for _, rec := range results {
		if rec == nil {
			continue
		}
		for _, u := range twitter.ImageURLs(rec) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.media.Fetch(u); err != nil {
				s.logger.WithError(err).WithField("url", u).Error("image download failed")
				continue
			}
			count++
		}
	}
	s.logger.WithField("count", count).Info("image downloads complete")
	return nil
}

// downloadVideos fetches the best variant of every video attached to the
// fetched tweets
func (s *Scraper) downloadVideos(ctx context.Context, results archive.ResultMap) error {
	count := 0
	for id, rec := range results {
		if rec == nil {
			continue
		}
		for _, variants := range twitter.VideoVariants(rec) {
			if err := ctx.Err(); err != nil {
				return err
			}
			best, ok := twitter.BestVariant(variants)
			if !ok {
				s.logger.WithField("id", id).Error("video has no variant with a declared bitrate")
				continue
			}
			if err := s.media.Fetch(best.URL); err != nil {
				s.logger.WithError(err).WithField("url", best.URL).Error("video download failed")
				continue
			}
			count++
		}
	}
	s.logger.WithField("count", count).Info("video downloads complete")
	return nil
}
