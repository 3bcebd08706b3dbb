package downloader

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/press-rouch/twitter-archive-parser/pkg/config"
	errs "github.com/press-rouch/twitter-archive-parser/pkg/errors"
	"github.com/press-rouch/twitter-archive-parser/pkg/logger"
	"github.com/press-rouch/twitter-archive-parser/pkg/retry"
	"github.com/press-rouch/twitter-archive-parser/pkg/storage"
)

// Downloader fetches media files sequentially into a managed directory
type Downloader struct {
	httpClient *http.Client
	store      *storage.Manager
	retryCfg   *retry.Config
	logger     logger.Logger
}

// New creates a downloader writing into store
func New(store *storage.Manager, cfg *config.MediaConfig, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	timeout := cfg.DownloadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Downloader{
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		retryCfg: &retry.Config{
			MaxAttempts: cfg.RetryAttempts,
			Delay:       cfg.RetryDelay,
			RetryIf:     retry.DefaultRetryIf,
			Logger:      log,
		},
		logger: log,
	}
}

// FileName derives the local file name for a media URL: the last path
// segment with any query string dropped.
func FileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.IndexByte(rawURL, '?'); i >= 0 {
			rawURL = rawURL[:i]
		}
		return path.Base(rawURL)
	}
	return path.Base(u.Path)
}

// Fetch downloads a media URL into the managed directory. A local file
// whose size matches the server's Content-Length is left alone, so reruns
// only transfer what is missing or incomplete. Failures are returned for
// the caller to log; they never affect other downloads.
func (d *Downloader) Fetch(rawURL string) error {
	name := FileName(rawURL)
	if name == "" || name == "." || name == "/" {
		return errs.Newf(errs.ErrorTypeParsing, "cannot derive file name from %s", rawURL)
	}

	if size, exists := d.store.Size(name); exists {
		if d.matchesRemoteSize(rawURL, size) {
			d.logger.DebugWithFields("media file already exists", map[string]interface{}{
				"file": name,
				"size": size,
			})
			return nil
		}
		d.logger.WarnWithFields("local media file incomplete, re-downloading", map[string]interface{}{
			"file": name,
		})
	}

	return retry.Do(func() error {
		return d.download(rawURL, name)
	}, d.retryCfg)
}

// matchesRemoteSize checks the local size against the server's declared
// Content-Length. Any uncertainty counts as a mismatch.
func (d *Downloader) matchesRemoteSize(rawURL string, localSize int64) bool {
	resp, err := d.httpClient.Head(rawURL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK && resp.ContentLength == localSize
}

func (d *Downloader) download(rawURL, name string) error {
	resp, err := d.httpClient.Get(rawURL)
	if err != nil {
		return errs.Newf(errs.ErrorTypeNetwork, "media fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return errs.NewWithCode(errs.ErrorTypeHTTP, resp.StatusCode,
			fmt.Sprintf("media fetch for %s returned %d", name, resp.StatusCode))
	}

	if err := d.store.Save(name, resp.Body); err != nil {
		return err
	}

	d.logger.InfoWithFields("media file downloaded", map[string]interface{}{
		"file": name,
	})
	return nil
}
