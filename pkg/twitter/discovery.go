package twitter

import (
	"net/http"
	"net/url"
	"regexp"

	errs "github.com/press-rouch/twitter-archive-parser/pkg/errors"
)

// DiscoveryResult holds the credentials scraped from the web app's served
// scripts: the bearer token embedded in a bundle, and the mapping from
// logical query names to the opaque query IDs the server expects.
type DiscoveryResult struct {
	Bearer   string
	QueryIDs map[string]string
}

var (
	scriptSrcPattern = regexp.MustCompile(`<script[^>]+src="([^"]+\.js)"`)
	bundleURLPattern = regexp.MustCompile(`https://abs\.twimg\.com/[^"'\s]+\.js`)
	bearerPattern    = regexp.MustCompile(`(AAAAAAAAAAAAAAAAAAAAA[A-Za-z0-9%]{20,})`)
	queryPairPattern = regexp.MustCompile(`queryId\s*:\s*"([^"]+)"\s*,\s*operationName\s*:\s*"([^"]+)"`)
)

// Discover fetches the bootstrap page, walks its referenced scripts, and
// scrapes them for a bearer token and query ID pairs. Scanning stops as
// soon as both have been found. Results are never cached across runs; the
// served bundles change over time.
func (c *Client) Discover(bootstrapURL string) (*DiscoveryResult, error) {
	page, err := c.do(http.MethodGet, bootstrapURL)
	if err != nil {
		return nil, err
	}
	if page.StatusCode != http.StatusOK {
		return nil, errs.NewWithCode(errs.ErrorTypeDiscovery, page.StatusCode,
			"bootstrap page fetch failed")
	}

	scripts := scriptURLs(bootstrapURL, page.Body)
	if len(scripts) == 0 {
		return nil, errs.New(errs.ErrorTypeDiscovery, "bootstrap page references no scripts")
	}
	c.logger.InfoWithFields("scanning script bundles", map[string]interface{}{
		"count": len(scripts),
	})

	result := &DiscoveryResult{QueryIDs: make(map[string]string)}
	for _, scriptURL := range scripts {
		resp, err := c.do(http.MethodGet, scriptURL)
		if err != nil {
			c.logger.WithError(err).WithField("url", scriptURL).Warn("script fetch failed, skipping")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			c.logger.WarnWithFields("script fetch returned non-200, skipping", map[string]interface{}{
				"url":    scriptURL,
				"status": resp.StatusCode,
			})
			continue
		}

		if result.Bearer == "" {
			if m := bearerPattern.FindSubmatch(resp.Body); m != nil {
				result.Bearer = string(m[1])
				c.logger.WithField("url", scriptURL).Info("bearer token found")
			}
		}
		for _, m := range queryPairPattern.FindAllSubmatch(resp.Body, -1) {
			result.QueryIDs[string(m[2])] = string(m[1])
		}

		if result.Bearer != "" && len(result.QueryIDs) > 0 {
			break
		}
	}

	if result.Bearer == "" {
		return nil, errs.New(errs.ErrorTypeDiscovery, "no bearer token found in any script bundle")
	}
	if len(result.QueryIDs) == 0 {
		return nil, errs.New(errs.ErrorTypeDiscovery, "no query ids found in any script bundle")
	}

	c.logger.InfoWithFields("discovery complete", map[string]interface{}{
		"query_ids": len(result.QueryIDs),
	})
	return result, nil
}

// scriptURLs extracts every script URL referenced by the bootstrap page:
// script tag src attributes plus absolute bundle URLs mentioned in inline
// code. Relative srcs are resolved against the page URL.
func scriptURLs(pageURL string, body []byte) []string {
	base, baseErr := url.Parse(pageURL)

	var out []string
	seen := make(map[string]bool)
	add := func(raw string) {
		if raw == "" || seen[raw] {
			return
		}
		seen[raw] = true
		out = append(out, raw)
	}

	for _, m := range scriptSrcPattern.FindAllSubmatch(body, -1) {
		src := string(m[1])
		if baseErr == nil {
			if ref, err := url.Parse(src); err == nil {
				src = base.ResolveReference(ref).String()
			}
		}
		add(src)
	}
	for _, m := range bundleURLPattern.FindAll(body, -1) {
		add(string(m))
	}
	return out
}
