package twitter

import (
	"fmt"
	"io"
	"net/http"
	"time"

	errs "github.com/press-rouch/twitter-archive-parser/pkg/errors"
	"github.com/press-rouch/twitter-archive-parser/pkg/logger"
	"github.com/press-rouch/twitter-archive-parser/pkg/ratelimit"
)

// Response is a completed HTTP exchange. Body is fully read and the
// connection released before the Response is returned.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client holds the session context for guest API access: HTTP transport,
// request headers, and the credentials installed into them. Credentials
// live only in memory for the lifetime of the process.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	limiter    ratelimit.Limiter
	logger     logger.Logger
	apiBase    string
}

// NewClient creates a guest API client. The bearer credential is installed
// later, once token discovery has run.
func NewClient(apiBase, userAgent string, timeout time.Duration, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "*/*",
			"Accept-Language": "en-US,en;q=0.9",
		},
		limiter: limiter,
		logger:  log,
		apiBase: apiBase,
	}
}

// SetHeader sets a header sent on every subsequent request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetBearer installs the bearer credential discovered from script bundles
func (c *Client) SetBearer(token string) {
	c.headers["Authorization"] = "Bearer " + token
}

// do performs a single HTTP request with the session headers and drains
// the body. Transport failures are classified as network errors.
func (c *Client) do(method, url string) (*Response, error) {
	c.limiter.Wait()

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeNetwork, "failed to create request: %v", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method": method,
			"url":    url,
			"error":  err.Error(),
		})
		return nil, errs.Newf(errs.ErrorTypeNetwork, "network error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeNetwork, "failed to read response body: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   method,
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// truncate shortens a response body for log output
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return fmt.Sprintf("%s...", b[:n])
}
