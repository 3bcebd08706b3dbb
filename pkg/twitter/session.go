package twitter

import (
	"encoding/json"
	"net/http"

	errs "github.com/press-rouch/twitter-archive-parser/pkg/errors"
)

// guestActivatePath is the undocumented guest token activation endpoint
const guestActivatePath = "/1.1/guest/activate.json"

// EnsureGuestToken exchanges the bearer credential for a fresh guest token
// and installs it into the session headers. The previous token, if any, is
// replaced.
func (c *Client) EnsureGuestToken() error {
	resp, err := c.do(http.MethodPost, c.apiBase+guestActivatePath)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errs.NewWithCode(errs.ErrorTypeAuth, resp.StatusCode,
			"guest token activation failed: "+truncate(resp.Body, 200))
	}

	var activation struct {
		GuestToken string `json:"guest_token"`
	}
	if err := json.Unmarshal(resp.Body, &activation); err != nil {
		return errs.Newf(errs.ErrorTypeAuth, "failed to parse guest token response: %v", err)
	}
	if activation.GuestToken == "" {
		return errs.New(errs.ErrorTypeAuth, "no guest_token in activation response")
	}

	c.headers["x-guest-token"] = activation.GuestToken
	c.logger.InfoWithFields("guest token acquired", map[string]interface{}{
		"token": activation.GuestToken,
	})
	return nil
}

// Get performs a GET with the session headers. On HTTP 429 the guest token
// is refreshed once and the request repeated exactly once; any other
// non-200 status is returned to the caller for inspection. There is no
// speculative refresh: a token is only replaced after the server rejects it.
func (c *Client) Get(url string) (*Response, error) {
	resp, err := c.do(http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.WarnWithFields("rate limited, requesting new guest token", map[string]interface{}{
			"url": url,
		})
		if err := c.EnsureGuestToken(); err != nil {
			return nil, err
		}
		return c.do(http.MethodGet, url)
	}

	return resp, nil
}
