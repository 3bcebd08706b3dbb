package twitter

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Logical query names used by the archive tool. The opaque query IDs that
// pair with them are discovered at startup from the web app's script
// bundles; they change whenever the deployment changes.
const (
	QueryTweetDetail  = "TweetDetail"
	QueryUserByRestID = "UserByRestId"
)

// Caller-specific variable names injected per request
const (
	VarFocalTweetID = "focalTweetId"
	VarUserID       = "userId"
)

// BuildQueryURL assembles a GraphQL query URL. Variables and features are
// each JSON-encoded and then percent-encoded, matching what the web app
// sends.
func BuildQueryURL(base, queryID, name string, variables, features map[string]interface{}) string {
	v, _ := json.Marshal(variables)
	f, _ := json.Marshal(features)
	return fmt.Sprintf("%s/%s/%s?variables=%s&features=%s",
		base, queryID, name, url.QueryEscape(string(v)), url.QueryEscape(string(f)))
}
