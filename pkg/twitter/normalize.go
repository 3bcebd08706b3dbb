package twitter

import (
	"encoding/json"
	"strings"

	errs "github.com/press-rouch/twitter-archive-parser/pkg/errors"
)

// Record is a normalized tweet or account in legacy wire form, ready to
// be persisted into the result map.
type Record map[string]interface{}

// NormalizeTweet extracts the legacy tweet record for id from a
// TweetDetail response body. A tombstone entry for the focal tweet
// returns (nil, nil): the tweet is confirmed gone and the caller should
// record that rather than retry. The tweet author's reduced profile is
// attached under the "user" key.
func NormalizeTweet(body []byte, id string) (Record, error) {
	var envelope struct {
		Data struct {
			ThreadedConversation struct {
				Instructions []struct {
					Entries []struct {
						EntryID string          `json:"entryId"`
						Content json.RawMessage `json:"content"`
					} `json:"entries"`
				} `json:"instructions"`
			} `json:"threaded_conversation_with_injections_v2"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errs.Newf(errs.ErrorTypeParsing, "decoding tweet response for %s: %v", id, err)
	}

	for _, ins := range envelope.Data.ThreadedConversation.Instructions {
		for _, entry := range ins.Entries {
			switch entry.EntryID {
			case "tombstone-" + id:
				return nil, nil
			case "tweet-" + id:
				return tweetFromEntry(entry.Content, id)
			}
		}
	}
	return nil, errs.Newf(errs.ErrorTypeParsing, "no entry for tweet %s in response", id)
}

func tweetFromEntry(content json.RawMessage, id string) (Record, error) {
	var entry struct {
		ItemContent struct {
			TweetResults struct {
				Result map[string]interface{} `json:"result"`
			} `json:"tweet_results"`
		} `json:"itemContent"`
	}
	if err := json.Unmarshal(content, &entry); err != nil {
		return nil, errs.Newf(errs.ErrorTypeParsing, "decoding tweet entry for %s: %v", id, err)
	}

	result := entry.ItemContent.TweetResults.Result
	typename, _ := result["__typename"].(string)
	switch typename {
	case "Tweet":
		// direct result
	case "TweetWithVisibilityResults":
		inner, ok := result["tweet"].(map[string]interface{})
		if !ok {
			return nil, errs.Newf(errs.ErrorTypeParsing, "visibility wrapper for %s has no tweet", id)
		}
		result = inner
	default:
		return nil, errs.Newf(errs.ErrorTypeUnknownShape, "tweet %s has unrecognized result type %q", id, typename)
	}

	legacy, ok := result["legacy"].(map[string]interface{})
	if !ok {
		return nil, errs.Newf(errs.ErrorTypeParsing, "tweet %s has no legacy payload", id)
	}

	rec := Record(legacy)
	if user := reduceUser(result); user != nil {
		rec["user"] = user
	}
	return rec, nil
}

// reduceUser pulls the handful of author fields worth keeping out of the
// full core user result embedded in a tweet.
func reduceUser(result map[string]interface{}) map[string]interface{} {
	core, ok := result["core"].(map[string]interface{})
	if !ok {
		return nil
	}
	userResults, ok := core["user_results"].(map[string]interface{})
	if !ok {
		return nil
	}
	userResult, ok := userResults["result"].(map[string]interface{})
	if !ok {
		return nil
	}
	legacy, ok := userResult["legacy"].(map[string]interface{})
	if !ok {
		return nil
	}

	user := map[string]interface{}{}
	for _, field := range []string{"name", "screen_name", "profile_image_url_https", "verified"} {
		if v, ok := legacy[field]; ok {
			user[field] = v
		}
	}
	if urls := expandedURLs(legacy); len(urls) > 0 {
		user["urls"] = urls
	}
	return user
}

func expandedURLs(legacy map[string]interface{}) []string {
	entities, ok := legacy["entities"].(map[string]interface{})
	if !ok {
		return nil
	}
	urlBlock, ok := entities["url"].(map[string]interface{})
	if !ok {
		return nil
	}
	rawURLs, ok := urlBlock["urls"].([]interface{})
	if !ok {
		return nil
	}
	var urls []string
	for _, raw := range rawURLs {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if expanded, ok := entry["expanded_url"].(string); ok && expanded != "" {
			urls = append(urls, expanded)
		}
	}
	return urls
}

// NormalizeUser extracts the legacy account record from a UserByRestId
// response body. Suspended or deactivated accounts come back as
// UserUnavailable and normalize to (nil, nil). The numeric account ID is
// injected as id_str when the legacy payload lacks it.
func NormalizeUser(body []byte) (Record, error) {
	var envelope struct {
		Data struct {
			User struct {
				Result map[string]interface{} `json:"result"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errs.Newf(errs.ErrorTypeParsing, "decoding user response: %v", err)
	}

	result := envelope.Data.User.Result
	typename, _ := result["__typename"].(string)
	switch typename {
	case "User":
	case "UserUnavailable":
		return nil, nil
	default:
		return nil, errs.Newf(errs.ErrorTypeUnknownShape, "user result has unrecognized type %q", typename)
	}

	legacy, ok := result["legacy"].(map[string]interface{})
	if !ok {
		return nil, errs.New(errs.ErrorTypeParsing, "user result has no legacy payload")
	}

	rec := Record(legacy)
	if _, has := rec["id_str"]; !has {
		if restID, ok := result["rest_id"].(string); ok && restID != "" {
			rec["id_str"] = restID
		}
	}
	return rec, nil
}

// IDOf returns the record's id_str, or "" when absent.
func IDOf(rec Record) string {
	id, _ := rec["id_str"].(string)
	return strings.TrimSpace(id)
}
