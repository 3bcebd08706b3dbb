package archive

import (
	"fmt"
	"os"
	"regexp"
)

// The archive's data files are JavaScript assignments wrapping JSON, so
// identifiers are pulled out with patterns rather than a JSON decoder.
var (
	tweetIDPattern   = regexp.MustCompile(`"tweetId"\s*:\s*"(\d+)"`)
	accountIDPattern = regexp.MustCompile(`"accountId"\s*:\s*"(\d+)"`)
)

// TweetIDs extracts the tweet identifiers from an archive data file such
// as like.js, deduplicated in order of first appearance.
func TweetIDs(contents []byte) []string {
	return extractIDs(tweetIDPattern, contents)
}

// AccountIDs extracts the account identifiers from an archive data file
// such as following.js or follower.js.
func AccountIDs(contents []byte) []string {
	return extractIDs(accountIDPattern, contents)
}

func extractIDs(pattern *regexp.Regexp, contents []byte) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range pattern.FindAllSubmatch(contents, -1) {
		id := string(m[1])
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// ReadDataFile reads a data file from the archive's data directory
func ReadDataFile(path string) ([]byte, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive data file: %w", err)
	}
	return contents, nil
}
