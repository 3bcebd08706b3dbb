package archive

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/press-rouch/twitter-archive-parser/pkg/twitter"
)

// Result file names written next to the archive
const (
	LikesFile    = "likes.json"
	AccountsFile = "accounts.json"
)

// ResultMap is the accumulated fetch results keyed by identifier. A nil
// record marks an identifier confirmed deleted or unavailable, so reruns
// do not ask the server about it again.
type ResultMap map[string]twitter.Record

// Has reports whether id already has an outcome recorded, including a
// tombstone
func (r ResultMap) Has(id string) bool {
	_, ok := r[id]
	return ok
}

// Tombstones counts identifiers recorded as gone
func (r ResultMap) Tombstones() int {
	n := 0
	for _, rec := range r {
		if rec == nil {
			n++
		}
	}
	return n
}

// LoadResults reads a result map from path. A missing file yields an
// empty map so a first run and a rerun follow the same code path.
func LoadResults(path string) (ResultMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(ResultMap), nil
		}
		return nil, fmt.Errorf("failed to read results from %s: %w", path, err)
	}

	results := make(ResultMap)
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results in %s: %w", path, err)
	}
	return results, nil
}

// SaveResults writes the result map atomically via a temp file rename, so
// an interrupt mid-write never corrupts previous progress.
func SaveResults(path string, results ResultMap) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary results file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close results file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace results file: %w", err)
	}
	return nil
}
