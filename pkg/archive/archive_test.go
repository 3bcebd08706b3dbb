package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/press-rouch/twitter-archive-parser/pkg/twitter"
)

const likeJS = `window.YTD.like.part0 = [
  {
    "like" : {
      "tweetId" : "1234567890",
      "fullText" : "first liked tweet"
    }
  },
  {
    "like" : {
      "tweetId" : "9876543210",
      "fullText" : "second liked tweet"
    }
  },
  {
    "like" : {
      "tweetId" : "1234567890",
      "fullText" : "duplicate entry"
    }
  }
]`

const followingJS = `window.YTD.following.part0 = [
  {
    "following" : {
      "accountId" : "111",
      "userLink" : "https://twitter.com/intent/user?user_id=111"
    }
  },
  {
    "following" : {
      "accountId" : "222",
      "userLink" : "https://twitter.com/intent/user?user_id=222"
    }
  }
]`

func TestTweetIDs(t *testing.T) {
	ids := TweetIDs([]byte(likeJS))
	assert.Equal(t, []string{"1234567890", "9876543210"}, ids,
		"duplicates should collapse to first appearance")
}

func TestAccountIDs(t *testing.T) {
	ids := AccountIDs([]byte(followingJS))
	assert.Equal(t, []string{"111", "222"}, ids)
}

func TestTweetIDsEmptyFile(t *testing.T) {
	assert.Empty(t, TweetIDs([]byte(`window.YTD.like.part0 = []`)))
}

func TestTweetIDsIgnoresAccountIDs(t *testing.T) {
	assert.Empty(t, TweetIDs([]byte(followingJS)))
}

func TestLoadResultsMissingFile(t *testing.T) {
	results, err := LoadResults(filepath.Join(t.TempDir(), "likes.json"))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results, "missing file should give a usable empty map")
}

func TestSaveAndLoadResultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.json")
	results := ResultMap{
		"111": twitter.Record{"id_str": "111", "full_text": "kept"},
		"222": nil,
	}

	require.NoError(t, SaveResults(path, results))

	loaded, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, "kept", loaded["111"]["full_text"])

	// the tombstone survives the round trip as a present nil entry
	assert.True(t, loaded.Has("222"))
	assert.Nil(t, loaded["222"])
	assert.False(t, loaded.Has("333"))
	assert.Equal(t, 1, loaded.Tombstones())
}

func TestSaveResultsLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "likes.json")
	require.NoError(t, SaveResults(path, ResultMap{"1": nil}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "likes.json", entries[0].Name())
}

func TestReadDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "like.js")
	require.NoError(t, os.WriteFile(path, []byte(likeJS), 0644))

	contents, err := ReadDataFile(path)
	require.NoError(t, err)
	assert.Equal(t, likeJS, string(contents))

	_, err = ReadDataFile(filepath.Join(t.TempDir(), "absent.js"))
	assert.Error(t, err)
}
