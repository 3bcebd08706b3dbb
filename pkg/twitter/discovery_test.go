package twitter

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/press-rouch/twitter-archive-parser/pkg/errors"
)

const bootstrapPage = `<html><head>
<script src="/responsive-web/client-web/main.abc123.js"></script>
<script>window.__INITIAL="https://abs.twimg.com/responsive-web/client-web/api.def456.js"</script>
</head><body></body></html>`

const mainBundle = `var t="AAAAAAAAAAAAAAAAAAAAAFQODgEAAAAAVHTp76lzh3rFzcHbmHVvQxYYpTw";`

const apiBundle = `e.exports={queryId:"xOC3locyT8q0ax9yW9cIGg",operationName:"TweetDetail",operationType:"query"},
e.exports={queryId:"Qw95n0SFDHVtlYvOQp9qmA",operationName:"UserByRestId",operationType:"query"}`

func TestDiscoverFindsBearerAndQueryIDs(t *testing.T) {
	client, _ := newTestClient(func(req *http.Request) *http.Response {
		switch req.URL.Path {
		case "/":
			return jsonResponse(http.StatusOK, bootstrapPage)
		case "/responsive-web/client-web/main.abc123.js":
			return jsonResponse(http.StatusOK, mainBundle)
		case "/responsive-web/client-web/api.def456.js":
			return jsonResponse(http.StatusOK, apiBundle)
		}
		return jsonResponse(http.StatusNotFound, "")
	})

	result, err := client.Discover("https://twitter.example/")
	require.NoError(t, err)

	assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAFQODgEAAAAAVHTp76lzh3rFzcHbmHVvQxYYpTw", result.Bearer)
	assert.Equal(t, "xOC3locyT8q0ax9yW9cIGg", result.QueryIDs[QueryTweetDetail])
	assert.Equal(t, "Qw95n0SFDHVtlYvOQp9qmA", result.QueryIDs[QueryUserByRestID])
}

func TestDiscoverStopsOnceComplete(t *testing.T) {
	page := `<html>
<script src="/a.js"></script>
<script src="/b.js"></script>
<script src="/c.js"></script>
</html>`
	fetched := map[string]int{}
	client, _ := newTestClient(func(req *http.Request) *http.Response {
		fetched[req.URL.Path]++
		switch req.URL.Path {
		case "/":
			return jsonResponse(http.StatusOK, page)
		case "/a.js":
			return jsonResponse(http.StatusOK, mainBundle)
		case "/b.js":
			return jsonResponse(http.StatusOK, apiBundle)
		}
		return jsonResponse(http.StatusOK, "var x=1;")
	})

	_, err := client.Discover("https://twitter.example/")
	require.NoError(t, err)
	assert.Zero(t, fetched["/c.js"], "scanning should stop once bearer and query ids are found")
}

func TestDiscoverSkipsFailingScripts(t *testing.T) {
	page := `<html>
<script src="/broken.js"></script>
<script src="/main.js"></script>
<script src="/api.js"></script>
</html>`
	client, _ := newTestClient(func(req *http.Request) *http.Response {
		switch req.URL.Path {
		case "/":
			return jsonResponse(http.StatusOK, page)
		case "/broken.js":
			return jsonResponse(http.StatusInternalServerError, "")
		case "/main.js":
			return jsonResponse(http.StatusOK, mainBundle)
		case "/api.js":
			return jsonResponse(http.StatusOK, apiBundle)
		}
		return jsonResponse(http.StatusNotFound, "")
	})

	result, err := client.Discover("https://twitter.example/")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Bearer)
	assert.Len(t, result.QueryIDs, 2)
}

func TestDiscoverNothingFound(t *testing.T) {
	client, _ := newTestClient(func(req *http.Request) *http.Response {
		if req.URL.Path == "/" {
			return jsonResponse(http.StatusOK, `<html><script src="/empty.js"></script></html>`)
		}
		return jsonResponse(http.StatusOK, "var x=1;")
	})

	_, err := client.Discover("https://twitter.example/")
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeDiscovery))
	assert.True(t, errs.IsFatal(err))
}

func TestDiscoverBootstrapFailure(t *testing.T) {
	client, _ := newTestClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusServiceUnavailable, "")
	})

	_, err := client.Discover("https://twitter.example/")
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeDiscovery))
}

func TestScriptURLsResolvesAndDeduplicates(t *testing.T) {
	body := []byte(`<script src="/rel/one.js"></script>
<script type="text/javascript" src="https://abs.twimg.com/two.js"></script>
<script>load("https://abs.twimg.com/two.js")</script>`)

	urls := scriptURLs("https://twitter.example/home", body)
	assert.Equal(t, []string{
		"https://twitter.example/rel/one.js",
		"https://abs.twimg.com/two.js",
	}, urls)
}
