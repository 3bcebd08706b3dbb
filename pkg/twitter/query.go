package twitter

import (
	"net/http"
	"regexp"
	"strings"

	errs "github.com/press-rouch/twitter-archive-parser/pkg/errors"
	"github.com/press-rouch/twitter-archive-parser/pkg/logger"
	"github.com/press-rouch/twitter-archive-parser/pkg/schema"
)

// Getter issues session-managed GET requests (Client satisfies this)
type Getter interface {
	Get(url string) (*Response, error)
}

// Error patterns the server emits when a query is missing required fields.
// These are the hook the engine uses to heal itself against schema drift.
var (
	variableViolationPattern = regexp.MustCompile(`Query violation: Variable '([^']+)'`)
	nullFeaturesPattern      = regexp.MustCompile(`The following features cannot be null: ([\w, ]+)`)
)

// Engine issues GraphQL queries, patching the schema store and retrying
// when the server reports missing variables or features.
type Engine struct {
	client     Getter
	store      *schema.Store
	queryIDs   map[string]string
	base       string
	retryLimit int
	logger     logger.Logger
}

// NewEngine creates a query engine. queryIDs is the name-to-ID mapping
// produced by discovery; base is the GraphQL URL prefix.
func NewEngine(client Getter, store *schema.Store, queryIDs map[string]string, base string, retryLimit int, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}
	if retryLimit < 1 {
		retryLimit = 10
	}
	return &Engine{
		client:     client,
		store:      store,
		queryIDs:   queryIDs,
		base:       base,
		retryLimit: retryLimit,
		logger:     log,
	}
}

// Fetch runs the named query with the caller's identifier bound to
// idVariable, returning the response body on success.
//
// Non-200 responses are scanned for missing-variable and missing-feature
// errors; any discovered names are added with value false, the descriptor
// is patched, and the request is rebuilt and retried, up to the retry
// ceiling. The first 200 after a patch persists the updated descriptor
// (minus the caller's identifier) so future requests start pre-patched.
//
// When a non-200 body matches neither pattern, the body is returned along
// with an http-typed error: the caller decides whether that is permanent
// for this ID. Exhausting the ceiling returns the last body with a
// schema_mismatch error.
func (e *Engine) Fetch(name, idVariable, id string) ([]byte, error) {
	queryID, ok := e.queryIDs[name]
	if !ok {
		return nil, errs.Newf(errs.ErrorTypeDiscovery, "no query id discovered for %s", name)
	}

	desc, err := e.store.Load(name)
	if err != nil {
		return nil, err
	}

	variables := make(map[string]interface{}, len(desc.Variables)+1)
	for k, v := range desc.Variables {
		variables[k] = v
	}
	variables[idVariable] = id

	features := make(map[string]interface{}, len(desc.Features))
	for k, v := range desc.Features {
		features[k] = v
	}

	var lastBody []byte
	patched := false
	for attempt := 1; attempt <= e.retryLimit; attempt++ {
		resp, err := e.client.Get(BuildQueryURL(e.base, queryID, name, variables, features))
		if err != nil {
			return nil, err
		}
		lastBody = resp.Body

		if resp.StatusCode == http.StatusOK {
			if patched {
				if err := e.store.Save(name, desc); err != nil {
					e.logger.WithError(err).WithField("query", name).Warn("failed to persist patched descriptor")
				} else {
					e.logger.InfoWithFields("query descriptor patched", map[string]interface{}{
						"query":     name,
						"attempts":  attempt,
						"variables": len(desc.Variables),
						"features":  len(desc.Features),
					})
				}
			}
			return resp.Body, nil
		}

		missingVars, missingFeats := scanSchemaErrors(resp.Body)
		if len(missingVars) == 0 && len(missingFeats) == 0 {
			return resp.Body, errs.NewWithCode(errs.ErrorTypeHTTP, resp.StatusCode,
				name+" query failed: "+truncate(resp.Body, 200))
		}

		for _, v := range missingVars {
			variables[v] = false
			desc.Variables[v] = false
		}
		for _, f := range missingFeats {
			features[f] = false
			desc.Features[f] = false
		}
		patched = true

		e.logger.WarnWithFields("schema mismatch, patching and retrying", map[string]interface{}{
			"query":            name,
			"attempt":          attempt,
			"missing_vars":     missingVars,
			"missing_features": missingFeats,
		})
	}

	return lastBody, errs.Newf(errs.ErrorTypeSchemaMismatch,
		"%s still failing after %d schema-patch attempts", name, e.retryLimit)
}

// scanSchemaErrors extracts missing variable and feature names from an
// error response body
func scanSchemaErrors(body []byte) (variables, features []string) {
	text := string(body)

	for _, m := range variableViolationPattern.FindAllStringSubmatch(text, -1) {
		variables = append(variables, m[1])
	}

	if m := nullFeaturesPattern.FindStringSubmatch(text); m != nil {
		for _, f := range strings.Split(m[1], ",") {
			if f = strings.TrimSpace(f); f != "" {
				features = append(features, f)
			}
		}
	}
	return variables, features
}
