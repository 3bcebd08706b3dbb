package scraper

import (
	errs "github.com/press-rouch/twitter-archive-parser/pkg/errors"
)

// OutcomeKind classifies what a single fetch means for the rest of the run
type OutcomeKind int

const (
	// OutcomeOk recorded a result, possibly a tombstone
	OutcomeOk OutcomeKind = iota
	// OutcomeSkipped failed for this identifier only; the run continues
	// and a rerun will try it again
	OutcomeSkipped
	// OutcomeFatal means further requests are pointless; the run stops
	// after saving progress
	OutcomeFatal
)

// classify maps a fetch error onto the run's control flow. Auth and
// discovery failures poison every later request, and an unrecognized
// envelope shape means results can no longer be trusted; everything else
// is specific to one identifier.
func classify(err error) OutcomeKind {
	switch {
	case err == nil:
		return OutcomeOk
	case errs.IsFatal(err):
		return OutcomeFatal
	default:
		return OutcomeSkipped
	}
}
