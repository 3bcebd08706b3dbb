// Package twitter talks to the guest GraphQL API: it discovers the
// bearer token and query IDs from the public bootstrap page, manages
// guest sessions, and issues queries that patch themselves around
// server-side schema drift. Responses are normalized into legacy-form
// records suitable for long-term archival.
package twitter
