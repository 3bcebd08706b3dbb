// Package ratelimit provides request pacing for the guest API client.
//
// The guest API tolerates modest request rates; exceeding them produces
// HTTP 429 responses that cost a guest token refresh. A token bucket in
// front of every request keeps long archive runs under that threshold.
package ratelimit
