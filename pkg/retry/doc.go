// Package retry provides bounded retry with a fixed delay.
//
// It is used for media downloads only. API-layer recovery (guest token
// refresh on 429, schema-patch retries) is handled by the twitter package
// with its own strictly bounded, sequential logic.
package retry
