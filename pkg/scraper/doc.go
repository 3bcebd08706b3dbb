// Package scraper orchestrates archive runs: it reads identifier lists
// from the exported archive, fetches missing metadata one item at a time,
// downloads attached media, and checkpoints results so interrupted runs
// resume without repeating settled work.
package scraper
