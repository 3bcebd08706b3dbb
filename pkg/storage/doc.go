// Package storage manages the on-disk media directory
package storage
