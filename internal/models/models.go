// Package models defines the records persisted and rendered by the service.
package models

import "time"

// URL is a registered page address. Name holds the normalized form
// (scheme://host[:port]) and is unique across the store.
type URL struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Check is one point-in-time inspection result for a URL. Rows are
// append-only; a URL accumulates many checks.
type Check struct {
	ID          int64     `db:"id"`
	URLID       int64     `db:"url_id"`
	StatusCode  int       `db:"status_code"`
	H1          string    `db:"h1"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// URLSummary is a listing row: a URL joined with its most recent check.
// The pointer fields are nil when the URL has never been checked.
type URLSummary struct {
	ID             int64
	Name           string
	LastCheckedAt  *time.Time
	LastStatusCode *int
}
