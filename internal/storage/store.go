// Package storage defines the persistence interface for urls and their
// check history, decoupling callers from the Postgres implementation.
package storage

import (
	"context"
	"errors"

	"pageanalyzer/internal/models"
)

// ErrNotFound is returned when a requested url does not exist, including
// when a check insert references a missing url.
var ErrNotFound = errors.New("not found")

// Storer is the repository contract. Every call is a self-contained unit of
// work against the store; no transactional state is shared between calls.
type Storer interface {
	// CreateURL registers name if it is not already present and reports
	// whether a new row was created. A concurrent insert of the same name
	// resolves to the winner's row, never to a uniqueness error.
	CreateURL(ctx context.Context, name string) (models.URL, bool, error)
	GetURLByID(ctx context.Context, id int64) (models.URL, error)
	GetURLByName(ctx context.Context, name string) (models.URL, error)
	// ListURLs returns every url ordered by id ascending, each joined with
	// its most recent check when one exists.
	ListURLs(ctx context.Context) ([]models.URLSummary, error)
	// ListChecks returns a url's checks ordered by id ascending.
	ListChecks(ctx context.Context, urlID int64) ([]models.Check, error)
	// CreateCheck appends one immutable check row. The url must exist.
	CreateCheck(ctx context.Context, check models.Check) (models.Check, error)
}
