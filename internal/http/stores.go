package http

import (
	"context"
	"time"

	"github.com/mrlokans/bestsellers/internal/books"
	"github.com/mrlokans/bestsellers/internal/entities"
	"github.com/mrlokans/bestsellers/internal/nyt"
	"github.com/mrlokans/bestsellers/internal/tracking"
)

// Controllers depend on these narrow interfaces rather than on concrete
// services so tests can swap in fakes.

// OverviewSource serves the weekly best-sellers overview.
type OverviewSource interface {
	WeeklyOverview(ctx context.Context, date time.Time) ([]nyt.List, error)
}

// BookLookup resolves ISBNs to stored books.
type BookLookup interface {
	Lookup(ctx context.Context, isbn string) (*entities.Book, books.Outcome, error)
	Find(ctx context.Context, isbn string) (*entities.Book, error)
}

// Ledger records which books a user tracks and has read.
type Ledger interface {
	Track(ctx context.Context, userID, bookID uint) error
	Untrack(ctx context.Context, userID, bookID uint) error
	ToggleRead(ctx context.Context, userID, bookID uint) (bool, error)
	IsTracking(ctx context.Context, userID, bookID uint) (bool, error)
	ListForUser(ctx context.Context, userID uint) ([]tracking.Entry, error)
	Trackers(ctx context.Context, bookID uint) (int64, error)
}
