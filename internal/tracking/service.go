// Package tracking is the per-user reading ledger: which books a user tracks
// and whether each has been read.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/mrlokans/bestsellers/internal/database"
	"github.com/mrlokans/bestsellers/internal/entities"
)

var (
	ErrAlreadyTracking = errors.New("already tracking this book")
	ErrNotTracking     = errors.New("not tracking this book")
)

// Repository is the users_books persistence used by Service.
type Repository interface {
	Create(ctx context.Context, userID, bookID uint) (*entities.UserBook, error)
	Find(ctx context.Context, userID, bookID uint) (*entities.UserBook, error)
	Delete(ctx context.Context, userID, bookID uint) (int64, error)
	SetRead(ctx context.Context, entryID uint, read bool) error
	ListForUser(ctx context.Context, userID uint) ([]entities.UserBook, error)
	CountTrackers(ctx context.Context, bookID uint) (int64, error)
}

// Entry is a tracked book as shown on the user's shelf.
type Entry struct {
	Book      entities.Book
	Read      bool
	TrackedAt time.Time
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Track starts tracking the book as unread.
func (s *Service) Track(ctx context.Context, userID, bookID uint) error {
	if _, err := s.repo.Create(ctx, userID, bookID); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyTracking
		}
		return fmt.Errorf("track book %d: %w", bookID, err)
	}
	return nil
}

// Untrack removes the entry. Only a missing entry maps to ErrNotTracking;
// storage failures are returned as they are.
func (s *Service) Untrack(ctx context.Context, userID, bookID uint) error {
	if _, err := s.find(ctx, userID, bookID); err != nil {
		return err
	}

	rows, err := s.repo.Delete(ctx, userID, bookID)
	if err != nil {
		return fmt.Errorf("untrack book %d: %w", bookID, err)
	}
	if rows == 0 {
		// Removed concurrently between the check and the delete.
		return ErrNotTracking
	}
	return nil
}

// ToggleRead flips the read flag and returns the new value.
func (s *Service) ToggleRead(ctx context.Context, userID, bookID uint) (bool, error) {
	entry, err := s.find(ctx, userID, bookID)
	if err != nil {
		return false, err
	}

	read := !entry.ReadOrNot
	if err := s.repo.SetRead(ctx, entry.ID, read); err != nil {
		if database.IsNotFound(err) {
			return false, ErrNotTracking
		}
		return false, fmt.Errorf("toggle read for book %d: %w", bookID, err)
	}
	return read, nil
}

// IsTracking reports whether the user tracks the book.
func (s *Service) IsTracking(ctx context.Context, userID, bookID uint) (bool, error) {
	_, err := s.find(ctx, userID, bookID)
	if errors.Is(err, ErrNotTracking) {
		return false, nil
	}
	return err == nil, err
}

// ListForUser returns the user's tracked books, most recently tracked first.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]Entry, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tracked books: %w", err)
	}
	return lo.Map(rows, func(row entities.UserBook, _ int) Entry {
		return Entry{Book: row.Book, Read: row.ReadOrNot, TrackedAt: row.CreatedAt}
	}), nil
}

// Trackers counts the users tracking the book.
func (s *Service) Trackers(ctx context.Context, bookID uint) (int64, error) {
	n, err := s.repo.CountTrackers(ctx, bookID)
	if err != nil {
		return 0, fmt.Errorf("count trackers of book %d: %w", bookID, err)
	}
	return n, nil
}

func (s *Service) find(ctx context.Context, userID, bookID uint) (*entities.UserBook, error) {
	entry, err := s.repo.Find(ctx, userID, bookID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotTracking
		}
		return nil, fmt.Errorf("find ledger entry: %w", err)
	}
	return entry, nil
}
