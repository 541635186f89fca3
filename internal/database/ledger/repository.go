// Package ledger provides database operations for users_books rows, the
// record of which user tracks which book and whether it has been read.
package ledger

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/bestsellers/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an unread entry. A second entry for the same pair surfaces
// as a uniqueness violation.
func (r *Repository) Create(ctx context.Context, userID, bookID uint) (*entities.UserBook, error) {
	entry := &entities.UserBook{UserID: userID, BookID: bookID}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Find returns the entry for the pair, or gorm.ErrRecordNotFound.
func (r *Repository) Find(ctx context.Context, userID, bookID uint) (*entities.UserBook, error) {
	var entry entities.UserBook
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes the entry for the pair and reports how many rows went away.
func (r *Repository) Delete(ctx context.Context, userID, bookID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.UserBook{})
	return result.RowsAffected, result.Error
}

// SetRead stores the read flag on an existing entry.
func (r *Repository) SetRead(ctx context.Context, entryID uint, read bool) error {
	result := r.db.WithContext(ctx).
		Model(&entities.UserBook{}).
		Where("id = ?", entryID).
		Update("read_or_not", read)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListForUser returns the user's entries with their books, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uint) ([]entities.UserBook, error) {
	var entries []entities.UserBook
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// CountTrackers returns how many users track the book.
func (r *Repository) CountTrackers(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.UserBook{}).
		Where("book_id = ?", bookID).
		Count(&count).Error
	return count, err
}
