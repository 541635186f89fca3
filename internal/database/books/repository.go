// Package books provides database operations for locally persisted books.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.FindByISBN(ctx, "0385490818")
package books

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/bestsellers/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByISBN returns the book with exactly this ISBN-10, or gorm.ErrRecordNotFound.
func (r *Repository) FindByISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("isbn_10 = ?", isbn).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book. A duplicate ISBN surfaces as a uniqueness violation.
func (r *Repository) Create(ctx context.Context, title, author, description, publisher, isbn string) (*entities.Book, error) {
	book := &entities.Book{
		Title:       title,
		Author:      author,
		Description: description,
		Publisher:   publisher,
		ISBN10:      isbn,
	}
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// GetBookByID retrieves a book by primary key.
func (r *Repository) GetBookByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks returns every stored book ordered by title.
func (r *Repository) GetAllBooks(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Order("title ASC").Find(&books).Error
	return books, err
}

// DeleteBook removes the book and every ledger row referencing it.
func (r *Repository) DeleteBook(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.UserBook{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
