// Package books resolves an ISBN-10 to a stored book, fetching and storing it
// from the NYT history endpoint the first time it is asked for.
package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mrlokans/bestsellers/internal/database"
	"github.com/mrlokans/bestsellers/internal/entities"
	"github.com/mrlokans/bestsellers/internal/nyt"
)

// ErrUnavailable means the book is not stored and the API has no details for it.
var ErrUnavailable = errors.New("unavailable")

// Outcome tells where a looked up book came from.
type Outcome string

const (
	OutcomeLocal   Outcome = "returned-local"
	OutcomeFetched Outcome = "returned-fetched"
)

// Repository is the book persistence used by Service.
type Repository interface {
	FindByISBN(ctx context.Context, isbn string) (*entities.Book, error)
	Create(ctx context.Context, title, author, description, publisher, isbn string) (*entities.Book, error)
	GetBookByID(ctx context.Context, id uint) (*entities.Book, error)
	GetAllBooks(ctx context.Context) ([]entities.Book, error)
	DeleteBook(ctx context.Context, id uint) error
}

// HistoryProvider fetches best-seller history records for an ISBN.
type HistoryProvider interface {
	History(ctx context.Context, isbn string) ([]nyt.HistoryBook, error)
}

type Service struct {
	repo    Repository
	history HistoryProvider
}

func NewService(repo Repository, history HistoryProvider) *Service {
	return &Service{repo: repo, history: history}
}

// Lookup returns the stored book for isbn. On a miss it asks the API, stores
// the first history record under the requested ISBN and returns the row as
// read back from the database.
func (s *Service) Lookup(ctx context.Context, rawISBN string) (*entities.Book, Outcome, error) {
	isbn, err := NormalizeISBN10(rawISBN)
	if err != nil {
		return nil, "", err
	}

	book, err := s.repo.FindByISBN(ctx, isbn)
	if err == nil {
		return book, OutcomeLocal, nil
	}
	if !database.IsNotFound(err) {
		return nil, "", fmt.Errorf("find book %s: %w", isbn, err)
	}

	records, err := s.history.History(ctx, isbn)
	if err != nil {
		return nil, "", fmt.Errorf("fetch history for %s: %w", isbn, err)
	}
	if len(records) == 0 {
		return nil, "", ErrUnavailable
	}

	rec := records[0]
	created, err := s.repo.Create(ctx, rec.Title, rec.Author, rec.Description, rec.Publisher, isbn)
	if err != nil {
		if database.IsUniqueViolation(err) {
			// Another request stored the same ISBN first.
			book, findErr := s.repo.FindByISBN(ctx, isbn)
			if findErr != nil {
				return nil, "", fmt.Errorf("re-read book %s: %w", isbn, findErr)
			}
			return book, OutcomeLocal, nil
		}
		return nil, "", fmt.Errorf("store book %s: %w", isbn, err)
	}

	book, err = s.repo.GetBookByID(ctx, created.ID)
	if err != nil {
		return nil, "", fmt.Errorf("re-read book %s: %w", isbn, err)
	}

	log.Info("stored new book", "isbn", isbn, "title", book.Title)
	return book, OutcomeFetched, nil
}

// Find returns the stored book for isbn without contacting the API.
func (s *Service) Find(ctx context.Context, rawISBN string) (*entities.Book, error) {
	isbn, err := NormalizeISBN10(rawISBN)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByISBN(ctx, isbn)
}

// Seed stores a book directly, bypassing the API.
func (s *Service) Seed(ctx context.Context, title, author, description, publisher, rawISBN string) (*entities.Book, error) {
	isbn, err := NormalizeISBN10(rawISBN)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, title, author, description, publisher, isbn)
}

// All returns every stored book ordered by title.
func (s *Service) All(ctx context.Context) ([]entities.Book, error) {
	return s.repo.GetAllBooks(ctx)
}

// Remove deletes the stored book for isbn along with every ledger entry
// pointing at it.
func (s *Service) Remove(ctx context.Context, rawISBN string) (*entities.Book, error) {
	book, err := s.Find(ctx, rawISBN)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteBook(ctx, book.ID); err != nil {
		return nil, fmt.Errorf("delete book %s: %w", book.ISBN10, err)
	}
	log.Info("deleted book", "isbn", book.ISBN10, "title", book.Title)
	return book, nil
}
