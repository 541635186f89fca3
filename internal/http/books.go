package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/mrlokans/bestsellers/internal/auth"
	"github.com/mrlokans/bestsellers/internal/books"
	"github.com/mrlokans/bestsellers/internal/database"
	"github.com/mrlokans/bestsellers/internal/entities"
	"github.com/mrlokans/bestsellers/internal/nyt"
	"github.com/mrlokans/bestsellers/internal/tracking"
)

// BooksController serves the best-sellers overview and the book pages.
type BooksController struct {
	overview OverviewSource
	books    BookLookup
	ledger   Ledger
	view     *auth.View
	now      func() time.Time
}

func NewBooksController(overview OverviewSource, books BookLookup, ledger Ledger, view *auth.View) *BooksController {
	return &BooksController{
		overview: overview,
		books:    books,
		ledger:   ledger,
		view:     view,
		now:      time.Now,
	}
}

// RegisterRoutes adds the members-only book routes.
func (bc *BooksController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/books/:isbn", bc.Show)
	router.POST("/books/:isbn/track", bc.Track)
	router.POST("/books/stop-tracking/:isbn", bc.StopTracking)
}

// Home shows anonymous visitors the landing page and members this week's
// best-sellers overview.
func (bc *BooksController) Home(c *gin.Context) {
	if !auth.IsAuthenticated(c) {
		bc.view.Render(c, http.StatusOK, "home-anon.html", gin.H{"Title": "Welcome"})
		return
	}

	today := bc.now()
	lists, err := bc.overview.WeeklyOverview(c.Request.Context(), today)
	if err != nil {
		log.Error("failed to load weekly overview", "date", today.Format("2006-01-02"), "error", err)
		bc.view.Render(c, http.StatusOK, "home.html", gin.H{
			"Title": "Best Sellers",
			"Date":  today,
			"Error": msgOverviewDown,
		})
		return
	}

	bc.view.Render(c, http.StatusOK, "home.html", gin.H{
		"Title": "Best Sellers",
		"Date":  today,
		"Lists": lo.Filter(lists, func(l nyt.List, _ int) bool { return len(l.Books) > 0 }),
	})
}

// Show renders a book, fetching its details from the API the first time.
func (bc *BooksController) Show(c *gin.Context) {
	ctx := c.Request.Context()
	isbn := c.Param("isbn")

	book, outcome, err := bc.books.Lookup(ctx, isbn)
	if err != nil {
		if !errors.Is(err, books.ErrUnavailable) && !errors.Is(err, books.ErrInvalidISBN) {
			log.Error("book lookup failed", "isbn", isbn, "error", err)
		}
		bc.view.RedirectWithFlash(c, "/", auth.FlashDanger, msgBookUnavailable)
		return
	}
	log.Debug("book lookup", "isbn", book.ISBN10, "outcome", outcome)

	tracked, err := bc.ledger.IsTracking(ctx, auth.GetUserID(c), book.ID)
	if err != nil {
		redirectInternalError(c, bc.view, "/", err, "is tracking")
		return
	}

	trackers, err := bc.ledger.Trackers(ctx, book.ID)
	if err != nil {
		redirectInternalError(c, bc.view, "/", err, "count trackers")
		return
	}

	bc.view.Render(c, http.StatusOK, "book_show.html", gin.H{
		"Title":    book.Title,
		"Book":     book,
		"Tracking": tracked,
		"Trackers": trackers,
	})
}

// Track adds the book to the current user's ledger.
func (bc *BooksController) Track(c *gin.Context) {
	book, ok := findStoredBook(c, bc.books, bc.view)
	if !ok {
		return
	}

	err := bc.ledger.Track(c.Request.Context(), auth.GetUserID(c), book.ID)
	switch {
	case errors.Is(err, tracking.ErrAlreadyTracking):
		bc.view.RedirectWithFlash(c, bookPath(book.ISBN10), auth.FlashDanger, msgAlreadyTracking)
	case err != nil:
		redirectInternalError(c, bc.view, bookPath(book.ISBN10), err, "track")
	default:
		c.Redirect(http.StatusFound, "/users/books")
	}
}

// StopTracking removes the book from the current user's ledger.
func (bc *BooksController) StopTracking(c *gin.Context) {
	book, ok := findStoredBook(c, bc.books, bc.view)
	if !ok {
		return
	}

	err := bc.ledger.Untrack(c.Request.Context(), auth.GetUserID(c), book.ID)
	switch {
	case errors.Is(err, tracking.ErrNotTracking):
		bc.view.RedirectWithFlash(c, bookPath(book.ISBN10), auth.FlashDanger, msgNotTracking)
	case err != nil:
		redirectInternalError(c, bc.view, bookPath(book.ISBN10), err, "untrack")
	default:
		c.Redirect(http.StatusFound, bookPath(book.ISBN10))
	}
}

// findStoredBook resolves the :isbn parameter without contacting the API.
// Unknown or malformed ISBNs redirect home.
func findStoredBook(c *gin.Context, lookup BookLookup, view *auth.View) (*entities.Book, bool) {
	book, err := lookup.Find(c.Request.Context(), c.Param("isbn"))
	if err == nil {
		return book, true
	}
	if !errors.Is(err, books.ErrInvalidISBN) && !database.IsNotFound(err) {
		redirectInternalError(c, view, "/", err, "find book")
		return nil, false
	}
	view.RedirectWithFlash(c, "/", auth.FlashDanger, msgCannotTrack)
	return nil, false
}
