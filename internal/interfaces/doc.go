// Package interfaces holds compile-time checks tying the concrete services
// and repositories to the interfaces their consumers declare.
//
// # Interface Map
//
//   - auth.UserRepository: account persistence (internal/database/users)
//   - books.Repository: book rows by ISBN (internal/database/books)
//   - books.HistoryProvider: NYT history endpoint (internal/nyt)
//   - catalog.OverviewProvider: NYT full-overview endpoint (internal/nyt)
//   - tracking.Repository: user/book ledger rows (internal/database/ledger)
//   - http.OverviewSource, http.BookLookup, http.Ledger: what the page
//     controllers need from the catalog cache, the book service and the
//     tracking service
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the interface next to its consumer and add a check here:
//
//     var _ consumer.Store = (*domain.Repository)(nil)
package interfaces
