// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (SQLite or PostgreSQL), migrations
//	├── books/           # Locally persisted best-seller books
//	├── ledger/          # users_books rows: who tracks which book, read flag
//	└── users/           # Accounts
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	usersRepo := users.NewRepository(db.DB)
//	booksRepo := books.NewRepository(db.DB)
//	ledgerRepo := ledger.NewRepository(db.DB)
//
//	book, err := booksRepo.FindByISBN(ctx, "0385490818")
//
// Repositories return gorm errors unchanged. Callers classify them with
// IsNotFound and IsUniqueViolation.
//
// # Deletion
//
// users_books rows reference both users and books with ON DELETE CASCADE.
// users.DeleteUser and books.DeleteBook also remove the rows explicitly inside
// the same transaction, so the cascade holds on connections where foreign keys
// are not enforced.
package database
