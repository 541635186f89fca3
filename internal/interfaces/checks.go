package interfaces

// Compile-time checks that the concrete types satisfy the interfaces their
// consumers declare.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bestsellers/internal/auth"
	"github.com/mrlokans/bestsellers/internal/books"
	"github.com/mrlokans/bestsellers/internal/catalog"
	booksrepo "github.com/mrlokans/bestsellers/internal/database/books"
	"github.com/mrlokans/bestsellers/internal/database/ledger"
	"github.com/mrlokans/bestsellers/internal/database/users"
	"github.com/mrlokans/bestsellers/internal/http"
	"github.com/mrlokans/bestsellers/internal/nyt"
	"github.com/mrlokans/bestsellers/internal/tracking"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ auth.UserRepository = (*users.Repository)(nil)
var _ books.Repository = (*booksrepo.Repository)(nil)
var _ tracking.Repository = (*ledger.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ books.HistoryProvider = (*nyt.Client)(nil)
var _ catalog.OverviewProvider = (*nyt.Client)(nil)

// =============================================================================
// HTTP Controllers
// =============================================================================

var _ http.OverviewSource = (*catalog.Cache)(nil)
var _ http.BookLookup = (*books.Service)(nil)
var _ http.Ledger = (*tracking.Service)(nil)
