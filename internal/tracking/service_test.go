package tracking

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/database"
	"github.com/mrlokans/bestsellers/internal/database/books"
	"github.com/mrlokans/bestsellers/internal/database/ledger"
	"github.com/mrlokans/bestsellers/internal/database/users"
	"github.com/mrlokans/bestsellers/internal/entities"
)

type testEnv struct {
	svc   *Service
	users *users.Repository
	books *books.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewDatabase(
		config.Database{Path: filepath.Join(t.TempDir(), "tracking.db")},
		database.WithLogLevel(logger.Silent),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &testEnv{
		svc:   NewService(ledger.NewRepository(db.DB)),
		users: users.NewRepository(db.DB),
		books: books.NewRepository(db.DB),
	}
}

func (e *testEnv) user(t *testing.T, username, email string) *entities.User {
	t.Helper()
	u := &entities.User{Username: username, Email: email, Password: "hash"}
	require.NoError(t, e.users.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) book(t *testing.T, title, isbn string) *entities.Book {
	t.Helper()
	b, err := e.books.Create(context.Background(), title, "Author", "Description", "Publisher", isbn)
	require.NoError(t, err)
	return b
}

func TestTrack_Twice(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	alice := env.user(t, "alice", "a@x.com")
	book := env.book(t, "Dune", "0441013597")

	require.NoError(t, env.svc.Track(ctx, alice.ID, book.ID))
	assert.ErrorIs(t, env.svc.Track(ctx, alice.ID, book.ID), ErrAlreadyTracking)
}

func TestUntrackThenTrackAgain(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	alice := env.user(t, "alice", "a@x.com")
	book := env.book(t, "Dune", "0441013597")

	require.NoError(t, env.svc.Track(ctx, alice.ID, book.ID))
	require.NoError(t, env.svc.Untrack(ctx, alice.ID, book.ID))
	require.NoError(t, env.svc.Track(ctx, alice.ID, book.ID))

	tracking, err := env.svc.IsTracking(ctx, alice.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, tracking)
}

func TestUntrack_NotTracking(t *testing.T) {
	env := setup(t)
	alice := env.user(t, "alice", "a@x.com")
	book := env.book(t, "Dune", "0441013597")

	assert.ErrorIs(t, env.svc.Untrack(context.Background(), alice.ID, book.ID), ErrNotTracking)
}

func TestToggleRead(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	alice := env.user(t, "alice", "a@x.com")
	book := env.book(t, "Dune", "0441013597")
	require.NoError(t, env.svc.Track(ctx, alice.ID, book.ID))

	read, err := env.svc.ToggleRead(ctx, alice.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, read)

	read, err = env.svc.ToggleRead(ctx, alice.ID, book.ID)
	require.NoError(t, err)
	assert.False(t, read)

	entries, err := env.svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Read)
}

func TestToggleRead_NotTracking(t *testing.T) {
	env := setup(t)
	alice := env.user(t, "alice", "a@x.com")
	book := env.book(t, "Dune", "0441013597")

	_, err := env.svc.ToggleRead(context.Background(), alice.ID, book.ID)
	assert.ErrorIs(t, err, ErrNotTracking)
}

func TestManyToMany(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	alice := env.user(t, "alice", "a@x.com")
	bob := env.user(t, "bob", "b@x.com")
	dune := env.book(t, "Dune", "0441013597")
	emma := env.book(t, "Emma", "0141439580")

	require.NoError(t, env.svc.Track(ctx, alice.ID, dune.ID))
	require.NoError(t, env.svc.Track(ctx, alice.ID, emma.ID))
	require.NoError(t, env.svc.Track(ctx, bob.ID, dune.ID))

	aliceBooks, err := env.svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceBooks, 2)

	bobBooks, err := env.svc.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobBooks, 1)
	assert.Equal(t, "Dune", bobBooks[0].Book.Title)

	// Reading state is per user.
	_, err = env.svc.ToggleRead(ctx, alice.ID, dune.ID)
	require.NoError(t, err)
	bobBooks, err = env.svc.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, bobBooks[0].Read)

	trackers, err := env.svc.Trackers(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), trackers)

	trackers, err = env.svc.Trackers(ctx, emma.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), trackers)
}

func TestEndToEndScenario(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	alice := env.user(t, "alice", "a@x.com")
	book := env.book(t, "Scenario", "1111111111")

	require.NoError(t, env.svc.Track(ctx, alice.ID, book.ID))

	read, err := env.svc.ToggleRead(ctx, alice.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, read)

	require.NoError(t, env.svc.Untrack(ctx, alice.ID, book.ID))

	_, err = env.svc.ToggleRead(ctx, alice.ID, book.ID)
	assert.ErrorIs(t, err, ErrNotTracking)
	assert.EqualError(t, err, "not tracking this book")
}

func TestDeletingUserRemovesLedger(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	alice := env.user(t, "alice", "a@x.com")
	book := env.book(t, "Dune", "0441013597")
	require.NoError(t, env.svc.Track(ctx, alice.ID, book.ID))

	require.NoError(t, env.users.DeleteUser(ctx, alice.ID))

	entries, err := env.svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// brokenRepo fails every call the way a lost database connection would.
type brokenRepo struct{ err error }

func (b brokenRepo) Create(context.Context, uint, uint) (*entities.UserBook, error) {
	return nil, b.err
}
func (b brokenRepo) Find(context.Context, uint, uint) (*entities.UserBook, error) { return nil, b.err }
func (b brokenRepo) Delete(context.Context, uint, uint) (int64, error)           { return 0, b.err }
func (b brokenRepo) SetRead(context.Context, uint, bool) error                   { return b.err }
func (b brokenRepo) ListForUser(context.Context, uint) ([]entities.UserBook, error) {
	return nil, b.err
}
func (b brokenRepo) CountTrackers(context.Context, uint) (int64, error) { return 0, b.err }

func TestStorageFailuresAreNotMislabeled(t *testing.T) {
	connErr := errors.New("connection refused")
	svc := NewService(brokenRepo{err: connErr})
	ctx := context.Background()

	err := svc.Untrack(ctx, 1, 1)
	assert.ErrorIs(t, err, connErr)
	assert.NotErrorIs(t, err, ErrNotTracking)

	_, err = svc.ToggleRead(ctx, 1, 1)
	assert.ErrorIs(t, err, connErr)
	assert.NotErrorIs(t, err, ErrNotTracking)

	err = svc.Track(ctx, 1, 1)
	assert.ErrorIs(t, err, connErr)
	assert.NotErrorIs(t, err, ErrAlreadyTracking)

	_, err = svc.IsTracking(ctx, 1, 1)
	assert.ErrorIs(t, err, connErr)
}
