package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/database"
	"github.com/mrlokans/bestsellers/internal/entities"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrUsernameInvalid    = errors.New("username must be 3-64 characters: letters, digits, dot, underscore or hyphen")
	ErrEmailInvalid       = errors.New("invalid email format")
)

// UserRepository is the persistence the credential store needs.
type UserRepository interface {
	CreateUser(ctx context.Context, user *entities.User) error
	GetUserByID(ctx context.Context, id uint) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
	UpdateUser(ctx context.Context, user *entities.User) error
	DeleteUser(ctx context.Context, id uint) error
	CountTrackedBooks(ctx context.Context, id uint) (int64, error)
}

// Service is the credential store: account creation, credential checks and
// profile maintenance.
type Service struct {
	users  UserRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserRepository, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		config: cfg,
	}
}

// ProfileUpdate carries the editable fields of an account.
type ProfileUpdate struct {
	Username string
	Email    string
	ImageURL string
}

// Signup hashes the password and stores a new account. An empty imageURL
// gets the default avatar. Username or email collisions return ErrUserExists.
func (s *Service) Signup(ctx context.Context, username, email, password, imageURL string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateIdentity(username, email); err != nil {
		return nil, err
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username: username,
		Email:    email,
		Password: passwordHash,
		ImageURL: avatarOrDefault(imageURL),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %w", ErrUserExists, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate returns the user when the password matches. Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.Password); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile re-checks the current password before changing the account.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, currentPassword string, upd ProfileUpdate) (*entities.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := CheckPassword(currentPassword, user.Password); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	upd.Username = strings.TrimSpace(upd.Username)
	upd.Email = strings.TrimSpace(upd.Email)
	if err := validateIdentity(upd.Username, upd.Email); err != nil {
		return nil, err
	}

	user.Username = upd.Username
	user.Email = upd.Email
	user.ImageURL = avatarOrDefault(upd.ImageURL)

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %w", ErrUserExists, err)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes the account and its ledger entries.
func (s *Service) DeleteUser(ctx context.Context, userID uint) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if database.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// TrackedBookCount returns the number of books the user tracks.
func (s *Service) TrackedBookCount(ctx context.Context, userID uint) (int64, error) {
	return s.users.CountTrackedBooks(ctx, userID)
}

func validateIdentity(username, email string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if email == "" {
		return ErrEmailRequired
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	// RFC 5321 caps addresses at 254 characters
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

func avatarOrDefault(imageURL string) string {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return entities.DefaultImageURL
	}
	return imageURL
}
