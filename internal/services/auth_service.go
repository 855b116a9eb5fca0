package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

var (
	ErrUsernameTaken        = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("incorrect username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles registration and credential checks.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher

	decoyOnce sync.Once
	decoyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
	FullName *string
}

// Register creates a new user. Usernames are compared case-sensitively.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}

	user := &models.User{
		ID:           models.NewID(),
		Username:     input.Username,
		FullName:     input.FullName,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(user); err != nil {
		// Lost a race against a concurrent registration.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Authenticate verifies credentials and returns the user. Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Spend the same hashing work as a real comparison.
			s.hasher.Verify(s.decoy(), input.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = s.hasher.Hash("decoy-password")
	})
	return s.decoyHash
}
