package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 32
	minPasswordLength = 6
)

// TokenIssuer issues bearer tokens for authenticated users.
// Satisfied by auth.TokenManager.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// UserService handles registration and login.
type UserService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	logger     zerolog.Logger
}

// NewUserService creates a new user service. A bcryptCost of 0 selects
// the bcrypt default.
func NewUserService(users repository.UserRepository, tokens TokenIssuer, bcryptCost int, logger zerolog.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "user_service").Logger(),
	}
}

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Avatar   string
}

// Register creates a new account and returns it with a signed token.
// The password is stored only as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if err := validateRegistration(input); err != nil {
		return nil, "", err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing users: %w", err)
	}
	if exists {
		return nil, "", domain.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(input.Username, input.Email, string(hash), input.Avatar)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user registered")

	return user, token, nil
}

// Login verifies email/password credentials and returns the user with a
// signed token. Unknown email and wrong password both yield
// domain.ErrInvalidCredentials so callers cannot probe for accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Debug().Int64("user_id", user.ID).Msg("user logged in")

	return user, token, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func validateRegistration(input RegisterInput) error {
	var errs ValidationErrors

	switch {
	case input.Username == "":
		errs = append(errs, ValidationError{Field: "username", Message: "username is required"})
	case len(input.Username) < minUsernameLength:
		errs = append(errs, ValidationError{Field: "username", Message: fmt.Sprintf("username must be at least %d characters", minUsernameLength)})
	case len(input.Username) > maxUsernameLength:
		errs = append(errs, ValidationError{Field: "username", Message: fmt.Sprintf("username must be at most %d characters", maxUsernameLength)})
	}

	if input.Email == "" {
		errs = append(errs, ValidationError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errs = append(errs, ValidationError{Field: "email", Message: "email is not a valid address"})
	}

	if len(input.Password) < minPasswordLength {
		errs = append(errs, ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)})
	}

	return errs.ErrOrNil()
}
